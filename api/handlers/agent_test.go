package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap/zaptest"

	"storeforge/api/dto"
	"storeforge/api/middleware"
	"storeforge/api/models"
	"storeforge/api/repository"
	"storeforge/api/service"
	"storeforge/api/web"
)

type mockAgentService struct {
	submitFunc     func(ctx context.Context, traceID string, taskType models.TaskType, req *dto.SubmitTaskRequest) (*dto.SubmitTaskResponse, error)
	getStatusFunc  func(ctx context.Context, taskID string) (*dto.TaskResponse, error)
	listTasksFunc  func(ctx context.Context, limit int) (*dto.TaskListResponse, error)
	listStoresFunc func(ctx context.Context) ([]*dto.StoreResponse, error)
	nicheFunc      func(ctx context.Context, id int64) (*models.NicheAnalysis, error)
}

func (m *mockAgentService) SubmitTask(ctx context.Context, traceID string, taskType models.TaskType, req *dto.SubmitTaskRequest) (*dto.SubmitTaskResponse, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, traceID, taskType, req)
	}
	return &dto.SubmitTaskResponse{TaskID: uuid.New().String()}, nil
}

func (m *mockAgentService) GetTaskStatus(ctx context.Context, taskID string) (*dto.TaskResponse, error) {
	if m.getStatusFunc != nil {
		return m.getStatusFunc(ctx, taskID)
	}
	return &dto.TaskResponse{
		ID:        taskID,
		TaskType:  string(models.TaskNicheDiscovery),
		Status:    string(models.StatusCompleted),
		Progress:  100,
		CreatedAt: time.Now().Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (m *mockAgentService) ListRecentTasks(ctx context.Context, limit int) (*dto.TaskListResponse, error) {
	if m.listTasksFunc != nil {
		return m.listTasksFunc(ctx, limit)
	}
	return &dto.TaskListResponse{Tasks: []*dto.TaskResponse{}}, nil
}

func (m *mockAgentService) ListStores(ctx context.Context) ([]*dto.StoreResponse, error) {
	if m.listStoresFunc != nil {
		return m.listStoresFunc(ctx)
	}
	return []*dto.StoreResponse{}, nil
}

func (m *mockAgentService) RecentTasks(ctx context.Context, limit int) ([]*models.AgentTask, error) {
	return []*models.AgentTask{}, nil
}

func (m *mockAgentService) RecentNiches(ctx context.Context, limit int) ([]*models.NicheAnalysis, error) {
	return []*models.NicheAnalysis{}, nil
}

func (m *mockAgentService) RecentTrends(ctx context.Context, limit int) ([]*models.TrendAnalysis, error) {
	return []*models.TrendAnalysis{}, nil
}

func (m *mockAgentService) NicheByID(ctx context.Context, id int64) (*models.NicheAnalysis, error) {
	if m.nicheFunc != nil {
		return m.nicheFunc(ctx, id)
	}
	return &models.NicheAnalysis{ID: id, Name: "Eco home goods", CreatedAt: time.Now()}, nil
}

func (m *mockAgentService) TrendByID(ctx context.Context, id int64) (*models.TrendAnalysis, error) {
	return &models.TrendAnalysis{ID: id, Keyword: "bamboo organizer", CreatedAt: time.Now()}, nil
}

func (m *mockAgentService) ProductsByTrend(ctx context.Context, trendID int64) ([]*service.SourcedProduct, error) {
	return []*service.SourcedProduct{}, nil
}

func (m *mockAgentService) StoreByID(ctx context.Context, id int64) (*service.StoreDetail, error) {
	return &service.StoreDetail{
		Store: &models.StoreSetup{ID: id, StoreName: "Test Store", Status: models.StoreCompleted, CreatedAt: time.Now()},
	}, nil
}

func (m *mockAgentService) Stores(ctx context.Context) ([]*models.StoreSetup, error) {
	return []*models.StoreSetup{}, nil
}

func newAgentHandler(t *testing.T, mock *mockAgentService) *AgentHandler {
	t.Helper()
	renderer, err := web.NewRenderer()
	if err != nil {
		t.Fatalf("Failed to build renderer: %v", err)
	}
	return NewAgentHandler(mock, renderer, zaptest.NewLogger(t))
}

func withTrace(req *http.Request) *http.Request {
	traceID := uuid.New().String()
	ctx := context.WithValue(req.Context(), middleware.TraceIDKey, traceID)
	return req.WithContext(ctx)
}

func TestAgentHandler_Submit_Success(t *testing.T) {
	var gotType models.TaskType
	mock := &mockAgentService{
		submitFunc: func(ctx context.Context, traceID string, taskType models.TaskType, req *dto.SubmitTaskRequest) (*dto.SubmitTaskResponse, error) {
			gotType = taskType
			return &dto.SubmitTaskResponse{TaskID: "task-1"}, nil
		},
	}
	handler := newAgentHandler(t, mock)

	body := strings.NewReader(`{"keyword":"standing desk","source":"google_trends"}`)
	req := withTrace(httptest.NewRequest("POST", "/api/agents/trend-analysis", body))
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotType != models.TaskTrendAnalysis {
		t.Errorf("Expected task type trend_analysis, got %s", gotType)
	}

	var resp dto.SubmitTaskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.TaskID != "task-1" {
		t.Errorf("Expected task id task-1, got %s", resp.TaskID)
	}
}

func TestAgentHandler_Submit_UnknownWorkflow(t *testing.T) {
	handler := newAgentHandler(t, &mockAgentService{})

	req := withTrace(httptest.NewRequest("POST", "/api/agents/time-travel", strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestAgentHandler_Submit_InvalidBody(t *testing.T) {
	handler := newAgentHandler(t, &mockAgentService{})

	req := withTrace(httptest.NewRequest("POST", "/api/agents/niche-discovery", strings.NewReader("{not json")))
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAgentHandler_Submit_MissingParameter(t *testing.T) {
	mock := &mockAgentService{
		submitFunc: func(ctx context.Context, traceID string, taskType models.TaskType, req *dto.SubmitTaskRequest) (*dto.SubmitTaskResponse, error) {
			return nil, dto.ErrMissingParameter
		},
	}
	handler := newAgentHandler(t, mock)

	req := withTrace(httptest.NewRequest("POST", "/api/agents/product-sourcing", strings.NewReader(`{}`)))
	rec := httptest.NewRecorder()

	handler.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Status != "error" {
		t.Errorf("Expected status field error, got %q", resp.Status)
	}
}

func TestAgentHandler_TaskStatus_Success(t *testing.T) {
	taskID := uuid.New().String()
	mock := &mockAgentService{
		getStatusFunc: func(ctx context.Context, id string) (*dto.TaskResponse, error) {
			return &dto.TaskResponse{
				ID:        id,
				TaskType:  string(models.TaskStoreSetup),
				Status:    string(models.StatusCompleted),
				Progress:  100,
				CreatedAt: time.Now().Format("2006-01-02T15:04:05Z"),
				Result:    &dto.TaskResultRef{Type: "store_setup", ID: 3},
			}, nil
		},
	}
	handler := newAgentHandler(t, mock)

	req := withTrace(httptest.NewRequest("GET", "/api/agent-tasks/"+taskID, nil))
	rec := httptest.NewRecorder()

	handler.TaskStatus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var resp dto.TaskResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ID != taskID {
		t.Errorf("Expected id %s, got %s", taskID, resp.ID)
	}
	if resp.Result == nil || resp.Result.Type != "store_setup" || resp.Result.ID != 3 {
		t.Errorf("Expected result ref store_setup/3, got %+v", resp.Result)
	}
}

func TestAgentHandler_TaskStatus_NotFound(t *testing.T) {
	mock := &mockAgentService{
		getStatusFunc: func(ctx context.Context, id string) (*dto.TaskResponse, error) {
			return nil, repository.ErrTaskNotFound
		},
	}
	handler := newAgentHandler(t, mock)

	req := withTrace(httptest.NewRequest("GET", "/api/agent-tasks/"+uuid.New().String(), nil))
	rec := httptest.NewRecorder()

	handler.TaskStatus(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestAgentHandler_TaskStatus_EmptyID(t *testing.T) {
	handler := newAgentHandler(t, &mockAgentService{})

	req := withTrace(httptest.NewRequest("GET", "/api/agent-tasks/", nil))
	rec := httptest.NewRecorder()

	handler.TaskStatus(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAgentHandler_TaskList_Limit(t *testing.T) {
	var gotLimit int
	mock := &mockAgentService{
		listTasksFunc: func(ctx context.Context, limit int) (*dto.TaskListResponse, error) {
			gotLimit = limit
			return &dto.TaskListResponse{Tasks: []*dto.TaskResponse{}}, nil
		},
	}
	handler := newAgentHandler(t, mock)

	req := withTrace(httptest.NewRequest("GET", "/api/agent-tasks?limit=5", nil))
	rec := httptest.NewRecorder()

	handler.TaskList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if gotLimit != 5 {
		t.Errorf("Expected limit 5, got %d", gotLimit)
	}
}

func TestAgentHandler_TaskList_BadLimitFallsBack(t *testing.T) {
	var gotLimit int
	mock := &mockAgentService{
		listTasksFunc: func(ctx context.Context, limit int) (*dto.TaskListResponse, error) {
			gotLimit = limit
			return &dto.TaskListResponse{Tasks: []*dto.TaskResponse{}}, nil
		},
	}
	handler := newAgentHandler(t, mock)

	req := withTrace(httptest.NewRequest("GET", "/api/agent-tasks?limit=-3", nil))
	rec := httptest.NewRecorder()

	handler.TaskList(rec, req)

	if gotLimit != recentTaskLimit {
		t.Errorf("Expected default limit %d, got %d", recentTaskLimit, gotLimit)
	}
}

func TestAgentHandler_StoreList(t *testing.T) {
	mock := &mockAgentService{
		listStoresFunc: func(ctx context.Context) ([]*dto.StoreResponse, error) {
			return []*dto.StoreResponse{
				{ID: 1, Name: "Test Store", Status: "completed", StoreURL: "test-store.myshopify.com"},
			}, nil
		},
	}
	handler := newAgentHandler(t, mock)

	req := withTrace(httptest.NewRequest("GET", "/api/stores", nil))
	rec := httptest.NewRecorder()

	handler.StoreList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var stores []*dto.StoreResponse
	if err := json.NewDecoder(rec.Body).Decode(&stores); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(stores) != 1 || stores[0].Name != "Test Store" {
		t.Errorf("Unexpected store list: %+v", stores)
	}
}

func TestAgentHandler_Result_NichePage(t *testing.T) {
	handler := newAgentHandler(t, &mockAgentService{})

	req := withTrace(httptest.NewRequest("GET", "/agents/results/niche_discovery/7", nil))
	rec := httptest.NewRecorder()

	handler.Result(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Eco home goods") {
		t.Errorf("Expected niche name in page body")
	}
}

func TestAgentHandler_Result_NotFound(t *testing.T) {
	mock := &mockAgentService{
		nicheFunc: func(ctx context.Context, id int64) (*models.NicheAnalysis, error) {
			return nil, repository.ErrNotFound
		},
	}
	handler := newAgentHandler(t, mock)

	req := withTrace(httptest.NewRequest("GET", "/agents/results/niche/99", nil))
	rec := httptest.NewRecorder()

	handler.Result(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestAgentHandler_Result_UnknownType(t *testing.T) {
	handler := newAgentHandler(t, &mockAgentService{})

	req := withTrace(httptest.NewRequest("GET", "/agents/results/mystery/1", nil))
	rec := httptest.NewRecorder()

	handler.Result(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestAgentHandler_Result_MalformedID(t *testing.T) {
	handler := newAgentHandler(t, &mockAgentService{})

	req := withTrace(httptest.NewRequest("GET", "/agents/results/niche/abc", nil))
	rec := httptest.NewRecorder()

	handler.Result(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestAgentHandler_Result_ProductsPage(t *testing.T) {
	handler := newAgentHandler(t, &mockAgentService{})

	req := withTrace(httptest.NewRequest("GET", "/agents/results/product_sourcing/9", nil))
	rec := httptest.NewRecorder()

	handler.Result(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, "bamboo organizer") {
		t.Error("Expected trend keyword in page body")
	}
	if !strings.Contains(body, "/agents/results/trend/9") {
		t.Error("Expected back link to the trend page")
	}
}
