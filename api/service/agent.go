package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"storeforge/api/cache"
	"storeforge/api/dto"
	"storeforge/api/kafka"
	"storeforge/api/models"
	"storeforge/api/repository"
)

// AgentService owns the async workflow lifecycle on the api side: accept a
// submission, persist the task, warm the status cache, and hand the run to
// the worker over Kafka.
type AgentService struct {
	tasks    repository.TaskRepository
	results  repository.ResultRepository
	cache    *cache.StatusCache
	producer kafka.Producer
	topic    string
}

func NewAgentService(tasks repository.TaskRepository, results repository.ResultRepository, statusCache *cache.StatusCache, producer kafka.Producer, topic string) *AgentService {
	return &AgentService{
		tasks:    tasks,
		results:  results,
		cache:    statusCache,
		producer: producer,
		topic:    topic,
	}
}

func (s *AgentService) SubmitTask(ctx context.Context, traceID string, taskType models.TaskType, req *dto.SubmitTaskRequest) (*dto.SubmitTaskResponse, error) {
	if !taskType.Valid() {
		return nil, dto.ErrUnknownTaskType
	}
	if err := validateSubmission(taskType, req); err != nil {
		return nil, err
	}

	task := &models.AgentTask{
		ID:         uuid.New().String(),
		TraceID:    traceID,
		TaskType:   taskType,
		Status:     models.StatusPending,
		Parameters: taskParameters(req),
	}

	if err := s.tasks.CreateTask(ctx, task); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, task.ID, &cache.TaskSnapshot{
		TaskType:  string(task.TaskType),
		Status:    models.StatusPending,
		CreatedAt: task.CreatedAt,
	})

	msg := &kafka.TaskMessage{
		TaskID:   task.ID,
		TraceID:  traceID,
		TaskType: string(taskType),
	}
	if err := s.producer.SendTaskMessage(ctx, s.topic, msg); err != nil {
		return nil, err
	}

	return &dto.SubmitTaskResponse{TaskID: task.ID}, nil
}

// validateSubmission checks the parameters each workflow cannot run
// without.
func validateSubmission(taskType models.TaskType, req *dto.SubmitTaskRequest) error {
	switch taskType {
	case models.TaskTrendAnalysis:
		if req.NicheID == 0 && req.Keyword == "" {
			return fmt.Errorf("%w: niche_id or keyword", dto.ErrMissingParameter)
		}
	case models.TaskProductSourcing:
		if req.TrendID == 0 {
			return fmt.Errorf("%w: trend_id", dto.ErrMissingParameter)
		}
	case models.TaskStoreSetup:
		if req.StoreName == "" {
			return fmt.Errorf("%w: store_name", dto.ErrMissingParameter)
		}
	case models.TaskStoreFromNiche:
		if req.NicheID == 0 {
			return fmt.Errorf("%w: niche_id", dto.ErrMissingParameter)
		}
	}
	return nil
}

// taskParameters stores the submitted fields with the task so the worker
// reads them from the row, not the queue message.
func taskParameters(req *dto.SubmitTaskRequest) map[string]any {
	params := make(map[string]any)
	if req.StoreName != "" {
		params["store_name"] = req.StoreName
	}
	if req.Niche != "" {
		params["niche"] = req.Niche
	}
	if req.NicheID != 0 {
		params["niche_id"] = req.NicheID
	}
	if req.Currency != "" {
		params["currency"] = req.Currency
	}
	if req.Category != "" {
		params["category"] = req.Category
	}
	if req.Source != "" {
		params["source"] = req.Source
	}
	if req.Keyword != "" {
		params["keyword"] = req.Keyword
	}
	if req.TrendID != 0 {
		params["trend_id"] = req.TrendID
	}
	if req.Count != 0 {
		params["count"] = req.Count
	}
	return params
}

// GetTaskStatus serves the poll endpoint: cache first, repository on a
// miss, re-warming the cache with what it found.
func (s *AgentService) GetTaskStatus(ctx context.Context, taskID string) (*dto.TaskResponse, error) {
	snap, err := s.cache.Get(ctx, taskID)
	if err == nil {
		return snapshotResponse(taskID, snap), nil
	}

	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, task.ID, &cache.TaskSnapshot{
		TaskType:   string(task.TaskType),
		Status:     task.Status,
		Progress:   task.Progress,
		ResultType: task.ResultType,
		ResultID:   task.ResultID,
		Error:      task.ErrorMessage,
		CreatedAt:  task.CreatedAt,
	})

	return s.toResponse(task), nil
}

func (s *AgentService) ListRecentTasks(ctx context.Context, limit int) (*dto.TaskListResponse, error) {
	tasks, err := s.tasks.ListRecentTasks(ctx, limit)
	if err != nil {
		return nil, err
	}

	resp := &dto.TaskListResponse{Tasks: make([]*dto.TaskResponse, 0, len(tasks))}
	for _, task := range tasks {
		resp.Tasks = append(resp.Tasks, s.toResponse(task))
	}
	return resp, nil
}

func (s *AgentService) RecentTasks(ctx context.Context, limit int) ([]*models.AgentTask, error) {
	return s.tasks.ListRecentTasks(ctx, limit)
}

func (s *AgentService) ListStores(ctx context.Context) ([]*dto.StoreResponse, error) {
	stores, err := s.results.ListStores(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.StoreResponse, 0, len(stores))
	for _, store := range stores {
		resp = append(resp, &dto.StoreResponse{
			ID:        store.ID,
			Name:      store.StoreName,
			Status:    string(store.Status),
			CreatedAt: store.CreatedAt.Format("2006-01-02T15:04:05Z"),
			StoreURL:  store.StoreURL,
		})
	}
	return resp, nil
}

func (s *AgentService) Stores(ctx context.Context) ([]*models.StoreSetup, error) {
	return s.results.ListStores(ctx)
}

func (s *AgentService) NicheByID(ctx context.Context, id int64) (*models.NicheAnalysis, error) {
	return s.results.GetNiche(ctx, id)
}

func (s *AgentService) RecentNiches(ctx context.Context, limit int) ([]*models.NicheAnalysis, error) {
	return s.results.ListRecentNiches(ctx, limit)
}

func (s *AgentService) TrendByID(ctx context.Context, id int64) (*models.TrendAnalysis, error) {
	return s.results.GetTrend(ctx, id)
}

func (s *AgentService) RecentTrends(ctx context.Context, limit int) ([]*models.TrendAnalysis, error) {
	return s.results.ListRecentTrends(ctx, limit)
}

// SourcedProduct pairs a supplier listing with its evaluation, when one
// exists.
type SourcedProduct struct {
	Product    *models.ProductSource
	Evaluation *models.ProductEvaluation
}

func (s *AgentService) ProductsByTrend(ctx context.Context, trendID int64) ([]*SourcedProduct, error) {
	products, err := s.results.ListProductsByTrend(ctx, trendID)
	if err != nil {
		return nil, err
	}

	out := make([]*SourcedProduct, 0, len(products))
	for _, product := range products {
		entry := &SourcedProduct{Product: product}
		eval, err := s.results.GetEvaluationByProduct(ctx, product.ID)
		switch {
		case err == nil:
			entry.Evaluation = eval
		case !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// StoreDetail is everything the store page shows.
type StoreDetail struct {
	Store    *models.StoreSetup
	Theme    *models.ThemeCustomization
	Pages    []*models.StorePage
	Products []*models.StoreProduct
}

func (s *AgentService) StoreByID(ctx context.Context, id int64) (*StoreDetail, error) {
	store, err := s.results.GetStore(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &StoreDetail{Store: store}

	theme, err := s.results.GetThemeByStore(ctx, id)
	switch {
	case err == nil:
		detail.Theme = theme
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	if detail.Pages, err = s.results.ListStorePages(ctx, id); err != nil {
		return nil, err
	}
	if detail.Products, err = s.results.ListStoreProducts(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

func resultRef(resultType string, resultID int64) *dto.TaskResultRef {
	if resultType == "" || resultID == 0 {
		return nil
	}
	return &dto.TaskResultRef{Type: resultType, ID: resultID}
}

const taskTimeLayout = "2006-01-02T15:04:05Z"

// snapshotResponse converts a cached snapshot into the poll response. The
// snapshot carries the full Task shape, so a cache hit never serves a
// thinner answer than a repository read.
func snapshotResponse(taskID string, snap *cache.TaskSnapshot) *dto.TaskResponse {
	var createdAt string
	if !snap.CreatedAt.IsZero() {
		createdAt = snap.CreatedAt.Format(taskTimeLayout)
	}

	return &dto.TaskResponse{
		ID:           taskID,
		TaskType:     snap.TaskType,
		Status:       string(snap.Status),
		Progress:     snap.Progress,
		ErrorMessage: snap.Error,
		CreatedAt:    createdAt,
		Result:       resultRef(snap.ResultType, snap.ResultID),
	}
}

func (s *AgentService) toResponse(task *models.AgentTask) *dto.TaskResponse {
	var completedAt *string
	if task.CompletedAt != nil {
		formatted := task.CompletedAt.Format(taskTimeLayout)
		completedAt = &formatted
	}

	return &dto.TaskResponse{
		ID:           task.ID,
		TaskType:     string(task.TaskType),
		Status:       string(task.Status),
		Progress:     task.Progress,
		ErrorMessage: task.ErrorMessage,
		CreatedAt:    task.CreatedAt.Format(taskTimeLayout),
		CompletedAt:  completedAt,
		Result:       resultRef(task.ResultType, task.ResultID),
	}
}
