package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storeforge/api/dto"
	"storeforge/api/middleware"
	"storeforge/api/models"
	"storeforge/api/service"
	"storeforge/api/web"
)

const recentTaskLimit = 20

// AgentTaskService is the slice of the agent service the handler needs.
type AgentTaskService interface {
	SubmitTask(ctx context.Context, traceID string, taskType models.TaskType, req *dto.SubmitTaskRequest) (*dto.SubmitTaskResponse, error)
	GetTaskStatus(ctx context.Context, taskID string) (*dto.TaskResponse, error)
	ListRecentTasks(ctx context.Context, limit int) (*dto.TaskListResponse, error)
	ListStores(ctx context.Context) ([]*dto.StoreResponse, error)
	RecentTasks(ctx context.Context, limit int) ([]*models.AgentTask, error)
	RecentNiches(ctx context.Context, limit int) ([]*models.NicheAnalysis, error)
	RecentTrends(ctx context.Context, limit int) ([]*models.TrendAnalysis, error)
	NicheByID(ctx context.Context, id int64) (*models.NicheAnalysis, error)
	TrendByID(ctx context.Context, id int64) (*models.TrendAnalysis, error)
	ProductsByTrend(ctx context.Context, trendID int64) ([]*service.SourcedProduct, error)
	StoreByID(ctx context.Context, id int64) (*service.StoreDetail, error)
	Stores(ctx context.Context) ([]*models.StoreSetup, error)
}

type AgentHandler struct {
	service  AgentTaskService
	renderer *web.Renderer
	logger   *zap.Logger
}

func NewAgentHandler(service AgentTaskService, renderer *web.Renderer, logger *zap.Logger) *AgentHandler {
	return &AgentHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
	}
}

// submitPaths maps the submission endpoints onto workflow types.
var submitPaths = map[string]models.TaskType{
	"niche-discovery":  models.TaskNicheDiscovery,
	"trend-analysis":   models.TaskTrendAnalysis,
	"product-sourcing": models.TaskProductSourcing,
	"store-setup":      models.TaskStoreSetup,
	"store-from-niche": models.TaskStoreFromNiche,
}

// Submit handles POST /api/agents/{workflow}. The body is the workflow
// parameter JSON; the response is {task_id} or an error envelope.
func (h *AgentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	taskType, ok := submitPaths[strings.TrimPrefix(r.URL.Path, "/api/agents/")]
	if !ok {
		respondError(w, h.logger, "Unknown agent workflow", dto.ErrUnknownTaskType, traceID, http.StatusNotFound)
		return
	}

	var req dto.SubmitTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, "Invalid request body", err, traceID, http.StatusBadRequest)
		return
	}

	resp, err := h.service.SubmitTask(r.Context(), traceID, taskType, &req)
	if err != nil {
		respondError(w, h.logger, "Failed to submit task", err, traceID, errorStatus(err))
		return
	}

	h.logger.Info("Agent task submitted",
		zap.String("trace_id", traceID),
		zap.String("task_id", resp.TaskID),
		zap.String("task_type", string(taskType)),
	)

	respondJSON(w, http.StatusAccepted, resp)
}

// TaskStatus handles GET /api/agent-tasks/{id}.
func (h *AgentHandler) TaskStatus(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	taskID := strings.TrimPrefix(r.URL.Path, "/api/agent-tasks/")
	if taskID == "" {
		respondError(w, h.logger, "Task ID is required", nil, traceID, http.StatusBadRequest)
		return
	}

	resp, err := h.service.GetTaskStatus(r.Context(), taskID)
	if err != nil {
		respondError(w, h.logger, "Failed to get task status", err, traceID, errorStatus(err))
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// TaskList handles GET /api/agent-tasks.
func (h *AgentHandler) TaskList(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	limit := recentTaskLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := parsePositive(v); err == nil {
			limit = parsed
		}
	}

	resp, err := h.service.ListRecentTasks(r.Context(), limit)
	if err != nil {
		respondError(w, h.logger, "Failed to list tasks", err, traceID, errorStatus(err))
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// StoreList handles GET /api/stores.
func (h *AgentHandler) StoreList(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	stores, err := h.service.ListStores(r.Context())
	if err != nil {
		respondError(w, h.logger, "Failed to list stores", err, traceID, errorStatus(err))
		return
	}

	respondJSON(w, http.StatusOK, stores)
}

// DropshippingPage renders the niche/trend/sourcing workflow page.
func (h *AgentHandler) DropshippingPage(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())
	ctx := r.Context()

	tasks, err := h.service.RecentTasks(ctx, recentTaskLimit)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Failed to load tasks", err, traceID, errorStatus(err))
		return
	}
	niches, err := h.service.RecentNiches(ctx, recentTaskLimit)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Failed to load niches", err, traceID, errorStatus(err))
		return
	}
	trends, err := h.service.RecentTrends(ctx, recentTaskLimit)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Failed to load trends", err, traceID, errorStatus(err))
		return
	}

	h.render(w, traceID, "agent_dropshipping.html", map[string]any{
		"Title":  "Dropshipping Agent",
		"Tasks":  tasks,
		"Niches": niches,
		"Trends": trends,
	})
}

// StorePage renders the store builder workflow page.
func (h *AgentHandler) StorePage(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())
	ctx := r.Context()

	tasks, err := h.service.RecentTasks(ctx, recentTaskLimit)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Failed to load tasks", err, traceID, errorStatus(err))
		return
	}
	niches, err := h.service.RecentNiches(ctx, recentTaskLimit)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Failed to load niches", err, traceID, errorStatus(err))
		return
	}
	stores, err := h.service.Stores(ctx)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Failed to load stores", err, traceID, errorStatus(err))
		return
	}

	h.render(w, traceID, "agent_store.html", map[string]any{
		"Title":  "Store Builder",
		"Tasks":  tasks,
		"Niches": niches,
		"Stores": stores,
	})
}

// Result handles GET /agents/results/{type}/{id}, picking the renderer for
// the result type a completed task reported.
func (h *AgentHandler) Result(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	rest := strings.TrimPrefix(r.URL.Path, "/agents/results/")
	resultType, rawID, ok := strings.Cut(rest, "/")
	if !ok {
		renderErrorPage(w, h.renderer, h.logger, "Malformed result link", nil, traceID, http.StatusBadRequest)
		return
	}
	id, err := parseID(rawID)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Malformed result link", err, traceID, http.StatusBadRequest)
		return
	}

	switch resultType {
	case "niche_discovery", "niche":
		niche, err := h.service.NicheByID(r.Context(), id)
		if err != nil {
			renderErrorPage(w, h.renderer, h.logger, "Niche not found", err, traceID, errorStatus(err))
			return
		}
		h.render(w, traceID, "result_niche.html", map[string]any{
			"Title": "Niche Analysis",
			"Niche": niche,
		})
	case "trend_analysis", "trend":
		trend, err := h.service.TrendByID(r.Context(), id)
		if err != nil {
			renderErrorPage(w, h.renderer, h.logger, "Trend not found", err, traceID, errorStatus(err))
			return
		}
		h.render(w, traceID, "result_trend.html", map[string]any{
			"Title": "Trend Analysis",
			"Trend": trend,
		})
	case "product_sourcing", "products":
		trend, err := h.service.TrendByID(r.Context(), id)
		if err != nil {
			renderErrorPage(w, h.renderer, h.logger, "Trend not found", err, traceID, errorStatus(err))
			return
		}
		products, err := h.service.ProductsByTrend(r.Context(), id)
		if err != nil {
			renderErrorPage(w, h.renderer, h.logger, "Products not found", err, traceID, errorStatus(err))
			return
		}
		h.render(w, traceID, "result_products.html", map[string]any{
			"Title":    "Sourced Products",
			"Trend":    trend,
			"Products": products,
		})
	case "store_setup", "store_from_niche", "store":
		detail, err := h.service.StoreByID(r.Context(), id)
		if err != nil {
			renderErrorPage(w, h.renderer, h.logger, "Store not found", err, traceID, errorStatus(err))
			return
		}
		h.render(w, traceID, "result_store.html", map[string]any{
			"Title":    "Store Setup",
			"Store":    detail.Store,
			"Theme":    detail.Theme,
			"Pages":    detail.Pages,
			"Products": detail.Products,
		})
	default:
		renderErrorPage(w, h.renderer, h.logger, "Unknown result type", dto.ErrUnknownTaskType, traceID, http.StatusNotFound)
	}
}

func (h *AgentHandler) render(w http.ResponseWriter, traceID, page string, data map[string]any) {
	if err := h.renderer.Render(w, page, data); err != nil {
		h.logger.Error("Failed to render page",
			zap.String("trace_id", traceID),
			zap.String("page", page),
			zap.Error(err),
		)
	}
}
