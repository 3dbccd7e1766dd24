package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"storeforge/api/middleware"
	"storeforge/api/web"
)

// PageHandler serves the static form pages and the dashboard.
type PageHandler struct {
	agents   AgentTaskService
	settings SettingsFlowService
	renderer *web.Renderer
	logger   *zap.Logger
}

func NewPageHandler(agents AgentTaskService, settings SettingsFlowService, renderer *web.Renderer, logger *zap.Logger) *PageHandler {
	return &PageHandler{
		agents:   agents,
		settings: settings,
		renderer: renderer,
		logger:   logger,
	}
}

// Dashboard renders the landing page. Unknown paths fall through here from
// the mux root pattern, so anything but "/" is a 404.
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	if r.URL.Path != "/" {
		renderErrorPage(w, h.renderer, h.logger, "Page not found", nil, traceID, http.StatusNotFound)
		return
	}

	tasks, err := h.agents.RecentTasks(r.Context(), recentTaskLimit)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Failed to load tasks", err, traceID, errorStatus(err))
		return
	}

	configured := true
	if _, err := h.settings.ActiveShopify(r.Context()); err != nil {
		configured = false
	}

	h.render(w, traceID, "index.html", map[string]any{
		"Title":             "Dashboard",
		"Tasks":             tasks,
		"ShopifyConfigured": configured,
	})
}

func (h *PageHandler) ProductGeneratorPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, middleware.GetTraceID(r.Context()), "product_generate.html", map[string]any{
		"Title": "Product Generator",
	})
}

func (h *PageHandler) BlogGeneratorPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, middleware.GetTraceID(r.Context()), "blog_generate.html", map[string]any{
		"Title": "Blog Generator",
	})
}

func (h *PageHandler) PageGeneratorPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, middleware.GetTraceID(r.Context()), "page_generate.html", map[string]any{
		"Title": "Page Generator",
	})
}

func (h *PageHandler) CaptionsPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, middleware.GetTraceID(r.Context()), "captions.html", map[string]any{
		"Title": "Image Captions",
	})
}

func (h *PageHandler) render(w http.ResponseWriter, traceID, page string, data map[string]any) {
	if err := h.renderer.Render(w, page, data); err != nil {
		h.logger.Error("Failed to render page",
			zap.String("trace_id", traceID),
			zap.String("page", page),
			zap.Error(err),
		)
	}
}
