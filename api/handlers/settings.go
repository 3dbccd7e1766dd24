package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storeforge/api/middleware"
	"storeforge/api/models"
	"storeforge/api/web"
)

type SettingsFlowService interface {
	ActiveShopify(ctx context.Context) (*models.ShopifySettings, error)
	SaveShopify(ctx context.Context, settings *models.ShopifySettings) (string, error)
	ActiveAI(ctx context.Context) (*models.AISettings, error)
	SaveAI(ctx context.Context, provider models.AIProvider, apiKey string) error
}

type SettingsHandler struct {
	service  SettingsFlowService
	renderer *web.Renderer
	logger   *zap.Logger
}

func NewSettingsHandler(service SettingsFlowService, renderer *web.Renderer, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
	}
}

func (h *SettingsHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.renderSettings(w, r, nil)
}

// SaveShopify handles POST /settings/shopify. The save only lands after the
// credentials pass a live connection check.
func (h *SettingsHandler) SaveShopify(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	settings := &models.ShopifySettings{
		APIKey:     strings.TrimSpace(r.FormValue("api_key")),
		Password:   strings.TrimSpace(r.FormValue("password")),
		StoreURL:   strings.TrimSpace(r.FormValue("store_url")),
		APIVersion: strings.TrimSpace(r.FormValue("api_version")),
	}

	shopName, err := h.service.SaveShopify(r.Context(), settings)
	if err != nil {
		h.logger.Error("Shopify settings rejected", zap.String("trace_id", traceID), zap.Error(err))
		h.renderSettings(w, r, &web.Flash{Kind: "danger", Message: "Could not save: " + err.Error()})
		return
	}

	h.logger.Info("Shopify settings saved",
		zap.String("trace_id", traceID),
		zap.String("store_url", settings.StoreURL),
	)

	h.renderSettings(w, r, &web.Flash{Kind: "success", Message: "Connected to " + shopName})
}

// SaveAI handles POST /settings/ai.
func (h *SettingsHandler) SaveAI(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	provider := models.AIProvider(r.FormValue("provider"))
	apiKey := strings.TrimSpace(r.FormValue("api_key"))

	if err := h.service.SaveAI(r.Context(), provider, apiKey); err != nil {
		h.logger.Error("AI settings rejected", zap.String("trace_id", traceID), zap.Error(err))
		h.renderSettings(w, r, &web.Flash{Kind: "danger", Message: "Could not save: " + err.Error()})
		return
	}

	h.logger.Info("AI settings saved",
		zap.String("trace_id", traceID),
		zap.String("provider", string(provider)),
	)

	h.renderSettings(w, r, &web.Flash{Kind: "success", Message: "AI provider updated"})
}

// renderSettings loads both active rows fresh so the page always shows what
// is actually saved.
func (h *SettingsHandler) renderSettings(w http.ResponseWriter, r *http.Request, flash *web.Flash) {
	traceID := middleware.GetTraceID(r.Context())

	data := map[string]any{"Title": "Settings"}
	if shopify, err := h.service.ActiveShopify(r.Context()); err == nil {
		data["Shopify"] = shopify
	}
	if ai, err := h.service.ActiveAI(r.Context()); err == nil {
		data["AI"] = ai
	}
	if flash != nil {
		data["Flash"] = flash
	}

	if err := h.renderer.Render(w, "settings.html", data); err != nil {
		h.logger.Error("Failed to render page",
			zap.String("trace_id", traceID),
			zap.String("page", "settings.html"),
			zap.Error(err),
		)
	}
}
