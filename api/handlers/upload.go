package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"storeforge/api/dto"
	"storeforge/api/middleware"
	"storeforge/api/models"
	"storeforge/api/validation"
	"storeforge/api/web"
)

const recentUploadLimit = 50

type UploadFlowService interface {
	ProcessFile(ctx context.Context, file multipart.File, filename string, dryRun bool) (*models.UploadHistory, []*models.ProductUploadResult, error)
	UploadByID(ctx context.Context, id int64) (*models.UploadHistory, []*models.ProductUploadResult, error)
	RecentUploads(ctx context.Context, limit int) ([]*models.UploadHistory, error)
}

type UploadHandler struct {
	service       UploadFlowService
	renderer      *web.Renderer
	logger        *zap.Logger
	maxUploadSize int64
}

func NewUploadHandler(service UploadFlowService, renderer *web.Renderer, logger *zap.Logger, maxUploadSize int64) *UploadHandler {
	return &UploadHandler{
		service:       service,
		renderer:      renderer,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

func (h *UploadHandler) FormPage(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, nil)
}

// Process handles POST /upload: parse, validate, import, results page.
func (h *UploadHandler) Process(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.renderForm(w, r, &web.Flash{Kind: "danger", Message: "Upload too large or malformed"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.renderForm(w, r, &web.Flash{Kind: "danger", Message: "Choose a CSV or Excel file first"})
		return
	}
	defer file.Close()

	dryRun := r.FormValue("dry_run") != ""

	upload, results, err := h.service.ProcessFile(r.Context(), file, header.Filename, dryRun)
	if err != nil {
		h.logger.Error("Upload failed",
			zap.String("trace_id", traceID),
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		h.renderForm(w, r, &web.Flash{Kind: "danger", Message: uploadFailureMessage(err)})
		return
	}

	h.logger.Info("Upload processed",
		zap.String("trace_id", traceID),
		zap.String("filename", header.Filename),
		zap.Bool("dry_run", dryRun),
		zap.Int("rows", upload.RecordCount),
		zap.Int("errors", upload.ErrorCount),
	)

	h.render(w, traceID, "upload_results.html", map[string]any{
		"Title":   "Upload Results",
		"Upload":  upload,
		"Results": results,
		"DryRun":  dryRun,
	})
}

// uploadFailureMessage keeps raw service errors off the page for the cases
// a store operator can fix themselves.
func uploadFailureMessage(err error) string {
	switch {
	case errors.Is(err, validation.ErrInvalidFileType),
		errors.Is(err, validation.ErrUnsupportedFormat):
		return "Unsupported file type: upload a CSV or Excel sheet"
	case errors.Is(err, validation.ErrNoDataRows):
		return "The file has no data rows"
	case errors.Is(err, validation.ErrMissingColumns):
		return err.Error()
	case errors.Is(err, dto.ErrNoActiveSettings):
		return "Connect a Shopify store in Settings before importing"
	default:
		return "Upload failed: " + err.Error()
	}
}

// HistoryPage handles GET /uploads.
func (h *UploadHandler) HistoryPage(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	uploads, err := h.service.RecentUploads(r.Context(), recentUploadLimit)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Failed to load upload history", err, traceID, errorStatus(err))
		return
	}

	h.render(w, traceID, "upload_history.html", map[string]any{
		"Title":   "Upload History",
		"Uploads": uploads,
	})
}

// DetailPage handles GET /uploads/{id}.
func (h *UploadHandler) DetailPage(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	id, err := pathID(r.URL.Path, "/uploads/")
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Malformed upload link", err, traceID, http.StatusBadRequest)
		return
	}

	upload, results, err := h.service.UploadByID(r.Context(), id)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Upload not found", err, traceID, errorStatus(err))
		return
	}

	h.render(w, traceID, "upload_results.html", map[string]any{
		"Title":   "Upload Results",
		"Upload":  upload,
		"Results": results,
	})
}

func (h *UploadHandler) renderForm(w http.ResponseWriter, r *http.Request, flash *web.Flash) {
	data := map[string]any{"Title": "Product Upload"}
	if flash != nil {
		data["Flash"] = flash
	}
	h.render(w, middleware.GetTraceID(r.Context()), "upload.html", data)
}

func (h *UploadHandler) render(w http.ResponseWriter, traceID, page string, data map[string]any) {
	if err := h.renderer.Render(w, page, data); err != nil {
		h.logger.Error("Failed to render page",
			zap.String("trace_id", traceID),
			zap.String("page", page),
			zap.Error(err),
		)
	}
}
