package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"storeforge/api/dto"
	"storeforge/api/middleware"
	"storeforge/api/models"
	"storeforge/api/web"
)

// GenerateFlowService is the slice of the generation service the handler
// needs.
type GenerateFlowService interface {
	GenerateProduct(ctx context.Context, req *dto.GenerateProductRequest) (*dto.ProductDraft, error)
	PushProduct(ctx context.Context, draft *dto.ProductDraft) (int64, error)
	ExportProducts(w io.Writer, drafts []*dto.ProductDraft) error
	GenerateBlogPost(ctx context.Context, req *dto.GenerateBlogRequest) (*models.BlogPost, error)
	BlogPostByID(ctx context.Context, id int64) (*models.BlogPost, error)
	PublishBlogPost(ctx context.Context, postID int64) (*models.BlogPost, error)
	GeneratePage(ctx context.Context, req *dto.GeneratePageRequest) (*models.PageContent, error)
	PageByID(ctx context.Context, id int64) (*models.PageContent, error)
	PublishPage(ctx context.Context, pageID int64) (*models.PageContent, error)
	CaptionBatch(ctx context.Context, req *dto.CaptionRequest, files []*multipart.FileHeader) (*models.ImageBatch, []*models.ImageItem, error)
	BatchByID(ctx context.Context, id int64) (*models.ImageBatch, []*models.ImageItem, error)
	ExportBatch(ctx context.Context, id int64, format string, w io.Writer) error
}

type GenerateHandler struct {
	service       GenerateFlowService
	renderer      *web.Renderer
	logger        *zap.Logger
	maxUploadSize int64
}

func NewGenerateHandler(service GenerateFlowService, renderer *web.Renderer, logger *zap.Logger, maxUploadSize int64) *GenerateHandler {
	return &GenerateHandler{
		service:       service,
		renderer:      renderer,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// GenerateProduct handles POST /products/generate and renders the draft
// preview.
func (h *GenerateHandler) GenerateProduct(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	req := &dto.GenerateProductRequest{
		InputType:        r.FormValue("input_type"),
		URL:              strings.TrimSpace(r.FormValue("url")),
		Text:             r.FormValue("text"),
		Partial:          partialFields(r),
		GenerateVariants: r.FormValue("generate_variants") != "",
		VariantCount:     formInt(r, "variant_count"),
		OptimizeSEO:      r.FormValue("optimize_seo") != "",
	}

	draft, err := h.service.GenerateProduct(r.Context(), req)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Product generation failed: "+err.Error(), err, traceID, errorStatus(err))
		return
	}

	h.logger.Info("Product draft generated",
		zap.String("trace_id", traceID),
		zap.String("input_type", req.InputType),
		zap.String("title", draft.Title),
	)

	h.renderDraft(w, traceID, draft, nil)
}

// partialFields collects the partial_* form inputs that were filled in.
func partialFields(r *http.Request) map[string]string {
	fields := make(map[string]string)
	for _, key := range []string{"title", "description", "vendor", "price"} {
		if v := strings.TrimSpace(r.FormValue("partial_" + key)); v != "" {
			fields[key] = v
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// PushProduct handles POST /products/push: the preview form carries the
// draft as JSON.
func (h *GenerateHandler) PushProduct(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	draft, err := draftFromForm(r)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Malformed draft payload", err, traceID, http.StatusBadRequest)
		return
	}

	productID, err := h.service.PushProduct(r.Context(), draft)
	if err != nil {
		h.logger.Error("Shopify push failed", zap.String("trace_id", traceID), zap.Error(err))
		h.renderDraft(w, traceID, draft, &web.Flash{Kind: "danger", Message: "Shopify push failed: " + err.Error()})
		return
	}

	h.logger.Info("Product pushed to Shopify",
		zap.String("trace_id", traceID),
		zap.Int64("shopify_product_id", productID),
	)

	h.renderDraft(w, traceID, draft, &web.Flash{
		Kind:    "success",
		Message: fmt.Sprintf("Created on Shopify with product id %d", productID),
	})
}

// ExportProduct handles POST /products/export: the draft comes back as a
// Shopify import CSV download.
func (h *GenerateHandler) ExportProduct(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	draft, err := draftFromForm(r)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Malformed draft payload", err, traceID, http.StatusBadRequest)
		return
	}

	name := draft.URLHandle
	if name == "" {
		name = "product"
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	if err := h.service.ExportProducts(w, []*dto.ProductDraft{draft}); err != nil {
		h.logger.Error("CSV export failed", zap.String("trace_id", traceID), zap.Error(err))
	}
}

func draftFromForm(r *http.Request) (*dto.ProductDraft, error) {
	var draft dto.ProductDraft
	if err := json.Unmarshal([]byte(r.FormValue("draft")), &draft); err != nil {
		return nil, err
	}
	if draft.Title == "" {
		return nil, fmt.Errorf("%w: draft title", dto.ErrMissingParameter)
	}
	return &draft, nil
}

func (h *GenerateHandler) renderDraft(w http.ResponseWriter, traceID string, draft *dto.ProductDraft, flash *web.Flash) {
	encoded, err := json.Marshal(draft)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Failed to encode draft", err, traceID, http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"Title":     "Product Preview",
		"Draft":     draft,
		"BodyHTML":  template.HTML(draft.BodyHTML),
		"DraftJSON": string(encoded),
	}
	if flash != nil {
		data["Flash"] = flash
	}
	h.render(w, traceID, "product_preview.html", data)
}

// GenerateBlog handles POST /blog/generate.
func (h *GenerateHandler) GenerateBlog(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	req := &dto.GenerateBlogRequest{
		Topic:          strings.TrimSpace(r.FormValue("topic")),
		Keywords:       r.FormValue("keywords"),
		ContentType:    r.FormValue("content_type"),
		Tone:           r.FormValue("tone"),
		WordCount:      formInt(r, "word_count"),
		TargetAudience: r.FormValue("target_audience"),
		Category:       r.FormValue("category"),
	}

	post, err := h.service.GenerateBlogPost(r.Context(), req)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Blog generation failed: "+err.Error(), err, traceID, errorStatus(err))
		return
	}

	h.logger.Info("Blog post generated",
		zap.String("trace_id", traceID),
		zap.Int64("post_id", post.ID),
		zap.String("topic", req.Topic),
	)

	h.renderBlog(w, traceID, post, nil)
}

// BlogPreview handles GET /blog/{id}.
func (h *GenerateHandler) BlogPreview(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	id, err := pathID(r.URL.Path, "/blog/")
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Malformed post link", err, traceID, http.StatusBadRequest)
		return
	}

	post, err := h.service.BlogPostByID(r.Context(), id)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Blog post not found", err, traceID, errorStatus(err))
		return
	}

	h.renderBlog(w, traceID, post, nil)
}

// PublishBlog handles POST /blog/publish.
func (h *GenerateHandler) PublishBlog(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	postID := formInt64(r, "post_id")
	if postID == 0 {
		renderErrorPage(w, h.renderer, h.logger, "Missing post id", dto.ErrMissingParameter, traceID, http.StatusBadRequest)
		return
	}

	post, err := h.service.PublishBlogPost(r.Context(), postID)
	if err != nil {
		h.logger.Error("Blog publish failed", zap.String("trace_id", traceID), zap.Error(err))
		if post, lookupErr := h.service.BlogPostByID(r.Context(), postID); lookupErr == nil {
			h.renderBlog(w, traceID, post, &web.Flash{Kind: "danger", Message: "Publish failed: " + err.Error()})
			return
		}
		renderErrorPage(w, h.renderer, h.logger, "Publish failed", err, traceID, errorStatus(err))
		return
	}

	h.logger.Info("Blog post published",
		zap.String("trace_id", traceID),
		zap.Int64("post_id", post.ID),
		zap.Int64("shopify_article_id", post.ShopifyArticleID),
	)

	h.renderBlog(w, traceID, post, &web.Flash{Kind: "success", Message: "Published to the store blog"})
}

func (h *GenerateHandler) renderBlog(w http.ResponseWriter, traceID string, post *models.BlogPost, flash *web.Flash) {
	data := map[string]any{
		"Title":    "Blog Preview",
		"Post":     post,
		"BodyHTML": template.HTML(post.Content),
	}
	if flash != nil {
		data["Flash"] = flash
	}
	h.render(w, traceID, "blog_preview.html", data)
}

// GeneratePage handles POST /pages/generate.
func (h *GenerateHandler) GeneratePage(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	req := &dto.GeneratePageRequest{
		PageType:    r.FormValue("page_type"),
		Title:       strings.TrimSpace(r.FormValue("title")),
		CompanyName: strings.TrimSpace(r.FormValue("company_name")),
		Industry:    r.FormValue("industry"),
		Tone:        r.FormValue("tone"),
		Details:     r.FormValue("details"),
	}

	page, err := h.service.GeneratePage(r.Context(), req)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Page generation failed: "+err.Error(), err, traceID, errorStatus(err))
		return
	}

	h.logger.Info("Page generated",
		zap.String("trace_id", traceID),
		zap.Int64("page_id", page.ID),
		zap.String("page_type", req.PageType),
	)

	h.renderPage(w, traceID, page, nil)
}

// PagePreview handles GET /pages/{id}.
func (h *GenerateHandler) PagePreview(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	id, err := pathID(r.URL.Path, "/pages/")
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Malformed page link", err, traceID, http.StatusBadRequest)
		return
	}

	page, err := h.service.PageByID(r.Context(), id)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Page not found", err, traceID, errorStatus(err))
		return
	}

	h.renderPage(w, traceID, page, nil)
}

// PublishPage handles POST /pages/publish.
func (h *GenerateHandler) PublishPage(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	pageID := formInt64(r, "page_id")
	if pageID == 0 {
		renderErrorPage(w, h.renderer, h.logger, "Missing page id", dto.ErrMissingParameter, traceID, http.StatusBadRequest)
		return
	}

	page, err := h.service.PublishPage(r.Context(), pageID)
	if err != nil {
		h.logger.Error("Page publish failed", zap.String("trace_id", traceID), zap.Error(err))
		if page, lookupErr := h.service.PageByID(r.Context(), pageID); lookupErr == nil {
			h.renderPage(w, traceID, page, &web.Flash{Kind: "danger", Message: "Publish failed: " + err.Error()})
			return
		}
		renderErrorPage(w, h.renderer, h.logger, "Publish failed", err, traceID, errorStatus(err))
		return
	}

	h.logger.Info("Page published",
		zap.String("trace_id", traceID),
		zap.Int64("page_id", page.ID),
		zap.Int64("shopify_page_id", page.ShopifyPageID),
	)

	h.renderPage(w, traceID, page, &web.Flash{Kind: "success", Message: "Published to the store"})
}

func (h *GenerateHandler) renderPage(w http.ResponseWriter, traceID string, page *models.PageContent, flash *web.Flash) {
	data := map[string]any{
		"Title":    "Page Preview",
		"Page":     page,
		"BodyHTML": template.HTML(page.Content),
	}
	if flash != nil {
		data["Flash"] = flash
	}
	h.render(w, traceID, "page_preview.html", data)
}

// Captions handles POST /captions: runs the batch synchronously and renders
// the results.
func (h *GenerateHandler) Captions(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Upload too large or malformed", err, traceID, http.StatusBadRequest)
		return
	}

	req := &dto.CaptionRequest{
		BatchName:    strings.TrimSpace(r.FormValue("batch_name")),
		SourceType:   r.FormValue("source_type"),
		URLs:         splitLines(r.FormValue("urls")),
		ExportFormat: r.FormValue("export_format"),
	}

	var files []*multipart.FileHeader
	if r.MultipartForm != nil {
		files = r.MultipartForm.File["images"]
	}

	batch, items, err := h.service.CaptionBatch(r.Context(), req, files)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Caption batch failed: "+err.Error(), err, traceID, errorStatus(err))
		return
	}

	h.logger.Info("Caption batch finished",
		zap.String("trace_id", traceID),
		zap.Int64("batch_id", batch.ID),
		zap.Int("processed", batch.ProcessedCount),
		zap.Int("total", batch.TotalCount),
	)

	h.render(w, traceID, "captions_results.html", map[string]any{
		"Title": "Caption Results",
		"Batch": batch,
		"Items": items,
	})
}

func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// CaptionResults handles GET /captions/{id} and GET /captions/{id}/export.
func (h *GenerateHandler) CaptionResults(w http.ResponseWriter, r *http.Request) {
	traceID := middleware.GetTraceID(r.Context())

	id, err := pathID(r.URL.Path, "/captions/")
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Malformed batch link", err, traceID, http.StatusBadRequest)
		return
	}

	if strings.HasSuffix(r.URL.Path, "/export") {
		h.exportCaptions(w, r, traceID, id)
		return
	}

	batch, items, err := h.service.BatchByID(r.Context(), id)
	if err != nil {
		renderErrorPage(w, h.renderer, h.logger, "Batch not found", err, traceID, errorStatus(err))
		return
	}

	h.render(w, traceID, "captions_results.html", map[string]any{
		"Title": "Caption Results",
		"Batch": batch,
		"Items": items,
	})
}

func (h *GenerateHandler) exportCaptions(w http.ResponseWriter, r *http.Request, traceID string, id int64) {
	format := r.URL.Query().Get("format")

	contentType, ext := "text/csv", "csv"
	if format == "json" {
		contentType, ext = "application/json", "json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("captions-%d.%s", id, ext)))

	if err := h.service.ExportBatch(r.Context(), id, format, w); err != nil {
		h.logger.Error("Caption export failed",
			zap.String("trace_id", traceID),
			zap.Int64("batch_id", id),
			zap.Error(err),
		)
	}
}

func (h *GenerateHandler) render(w http.ResponseWriter, traceID, page string, data map[string]any) {
	if err := h.renderer.Render(w, page, data); err != nil {
		h.logger.Error("Failed to render page",
			zap.String("trace_id", traceID),
			zap.String("page", page),
			zap.Error(err),
		)
	}
}
