package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/disintegration/imaging"

	"storeforge/api/ai"
	"storeforge/api/csvexport"
	"storeforge/api/dto"
	"storeforge/api/models"
	"storeforge/api/repository"
	"storeforge/api/scrape"
	"storeforge/api/shopify"
	"storeforge/api/validation"
)

// Vision models read downscaled images just as well; cap the longer edge
// before shipping bytes to the API.
const maxCaptionEdge = 768

// GenerateService runs the synchronous AI flows: product drafts, blog
// posts, static pages, and image caption batches.
type GenerateService struct {
	content  repository.ContentRepository
	images   repository.ImageRepository
	settings *SettingsService
	scraper  *scrape.Scraper
}

func NewGenerateService(content repository.ContentRepository, images repository.ImageRepository, settings *SettingsService, scraper *scrape.Scraper) *GenerateService {
	return &GenerateService{
		content:  content,
		images:   images,
		settings: settings,
		scraper:  scraper,
	}
}

// GenerateProduct builds a draft from a URL, raw text, or partial fields,
// then applies the requested variant and SEO passes.
func (s *GenerateService) GenerateProduct(ctx context.Context, req *dto.GenerateProductRequest) (*dto.ProductDraft, error) {
	client, err := s.settings.AIClient(ctx)
	if err != nil {
		return nil, err
	}

	var draft *dto.ProductDraft
	switch req.InputType {
	case "url":
		if req.URL == "" {
			return nil, fmt.Errorf("%w: url", dto.ErrMissingParameter)
		}
		markup, err := s.scraper.FetchPage(ctx, req.URL)
		if err != nil {
			return nil, fmt.Errorf("fetch product page: %w", err)
		}
		text := scrape.ExtractText(markup)
		if structured, ok := scrape.ExtractProductJSONLD(markup); ok {
			if encoded, err := json.Marshal(structured); err == nil {
				text = text + "\n\nStructured product data: " + string(encoded)
			}
		}
		draft, err = client.GenerateProductFromText(ctx, text, scrape.ExtractImages(markup, req.URL))
		if err != nil {
			return nil, err
		}
	case "text":
		if req.Text == "" {
			return nil, fmt.Errorf("%w: text", dto.ErrMissingParameter)
		}
		if draft, err = client.GenerateProductFromText(ctx, req.Text, nil); err != nil {
			return nil, err
		}
	case "partial":
		if len(req.Partial) == 0 {
			return nil, fmt.Errorf("%w: partial fields", dto.ErrMissingParameter)
		}
		if draft, err = client.CompleteProductData(ctx, req.Partial); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: input_type", dto.ErrMissingParameter)
	}

	if req.GenerateVariants && req.VariantCount > 0 {
		if err := client.GenerateVariants(ctx, draft, req.VariantCount); err != nil {
			return nil, err
		}
	}
	if req.OptimizeSEO {
		if err := client.OptimizeSEO(ctx, draft); err != nil {
			return nil, err
		}
	}
	if draft.URLHandle == "" {
		draft.URLHandle = csvexport.Slugify(draft.Title)
	}
	return draft, nil
}

// ExportProducts writes drafts as a Shopify import CSV.
func (s *GenerateService) ExportProducts(w io.Writer, drafts []*dto.ProductDraft) error {
	return csvexport.WriteProducts(w, drafts)
}

// PushProduct creates the draft on the connected store and returns the
// Shopify product id.
func (s *GenerateService) PushProduct(ctx context.Context, draft *dto.ProductDraft) (int64, error) {
	client, err := s.settings.ShopifyClient(ctx)
	if err != nil {
		return 0, err
	}
	return client.CreateProduct(ctx, shopify.BuildProductFromDraft(draft))
}

// GenerateBlogPost writes and stores a draft article.
func (s *GenerateService) GenerateBlogPost(ctx context.Context, req *dto.GenerateBlogRequest) (*models.BlogPost, error) {
	if req.Topic == "" {
		return nil, fmt.Errorf("%w: topic", dto.ErrMissingParameter)
	}

	client, err := s.settings.AIClient(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := client.GenerateBlogPost(ctx, req)
	if err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Title:           draft.Title,
		Content:         draft.Content,
		Summary:         draft.Summary,
		Status:          models.ContentDraft,
		MetaTitle:       draft.MetaTitle,
		MetaDescription: draft.MetaDescription,
		URLHandle:       draft.URLHandle,
		Tags:            draft.Tags,
		Category:        req.Category,
		Topic:           req.Topic,
		Keywords:        req.Keywords,
		ContentType:     req.ContentType,
		Tone:            req.Tone,
		TargetAudience:  req.TargetAudience,
		WordCount:       req.WordCount,
	}
	if post.URLHandle == "" {
		post.URLHandle = csvexport.Slugify(post.Title)
	}

	if err := s.content.CreateBlogPost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *GenerateService) BlogPostByID(ctx context.Context, id int64) (*models.BlogPost, error) {
	return s.content.GetBlogPost(ctx, id)
}

// PublishBlogPost pushes a stored draft to the store blog. Publishing an
// already published post is a no-op.
func (s *GenerateService) PublishBlogPost(ctx context.Context, postID int64) (*models.BlogPost, error) {
	post, err := s.content.GetBlogPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.ShopifyArticleID != 0 {
		return post, nil
	}

	client, err := s.settings.ShopifyClient(ctx)
	if err != nil {
		return nil, err
	}

	articleID, err := client.CreateArticle(ctx, &shopify.Article{
		Title:    post.Title,
		BodyHTML: post.Content,
		Summary:  post.Summary,
		Tags:     post.Tags,
	})
	if err != nil {
		return nil, err
	}

	if err := s.content.MarkBlogPublished(ctx, post.ID, articleID); err != nil {
		return nil, err
	}
	post.ShopifyArticleID = articleID
	post.Status = models.ContentPublished
	return post, nil
}

// GeneratePage writes and stores a static page draft.
func (s *GenerateService) GeneratePage(ctx context.Context, req *dto.GeneratePageRequest) (*models.PageContent, error) {
	if req.CompanyName == "" {
		return nil, fmt.Errorf("%w: company_name", dto.ErrMissingParameter)
	}

	client, err := s.settings.AIClient(ctx)
	if err != nil {
		return nil, err
	}

	draft, err := client.GeneratePage(ctx, req)
	if err != nil {
		return nil, err
	}

	page := &models.PageContent{
		Title:           draft.Title,
		Content:         draft.Content,
		PageType:        req.PageType,
		Summary:         draft.Summary,
		MetaTitle:       draft.MetaTitle,
		MetaDescription: draft.MetaDescription,
		URLHandle:       draft.URLHandle,
		CompanyName:     req.CompanyName,
		Industry:        req.Industry,
		Tone:            req.Tone,
	}
	if page.URLHandle == "" {
		page.URLHandle = csvexport.Slugify(page.Title)
	}

	if err := s.content.CreatePage(ctx, page); err != nil {
		return nil, err
	}
	return page, nil
}

func (s *GenerateService) PageByID(ctx context.Context, id int64) (*models.PageContent, error) {
	return s.content.GetPage(ctx, id)
}

func (s *GenerateService) PublishPage(ctx context.Context, pageID int64) (*models.PageContent, error) {
	page, err := s.content.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}
	if page.ShopifyPageID != 0 {
		return page, nil
	}

	client, err := s.settings.ShopifyClient(ctx)
	if err != nil {
		return nil, err
	}

	shopifyID, err := client.CreatePage(ctx, &shopify.Page{Title: page.Title, BodyHTML: page.Content})
	if err != nil {
		return nil, err
	}

	if err := s.content.MarkPagePublished(ctx, page.ID, shopifyID); err != nil {
		return nil, err
	}
	page.ShopifyPageID = shopifyID
	page.Published = true
	return page, nil
}

// imageSource is one pending caption input, from either a file upload or a
// URL list.
type imageSource struct {
	filename string
	url      string
	open     func(ctx context.Context) ([]byte, string, error)
}

// CaptionBatch runs the vision model over every image and records one item
// per input. Per-image failures fail the item, not the batch.
func (s *GenerateService) CaptionBatch(ctx context.Context, req *dto.CaptionRequest, files []*multipart.FileHeader) (*models.ImageBatch, []*models.ImageItem, error) {
	client, err := s.settings.AIClient(ctx)
	if err != nil {
		return nil, nil, err
	}

	sources, err := s.collectSources(req, files)
	if err != nil {
		return nil, nil, err
	}
	if len(sources) == 0 {
		return nil, nil, fmt.Errorf("%w: images", dto.ErrMissingParameter)
	}

	batch := &models.ImageBatch{
		Name:         req.BatchName,
		SourceType:   models.BatchSource(req.SourceType),
		ExportFormat: req.ExportFormat,
		Status:       models.StatusProcessing,
		TotalCount:   len(sources),
	}
	if err := s.images.CreateBatch(ctx, batch); err != nil {
		return nil, nil, err
	}

	items := make([]*models.ImageItem, 0, len(sources))
	var processed int

	for _, src := range sources {
		item := &models.ImageItem{
			BatchID:  batch.ID,
			Filename: src.filename,
			URL:      src.url,
			Status:   models.StatusProcessing,
		}
		if err := s.images.AddItem(ctx, item); err != nil {
			return nil, nil, err
		}

		annotation, capErr := s.captionOne(ctx, client, src)
		if capErr != nil {
			item.Status = models.StatusFailed
			item.ErrorMessage = capErr.Error()
		} else {
			item.Status = models.StatusCompleted
			item.AltText = annotation.AltText
			item.Caption = annotation.Caption
			item.Tags = joinList(annotation.Tags)
			item.DetailedDescription = annotation.DetailedDescription
			item.SEOKeywords = joinList(annotation.SEOKeywords)
			processed++
			if err := s.images.BumpBatchProgress(ctx, batch.ID); err != nil {
				return nil, nil, err
			}
		}
		if err := s.images.UpdateItem(ctx, item); err != nil {
			return nil, nil, err
		}
		items = append(items, item)
	}

	status := models.StatusCompleted
	if processed == 0 {
		status = models.StatusFailed
	}
	if err := s.images.FinishBatch(ctx, batch.ID, status); err != nil {
		return nil, nil, err
	}
	batch.Status = status
	batch.ProcessedCount = processed

	return batch, items, nil
}

func (s *GenerateService) collectSources(req *dto.CaptionRequest, files []*multipart.FileHeader) ([]imageSource, error) {
	var sources []imageSource

	switch req.SourceType {
	case "upload":
		for _, header := range files {
			sources = append(sources, imageSource{
				filename: header.Filename,
				open: func(ctx context.Context) ([]byte, string, error) {
					file, err := header.Open()
					if err != nil {
						return nil, "", err
					}
					defer file.Close()

					fileType, err := validation.DetectFileType(file)
					if err != nil {
						return nil, "", err
					}
					if !validation.IsAllowedImageType(fileType) {
						return nil, "", fmt.Errorf("%w: %s", validation.ErrUnsupportedFormat, fileType)
					}

					data, err := io.ReadAll(file)
					if err != nil {
						return nil, "", err
					}
					return data, "image/" + string(fileType), nil
				},
			})
		}
	case "url":
		for _, raw := range req.URLs {
			sources = append(sources, imageSource{
				url: raw,
				open: func(ctx context.Context) ([]byte, string, error) {
					return s.scraper.FetchImage(ctx, raw)
				},
			})
		}
	default:
		return nil, fmt.Errorf("%w: source_type", dto.ErrMissingParameter)
	}

	return sources, nil
}

func (s *GenerateService) captionOne(ctx context.Context, client ai.Client, src imageSource) (*dto.ImageAnnotation, error) {
	data, mimeType, err := src.open(ctx)
	if err != nil {
		return nil, err
	}

	if prepared, err := downscale(data); err == nil {
		data, mimeType = prepared, "image/jpeg"
	}

	return client.CaptionImage(ctx, data, mimeType)
}

// downscale re-encodes the image as JPEG with the longer edge capped. On
// decode failure the caller keeps the original bytes.
func downscale(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxCaptionEdge || bounds.Dy() > maxCaptionEdge {
		img = imaging.Fit(img, maxCaptionEdge, maxCaptionEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func joinList(values []string) string {
	return strings.Join(values, ", ")
}

func (s *GenerateService) BatchByID(ctx context.Context, id int64) (*models.ImageBatch, []*models.ImageItem, error) {
	batch, err := s.images.GetBatch(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.images.ListItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return batch, items, nil
}

// ExportBatch writes the batch in the requested format: plain CSV, the
// Shopify alt-text update sheet, or raw JSON.
func (s *GenerateService) ExportBatch(ctx context.Context, id int64, format string, w io.Writer) error {
	_, items, err := s.BatchByID(ctx, id)
	if err != nil {
		return err
	}
	switch format {
	case "shopify":
		return csvexport.WriteCaptionsShopify(w, items)
	case "json":
		out := make([]captionExport, 0, len(items))
		for _, it := range items {
			out = append(out, captionExport{
				Filename:            it.Filename,
				URL:                 it.URL,
				AltText:             it.AltText,
				Caption:             it.Caption,
				Tags:                it.Tags,
				DetailedDescription: it.DetailedDescription,
				SEOKeywords:         it.SEOKeywords,
				Status:              string(it.Status),
			})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	default:
		return csvexport.WriteCaptions(w, items)
	}
}

type captionExport struct {
	Filename            string `json:"filename,omitempty"`
	URL                 string `json:"url,omitempty"`
	AltText             string `json:"alt_text"`
	Caption             string `json:"caption"`
	Tags                string `json:"tags"`
	DetailedDescription string `json:"detailed_description"`
	SEOKeywords         string `json:"seo_keywords"`
	Status              string `json:"status"`
}
