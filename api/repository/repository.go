package repository

import (
	"context"
	"errors"

	"storeforge/api/models"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrNotFound         = errors.New("record not found")
	ErrSettingsNotFound = errors.New("no active settings")
)

type TaskRepository interface {
	CreateTask(ctx context.Context, task *models.AgentTask) error
	GetTask(ctx context.Context, id string) (*models.AgentTask, error)
	ListRecentTasks(ctx context.Context, limit int) ([]*models.AgentTask, error)
}

type SettingsRepository interface {
	ActiveShopifySettings(ctx context.Context) (*models.ShopifySettings, error)
	SaveShopifySettings(ctx context.Context, s *models.ShopifySettings) error
	TouchShopifySettings(ctx context.Context, id int64) error
	ActiveAISettings(ctx context.Context) (*models.AISettings, error)
	SaveAISettings(ctx context.Context, s *models.AISettings) error
}

type UploadRepository interface {
	CreateUpload(ctx context.Context, u *models.UploadHistory) error
	AddUploadResult(ctx context.Context, r *models.ProductUploadResult) error
	FinishUpload(ctx context.Context, id int64, successCount, errorCount int) error
	GetUpload(ctx context.Context, id int64) (*models.UploadHistory, error)
	ListUploads(ctx context.Context, limit int) ([]*models.UploadHistory, error)
	ListUploadResults(ctx context.Context, uploadID int64) ([]*models.ProductUploadResult, error)
}

type ContentRepository interface {
	CreateBlogPost(ctx context.Context, p *models.BlogPost) error
	GetBlogPost(ctx context.Context, id int64) (*models.BlogPost, error)
	MarkBlogPublished(ctx context.Context, id, articleID int64) error
	CreatePage(ctx context.Context, p *models.PageContent) error
	GetPage(ctx context.Context, id int64) (*models.PageContent, error)
	MarkPagePublished(ctx context.Context, id, pageID int64) error
}

type ImageRepository interface {
	CreateBatch(ctx context.Context, b *models.ImageBatch) error
	AddItem(ctx context.Context, it *models.ImageItem) error
	UpdateItem(ctx context.Context, it *models.ImageItem) error
	BumpBatchProgress(ctx context.Context, batchID int64) error
	FinishBatch(ctx context.Context, batchID int64, status models.TaskStatus) error
	GetBatch(ctx context.Context, id int64) (*models.ImageBatch, error)
	ListItems(ctx context.Context, batchID int64) ([]*models.ImageItem, error)
}

// ResultRepository is the read side for agent result pages and the stores
// listing.
type ResultRepository interface {
	GetNiche(ctx context.Context, id int64) (*models.NicheAnalysis, error)
	ListRecentNiches(ctx context.Context, limit int) ([]*models.NicheAnalysis, error)
	GetTrend(ctx context.Context, id int64) (*models.TrendAnalysis, error)
	ListRecentTrends(ctx context.Context, limit int) ([]*models.TrendAnalysis, error)
	ListProductsByTrend(ctx context.Context, trendID int64) ([]*models.ProductSource, error)
	GetEvaluationByProduct(ctx context.Context, productID int64) (*models.ProductEvaluation, error)
	GetStore(ctx context.Context, id int64) (*models.StoreSetup, error)
	ListStores(ctx context.Context) ([]*models.StoreSetup, error)
	ListStorePages(ctx context.Context, storeID int64) ([]*models.StorePage, error)
	ListStoreProducts(ctx context.Context, storeID int64) ([]*models.StoreProduct, error)
	GetThemeByStore(ctx context.Context, storeID int64) (*models.ThemeCustomization, error)
}
