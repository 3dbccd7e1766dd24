package agents

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"go.uber.org/zap"

	"storeforge/api/models"
	"storeforge/worker/catalog"
)

const defaultThemeID = "theme_123456789"

// StoreWriter is the slice of the repository the store workflows write to.
type StoreWriter interface {
	GetNiche(ctx context.Context, id int64) (*models.NicheAnalysis, error)
	ListProductsByTrend(ctx context.Context, trendID int64) ([]*models.ProductSource, error)
	CreateStore(ctx context.Context, store *models.StoreSetup) error
	UpdateStoreStatus(ctx context.Context, storeID int64, status models.StoreStatus) error
	SetStoreTheme(ctx context.Context, storeID int64, themeID string) error
	CreateTheme(ctx context.Context, theme *models.ThemeCustomization) error
	CreateStorePage(ctx context.Context, page *models.StorePage) error
	ListStorePages(ctx context.Context, storeID int64) ([]*models.StorePage, error)
	PublishStorePage(ctx context.Context, pageID, shopifyPageID int64) error
	CreateStoreProduct(ctx context.Context, product *models.StoreProduct) error
	ListDraftStoreProducts(ctx context.Context, storeID int64) ([]*models.StoreProduct, error)
	PublishStoreProduct(ctx context.Context, productID, shopifyProductID int64) error
}

// StoreAgent automates store builds: the store row, theme, essential pages,
// products, and publication.
type StoreAgent struct {
	store   StoreWriter
	catalog *catalog.Catalog
	logger  *zap.Logger
}

func NewStoreAgent(store StoreWriter, cat *catalog.Catalog, logger *zap.Logger) *StoreAgent {
	return &StoreAgent{
		store:   store,
		catalog: cat,
		logger:  logger,
	}
}

// Setup runs the store_setup workflow: store row, theme, essential pages,
// publication. The store id is the task result.
func (a *StoreAgent) Setup(ctx context.Context, task *models.AgentTask, advance Progress) (int64, error) {
	storeName := paramString(task, "store_name")
	a.logger.Info("Store setup started",
		zap.String("task_id", task.ID),
		zap.String("store_name", storeName),
	)

	store := &models.StoreSetup{
		StoreName: storeName,
		StoreURL:  storeURL(storeName),
		Niche:     paramString(task, "niche"),
		Currency:  currencyOrDefault(task),
		Status:    models.StorePending,
	}
	if err := a.store.CreateStore(ctx, store); err != nil {
		return 0, fmt.Errorf("failed to create store: %w", err)
	}
	if err := advance(ctx, 10); err != nil {
		return 0, err
	}

	if err := a.buildOut(ctx, store, advance); err != nil {
		a.markFailed(ctx, store.ID)
		return 0, err
	}

	a.logger.Info("Store setup completed",
		zap.String("task_id", task.ID),
		zap.Int64("store_id", store.ID),
		zap.String("store_url", store.StoreURL),
	)
	return store.ID, nil
}

// buildOut takes an existing store row through theme, pages, and
// publication.
func (a *StoreAgent) buildOut(ctx context.Context, store *models.StoreSetup, advance Progress) error {
	if err := advance(ctx, 15); err != nil {
		return err
	}
	if err := a.store.UpdateStoreStatus(ctx, store.ID, models.StoreInProgress); err != nil {
		return fmt.Errorf("failed to update store status: %w", err)
	}
	if err := advance(ctx, 20); err != nil {
		return err
	}

	if err := a.applyTheme(ctx, store); err != nil {
		return err
	}
	if err := advance(ctx, 40); err != nil {
		return err
	}

	if err := a.createEssentialPages(ctx, store); err != nil {
		return err
	}
	if err := advance(ctx, 70); err != nil {
		return err
	}

	if _, err := a.publishPages(ctx, store.ID); err != nil {
		return err
	}
	if err := advance(ctx, 90); err != nil {
		return err
	}

	return a.store.UpdateStoreStatus(ctx, store.ID, models.StoreCompleted)
}

// BuildFromNiche runs the store_from_niche workflow: a full store seeded by
// a discovered niche, with products pulled from a sourced trend when one is
// given.
func (a *StoreAgent) BuildFromNiche(ctx context.Context, task *models.AgentTask, advance Progress) (int64, error) {
	nicheID := paramInt64(task, "niche_id")
	niche, err := a.store.GetNiche(ctx, nicheID)
	if err != nil {
		return 0, fmt.Errorf("failed to load niche %d: %w", nicheID, err)
	}

	storeName := paramString(task, "store_name")
	if storeName == "" {
		storeName = niche.Name + " Store"
	}
	a.logger.Info("Full store build started",
		zap.String("task_id", task.ID),
		zap.String("store_name", storeName),
		zap.String("niche", niche.Name),
	)

	store := &models.StoreSetup{
		StoreName: storeName,
		StoreURL:  storeURL(storeName),
		Niche:     niche.Name,
		Currency:  currencyOrDefault(task),
		Status:    models.StorePending,
	}
	if err := a.store.CreateStore(ctx, store); err != nil {
		return 0, fmt.Errorf("failed to create store: %w", err)
	}
	if err := a.store.UpdateStoreStatus(ctx, store.ID, models.StoreInProgress); err != nil {
		a.markFailed(ctx, store.ID)
		return 0, fmt.Errorf("failed to update store status: %w", err)
	}
	if err := advance(ctx, 20); err != nil {
		return 0, err
	}

	if err := a.assembleStore(ctx, store, task, advance); err != nil {
		a.markFailed(ctx, store.ID)
		return 0, err
	}

	a.logger.Info("Full store build completed",
		zap.String("task_id", task.ID),
		zap.Int64("store_id", store.ID),
		zap.String("store_url", store.StoreURL),
	)
	return store.ID, nil
}

func (a *StoreAgent) assembleStore(ctx context.Context, store *models.StoreSetup, task *models.AgentTask, advance Progress) error {
	if trendID := paramInt64(task, "trend_id"); trendID != 0 {
		if err := a.addProductsFromTrend(ctx, store.ID, trendID); err != nil {
			return err
		}
	}
	if err := advance(ctx, 40); err != nil {
		return err
	}

	if _, err := a.publishProducts(ctx, store.ID); err != nil {
		return err
	}
	if err := advance(ctx, 60); err != nil {
		return err
	}

	if err := a.applyTheme(ctx, store); err != nil {
		return err
	}
	if err := advance(ctx, 80); err != nil {
		return err
	}

	if err := a.createEssentialPages(ctx, store); err != nil {
		return err
	}
	if _, err := a.publishPages(ctx, store.ID); err != nil {
		return err
	}

	return a.store.UpdateStoreStatus(ctx, store.ID, models.StoreCompleted)
}

func (a *StoreAgent) applyTheme(ctx context.Context, store *models.StoreSetup) error {
	label := store.Niche
	if label == "" {
		label = store.StoreName
	}
	palette := a.catalog.PaletteFor(label)

	theme := &models.ThemeCustomization{
		StoreID:          store.ID,
		ThemeID:          defaultThemeID,
		PrimaryColor:     palette.PrimaryColor,
		SecondaryColor:   palette.SecondaryColor,
		FontHeading:      palette.FontHeading,
		FontBody:         palette.FontBody,
		LogoPosition:     palette.LogoPosition,
		HeroLayout:       palette.HeroLayout,
		HomePageSections: strings.Join(palette.Sections, ", "),
	}
	if err := a.store.CreateTheme(ctx, theme); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	if err := a.store.SetStoreTheme(ctx, store.ID, defaultThemeID); err != nil {
		return fmt.Errorf("failed to attach theme: %w", err)
	}
	store.ThemeID = defaultThemeID
	return nil
}

func (a *StoreAgent) createEssentialPages(ctx context.Context, store *models.StoreSetup) error {
	for _, pageType := range essentialPages {
		title, content := pageContent(store.StoreName, store.Niche, pageType)
		page := &models.StorePage{
			StoreID:         store.ID,
			PageType:        pageType,
			Title:           title,
			Content:         content,
			MetaTitle:       fmt.Sprintf("%s - %s", title, store.StoreName),
			MetaDescription: fmt.Sprintf("%s %s page.", store.StoreName, pageType),
		}
		if err := a.store.CreateStorePage(ctx, page); err != nil {
			return fmt.Errorf("failed to create %s page: %w", pageType, err)
		}
	}
	return nil
}

func (a *StoreAgent) publishPages(ctx context.Context, storeID int64) (int, error) {
	pages, err := a.store.ListStorePages(ctx, storeID)
	if err != nil {
		return 0, fmt.Errorf("failed to list store pages: %w", err)
	}

	published := 0
	for _, page := range pages {
		if page.IsPublished {
			continue
		}
		if err := a.store.PublishStorePage(ctx, page.ID, shopifyID()); err != nil {
			return published, fmt.Errorf("failed to publish %s page: %w", page.PageType, err)
		}
		published++
	}
	return published, nil
}

func (a *StoreAgent) addProductsFromTrend(ctx context.Context, storeID, trendID int64) error {
	sources, err := a.store.ListProductsByTrend(ctx, trendID)
	if err != nil {
		return fmt.Errorf("failed to load products for trend %d: %w", trendID, err)
	}

	for _, src := range sources {
		product := &models.StoreProduct{
			StoreID:         storeID,
			ProductSourceID: src.ID,
			Title:           src.Name,
			Description:     src.Description,
			Price:           src.Price,
			SEOTitle:        src.Name,
			SEODescription:  seoDescription(src),
			Status:          "draft",
		}
		if err := a.store.CreateStoreProduct(ctx, product); err != nil {
			return fmt.Errorf("failed to add product %q: %w", src.Name, err)
		}
	}
	return nil
}

func (a *StoreAgent) publishProducts(ctx context.Context, storeID int64) (int, error) {
	products, err := a.store.ListDraftStoreProducts(ctx, storeID)
	if err != nil {
		return 0, fmt.Errorf("failed to list draft products: %w", err)
	}

	for _, product := range products {
		if err := a.store.PublishStoreProduct(ctx, product.ID, shopifyID()); err != nil {
			return 0, fmt.Errorf("failed to publish product %q: %w", product.Title, err)
		}
	}
	return len(products), nil
}

func (a *StoreAgent) markFailed(ctx context.Context, storeID int64) {
	if err := a.store.UpdateStoreStatus(ctx, storeID, models.StoreFailed); err != nil {
		a.logger.Error("Failed to mark store failed",
			zap.Int64("store_id", storeID),
			zap.Error(err),
		)
	}
}

func storeURL(storeName string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(storeName)), " ", "-")
	return fmt.Sprintf("https://%s.myshopify.com", slug)
}

func currencyOrDefault(task *models.AgentTask) string {
	if currency := paramString(task, "currency"); currency != "" {
		return currency
	}
	return "USD"
}

func seoDescription(src *models.ProductSource) string {
	desc := src.Description
	if desc == "" {
		return src.Name
	}
	if len(desc) > 160 {
		return desc[:160]
	}
	return desc
}

// shopifyID fabricates a plausible numeric Shopify resource id for the
// simulated publish step.
func shopifyID() int64 {
	return 1000000000 + rand.Int63n(9000000000)
}
