package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storeforge/api/models"
)

var ErrNotFound = errors.New("record not found")

func (r *PostgresRepo) CreateNiche(ctx context.Context, niche *models.NicheAnalysis) error {
	query := `
		INSERT INTO niche_analyses (name, description, main_keywords, search_volume,
		                            competition_level, growth_potential, demographics,
		                            marketing_channels, evaluation_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		niche.Name,
		niche.Description,
		niche.MainKeywords,
		niche.SearchVolume,
		niche.CompetitionLevel,
		niche.GrowthPotential,
		niche.Demographics,
		niche.MarketingChannels,
		niche.EvaluationNotes,
	).Scan(&niche.ID, &niche.CreatedAt)
}

func (r *PostgresRepo) CreateTrend(ctx context.Context, trend *models.TrendAnalysis) error {
	query := `
		INSERT INTO trend_analyses (source, keyword, search_volume, growth_rate,
		                            competition_level, seasonality)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		trend.Source,
		trend.Keyword,
		trend.SearchVolume,
		trend.GrowthRate,
		trend.CompetitionLevel,
		trend.Seasonality,
	).Scan(&trend.ID, &trend.CreatedAt)
}

func (r *PostgresRepo) GetNiche(ctx context.Context, id int64) (*models.NicheAnalysis, error) {
	query := `
		SELECT id, name, description, main_keywords, search_volume, competition_level,
		       growth_potential, demographics, marketing_channels, evaluation_notes, created_at
		FROM niche_analyses
		WHERE id = $1
	`

	var n models.NicheAnalysis
	err := r.db.QueryRow(ctx, query, id).Scan(
		&n.ID, &n.Name, &n.Description, &n.MainKeywords, &n.SearchVolume, &n.CompetitionLevel,
		&n.GrowthPotential, &n.Demographics, &n.MarketingChannels, &n.EvaluationNotes, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *PostgresRepo) GetTrend(ctx context.Context, id int64) (*models.TrendAnalysis, error) {
	query := `
		SELECT id, source, keyword, search_volume, growth_rate, competition_level, seasonality, created_at
		FROM trend_analyses
		WHERE id = $1
	`

	var t models.TrendAnalysis
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Source, &t.Keyword, &t.SearchVolume, &t.GrowthRate,
		&t.CompetitionLevel, &t.Seasonality, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PostgresRepo) ListRecentTrends(ctx context.Context, limit int) ([]*models.TrendAnalysis, error) {
	query := `
		SELECT id, source, keyword, search_volume, growth_rate, competition_level, seasonality, created_at
		FROM trend_analyses
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trends []*models.TrendAnalysis
	for rows.Next() {
		var t models.TrendAnalysis
		if err := rows.Scan(&t.ID, &t.Source, &t.Keyword, &t.SearchVolume, &t.GrowthRate,
			&t.CompetitionLevel, &t.Seasonality, &t.CreatedAt); err != nil {
			return nil, err
		}
		trends = append(trends, &t)
	}
	return trends, rows.Err()
}

func (r *PostgresRepo) CreateProductSource(ctx context.Context, product *models.ProductSource) error {
	query := `
		INSERT INTO product_sources (trend_id, name, description, source_url, source_platform,
		                             price, shipping_cost, shipping_time, rating, profit_margin,
		                             is_trending, is_seasonal, image_urls)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		product.TrendID,
		product.Name,
		product.Description,
		product.SourceURL,
		product.SourcePlatform,
		product.Price,
		product.ShippingCost,
		product.ShippingTime,
		product.Rating,
		product.ProfitMargin,
		product.IsTrending,
		product.IsSeasonal,
		product.ImageURLs,
	).Scan(&product.ID, &product.CreatedAt)
}

func (r *PostgresRepo) CreateEvaluation(ctx context.Context, eval *models.ProductEvaluation) error {
	query := `
		INSERT INTO product_evaluations (product_id, dropshipping_score, market_saturation,
		                                 shipping_complexity, return_risk, profit_potential,
		                                 recommendation, evaluation_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		eval.ProductID,
		eval.DropshippingScore,
		eval.MarketSaturation,
		eval.ShippingComplexity,
		eval.ReturnRisk,
		eval.ProfitPotential,
		eval.Recommendation,
		eval.EvaluationNotes,
	).Scan(&eval.ID, &eval.CreatedAt)
}

func (r *PostgresRepo) ListProductsByTrend(ctx context.Context, trendID int64) ([]*models.ProductSource, error) {
	query := `
		SELECT id, trend_id, name, description, source_url, source_platform, price,
		       shipping_cost, shipping_time, rating, profit_margin, is_trending, is_seasonal,
		       image_urls, created_at
		FROM product_sources
		WHERE trend_id = $1
		ORDER BY profit_margin DESC
	`

	rows, err := r.db.Query(ctx, query, trendID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.ProductSource
	for rows.Next() {
		var p models.ProductSource
		if err := rows.Scan(&p.ID, &p.TrendID, &p.Name, &p.Description, &p.SourceURL, &p.SourcePlatform,
			&p.Price, &p.ShippingCost, &p.ShippingTime, &p.Rating, &p.ProfitMargin,
			&p.IsTrending, &p.IsSeasonal, &p.ImageURLs, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *PostgresRepo) CreateStore(ctx context.Context, store *models.StoreSetup) error {
	query := `
		INSERT INTO store_setups (store_name, store_url, niche, currency, status, theme_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRow(ctx, query,
		store.StoreName,
		store.StoreURL,
		store.Niche,
		store.Currency,
		store.Status,
		store.ThemeID,
	).Scan(&store.ID, &store.CreatedAt, &store.UpdatedAt)
}

func (r *PostgresRepo) UpdateStoreStatus(ctx context.Context, storeID int64, status models.StoreStatus) error {
	query := `UPDATE store_setups SET status = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, storeID, status)
	return err
}

func (r *PostgresRepo) SetStoreTheme(ctx context.Context, storeID int64, themeID string) error {
	query := `UPDATE store_setups SET theme_id = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, storeID, themeID)
	return err
}

func (r *PostgresRepo) CreateTheme(ctx context.Context, theme *models.ThemeCustomization) error {
	query := `
		INSERT INTO theme_customizations (store_id, theme_id, primary_color, secondary_color,
		                                  font_heading, font_body, logo_position, hero_layout,
		                                  home_page_sections)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		theme.StoreID,
		theme.ThemeID,
		theme.PrimaryColor,
		theme.SecondaryColor,
		theme.FontHeading,
		theme.FontBody,
		theme.LogoPosition,
		theme.HeroLayout,
		theme.HomePageSections,
	).Scan(&theme.ID, &theme.CreatedAt)
}

func (r *PostgresRepo) CreateStorePage(ctx context.Context, page *models.StorePage) error {
	query := `
		INSERT INTO store_pages (store_id, page_type, title, content, meta_title,
		                         meta_description, is_published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		page.StoreID,
		page.PageType,
		page.Title,
		page.Content,
		page.MetaTitle,
		page.MetaDescription,
		page.IsPublished,
	).Scan(&page.ID, &page.CreatedAt)
}

func (r *PostgresRepo) ListStorePages(ctx context.Context, storeID int64) ([]*models.StorePage, error) {
	query := `
		SELECT id, store_id, page_type, title, content, meta_title, meta_description,
		       is_published, shopify_page_id, created_at
		FROM store_pages
		WHERE store_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*models.StorePage
	for rows.Next() {
		var p models.StorePage
		if err := rows.Scan(&p.ID, &p.StoreID, &p.PageType, &p.Title, &p.Content, &p.MetaTitle,
			&p.MetaDescription, &p.IsPublished, &p.ShopifyPageID, &p.CreatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, &p)
	}
	return pages, rows.Err()
}

func (r *PostgresRepo) PublishStorePage(ctx context.Context, pageID, shopifyPageID int64) error {
	query := `UPDATE store_pages SET is_published = TRUE, shopify_page_id = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, pageID, shopifyPageID)
	return err
}

func (r *PostgresRepo) CreateStoreProduct(ctx context.Context, product *models.StoreProduct) error {
	query := `
		INSERT INTO store_products (store_id, product_source_id, title, description, price,
		                            seo_title, seo_description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return r.db.QueryRow(ctx, query,
		product.StoreID,
		product.ProductSourceID,
		product.Title,
		product.Description,
		product.Price,
		product.SEOTitle,
		product.SEODescription,
		product.Status,
	).Scan(&product.ID, &product.CreatedAt)
}

func (r *PostgresRepo) ListDraftStoreProducts(ctx context.Context, storeID int64) ([]*models.StoreProduct, error) {
	query := `
		SELECT id, store_id, product_source_id, title, description, price,
		       seo_title, seo_description, status, shopify_product_id, created_at
		FROM store_products
		WHERE store_id = $1 AND status = 'draft'
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.StoreProduct
	for rows.Next() {
		var p models.StoreProduct
		if err := rows.Scan(&p.ID, &p.StoreID, &p.ProductSourceID, &p.Title, &p.Description, &p.Price,
			&p.SEOTitle, &p.SEODescription, &p.Status, &p.ShopifyProductID, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *PostgresRepo) PublishStoreProduct(ctx context.Context, productID, shopifyProductID int64) error {
	query := `UPDATE store_products SET status = 'active', shopify_product_id = $2 WHERE id = $1`
	_, err := r.db.Exec(ctx, query, productID, shopifyProductID)
	return err
}
