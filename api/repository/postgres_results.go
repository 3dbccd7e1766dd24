package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storeforge/api/models"
)

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

func (r *PostgresRepo) ListRecentNiches(ctx context.Context, limit int) ([]*models.NicheAnalysis, error) {
	query := `
		SELECT id, name, description, main_keywords, search_volume, competition_level,
		       growth_potential, demographics, marketing_channels, evaluation_notes, created_at
		FROM niche_analyses
		ORDER BY created_at DESC, growth_potential DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var niches []*models.NicheAnalysis
	for rows.Next() {
		var n models.NicheAnalysis
		if err := rows.Scan(&n.ID, &n.Name, &n.Description, &n.MainKeywords, &n.SearchVolume, &n.CompetitionLevel,
			&n.GrowthPotential, &n.Demographics, &n.MarketingChannels, &n.EvaluationNotes, &n.CreatedAt); err != nil {
			return nil, err
		}
		niches = append(niches, &n)
	}
	return niches, rows.Err()
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

func (r *PostgresRepo) GetEvaluationByProduct(ctx context.Context, productID int64) (*models.ProductEvaluation, error) {
	query := `
		SELECT id, product_id, dropshipping_score, market_saturation, shipping_complexity,
		       return_risk, profit_potential, recommendation, evaluation_notes, created_at
		FROM product_evaluations
		WHERE product_id = $1
	`

	var e models.ProductEvaluation
	err := r.db.QueryRow(ctx, query, productID).Scan(
		&e.ID, &e.ProductID, &e.DropshippingScore, &e.MarketSaturation, &e.ShippingComplexity,
		&e.ReturnRisk, &e.ProfitPotential, &e.Recommendation, &e.EvaluationNotes, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *PostgresRepo) GetStore(ctx context.Context, id int64) (*models.StoreSetup, error) {
	query := `
		SELECT id, store_name, store_url, niche, currency, status, theme_id, created_at, updated_at
		FROM store_setups
		WHERE id = $1
	`

	var s models.StoreSetup
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.StoreName, &s.StoreURL, &s.Niche, &s.Currency, &s.Status,
		&s.ThemeID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepo) ListStores(ctx context.Context) ([]*models.StoreSetup, error) {
	query := `
		SELECT id, store_name, store_url, niche, currency, status, theme_id, created_at, updated_at
		FROM store_setups
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []*models.StoreSetup
	for rows.Next() {
		var s models.StoreSetup
		if err := rows.Scan(&s.ID, &s.StoreName, &s.StoreURL, &s.Niche, &s.Currency, &s.Status,
			&s.ThemeID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		stores = append(stores, &s)
	}
	return stores, rows.Err()
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

func (r *PostgresRepo) ListStoreProducts(ctx context.Context, storeID int64) ([]*models.StoreProduct, error) {
	query := `
		SELECT id, store_id, product_source_id, title, description, price,
		       seo_title, seo_description, status, shopify_product_id, created_at
		FROM store_products
		WHERE store_id = $1
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

func (r *PostgresRepo) GetThemeByStore(ctx context.Context, storeID int64) (*models.ThemeCustomization, error) {
	query := `
		SELECT id, store_id, theme_id, primary_color, secondary_color, font_heading, font_body,
		       logo_position, hero_layout, home_page_sections, created_at
		FROM theme_customizations
		WHERE store_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var t models.ThemeCustomization
	err := r.db.QueryRow(ctx, query, storeID).Scan(
		&t.ID, &t.StoreID, &t.ThemeID, &t.PrimaryColor, &t.SecondaryColor, &t.FontHeading, &t.FontBody,
		&t.LogoPosition, &t.HeroLayout, &t.HomePageSections, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}
