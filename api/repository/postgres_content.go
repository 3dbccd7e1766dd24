package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storeforge/api/models"
)

func (r *PostgresRepo) CreateBlogPost(ctx context.Context, p *models.BlogPost) error {
	query := `
		INSERT INTO blog_posts (title, content, summary, featured_image_url, status,
			meta_title, meta_description, url_handle, tags, category, topic, keywords,
			content_type, tone, target_audience, word_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		p.Title, p.Content, p.Summary, p.FeaturedImageURL, p.Status,
		p.MetaTitle, p.MetaDescription, p.URLHandle, p.Tags, p.Category, p.Topic, p.Keywords,
		p.ContentType, p.Tone, p.TargetAudience, p.WordCount,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PostgresRepo) GetBlogPost(ctx context.Context, id int64) (*models.BlogPost, error) {
	query := `
		SELECT id, title, content, summary, featured_image_url, status,
		       meta_title, meta_description, url_handle, tags, category, topic, keywords,
		       content_type, tone, target_audience, word_count, shopify_article_id,
		       created_at, updated_at
		FROM blog_posts
		WHERE id = $1
	`

	var p models.BlogPost
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.Summary, &p.FeaturedImageURL, &p.Status,
		&p.MetaTitle, &p.MetaDescription, &p.URLHandle, &p.Tags, &p.Category, &p.Topic, &p.Keywords,
		&p.ContentType, &p.Tone, &p.TargetAudience, &p.WordCount, &p.ShopifyArticleID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepo) MarkBlogPublished(ctx context.Context, id, articleID int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE blog_posts SET status = $1, shopify_article_id = $2, updated_at = NOW() WHERE id = $3`,
		models.ContentPublished, articleID, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) CreatePage(ctx context.Context, p *models.PageContent) error {
	query := `
		INSERT INTO page_contents (title, content, page_type, summary,
			meta_title, meta_description, url_handle, company_name, industry, tone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		p.Title, p.Content, p.PageType, p.Summary,
		p.MetaTitle, p.MetaDescription, p.URLHandle, p.CompanyName, p.Industry, p.Tone,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *PostgresRepo) GetPage(ctx context.Context, id int64) (*models.PageContent, error) {
	query := `
		SELECT id, title, content, page_type, summary, meta_title, meta_description,
		       url_handle, company_name, industry, tone, published, shopify_page_id, created_at
		FROM page_contents
		WHERE id = $1
	`

	var p models.PageContent
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Content, &p.PageType, &p.Summary, &p.MetaTitle, &p.MetaDescription,
		&p.URLHandle, &p.CompanyName, &p.Industry, &p.Tone, &p.Published, &p.ShopifyPageID, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepo) MarkPagePublished(ctx context.Context, id, pageID int64) error {
	result, err := r.db.Exec(ctx,
		`UPDATE page_contents SET published = TRUE, shopify_page_id = $1 WHERE id = $2`,
		pageID, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
