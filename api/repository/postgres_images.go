package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storeforge/api/models"
)

func (r *PostgresRepo) CreateBatch(ctx context.Context, b *models.ImageBatch) error {
	query := `
		INSERT INTO image_batches (name, source_type, export_format, status, total_count)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, b.Name, b.SourceType, b.ExportFormat, b.Status, b.TotalCount).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) AddItem(ctx context.Context, it *models.ImageItem) error {
	query := `
		INSERT INTO image_items (batch_id, filename, url, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.db.QueryRow(ctx, query, it.BatchID, it.Filename, it.URL, it.Status).Scan(&it.ID)
}

func (r *PostgresRepo) UpdateItem(ctx context.Context, it *models.ImageItem) error {
	query := `
		UPDATE image_items
		SET alt_text = $1, caption = $2, tags = $3, detailed_description = $4,
		    seo_keywords = $5, status = $6, error_message = $7, processed_at = NOW()
		WHERE id = $8
	`
	result, err := r.db.Exec(ctx, query,
		it.AltText, it.Caption, it.Tags, it.DetailedDescription,
		it.SEOKeywords, it.Status, it.ErrorMessage, it.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) BumpBatchProgress(ctx context.Context, batchID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE image_batches SET processed_count = processed_count + 1, updated_at = NOW() WHERE id = $1`,
		batchID,
	)
	return err
}

func (r *PostgresRepo) FinishBatch(ctx context.Context, batchID int64, status models.TaskStatus) error {
	result, err := r.db.Exec(ctx,
		`UPDATE image_batches SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, batchID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) GetBatch(ctx context.Context, id int64) (*models.ImageBatch, error) {
	query := `
		SELECT id, name, source_type, export_format, status, processed_count, total_count, created_at, updated_at
		FROM image_batches
		WHERE id = $1
	`

	var b models.ImageBatch
	err := r.db.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.Name, &b.SourceType, &b.ExportFormat, &b.Status,
		&b.ProcessedCount, &b.TotalCount, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepo) ListItems(ctx context.Context, batchID int64) ([]*models.ImageItem, error) {
	query := `
		SELECT id, batch_id, filename, url, alt_text, caption, tags,
		       detailed_description, seo_keywords, status, error_message, processed_at
		FROM image_items
		WHERE batch_id = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ImageItem
	for rows.Next() {
		var it models.ImageItem
		if err := rows.Scan(&it.ID, &it.BatchID, &it.Filename, &it.URL, &it.AltText, &it.Caption,
			&it.Tags, &it.DetailedDescription, &it.SEOKeywords, &it.Status, &it.ErrorMessage, &it.ProcessedAt); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}
