package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storeforge/api/models"
)

func (r *PostgresRepo) CreateUpload(ctx context.Context, u *models.UploadHistory) error {
	query := `
		INSERT INTO upload_history (filename, file_type, record_count)
		VALUES ($1, $2, $3)
		RETURNING id, upload_date
	`
	return r.db.QueryRow(ctx, query, u.Filename, u.FileType, u.RecordCount).Scan(&u.ID, &u.UploadDate)
}

func (r *PostgresRepo) AddUploadResult(ctx context.Context, res *models.ProductUploadResult) error {
	query := `
		INSERT INTO product_upload_results (upload_id, shopify_product_id, product_title, status, message, row_number)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		res.UploadID,
		res.ShopifyProductID,
		res.ProductTitle,
		res.Status,
		res.Message,
		res.RowNumber,
	).Scan(&res.ID, &res.CreatedAt)
}

func (r *PostgresRepo) FinishUpload(ctx context.Context, id int64, successCount, errorCount int) error {
	result, err := r.db.Exec(ctx,
		`UPDATE upload_history SET success_count = $1, error_count = $2 WHERE id = $3`,
		successCount, errorCount, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) GetUpload(ctx context.Context, id int64) (*models.UploadHistory, error) {
	query := `
		SELECT id, filename, file_type, record_count, success_count, error_count, upload_date
		FROM upload_history
		WHERE id = $1
	`

	var u models.UploadHistory
	err := r.db.QueryRow(ctx, query, id).Scan(
		&u.ID,
		&u.Filename,
		&u.FileType,
		&u.RecordCount,
		&u.SuccessCount,
		&u.ErrorCount,
		&u.UploadDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PostgresRepo) ListUploads(ctx context.Context, limit int) ([]*models.UploadHistory, error) {
	query := `
		SELECT id, filename, file_type, record_count, success_count, error_count, upload_date
		FROM upload_history
		ORDER BY upload_date DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []*models.UploadHistory
	for rows.Next() {
		var u models.UploadHistory
		if err := rows.Scan(&u.ID, &u.Filename, &u.FileType, &u.RecordCount, &u.SuccessCount, &u.ErrorCount, &u.UploadDate); err != nil {
			return nil, err
		}
		uploads = append(uploads, &u)
	}
	return uploads, rows.Err()
}

func (r *PostgresRepo) ListUploadResults(ctx context.Context, uploadID int64) ([]*models.ProductUploadResult, error) {
	query := `
		SELECT id, upload_id, shopify_product_id, product_title, status, message, row_number, created_at
		FROM product_upload_results
		WHERE upload_id = $1
		ORDER BY row_number
	`

	rows, err := r.db.Query(ctx, query, uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.ProductUploadResult
	for rows.Next() {
		var res models.ProductUploadResult
		if err := rows.Scan(&res.ID, &res.UploadID, &res.ShopifyProductID, &res.ProductTitle, &res.Status, &res.Message, &res.RowNumber, &res.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, &res)
	}
	return results, rows.Err()
}
