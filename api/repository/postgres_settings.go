package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"storeforge/api/models"
)

func (r *PostgresRepo) ActiveShopifySettings(ctx context.Context) (*models.ShopifySettings, error) {
	query := `
		SELECT id, api_key, password, store_url, api_version, is_active, created_at, last_used_at
		FROM shopify_settings
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s models.ShopifySettings
	err := r.db.QueryRow(ctx, query).Scan(
		&s.ID,
		&s.APIKey,
		&s.Password,
		&s.StoreURL,
		&s.APIVersion,
		&s.IsActive,
		&s.CreatedAt,
		&s.LastUsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &s, nil
}

// SaveShopifySettings deactivates previous rows and inserts the new active one.
func (r *PostgresRepo) SaveShopifySettings(ctx context.Context, s *models.ShopifySettings) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE shopify_settings SET is_active = FALSE WHERE is_active = TRUE`); err != nil {
		return err
	}

	query := `
		INSERT INTO shopify_settings (api_key, password, store_url, api_version, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, query, s.APIKey, s.Password, s.StoreURL, s.APIVersion).Scan(&s.ID, &s.CreatedAt); err != nil {
		return err
	}
	s.IsActive = true

	return tx.Commit(ctx)
}

func (r *PostgresRepo) TouchShopifySettings(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, `UPDATE shopify_settings SET last_used_at = NOW() WHERE id = $1`, id)
	return err
}

func (r *PostgresRepo) ActiveAISettings(ctx context.Context) (*models.AISettings, error) {
	query := `
		SELECT id, api_provider, api_key, is_active, created_at, last_used_at
		FROM ai_settings
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var s models.AISettings
	err := r.db.QueryRow(ctx, query).Scan(
		&s.ID,
		&s.Provider,
		&s.APIKey,
		&s.IsActive,
		&s.CreatedAt,
		&s.LastUsedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PostgresRepo) SaveAISettings(ctx context.Context, s *models.AISettings) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE ai_settings SET is_active = FALSE WHERE is_active = TRUE`); err != nil {
		return err
	}

	query := `
		INSERT INTO ai_settings (api_provider, api_key, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ctx, query, s.Provider, s.APIKey).Scan(&s.ID, &s.CreatedAt); err != nil {
		return err
	}
	s.IsActive = true

	return tx.Commit(ctx)
}
