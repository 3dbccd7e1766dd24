package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storeforge/api/models"
)

var ErrTaskNotFound = errors.New("task not found")

// Repository is everything the processor and agents touch: the task row
// lifecycle plus the result tables each workflow writes.
type Repository interface {
	GetTask(ctx context.Context, taskID string) (*models.AgentTask, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error
	UpdateProgress(ctx context.Context, taskID string, progress int) error
	CompleteTask(ctx context.Context, taskID, resultType string, resultID int64) error
	FailTask(ctx context.Context, taskID, errMsg string) error

	CreateNiche(ctx context.Context, niche *models.NicheAnalysis) error
	CreateTrend(ctx context.Context, trend *models.TrendAnalysis) error
	GetNiche(ctx context.Context, id int64) (*models.NicheAnalysis, error)
	GetTrend(ctx context.Context, id int64) (*models.TrendAnalysis, error)
	ListRecentTrends(ctx context.Context, limit int) ([]*models.TrendAnalysis, error)
	CreateProductSource(ctx context.Context, product *models.ProductSource) error
	CreateEvaluation(ctx context.Context, eval *models.ProductEvaluation) error
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

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) GetTask(ctx context.Context, taskID string) (*models.AgentTask, error) {
	query := `
		SELECT id, trace_id, task_type, status, progress, parameters,
		       result_type, result_id, error_message, created_at, updated_at, completed_at
		FROM agent_tasks
		WHERE id = $1
	`

	var (
		task   models.AgentTask
		params []byte
	)
	err := r.db.QueryRow(ctx, query, taskID).Scan(
		&task.ID,
		&task.TraceID,
		&task.TaskType,
		&task.Status,
		&task.Progress,
		&params,
		&task.ResultType,
		&task.ResultID,
		&task.ErrorMessage,
		&task.CreatedAt,
		&task.UpdatedAt,
		&task.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &task.Parameters); err != nil {
			return nil, err
		}
	}
	return &task, nil
}

// UpdateTaskStatus moves a live task to a non-terminal status. Rows already
// completed or failed are left untouched.
func (r *PostgresRepo) UpdateTaskStatus(ctx context.Context, taskID string, status models.TaskStatus) error {
	query := `
		UPDATE agent_tasks
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`
	_, err := r.db.Exec(ctx, query, taskID, status)
	return err
}

// UpdateProgress advances the progress counter. GREATEST keeps it monotonic
// even if updates land out of order.
func (r *PostgresRepo) UpdateProgress(ctx context.Context, taskID string, progress int) error {
	query := `
		UPDATE agent_tasks
		SET progress = GREATEST(progress, $2), updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`
	_, err := r.db.Exec(ctx, query, taskID, progress)
	return err
}

func (r *PostgresRepo) CompleteTask(ctx context.Context, taskID, resultType string, resultID int64) error {
	query := `
		UPDATE agent_tasks
		SET status = 'completed', progress = 100, result_type = $2, result_id = $3,
		    updated_at = NOW(), completed_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`
	_, err := r.db.Exec(ctx, query, taskID, resultType, resultID)
	return err
}

func (r *PostgresRepo) FailTask(ctx context.Context, taskID, errMsg string) error {
	query := `
		UPDATE agent_tasks
		SET status = 'failed', error_message = $2, updated_at = NOW(), completed_at = NOW()
		WHERE id = $1 AND status NOT IN ('completed', 'failed')
	`
	_, err := r.db.Exec(ctx, query, taskID, errMsg)
	return err
}
