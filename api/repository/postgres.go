package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storeforge/api/models"
)

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewPostgresRepo(db *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) CreateTask(ctx context.Context, task *models.AgentTask) error {
	params, err := json.Marshal(task.Parameters)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO agent_tasks (id, trace_id, task_type, status, progress, parameters)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	return r.db.QueryRow(ctx, query,
		task.ID,
		task.TraceID,
		task.TaskType,
		task.Status,
		task.Progress,
		params,
	).Scan(&task.CreatedAt, &task.UpdatedAt)
}

func (r *PostgresRepo) GetTask(ctx context.Context, id string) (*models.AgentTask, error) {
	query := `
		SELECT id, trace_id, task_type, status, progress, parameters,
		       result_type, result_id, error_message, created_at, updated_at, completed_at
		FROM agent_tasks
		WHERE id = $1
	`

	task, err := scanTask(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *PostgresRepo) ListRecentTasks(ctx context.Context, limit int) ([]*models.AgentTask, error) {
	query := `
		SELECT id, trace_id, task_type, status, progress, parameters,
		       result_type, result_id, error_message, created_at, updated_at, completed_at
		FROM agent_tasks
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*models.AgentTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.AgentTask, error) {
	var (
		task   models.AgentTask
		params []byte
	)
	err := row.Scan(
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
		return nil, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &task.Parameters); err != nil {
			return nil, err
		}
	}
	return &task, nil
}
