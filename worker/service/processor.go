package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storeforge/api/models"
	"storeforge/worker/agents"
	"storeforge/worker/cache"
	"storeforge/worker/kafka"
	"storeforge/worker/repository"
)

// StatusMirror receives every status and progress change so the api can
// serve polls without hitting Postgres.
type StatusMirror interface {
	Set(ctx context.Context, taskID string, snap *cache.TaskSnapshot) error
}

// Processor drives one task from queue message to terminal state.
type Processor struct {
	repo     repository.Repository
	cache    StatusMirror
	dropship *agents.DropshipAgent
	stores   *agents.StoreAgent
	logger   *zap.Logger
}

func NewProcessor(repo repository.Repository, mirror StatusMirror, dropship *agents.DropshipAgent, stores *agents.StoreAgent, logger *zap.Logger) *Processor {
	return &Processor{
		repo:     repo,
		cache:    mirror,
		dropship: dropship,
		stores:   stores,
		logger:   logger,
	}
}

func (p *Processor) Process(ctx context.Context, msg *kafka.TaskMessage) (err error) {
	progress := 0
	var task *models.AgentTask
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Task processing panicked",
				zap.String("task_id", msg.TaskID),
				zap.Any("panic", r),
			)
			err = fmt.Errorf("internal error: %v", r)
			p.fail(ctx, msg, task, progress, err)
		}
	}()

	task, err = p.repo.GetTask(ctx, msg.TaskID)
	if err != nil {
		p.logger.Error("Failed to load task",
			zap.String("task_id", msg.TaskID),
			zap.Error(err),
		)
		return err
	}
	if task.Status.Terminal() {
		p.logger.Info("Skipping redelivered terminal task",
			zap.String("task_id", task.ID),
			zap.String("status", string(task.Status)),
		)
		return nil
	}

	p.logger.Info("Task picked up",
		zap.String("task_id", task.ID),
		zap.String("trace_id", task.TraceID),
		zap.String("task_type", string(task.TaskType)),
	)

	p.transition(ctx, task, models.StatusProcessing)
	p.transition(ctx, task, models.StatusRunning)

	advance := func(ctx context.Context, pct int) error {
		if err := p.repo.UpdateProgress(ctx, task.ID, pct); err != nil {
			return fmt.Errorf("failed to update progress: %w", err)
		}
		progress = pct
		p.mirror(ctx, task.ID, &cache.TaskSnapshot{
			TaskType:  string(task.TaskType),
			Status:    models.StatusRunning,
			Progress:  pct,
			CreatedAt: task.CreatedAt,
		})
		return nil
	}

	var resultID int64
	switch task.TaskType {
	case models.TaskNicheDiscovery:
		resultID, err = p.dropship.DiscoverNiches(ctx, task, advance)
	case models.TaskTrendAnalysis:
		resultID, err = p.dropship.AnalyzeTrends(ctx, task, advance)
	case models.TaskProductSourcing:
		resultID, err = p.dropship.SourceProducts(ctx, task, advance)
	case models.TaskStoreSetup:
		resultID, err = p.stores.Setup(ctx, task, advance)
	case models.TaskStoreFromNiche:
		resultID, err = p.stores.BuildFromNiche(ctx, task, advance)
	default:
		err = fmt.Errorf("unknown task type %q", task.TaskType)
	}
	if err != nil {
		p.logger.Error("Task failed",
			zap.String("task_id", task.ID),
			zap.String("task_type", string(task.TaskType)),
			zap.Error(err),
		)
		p.fail(ctx, msg, task, progress, err)
		return err
	}

	resultType := string(task.TaskType)
	if err := p.repo.CompleteTask(ctx, task.ID, resultType, resultID); err != nil {
		p.logger.Error("Failed to mark task completed",
			zap.String("task_id", task.ID),
			zap.Error(err),
		)
		return err
	}
	p.mirror(ctx, task.ID, &cache.TaskSnapshot{
		TaskType:   string(task.TaskType),
		Status:     models.StatusCompleted,
		Progress:   100,
		ResultType: resultType,
		ResultID:   resultID,
		CreatedAt:  task.CreatedAt,
	})

	p.logger.Info("Task completed",
		zap.String("task_id", task.ID),
		zap.String("result_type", resultType),
		zap.Int64("result_id", resultID),
	)
	return nil
}

func (p *Processor) transition(ctx context.Context, task *models.AgentTask, status models.TaskStatus) {
	if err := p.repo.UpdateTaskStatus(ctx, task.ID, status); err != nil {
		p.logger.Error("Failed to update task status",
			zap.String("task_id", task.ID),
			zap.String("status", string(status)),
			zap.Error(err),
		)
		return
	}
	p.mirror(ctx, task.ID, &cache.TaskSnapshot{
		TaskType:  string(task.TaskType),
		Status:    status,
		Progress:  task.Progress,
		CreatedAt: task.CreatedAt,
	})
}

// fail marks the task failed. The task row may not have loaded when a panic
// lands here, so identity falls back to the queue message.
func (p *Processor) fail(ctx context.Context, msg *kafka.TaskMessage, task *models.AgentTask, progress int, cause error) {
	if err := p.repo.FailTask(ctx, msg.TaskID, cause.Error()); err != nil {
		p.logger.Error("Failed to mark task failed",
			zap.String("task_id", msg.TaskID),
			zap.Error(err),
		)
	}
	snap := &cache.TaskSnapshot{
		TaskType: msg.TaskType,
		Status:   models.StatusFailed,
		Progress: progress,
		Error:    cause.Error(),
	}
	if task != nil {
		snap.TaskType = string(task.TaskType)
		snap.CreatedAt = task.CreatedAt
	}
	p.mirror(ctx, msg.TaskID, snap)
}

// mirror pushes a snapshot to Redis. Cache trouble degrades polling to the
// database path, so it is logged and swallowed.
func (p *Processor) mirror(ctx context.Context, taskID string, snap *cache.TaskSnapshot) {
	if err := p.cache.Set(ctx, taskID, snap); err != nil {
		p.logger.Warn("Failed to mirror task status",
			zap.String("task_id", taskID),
			zap.Error(err),
		)
	}
}
