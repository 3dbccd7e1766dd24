package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"storeforge/api/models"
)

const (
	statusKeyPrefix = "agent:task:"
	statusTTL       = 10 * time.Minute
)

// TaskSnapshot mirrors the entry the api status endpoint reads. Key and
// shape must stay in sync with the api cache package.
type TaskSnapshot struct {
	TaskType   string            `json:"task_type,omitempty"`
	Status     models.TaskStatus `json:"status"`
	Progress   int               `json:"progress"`
	ResultType string            `json:"result_type,omitempty"`
	ResultID   int64             `json:"result_id,omitempty"`
	Error      string            `json:"error,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

type StatusCache struct {
	client *redis.Client
}

func NewStatusCache(client *redis.Client) *StatusCache {
	return &StatusCache{client: client}
}

func (c *StatusCache) Set(ctx context.Context, taskID string, snap *TaskSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statusKeyPrefix+taskID, data, statusTTL).Err()
}
