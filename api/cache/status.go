package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storeforge/api/database"
	"storeforge/api/models"
)

const (
	statusKeyPrefix = "agent:task:"
	statusTTL       = 10 * time.Minute
)

// TaskSnapshot is the cached view of a task the status endpoint serves on
// the hot path. It carries everything the poll response needs, so a cache
// hit answers with the full Task shape.
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
	cache *database.Cache
}

func NewStatusCache(cache *database.Cache) *StatusCache {
	return &StatusCache{cache: cache}
}

func (sc *StatusCache) Get(ctx context.Context, taskID string) (*TaskSnapshot, error) {
	key := fmt.Sprintf("%s%s", statusKeyPrefix, taskID)

	data, err := sc.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var snap TaskSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, err
	}

	return &snap, nil
}

func (sc *StatusCache) Set(ctx context.Context, taskID string, snap *TaskSnapshot) error {
	key := fmt.Sprintf("%s%s", statusKeyPrefix, taskID)

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return sc.cache.Set(ctx, key, data, statusTTL)
}

func (sc *StatusCache) Delete(ctx context.Context, taskID string) error {
	key := fmt.Sprintf("%s%s", statusKeyPrefix, taskID)
	return sc.cache.Del(ctx, key)
}
