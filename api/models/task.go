package models

import (
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusProcessing TaskStatus = "processing"
	StatusRunning    TaskStatus = "running"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
)

// Terminal reports whether no further status transitions are allowed.
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusRunning, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

type TaskType string

const (
	TaskNicheDiscovery  TaskType = "niche_discovery"
	TaskTrendAnalysis   TaskType = "trend_analysis"
	TaskProductSourcing TaskType = "product_sourcing"
	TaskStoreSetup      TaskType = "store_setup"
	TaskStoreFromNiche  TaskType = "store_from_niche"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskNicheDiscovery, TaskTrendAnalysis, TaskProductSourcing, TaskStoreSetup, TaskStoreFromNiche:
		return true
	}
	return false
}

// AgentTask is a background workflow run. Progress only moves forward while
// the task is live; completed and failed are terminal.
type AgentTask struct {
	ID           string
	TraceID      string
	TaskType     TaskType
	Status       TaskStatus
	Progress     int
	Parameters   map[string]any
	ResultType   string
	ResultID     int64
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}
