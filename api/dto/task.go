package dto

import "errors"

var (
	ErrUnknownTaskType  = errors.New("unknown task type")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrNoActiveSettings = errors.New("no active settings")
)

// SubmitTaskRequest carries the workflow parameters for one agent run. Which
// fields matter depends on the task type; the whole set is stored with the
// task.
type SubmitTaskRequest struct {
	StoreName string `json:"store_name,omitempty"`
	Niche     string `json:"niche,omitempty"`
	NicheID   int64  `json:"niche_id,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Category  string `json:"category,omitempty"`
	Source    string `json:"source,omitempty"`
	Keyword   string `json:"keyword,omitempty"`
	TrendID   int64  `json:"trend_id,omitempty"`
	Count     int    `json:"count,omitempty"`
}

type SubmitTaskResponse struct {
	TaskID string `json:"task_id"`
}

// TaskResultRef points the UI at the entity a completed task produced.
type TaskResultRef struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
}

type TaskResponse struct {
	ID           string         `json:"id"`
	TaskType     string         `json:"task_type"`
	Status       string         `json:"status"`
	Progress     int            `json:"progress"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    string         `json:"created_at"`
	CompletedAt  *string        `json:"completed_at,omitempty"`
	Result       *TaskResultRef `json:"result"`
}

type TaskListResponse struct {
	Tasks []*TaskResponse `json:"tasks"`
}

type StoreResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	StoreURL  string `json:"store_url"`
}

type ErrorResponse struct {
	Status  string `json:"status,omitempty"`
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}
