package domain

import (
	"context"
	"time"
)

// TaskStatus describes task lifecycle status.
type TaskStatus string

const (
	TaskStatusWorking   TaskStatus = "working"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Task is the snapshot of an asynchronous processing job.
type Task struct {
	TaskID        string         `json:"taskId"`
	ToolID        string         `json:"toolId"`
	Status        TaskStatus     `json:"status"`
	StatusMessage string         `json:"statusMessage,omitempty"`
	Percent       int            `json:"percent"`
	Progress      string         `json:"progress,omitempty"`
	Result        *ProcessResult `json:"result,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	LastUpdatedAt time.Time      `json:"lastUpdatedAt"`
}

// TaskPage represents a paginated task list.
type TaskPage struct {
	Tasks      []Task `json:"tasks"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// TaskRunner executes the job workload, reporting progress through emit.
type TaskRunner func(ctx context.Context, emit ProgressFunc) ProcessResult
