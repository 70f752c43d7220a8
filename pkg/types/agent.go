package types

import (
	"context"
	"time"
)

// AgentHandler defines the interface that all agents must implement
type AgentHandler interface {
	// ProcessTask processes a single task and returns the result
	ProcessTask(ctx context.Context, task string) (string, error)
}

// AgentInitializer is an optional interface for agents that need custom initialization
type AgentInitializer interface {
	Initialize(ctx context.Context) error
}

// AgentCleaner is an optional interface for agents that need custom cleanup
type AgentCleaner interface {
	Cleanup(ctx context.Context) error
}

// TaskRequest is the structured form of a task: a tool name, its arguments
// and the desired response format.
type TaskRequest struct {
	Tool   string                 `json:"tool"`
	Args   map[string]interface{} `json:"args,omitempty"`
	Format string                 `json:"format,omitempty"`
}

// Task represents a task received by the host
type Task struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskResult represents the result of a processed task
type TaskResult struct {
	TaskID    string        `json:"task_id"`
	Result    string        `json:"result"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// AgentStatus represents the current status of an agent
type AgentStatus struct {
	Name            string    `json:"name"`
	Version         string    `json:"version"`
	Capabilities    []string  `json:"capabilities"`
	IsOnline        bool      `json:"is_online"`
	TasksProcessed  int64     `json:"tasks_processed"`
	TasksSuccessful int64     `json:"tasks_successful"`
	TasksFailed     int64     `json:"tasks_failed"`
	StartedAt       time.Time `json:"started_at"`
}

// Constants for response formats
const (
	ResponseFormatText = "text"
	ResponseFormatJSON = "json"
)
