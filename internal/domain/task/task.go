// Package task defines the Task domain entity.
package task

import "time"

// Status represents the current state of a task or step.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Priority is the scheduling weight of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Result holds the output of a completed task or step.
type Result struct {
	Output   any            `json:"output"`
	Error    string         `json:"error,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Step is a single tool invocation within a task, executed in order.
type Step struct {
	ID          string         `json:"id"`
	ToolID      string         `json:"toolId"`
	Parameters  map[string]any `json:"parameters"`
	Status      Status         `json:"status"`
	Result      *Result        `json:"result,omitempty"`
	StartedAt   *time.Time     `json:"startedAt,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
}

// Task represents a unit of work owned by an agent. Parent and
// dependency links are stored as-is; nothing resolves or enforces them.
type Task struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	AgentID      string         `json:"agentId"`
	Status       Status         `json:"status"`
	Priority     Priority       `json:"priority,omitempty"`
	Steps        []Step         `json:"steps"`
	Result       *Result        `json:"result,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	StartedAt    *time.Time     `json:"startedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	Deadline     *time.Time     `json:"deadline,omitempty"`
	ParentTaskID string         `json:"parentTaskId,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty"`
}

// New returns a Task with the server-assigned ID and defaults applied.
func New(id string, now time.Time) Task {
	return Task{
		ID:        id,
		Status:    StatusPending,
		Steps:     []Step{},
		CreatedAt: now,
	}
}
