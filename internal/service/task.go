package service

import (
	"context"

	"github.com/agentdeskhq/agentdesk/internal/adapter/otel"
	"github.com/agentdeskhq/agentdesk/internal/domain/task"
	"github.com/agentdeskhq/agentdesk/internal/port/broadcast"
	"github.com/agentdeskhq/agentdesk/internal/port/eventqueue"
	"github.com/agentdeskhq/agentdesk/internal/port/store"
)

// TaskService handles the task collection.
type TaskService struct {
	store  store.Store
	events events
}

// NewTaskService creates a new TaskService.
func NewTaskService(st store.Store, hub broadcast.Broadcaster, queue eventqueue.Queue, metrics *otel.Metrics) *TaskService {
	return &TaskService{store: st, events: newEvents(hub, queue, metrics)}
}

// Create registers a new task from a partial entity. Status defaults to
// pending and createdAt is stamped server-side.
func (s *TaskService) Create(ctx context.Context, fields map[string]any) (*task.Task, error) {
	t, err := s.store.CreateTask(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, eventqueue.SubjectTaskCreated, t)
	return t, nil
}

// List returns all tasks in insertion order.
func (s *TaskService) List(ctx context.Context) ([]task.Task, error) {
	return s.store.ListTasks(ctx)
}

// Get returns a task by ID.
func (s *TaskService) Get(ctx context.Context, id string) (*task.Task, error) {
	return s.store.GetTask(ctx, id)
}

// SetStatus replaces only the task's status via the update path. No
// transition rules apply; any status may follow any status.
func (s *TaskService) SetStatus(ctx context.Context, id string, status task.Status) (*task.Task, error) {
	t, err := s.store.UpdateTask(ctx, id, map[string]any{"status": status})
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, eventqueue.SubjectTaskStatus, t)
	return t, nil
}
