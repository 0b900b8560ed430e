package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/agentdeskhq/agentdesk/internal/domain/task"
)

func (s *Store) CreateTask(ctx context.Context, fields map[string]any) (*task.Task, error) {
	base := task.New(uuid.New().String(), time.Now().UTC())
	return insertDoc(ctx, s.pool, "tasks", "task", base.ID, &base, fields)
}

func (s *Store) ListTasks(ctx context.Context) ([]task.Task, error) {
	return listDocs[task.Task](ctx, s.pool, "tasks", "task")
}

func (s *Store) GetTask(ctx context.Context, id string) (*task.Task, error) {
	return getDoc[task.Task](ctx, s.pool, "tasks", "task", id)
}

func (s *Store) UpdateTask(ctx context.Context, id string, fields map[string]any) (*task.Task, error) {
	return updateDoc[task.Task](ctx, s.pool, "tasks", "task", id, fields)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return deleteDoc(ctx, s.pool, "tasks", "task", id)
}
