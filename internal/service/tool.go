package service

import (
	"context"

	"github.com/agentdeskhq/agentdesk/internal/adapter/otel"
	"github.com/agentdeskhq/agentdesk/internal/domain/tool"
	"github.com/agentdeskhq/agentdesk/internal/port/broadcast"
	"github.com/agentdeskhq/agentdesk/internal/port/eventqueue"
	"github.com/agentdeskhq/agentdesk/internal/port/store"
)

// ToolService handles the tool collection. Tools are create and read
// only; there is no update or delete.
type ToolService struct {
	store  store.Store
	events events
}

// NewToolService creates a new ToolService.
func NewToolService(st store.Store, hub broadcast.Broadcaster, queue eventqueue.Queue, metrics *otel.Metrics) *ToolService {
	return &ToolService{store: st, events: newEvents(hub, queue, metrics)}
}

// Create registers a new tool from a partial entity.
func (s *ToolService) Create(ctx context.Context, fields map[string]any) (*tool.Tool, error) {
	t, err := s.store.CreateTool(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, eventqueue.SubjectToolCreated, t)
	return t, nil
}

// List returns all tools in insertion order.
func (s *ToolService) List(ctx context.Context) ([]tool.Tool, error) {
	return s.store.ListTools(ctx)
}

// Get returns a tool by ID.
func (s *ToolService) Get(ctx context.Context, id string) (*tool.Tool, error) {
	return s.store.GetTool(ctx, id)
}
