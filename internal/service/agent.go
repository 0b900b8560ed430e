package service

import (
	"context"

	"github.com/agentdeskhq/agentdesk/internal/adapter/otel"
	"github.com/agentdeskhq/agentdesk/internal/domain/agent"
	"github.com/agentdeskhq/agentdesk/internal/port/broadcast"
	"github.com/agentdeskhq/agentdesk/internal/port/eventqueue"
	"github.com/agentdeskhq/agentdesk/internal/port/store"
)

// AgentService handles the agent collection.
type AgentService struct {
	store  store.Store
	events events
}

// NewAgentService creates a new AgentService.
func NewAgentService(st store.Store, hub broadcast.Broadcaster, queue eventqueue.Queue, metrics *otel.Metrics) *AgentService {
	return &AgentService{store: st, events: newEvents(hub, queue, metrics)}
}

// Create registers a new agent from a partial entity.
func (s *AgentService) Create(ctx context.Context, fields map[string]any) (*agent.Agent, error) {
	ag, err := s.store.CreateAgent(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, eventqueue.SubjectAgentCreated, ag)
	return ag, nil
}

// List returns all agents in insertion order.
func (s *AgentService) List(ctx context.Context) ([]agent.Agent, error) {
	return s.store.ListAgents(ctx)
}

// Get returns an agent by ID.
func (s *AgentService) Get(ctx context.Context, id string) (*agent.Agent, error) {
	return s.store.GetAgent(ctx, id)
}

// Update shallow-merges the given fields into an agent.
func (s *AgentService) Update(ctx context.Context, id string, fields map[string]any) (*agent.Agent, error) {
	ag, err := s.store.UpdateAgent(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, eventqueue.SubjectAgentUpdated, ag)
	return ag, nil
}

// Delete removes an agent.
func (s *AgentService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteAgent(ctx, id); err != nil {
		return err
	}
	s.events.publish(ctx, eventqueue.SubjectAgentDeleted, map[string]string{"id": id})
	return nil
}
