package service

import (
	"context"

	"github.com/agentdeskhq/agentdesk/internal/adapter/otel"
	"github.com/agentdeskhq/agentdesk/internal/domain/team"
	"github.com/agentdeskhq/agentdesk/internal/port/broadcast"
	"github.com/agentdeskhq/agentdesk/internal/port/eventqueue"
	"github.com/agentdeskhq/agentdesk/internal/port/store"
)

// TeamService handles the team collection and team membership.
type TeamService struct {
	store  store.Store
	events events
}

// NewTeamService creates a new TeamService.
func NewTeamService(st store.Store, hub broadcast.Broadcaster, queue eventqueue.Queue, metrics *otel.Metrics) *TeamService {
	return &TeamService{store: st, events: newEvents(hub, queue, metrics)}
}

// Create registers a new team from a partial entity. Both timestamps
// are stamped server-side and status defaults to active.
func (s *TeamService) Create(ctx context.Context, fields map[string]any) (*team.Team, error) {
	t, err := s.store.CreateTeam(ctx, fields)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, eventqueue.SubjectTeamCreated, t)
	return t, nil
}

// List returns all teams in insertion order.
func (s *TeamService) List(ctx context.Context) ([]team.Team, error) {
	return s.store.ListTeams(ctx)
}

// Get returns a team by ID.
func (s *TeamService) Get(ctx context.Context, id string) (*team.Team, error) {
	return s.store.GetTeam(ctx, id)
}

// Update shallow-merges the given fields into a team and refreshes
// updatedAt.
func (s *TeamService) Update(ctx context.Context, id string, fields map[string]any) (*team.Team, error) {
	t, err := s.store.UpdateTeam(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, eventqueue.SubjectTeamUpdated, t)
	return t, nil
}

// Delete removes a team.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTeam(ctx, id); err != nil {
		return err
	}
	s.events.publish(ctx, eventqueue.SubjectTeamDeleted, map[string]string{"id": id})
	return nil
}

// AddMember appends a member to the team with a server-assigned join
// timestamp. Duplicate membership is not prevented.
func (s *TeamService) AddMember(ctx context.Context, teamID string, fields map[string]any) (*team.Member, error) {
	m, err := s.store.AddTeamMember(ctx, teamID, fields)
	if err != nil {
		return nil, err
	}
	s.events.publish(ctx, eventqueue.SubjectMemberAdded, map[string]any{"teamId": teamID, "member": m})
	return m, nil
}

// RemoveMember removes the member matching the agent ID. Returns
// team.ErrMemberNotFound when the team exists but the agent is not a
// member.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, agentID string) error {
	if err := s.store.RemoveTeamMember(ctx, teamID, agentID); err != nil {
		return err
	}
	s.events.publish(ctx, eventqueue.SubjectMemberRemoved, map[string]string{"teamId": teamID, "agentId": agentID})
	return nil
}
