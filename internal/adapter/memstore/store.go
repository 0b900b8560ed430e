// Package memstore implements the store port with process-local,
// insertion-ordered collections. It is the default backend and the one
// used by tests; data lives exactly as long as the process.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentdeskhq/agentdesk/internal/domain"
	"github.com/agentdeskhq/agentdesk/internal/domain/agent"
	"github.com/agentdeskhq/agentdesk/internal/domain/task"
	"github.com/agentdeskhq/agentdesk/internal/domain/team"
	"github.com/agentdeskhq/agentdesk/internal/domain/tool"
)

// Store holds all four entity collections behind a single RWMutex.
// Handlers run on parallel goroutines, so slice access must be
// synchronized; each store call is atomic, but a read-modify-write
// across two HTTP requests can still lose an update.
type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	agents []agent.Agent
	tools  []tool.Tool
	tasks  []task.Task
	teams  []team.Team
}

// New creates an empty Store.
func New() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// SetClock overrides the store's clock. Only used by tests.
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

func newID() string {
	return uuid.New().String()
}

// indexOf returns the position of the entity with the given ID, or -1.
func indexOf[T any](items []T, id string, idOf func(*T) string) int {
	for i := range items {
		if idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}

func snapshot[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// --- Agents ---

func (s *Store) CreateAgent(_ context.Context, fields map[string]any) (*agent.Agent, error) {
	base := agent.New(newID())
	merged, err := domain.Merge(&base, fields, "id")
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	s.mu.Lock()
	s.agents = append(s.agents, *merged)
	s.mu.Unlock()
	return merged, nil
}

func (s *Store) ListAgents(_ context.Context) ([]agent.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.agents), nil
}

func (s *Store) GetAgent(_ context.Context, id string) (*agent.Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.agents, id, func(a *agent.Agent) string { return a.ID })
	if i < 0 {
		return nil, fmt.Errorf("agent %s: %w", id, domain.ErrNotFound)
	}
	a := s.agents[i]
	return &a, nil
}

func (s *Store) UpdateAgent(_ context.Context, id string, fields map[string]any) (*agent.Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.agents, id, func(a *agent.Agent) string { return a.ID })
	if i < 0 {
		return nil, fmt.Errorf("agent %s: %w", id, domain.ErrNotFound)
	}

	merged, err := domain.Merge(&s.agents[i], fields, "id")
	if err != nil {
		return nil, fmt.Errorf("update agent %s: %w", id, err)
	}
	s.agents[i] = *merged

	a := *merged
	return &a, nil
}

func (s *Store) DeleteAgent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.agents, id, func(a *agent.Agent) string { return a.ID })
	if i < 0 {
		return fmt.Errorf("agent %s: %w", id, domain.ErrNotFound)
	}
	s.agents = append(s.agents[:i], s.agents[i+1:]...)
	return nil
}

// --- Tools ---

func (s *Store) CreateTool(_ context.Context, fields map[string]any) (*tool.Tool, error) {
	base := tool.New(newID())
	merged, err := domain.Merge(&base, fields, "id")
	if err != nil {
		return nil, fmt.Errorf("create tool: %w", err)
	}

	s.mu.Lock()
	s.tools = append(s.tools, *merged)
	s.mu.Unlock()
	return merged, nil
}

func (s *Store) ListTools(_ context.Context) ([]tool.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.tools), nil
}

func (s *Store) GetTool(_ context.Context, id string) (*tool.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.tools, id, func(t *tool.Tool) string { return t.ID })
	if i < 0 {
		return nil, fmt.Errorf("tool %s: %w", id, domain.ErrNotFound)
	}
	t := s.tools[i]
	return &t, nil
}

// --- Tasks ---

func (s *Store) CreateTask(_ context.Context, fields map[string]any) (*task.Task, error) {
	base := task.New(newID(), s.now())
	merged, err := domain.Merge(&base, fields, "id")
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, *merged)
	s.mu.Unlock()
	return merged, nil
}

func (s *Store) ListTasks(_ context.Context) ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.tasks), nil
}

func (s *Store) GetTask(_ context.Context, id string) (*task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.tasks, id, func(t *task.Task) string { return t.ID })
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	t := s.tasks[i]
	return &t, nil
}

func (s *Store) UpdateTask(_ context.Context, id string, fields map[string]any) (*task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, id, func(t *task.Task) string { return t.ID })
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}

	merged, err := domain.Merge(&s.tasks[i], fields, "id")
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", id, err)
	}
	s.tasks[i] = *merged

	t := *merged
	return &t, nil
}

func (s *Store) DeleteTask(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.tasks, id, func(t *task.Task) string { return t.ID })
	if i < 0 {
		return fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return nil
}

// --- Teams ---

func (s *Store) CreateTeam(_ context.Context, fields map[string]any) (*team.Team, error) {
	base := team.New(newID(), s.now())
	merged, err := domain.Merge(&base, fields, "id")
	if err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	s.mu.Lock()
	s.teams = append(s.teams, *merged)
	s.mu.Unlock()
	return merged, nil
}

func (s *Store) ListTeams(_ context.Context) ([]team.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.teams), nil
}

func (s *Store) GetTeam(_ context.Context, id string) (*team.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.teams, id, func(t *team.Team) string { return t.ID })
	if i < 0 {
		return nil, fmt.Errorf("team %s: %w", id, domain.ErrNotFound)
	}
	t := s.teams[i]
	return &t, nil
}

// UpdateTeam shallow-merges the supplied fields and always stamps the
// update timestamp, even when the patch is empty.
func (s *Store) UpdateTeam(_ context.Context, id string, fields map[string]any) (*team.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.teams, id, func(t *team.Team) string { return t.ID })
	if i < 0 {
		return nil, fmt.Errorf("team %s: %w", id, domain.ErrNotFound)
	}

	merged, err := domain.Merge(&s.teams[i], fields, "id")
	if err != nil {
		return nil, fmt.Errorf("update team %s: %w", id, err)
	}
	merged.UpdatedAt = s.now()
	s.teams[i] = *merged

	t := *merged
	return &t, nil
}

func (s *Store) DeleteTeam(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.teams, id, func(t *team.Team) string { return t.ID })
	if i < 0 {
		return fmt.Errorf("team %s: %w", id, domain.ErrNotFound)
	}
	s.teams = append(s.teams[:i], s.teams[i+1:]...)
	return nil
}

// AddTeamMember appends a member with a server-stamped join timestamp.
// The agent ID is not checked against the agent collection and duplicate
// memberships are allowed.
func (s *Store) AddTeamMember(_ context.Context, teamID string, fields map[string]any) (*team.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.teams, teamID, func(t *team.Team) string { return t.ID })
	if i < 0 {
		return nil, fmt.Errorf("team %s: %w", teamID, domain.ErrNotFound)
	}

	base := team.Member{}
	merged, err := domain.Merge(&base, fields)
	if err != nil {
		return nil, fmt.Errorf("add member to team %s: %w", teamID, err)
	}
	merged.JoinedAt = s.now()

	s.teams[i].Members = append(s.teams[i].Members, *merged)

	m := *merged
	return &m, nil
}

// RemoveTeamMember removes the first member matching the agent ID.
func (s *Store) RemoveTeamMember(_ context.Context, teamID, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.teams, teamID, func(t *team.Team) string { return t.ID })
	if i < 0 {
		return fmt.Errorf("team %s: %w", teamID, domain.ErrNotFound)
	}

	members := s.teams[i].Members
	for j := range members {
		if members[j].AgentID == agentID {
			s.teams[i].Members = append(members[:j], members[j+1:]...)
			return nil
		}
	}
	return fmt.Errorf("team %s agent %s: %w", teamID, agentID, team.ErrMemberNotFound)
}
