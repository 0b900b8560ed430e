// Package store defines the entity store port (interface).
package store

import (
	"context"

	"github.com/agentdeskhq/agentdesk/internal/domain/agent"
	"github.com/agentdeskhq/agentdesk/internal/domain/task"
	"github.com/agentdeskhq/agentdesk/internal/domain/team"
	"github.com/agentdeskhq/agentdesk/internal/domain/tool"
)

// Store is the port interface for the four entity collections. Partial
// entities travel as raw field maps so that caller-supplied fields
// overlay server defaults via a shallow merge, with the generated ID
// never overridable. List order is insertion order. Get, update and
// delete on an unknown ID return domain.ErrNotFound.
type Store interface {
	// Agents
	CreateAgent(ctx context.Context, fields map[string]any) (*agent.Agent, error)
	ListAgents(ctx context.Context) ([]agent.Agent, error)
	GetAgent(ctx context.Context, id string) (*agent.Agent, error)
	UpdateAgent(ctx context.Context, id string, fields map[string]any) (*agent.Agent, error)
	DeleteAgent(ctx context.Context, id string) error

	// Tools (create and read only)
	CreateTool(ctx context.Context, fields map[string]any) (*tool.Tool, error)
	ListTools(ctx context.Context) ([]tool.Tool, error)
	GetTool(ctx context.Context, id string) (*tool.Tool, error)

	// Tasks
	CreateTask(ctx context.Context, fields map[string]any) (*task.Task, error)
	ListTasks(ctx context.Context) ([]task.Task, error)
	GetTask(ctx context.Context, id string) (*task.Task, error)
	UpdateTask(ctx context.Context, id string, fields map[string]any) (*task.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Teams
	CreateTeam(ctx context.Context, fields map[string]any) (*team.Team, error)
	ListTeams(ctx context.Context) ([]team.Team, error)
	GetTeam(ctx context.Context, id string) (*team.Team, error)
	UpdateTeam(ctx context.Context, id string, fields map[string]any) (*team.Team, error)
	DeleteTeam(ctx context.Context, id string) error

	// Team membership. AddTeamMember stamps the join timestamp
	// server-side; RemoveTeamMember returns team.ErrMemberNotFound when
	// the team exists but the agent is not a member.
	AddTeamMember(ctx context.Context, teamID string, fields map[string]any) (*team.Member, error)
	RemoveTeamMember(ctx context.Context, teamID, agentID string) error
}
