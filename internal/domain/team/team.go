// Package team defines the Team domain entity and its embedded members.
package team

import (
	"errors"
	"time"
)

// ErrMemberNotFound indicates the agent is not a member of the team.
var ErrMemberNotFound = errors.New("member not found")

// Role defines an agent's standing within a team.
type Role string

const (
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
	RoleMember   Role = "member"
	RoleObserver Role = "observer"
)

// Status represents the lifecycle state of a team.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusArchived Status = "archived"
)

// Permissions controls what a member may do within its team.
type Permissions struct {
	CanCreateTasks   bool `json:"canCreateTasks"`
	CanAssignTasks   bool `json:"canAssignTasks"`
	CanModifyTeam    bool `json:"canModifyTeam"`
	CanInviteMembers bool `json:"canInviteMembers"`
}

// Member represents one agent's membership in a team. Members are owned
// exclusively by their team and carry no identity of their own.
type Member struct {
	AgentID     string      `json:"agentId"`
	Role        Role        `json:"role"`
	JoinedAt    time.Time   `json:"joinedAt"`
	Permissions Permissions `json:"permissions"`
}

// PriorityRules sets the default task priority for a team.
type PriorityRules struct {
	DefaultPriority string `json:"defaultPriority"`
	AllowOverride   bool   `json:"allowOverride"`
}

// Policy governs how a team accepts and assigns work. MaxAgents is
// advisory only; membership operations do not enforce it.
type Policy struct {
	MaxAgents               int            `json:"maxAgents,omitempty"`
	AllowExternalTools      bool           `json:"allowExternalTools"`
	RequireApprovalForTasks bool           `json:"requireApprovalForTasks"`
	AutoAssignTasks         bool           `json:"autoAssignTasks"`
	PriorityRules           *PriorityRules `json:"priorityRules,omitempty"`
}

// Metrics is a point-in-time snapshot of team throughput.
type Metrics struct {
	TasksCompleted        int       `json:"tasksCompleted"`
	TasksInProgress       int       `json:"tasksInProgress"`
	TasksFailed           int       `json:"tasksFailed"`
	AverageCompletionTime float64   `json:"averageCompletionTime"`
	SuccessRate           float64   `json:"successRate"`
	LastUpdated           time.Time `json:"lastUpdated"`
}

// Schedule is the weekly availability window of a team.
type Schedule struct {
	Days      []string `json:"days"`
	StartTime string   `json:"startTime"` // HH:mm
	EndTime   string   `json:"endTime"`   // HH:mm
}

// WorkingHours describes when a team is considered on duty.
type WorkingHours struct {
	Timezone string   `json:"timezone"`
	Schedule Schedule `json:"schedule"`
}

// Team groups agents under a leader with a shared work policy.
type Team struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Members        []Member      `json:"members"`
	Leader         string        `json:"leader"`
	Specialization []string      `json:"specialization,omitempty"`
	Policy         Policy        `json:"policy"`
	Metrics        *Metrics      `json:"metrics,omitempty"`
	ActiveTaskIDs  []string      `json:"activeTaskIds"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	Status         Status        `json:"status"`
	WorkingHours   *WorkingHours `json:"workingHours,omitempty"`
}

// New returns a Team with the server-assigned ID and defaults applied.
// Both timestamps are set to the same creation instant.
func New(id string, now time.Time) Team {
	return Team{
		ID:            id,
		Members:       []Member{},
		ActiveTaskIDs: []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
		Status:        StatusActive,
	}
}
