// Package eventqueue defines the port for publishing entity change
// events to external consumers.
package eventqueue

import "context"

// Queue publishes entity change events to a message broker.
type Queue interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

// Subjects for entity change events. The entity payload rides as JSON.
const (
	SubjectAgentCreated  = "agents.created"
	SubjectAgentUpdated  = "agents.updated"
	SubjectAgentDeleted  = "agents.deleted"
	SubjectToolCreated   = "tools.created"
	SubjectTaskCreated   = "tasks.created"
	SubjectTaskStatus    = "tasks.status"
	SubjectTeamCreated   = "teams.created"
	SubjectTeamUpdated   = "teams.updated"
	SubjectTeamDeleted   = "teams.deleted"
	SubjectMemberAdded   = "teams.member_added"
	SubjectMemberRemoved = "teams.member_removed"
)

// Noop is a Queue that discards all events. It stands in when no broker
// is configured.
type Noop struct{}

// Publish implements Queue.
func (Noop) Publish(context.Context, string, []byte) error { return nil }

// Close implements Queue.
func (Noop) Close() error { return nil }
