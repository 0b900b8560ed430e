// Package broadcast defines the port for pushing entity change events to
// connected clients.
package broadcast

import "context"

// Broadcaster sends real-time events to all connected clients.
type Broadcaster interface {
	// BroadcastEvent sends a typed event to all connected clients.
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}

// Noop is a Broadcaster that discards all events.
type Noop struct{}

// BroadcastEvent implements Broadcaster.
func (Noop) BroadcastEvent(context.Context, string, any) {}
