// Package service implements the application services over the entity
// store, with entity change events fanned out to websocket clients and
// an optional message broker.
package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/agentdeskhq/agentdesk/internal/adapter/otel"
	"github.com/agentdeskhq/agentdesk/internal/port/broadcast"
	"github.com/agentdeskhq/agentdesk/internal/port/eventqueue"
)

// events fans an entity change out to connected clients and the broker.
// Publishing is best-effort: a broker failure is logged, never surfaced
// to the API caller.
type events struct {
	hub     broadcast.Broadcaster
	queue   eventqueue.Queue
	metrics *otel.Metrics
}

func newEvents(hub broadcast.Broadcaster, queue eventqueue.Queue, metrics *otel.Metrics) events {
	if hub == nil {
		hub = broadcast.Noop{}
	}
	if queue == nil {
		queue = eventqueue.Noop{}
	}
	return events{hub: hub, queue: queue, metrics: metrics}
}

func (e events) publish(ctx context.Context, subject string, payload any) {
	e.hub.BroadcastEvent(ctx, subject, payload)
	e.metrics.RecordEntityEvent(ctx, subject)

	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal event payload", "subject", subject, "error", err)
		return
	}
	if err := e.queue.Publish(ctx, subject, data); err != nil {
		slog.Error("publish event", "subject", subject, "error", err)
	}
}
