package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "agentdesk"

// Metrics holds all AgentDesk metric instruments. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	SessionChecks metric.Int64Counter
	SessionDenied metric.Int64Counter
	EntityEvents  metric.Int64Counter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.SessionChecks, err = meter.Int64Counter("agentdesk.session.checks",
		metric.WithDescription("Number of session verifications attempted"))
	if err != nil {
		return nil, err
	}

	m.SessionDenied, err = meter.Int64Counter("agentdesk.session.denied",
		metric.WithDescription("Number of requests rejected by the session gate"))
	if err != nil {
		return nil, err
	}

	m.EntityEvents, err = meter.Int64Counter("agentdesk.entity.events",
		metric.WithDescription("Number of entity change events published"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSessionCheck counts a session verification attempt.
func (m *Metrics) RecordSessionCheck(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionChecks.Add(ctx, 1)
}

// RecordSessionDenied counts a rejected request.
func (m *Metrics) RecordSessionDenied(ctx context.Context) {
	if m == nil {
		return
	}
	m.SessionDenied.Add(ctx, 1)
}

// RecordEntityEvent counts a published entity change event by type.
func (m *Metrics) RecordEntityEvent(ctx context.Context, eventType string) {
	if m == nil {
		return
	}
	m.EntityEvents.Add(ctx, 1, metric.WithAttributes(attribute.String("event.type", eventType)))
}
