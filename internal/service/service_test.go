package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/agentdeskhq/agentdesk/internal/adapter/memstore"
	"github.com/agentdeskhq/agentdesk/internal/domain/task"
	"github.com/agentdeskhq/agentdesk/internal/port/eventqueue"
	"github.com/agentdeskhq/agentdesk/internal/service"
)

type captureHub struct {
	mu     sync.Mutex
	events []string
}

func (h *captureHub) BroadcastEvent(_ context.Context, eventType string, _ any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, eventType)
}

type captureQueue struct {
	mu       sync.Mutex
	subjects []string
}

func (q *captureQueue) Publish(_ context.Context, subject string, _ []byte) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.subjects = append(q.subjects, subject)
	return nil
}

func (q *captureQueue) Close() error { return nil }

func TestAgentEventsFanOut(t *testing.T) {
	hub := &captureHub{}
	queue := &captureQueue{}
	svc := service.NewAgentService(memstore.New(), hub, queue, nil)
	ctx := context.Background()

	ag, err := svc.Create(ctx, map[string]any{"name": "scout"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(ctx, ag.ID, map[string]any{"role": "analyst"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := svc.Delete(ctx, ag.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	want := []string{
		eventqueue.SubjectAgentCreated,
		eventqueue.SubjectAgentUpdated,
		eventqueue.SubjectAgentDeleted,
	}
	if len(hub.events) != len(want) {
		t.Fatalf("hub events: %v", hub.events)
	}
	for i, subject := range want {
		if hub.events[i] != subject {
			t.Errorf("hub event %d: got %q, want %q", i, hub.events[i], subject)
		}
		if queue.subjects[i] != subject {
			t.Errorf("queue subject %d: got %q, want %q", i, queue.subjects[i], subject)
		}
	}
}

func TestFailedOperationPublishesNothing(t *testing.T) {
	hub := &captureHub{}
	svc := service.NewAgentService(memstore.New(), hub, nil, nil)

	if err := svc.Delete(context.Background(), "missing"); err == nil {
		t.Fatal("expected delete error")
	}
	if len(hub.events) != 0 {
		t.Errorf("events published for failed operation: %v", hub.events)
	}
}

func TestTaskSetStatusPublishesStatusEvent(t *testing.T) {
	hub := &captureHub{}
	svc := service.NewTaskService(memstore.New(), hub, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, map[string]any{"title": "X"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.SetStatus(ctx, created.ID, task.StatusRunning)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if updated.Status != task.StatusRunning {
		t.Errorf("status: %q", updated.Status)
	}

	if len(hub.events) != 2 || hub.events[1] != eventqueue.SubjectTaskStatus {
		t.Errorf("events: %v", hub.events)
	}
}

func TestTeamMembershipEvents(t *testing.T) {
	hub := &captureHub{}
	svc := service.NewTeamService(memstore.New(), hub, nil, nil)
	ctx := context.Background()

	tm, err := svc.Create(ctx, map[string]any{"name": "T1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.AddMember(ctx, tm.ID, map[string]any{"agentId": "A1"}); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := svc.RemoveMember(ctx, tm.ID, "A1"); err != nil {
		t.Fatalf("remove member: %v", err)
	}

	want := []string{
		eventqueue.SubjectTeamCreated,
		eventqueue.SubjectMemberAdded,
		eventqueue.SubjectMemberRemoved,
	}
	if len(hub.events) != len(want) {
		t.Fatalf("events: %v", hub.events)
	}
	for i, subject := range want {
		if hub.events[i] != subject {
			t.Errorf("event %d: got %q, want %q", i, hub.events[i], subject)
		}
	}
}
