package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentdeskhq/agentdesk/internal/adapter/postgres"
	"github.com/agentdeskhq/agentdesk/internal/domain"
	"github.com/agentdeskhq/agentdesk/internal/domain/team"
)

// setupStore connects to the test database, runs all migrations and
// returns a ready-to-use Store. Skips when TEST_DATABASE_URL is unset.
func setupStore(t *testing.T) *postgres.Store {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("requires TEST_DATABASE_URL")
	}

	ctx := context.Background()

	if err := postgres.RunMigrations(ctx, dsn); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return postgres.NewStore(pool)
}

func TestStore_AgentCRUD(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created, err := store.CreateAgent(ctx, map[string]any{"name": "scout", "role": "researcher"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = store.DeleteAgent(ctx, created.ID) })

	got, err := store.GetAgent(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "scout" {
		t.Errorf("round trip: %+v", got)
	}

	updated, err := store.UpdateAgent(ctx, created.ID, map[string]any{"role": "analyst"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != "analyst" || updated.Name != "scout" {
		t.Errorf("shallow merge: %+v", updated)
	}

	if err := store.DeleteAgent(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetAgent(ctx, created.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("get after delete: %v", err)
	}
}

func TestStore_TeamUpdateRefreshesTimestamp(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created, err := store.CreateTeam(ctx, map[string]any{"name": "T1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = store.DeleteTeam(ctx, created.ID) })

	updated, err := store.UpdateTeam(ctx, created.ID, map[string]any{"description": "ops"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updatedAt not refreshed: %v vs %v", updated.UpdatedAt, created.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("createdAt changed: %v", updated.CreatedAt)
	}
}

func TestStore_TeamMembership(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	created, err := store.CreateTeam(ctx, map[string]any{"name": "T1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { _ = store.DeleteTeam(ctx, created.ID) })

	m, err := store.AddTeamMember(ctx, created.ID, map[string]any{"agentId": "A1", "role": "owner"})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if m.AgentID != "A1" || m.JoinedAt.IsZero() {
		t.Errorf("member: %+v", m)
	}

	got, err := store.GetTeam(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Members) != 1 {
		t.Fatalf("members: %+v", got.Members)
	}

	if err := store.RemoveTeamMember(ctx, created.ID, "A1"); err != nil {
		t.Fatalf("remove member: %v", err)
	}
	if err := store.RemoveTeamMember(ctx, created.ID, "A1"); !errors.Is(err, team.ErrMemberNotFound) {
		t.Errorf("second remove: %v", err)
	}
	if err := store.RemoveTeamMember(ctx, "missing", "A1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("absent team: %v", err)
	}
}
