package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agentdeskhq/agentdesk/internal/domain"
	"github.com/agentdeskhq/agentdesk/internal/domain/agent"
	"github.com/agentdeskhq/agentdesk/internal/domain/tool"
)

// Store implements store.Store using PostgreSQL jsonb document tables.
// Insertion order is preserved by a bigserial sequence column.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// insertDoc merges caller fields over the default entity and inserts the
// resulting document. The ID is protected from the merge.
func insertDoc[T any](ctx context.Context, pool *pgxpool.Pool, table, kind, id string, base *T, fields map[string]any) (*T, error) {
	merged, err := domain.Merge(base, fields, "id")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}

	doc, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("create %s: marshal doc: %w", kind, err)
	}

	if _, err := pool.Exec(ctx,
		`INSERT INTO `+table+` (id, doc) VALUES ($1, $2)`, id, doc); err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	return merged, nil
}

func listDocs[T any](ctx context.Context, pool *pgxpool.Pool, table, kind string) ([]T, error) {
	rows, err := pool.Query(ctx, `SELECT doc FROM `+table+` ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list %ss: %w", kind, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("list %ss: %w", kind, err)
		}
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			return nil, fmt.Errorf("list %ss: decode doc: %w", kind, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func getDoc[T any](ctx context.Context, pool *pgxpool.Pool, table, kind, id string) (*T, error) {
	var doc []byte
	err := pool.QueryRow(ctx, `SELECT doc FROM `+table+` WHERE id = $1`, id).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", kind, id, err)
	}

	item := new(T)
	if err := json.Unmarshal(doc, item); err != nil {
		return nil, fmt.Errorf("get %s %s: decode doc: %w", kind, id, err)
	}
	return item, nil
}

// updateDoc shallow-merges the patch into the stored document via the
// jsonb || operator, which replaces top-level keys wholesale.
func updateDoc[T any](ctx context.Context, pool *pgxpool.Pool, table, kind, id string, fields map[string]any) (*T, error) {
	patch, err := marshalPatch(fields)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", kind, id, err)
	}

	var doc []byte
	err = pool.QueryRow(ctx,
		`UPDATE `+table+` SET doc = doc || $2::jsonb WHERE id = $1 RETURNING doc`,
		id, patch).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", kind, id, err)
	}

	item := new(T)
	if err := json.Unmarshal(doc, item); err != nil {
		return nil, fmt.Errorf("update %s %s: %w: %v", kind, id, domain.ErrInvalid, err)
	}
	return item, nil
}

func deleteDoc(ctx context.Context, pool *pgxpool.Pool, table, kind, id string) error {
	tag, err := pool.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}

// marshalPatch encodes the field patch with the protected id stripped.
func marshalPatch(fields map[string]any) ([]byte, error) {
	patch := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "id" {
			continue
		}
		patch[k] = v
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalid, err)
	}
	return data, nil
}

// --- Agents ---

func (s *Store) CreateAgent(ctx context.Context, fields map[string]any) (*agent.Agent, error) {
	base := agent.New(uuid.New().String())
	return insertDoc(ctx, s.pool, "agents", "agent", base.ID, &base, fields)
}

func (s *Store) ListAgents(ctx context.Context) ([]agent.Agent, error) {
	return listDocs[agent.Agent](ctx, s.pool, "agents", "agent")
}

func (s *Store) GetAgent(ctx context.Context, id string) (*agent.Agent, error) {
	return getDoc[agent.Agent](ctx, s.pool, "agents", "agent", id)
}

func (s *Store) UpdateAgent(ctx context.Context, id string, fields map[string]any) (*agent.Agent, error) {
	return updateDoc[agent.Agent](ctx, s.pool, "agents", "agent", id, fields)
}

func (s *Store) DeleteAgent(ctx context.Context, id string) error {
	return deleteDoc(ctx, s.pool, "agents", "agent", id)
}

// --- Tools ---

func (s *Store) CreateTool(ctx context.Context, fields map[string]any) (*tool.Tool, error) {
	base := tool.New(uuid.New().String())
	return insertDoc(ctx, s.pool, "tools", "tool", base.ID, &base, fields)
}

func (s *Store) ListTools(ctx context.Context) ([]tool.Tool, error) {
	return listDocs[tool.Tool](ctx, s.pool, "tools", "tool")
}

func (s *Store) GetTool(ctx context.Context, id string) (*tool.Tool, error) {
	return getDoc[tool.Tool](ctx, s.pool, "tools", "tool", id)
}
