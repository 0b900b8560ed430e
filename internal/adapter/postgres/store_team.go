package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agentdeskhq/agentdesk/internal/domain"
	"github.com/agentdeskhq/agentdesk/internal/domain/team"
)

func (s *Store) CreateTeam(ctx context.Context, fields map[string]any) (*team.Team, error) {
	base := team.New(uuid.New().String(), time.Now().UTC())
	return insertDoc(ctx, s.pool, "teams", "team", base.ID, &base, fields)
}

func (s *Store) ListTeams(ctx context.Context) ([]team.Team, error) {
	return listDocs[team.Team](ctx, s.pool, "teams", "team")
}

func (s *Store) GetTeam(ctx context.Context, id string) (*team.Team, error) {
	return getDoc[team.Team](ctx, s.pool, "teams", "team", id)
}

// UpdateTeam shallow-merges the patch and always refreshes updatedAt,
// even when the patch is empty or tries to set its own value.
func (s *Store) UpdateTeam(ctx context.Context, id string, fields map[string]any) (*team.Team, error) {
	patch, err := marshalPatch(fields)
	if err != nil {
		return nil, fmt.Errorf("update team %s: %w", id, err)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)

	var doc []byte
	err = s.pool.QueryRow(ctx,
		`UPDATE teams
		 SET doc = jsonb_set(doc || $2::jsonb, '{updatedAt}', to_jsonb($3::text), true)
		 WHERE id = $1
		 RETURNING doc`,
		id, patch, now).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update team %s: %w", id, err)
	}

	t := new(team.Team)
	if err := json.Unmarshal(doc, t); err != nil {
		return nil, fmt.Errorf("update team %s: %w: %v", id, domain.ErrInvalid, err)
	}
	return t, nil
}

func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	return deleteDoc(ctx, s.pool, "teams", "team", id)
}

// AddTeamMember appends a member to the team document inside a
// row-locked transaction.
func (s *Store) AddTeamMember(ctx context.Context, teamID string, fields map[string]any) (*team.Member, error) {
	base := team.Member{}
	merged, err := domain.Merge(&base, fields)
	if err != nil {
		return nil, fmt.Errorf("add member to team %s: %w", teamID, err)
	}
	merged.JoinedAt = time.Now().UTC()

	err = s.withTeamDoc(ctx, teamID, func(t *team.Team) error {
		t.Members = append(t.Members, *merged)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// RemoveTeamMember removes the first member matching the agent ID.
func (s *Store) RemoveTeamMember(ctx context.Context, teamID, agentID string) error {
	return s.withTeamDoc(ctx, teamID, func(t *team.Team) error {
		for i := range t.Members {
			if t.Members[i].AgentID == agentID {
				t.Members = append(t.Members[:i], t.Members[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("team %s agent %s: %w", teamID, agentID, team.ErrMemberNotFound)
	})
}

// withTeamDoc loads the team document under FOR UPDATE, applies fn and
// writes the document back in the same transaction.
func (s *Store) withTeamDoc(ctx context.Context, teamID string, fn func(*team.Team) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("team %s: begin: %w", teamID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var doc []byte
	err = tx.QueryRow(ctx, `SELECT doc FROM teams WHERE id = $1 FOR UPDATE`, teamID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("team %s: %w", teamID, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("team %s: %w", teamID, err)
	}

	var t team.Team
	if err := json.Unmarshal(doc, &t); err != nil {
		return fmt.Errorf("team %s: decode doc: %w", teamID, err)
	}

	if err := fn(&t); err != nil {
		return err
	}

	updated, err := json.Marshal(&t)
	if err != nil {
		return fmt.Errorf("team %s: marshal doc: %w", teamID, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE teams SET doc = $2 WHERE id = $1`, teamID, updated); err != nil {
		return fmt.Errorf("team %s: %w", teamID, err)
	}

	return tx.Commit(ctx)
}
