package repository

import (
	"context"
	"database/sql"
)

// dbtx is the statement surface shared by *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// DecisionRepo handles swipe decisions and the matches they produce.
type DecisionRepo struct {
	db dbtx
}

func NewDecisionRepo(db *sql.DB) *DecisionRepo { return &DecisionRepo{db: db} }

// Tx returns a copy of the repo scoped to the transaction, so a decision
// and the match it produces commit or roll back together.
func (r *DecisionRepo) Tx(tx *sql.Tx) *DecisionRepo { return &DecisionRepo{db: tx} }

func (r *DecisionRepo) Insert(ctx context.Context, d Decision) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO decisions(id, actor_id, target_id, direction, created_at)
	VALUES(?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(actor_id, target_id) DO UPDATE SET direction=excluded.direction;
	`, d.ID, d.ActorID, d.TargetID, d.Direction)
	return err
}

// Get returns the decision actor made about target, or nil.
func (r *DecisionRepo) Get(ctx context.Context, actorID, targetID string) (*Decision, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, actor_id, target_id, direction, created_at FROM decisions WHERE actor_id = ? AND target_id = ?`,
		actorID, targetID)
	var d Decision
	if err := row.Scan(&d.ID, &d.ActorID, &d.TargetID, &d.Direction, &d.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// Mutual reports whether both profiles have liked each other.
func (r *DecisionRepo) Mutual(ctx context.Context, a, b string) (bool, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM decisions
	WHERE direction = 'like'
	  AND ((actor_id = ? AND target_id = ?) OR (actor_id = ? AND target_id = ?))
	`, a, b, b, a)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n == 2, nil
}

func (r *DecisionRepo) AddMatch(ctx context.Context, m Match) error {
	// canonical order keeps the unique constraint symmetric
	a, b := m.ProfileA, m.ProfileB
	if b < a {
		a, b = b, a
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO matches(id, profile_a, profile_b, created_at) VALUES(?, ?, ?, CURRENT_TIMESTAMP)`,
		m.ID, a, b)
	return err
}

// MatchesFor lists matches involving the profile, newest first.
func (r *DecisionRepo) MatchesFor(ctx context.Context, profileID string) ([]Match, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, profile_a, profile_b, created_at FROM matches
	WHERE profile_a = ? OR profile_b = ?
	ORDER BY created_at DESC, id DESC
	`, profileID, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.ID, &m.ProfileA, &m.ProfileB, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// CountByDirection returns like/pass totals for the actor.
func (r *DecisionRepo) CountByDirection(ctx context.Context, actorID string) (likes, passes int, err error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decisions WHERE actor_id = ? AND direction = 'like'`, actorID)
	if err = row.Scan(&likes); err != nil {
		return
	}
	row = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM decisions WHERE actor_id = ? AND direction = 'pass'`, actorID)
	err = row.Scan(&passes)
	return
}
