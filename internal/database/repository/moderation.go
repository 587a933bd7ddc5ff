package repository

import (
	"context"
	"database/sql"
)

// ModerationRepo handles blocks and reports.
type ModerationRepo struct {
	db *sql.DB
}

func NewModerationRepo(db *sql.DB) *ModerationRepo { return &ModerationRepo{db: db} }

func (r *ModerationRepo) AddBlock(ctx context.Context, b Block) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO blocks(id, blocker_id, blocked_id, created_at) VALUES(?, ?, ?, CURRENT_TIMESTAMP)`,
		b.ID, b.BlockerID, b.BlockedID)
	return err
}

func (r *ModerationRepo) IsBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM blocks WHERE blocker_id = ? AND blocked_id = ?`, blockerID, blockedID)
	var n int
	if err := row.Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ModerationRepo) AddReport(ctx context.Context, rep Report) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO reports(id, reporter_id, profile_id, reason, detail, created_at)
	VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, rep.ID, rep.ReporterID, rep.ProfileID, rep.Reason, rep.Detail)
	return err
}

func (r *ModerationRepo) ReportsFor(ctx context.Context, profileID string) ([]Report, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, reporter_id, profile_id, reason, detail, created_at FROM reports
	WHERE profile_id = ? ORDER BY created_at DESC
	`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Report
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ID, &rep.ReporterID, &rep.ProfileID, &rep.Reason, &rep.Detail, &rep.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}
