package repository

import (
	"context"
	"database/sql"
)

// PreferenceRepo handles per-profile dating preferences.
type PreferenceRepo struct {
	db *sql.DB
}

func NewPreferenceRepo(db *sql.DB) *PreferenceRepo { return &PreferenceRepo{db: db} }

func (r *PreferenceRepo) Upsert(ctx context.Context, p Preference) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO preferences(profile_id, min_age, max_age, verified_only, interest_id, updated_at)
	VALUES(?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(profile_id) DO UPDATE SET
	 min_age=excluded.min_age, max_age=excluded.max_age,
	 verified_only=excluded.verified_only, interest_id=excluded.interest_id,
	 updated_at=CURRENT_TIMESTAMP;
	`, p.ProfileID, p.MinAge, p.MaxAge, p.VerifiedOnly, p.InterestID)
	return err
}

// Get returns the stored preferences or the open defaults when none exist.
func (r *PreferenceRepo) Get(ctx context.Context, profileID string) (Preference, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT profile_id, min_age, max_age, verified_only, interest_id, updated_at FROM preferences WHERE profile_id = ?`,
		profileID)
	var p Preference
	var interest sql.NullString
	if err := row.Scan(&p.ProfileID, &p.MinAge, &p.MaxAge, &p.VerifiedOnly, &interest, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return Preference{ProfileID: profileID, MinAge: 18, MaxAge: 99}, nil
		}
		return Preference{}, err
	}
	if interest.Valid {
		p.InterestID = &interest.String
	}
	return p, nil
}
