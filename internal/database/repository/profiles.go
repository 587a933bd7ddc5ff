package repository

import (
	"context"
	"database/sql"
	"strings"
)

// ProfileFilters defines list filters for candidate queries.
type ProfileFilters struct {
	MinAge       int
	MaxAge       int
	VerifiedOnly bool
	InterestID   string
	ExcludeID    string // never list this profile (the local user)
	Search       string
}

// ProfileRepo handles profiles.
type ProfileRepo struct {
	db *sql.DB
}

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Upsert(ctx context.Context, p Profile) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO profiles(id, name, age, city, bio, verified, face_template, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name, age=excluded.age, city=excluded.city, bio=excluded.bio,
	 verified=excluded.verified, face_template=excluded.face_template, updated_at=CURRENT_TIMESTAMP;
	`, p.ID, p.Name, p.Age, p.City, p.Bio, p.Verified, p.FaceTemplate)
	return err
}

func (r *ProfileRepo) SetVerified(ctx context.Context, id string, verified bool, template *string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET verified = ?, face_template = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`,
		verified, template, id)
	return err
}

func (r *ProfileRepo) AttachInterest(ctx context.Context, profileID, interestID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO profile_interests(profile_id, interest_id) VALUES(?, ?)`,
		profileID, interestID)
	return err
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, age, city, bio, verified, face_template, created_at, updated_at FROM profiles WHERE id = ?`, id)
	p, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	interests, err := r.fetchInterests(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Interests = interests
	return &p, nil
}

// Candidates lists profiles eligible for the deck: everyone except the
// excluded profile, blocked profiles, and profiles the actor has already
// decided on, filtered by the supplied preferences. Oldest profiles first
// so the deck order is stable across reloads.
func (r *ProfileRepo) Candidates(ctx context.Context, f ProfileFilters) ([]Profile, error) {
	var where []string
	var args []interface{}

	if f.ExcludeID != "" {
		where = append(where, "p.id != ?")
		args = append(args, f.ExcludeID)
		where = append(where, "p.id NOT IN (SELECT blocked_id FROM blocks WHERE blocker_id = ?)")
		args = append(args, f.ExcludeID)
		where = append(where, "p.id NOT IN (SELECT target_id FROM decisions WHERE actor_id = ?)")
		args = append(args, f.ExcludeID)
	}
	if f.MinAge > 0 {
		where = append(where, "p.age >= ?")
		args = append(args, f.MinAge)
	}
	if f.MaxAge > 0 {
		where = append(where, "p.age <= ?")
		args = append(args, f.MaxAge)
	}
	if f.VerifiedOnly {
		where = append(where, "p.verified = 1")
	}
	if f.InterestID != "" {
		where = append(where, "p.id IN (SELECT profile_id FROM profile_interests WHERE interest_id = ?)")
		args = append(args, f.InterestID)
	}
	if f.Search != "" {
		where = append(where, "(p.name LIKE ? OR p.bio LIKE ?)")
		args = append(args, "%"+f.Search+"%", "%"+f.Search+"%")
	}

	query := `SELECT p.id, p.name, p.age, p.city, p.bio, p.verified, p.face_template, p.created_at, p.updated_at FROM profiles p`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.created_at ASC, p.id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		interests, err := r.fetchInterests(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Interests = interests
	}
	return out, nil
}

func (r *ProfileRepo) fetchInterests(ctx context.Context, profileID string) ([]Interest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.name FROM interests i JOIN profile_interests pi ON pi.interest_id = i.id WHERE pi.profile_id = ? ORDER BY i.name`,
		profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Interest
	for rows.Next() {
		var i Interest
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// scanProfile handles nullable fields for both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row scanner) (Profile, error) {
	var p Profile
	var template sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.Age, &p.City, &p.Bio, &p.Verified,
		&template, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Profile{}, err
	}
	if template.Valid {
		p.FaceTemplate = &template.String
	}
	return p, nil
}
