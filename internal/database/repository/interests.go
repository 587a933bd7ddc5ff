package repository

import (
	"context"
	"database/sql"
)

// InterestRepo handles the interest taxonomy.
type InterestRepo struct {
	db *sql.DB
}

func NewInterestRepo(db *sql.DB) *InterestRepo { return &InterestRepo{db: db} }

func (r *InterestRepo) Upsert(ctx context.Context, i Interest) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO interests(id, name) VALUES (?, ?)
	ON CONFLICT(id) DO UPDATE SET name=excluded.name;
	`, i.ID, i.Name)
	return err
}

func (r *InterestRepo) ByName(ctx context.Context, name string) (*Interest, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM interests WHERE name = ?`, name)
	var i Interest
	if err := row.Scan(&i.ID, &i.Name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}

func (r *InterestRepo) List(ctx context.Context) ([]Interest, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM interests ORDER BY name`)
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
