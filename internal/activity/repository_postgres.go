package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	createActivityTable = `
		CREATE TABLE IF NOT EXISTS admin_activity (
			id UUID PRIMARY KEY,
			actor TEXT NOT NULL,
			resource TEXT NOT NULL,
			action TEXT NOT NULL,
			entity_id BIGINT NOT NULL DEFAULT 0,
			detail TEXT NOT NULL DEFAULT '',
			at TIMESTAMPTZ NOT NULL
		)
	`
	createActivityIndex = `CREATE INDEX IF NOT EXISTS admin_activity_at_idx ON admin_activity (at DESC)`
	insertActivityQuery = `
		INSERT INTO admin_activity (id, actor, resource, action, entity_id, detail, at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	recentActivityQuery = `
		SELECT id, actor, resource, action, entity_id, detail, at
		FROM admin_activity
		WHERE cardinality($1::text[]) = 0 OR resource = ANY($1)
		ORDER BY at DESC
		LIMIT $2
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the activity table when it is missing.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createActivityTable); err != nil {
		return fmt.Errorf("create admin_activity: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createActivityIndex); err != nil {
		return fmt.Errorf("index admin_activity: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Insert(ctx context.Context, e Entry) error {
	_, err := r.db.ExecContext(ctx, insertActivityQuery, e.ID, e.Actor, e.Resource, e.Action, e.EntityID, e.Detail, e.At)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Recent(ctx context.Context, limit int, resources []string) ([]Entry, error) {
	if resources == nil {
		resources = []string{}
	}
	rows, err := r.db.QueryContext(ctx, recentActivityQuery, pq.Array(resources), limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Actor, &e.Resource, &e.Action, &e.EntityID, &e.Detail, &e.At); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
