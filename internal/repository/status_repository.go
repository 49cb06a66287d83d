package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// countableTables whitelists the tables the status snapshot inspects, with the
// predicate narrowing each count.
var countableTables = map[string]string{
	"classes":          "",
	"sections":         "",
	"audit_log:errors": " WHERE action = 'error'",
}

var timestampedTables = map[string]bool{
	"classes":  true,
	"sections": true,
}

// StatusRepository runs the cheap probes behind the status snapshot.
type StatusRepository struct {
	db *sqlx.DB
}

// NewStatusRepository constructs a status repository.
func NewStatusRepository(db *sqlx.DB) *StatusRepository {
	return &StatusRepository{db: db}
}

// Ping runs a trivial read against sections and returns its latency.
func (r *StatusRepository) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, "SELECT id FROM sections LIMIT 1"); err != nil {
		return time.Since(start), fmt.Errorf("ping sections: %w", err)
	}
	return time.Since(start), nil
}

// Count returns the row count for a whitelisted key: classes, sections or
// audit_log:errors.
func (r *StatusRepository) Count(ctx context.Context, key string) (int, error) {
	where, ok := countableTables[key]
	if !ok {
		return 0, fmt.Errorf("count: unknown table %q", key)
	}
	table := key
	if key == "audit_log:errors" {
		table = "audit_log"
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM "+table+where); err != nil {
		return 0, fmt.Errorf("count %s: %w", key, err)
	}
	return total, nil
}

// LastUpdate returns the most recent updated_at (or created_at) of a table, or
// nil when the table is empty.
func (r *StatusRepository) LastUpdate(ctx context.Context, table string) (*time.Time, error) {
	if !timestampedTables[table] {
		return nil, fmt.Errorf("last update: unknown table %q", table)
	}
	var ts sql.NullTime
	query := "SELECT MAX(COALESCE(updated_at, created_at)) FROM " + table
	if err := r.db.GetContext(ctx, &ts, query); err != nil {
		return nil, fmt.Errorf("last update %s: %w", table, err)
	}
	if !ts.Valid {
		return nil, nil
	}
	t := ts.Time
	return &t, nil
}
