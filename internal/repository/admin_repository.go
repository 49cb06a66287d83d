package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// AdminRepository reads and writes the admins membership table through the
// privileged connection.
type AdminRepository struct {
	db *sqlx.DB
}

// NewAdminRepository constructs an admin repository.
func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// IsAdmin reports whether userID has a membership row.
func (r *AdminRepository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var found string
	err := r.db.GetContext(ctx, &found, "SELECT user_id FROM admins WHERE user_id = $1 LIMIT 1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	return true, nil
}

// Grant upserts a membership row.
func (r *AdminRepository) Grant(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, "INSERT INTO admins (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING", userID); err != nil {
		return fmt.Errorf("grant admin: %w", err)
	}
	return nil
}

// Ping checks the admins table is reachable.
func (r *AdminRepository) Ping(ctx context.Context) error {
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, "SELECT user_id FROM admins LIMIT 1"); err != nil {
		return fmt.Errorf("ping admins: %w", err)
	}
	return nil
}
