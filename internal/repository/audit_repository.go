package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/class-admin/internal/models"
)

const auditColumns = "id, created_at, user_id, table_name, action, row_id, details"

// AuditRepository appends to and reads the audit trail.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs an audit repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert appends one entry.
func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	const query = `INSERT INTO audit_log (user_id, table_name, action, row_id, details)
		VALUES (:user_id, :table_name, :action, :row_id, :details)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List returns entries newest first.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	filter = filter.Normalize()

	var conditions []string
	var args []interface{}
	if filter.Table != "" {
		conditions = append(conditions, fmt.Sprintf("table_name = $%d", len(args)+1))
		args = append(args, filter.Table)
	}
	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}

	query := "SELECT " + auditColumns + " FROM audit_log"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT %d", filter.Limit)

	entries := []models.AuditLog{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}
	return entries, nil
}

// Recent returns the latest limit entries regardless of kind.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return r.List(ctx, models.AuditFilter{Limit: limit})
}
