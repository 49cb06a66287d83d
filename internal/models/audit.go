package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// AuditAction enumerates the values stored in audit_log.action.
type AuditAction string

const (
	AuditInsert AuditAction = "insert"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditError  AuditAction = "error"
)

// SystemActor is recorded when no authenticated user is attached to an event.
const SystemActor = "system"

// Audited table names.
const (
	TableClasses  = "classes"
	TableSections = "sections"
	TableAdmins   = "admins"
	TableAuditLog = "audit_log"
)

// AuditLog is an append-only audit trail row.
type AuditLog struct {
	ID        int64              `db:"id" json:"id"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
	UserID    string             `db:"user_id" json:"user_id"`
	TableName string             `db:"table_name" json:"table_name"`
	Action    AuditAction        `db:"action" json:"action"`
	RowID     *string            `db:"row_id" json:"row_id"`
	Details   types.NullJSONText `db:"details" json:"details"`
}

// AuditFilter narrows the audit listing.
type AuditFilter struct {
	Table  string
	UserID string
	Limit  int
}

// MaxAuditLimit caps every audit listing.
const MaxAuditLimit = 200

// Normalize applies the default and maximum limit.
func (f AuditFilter) Normalize() AuditFilter {
	if f.Limit <= 0 || f.Limit > MaxAuditLimit {
		f.Limit = MaxAuditLimit
	}
	if f.Table == "all" {
		f.Table = ""
	}
	return f
}

// RecentError is a condensed view of an error audit entry.
type RecentError struct {
	ID        int64     `json:"id"`
	TableName string    `json:"table_name"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
