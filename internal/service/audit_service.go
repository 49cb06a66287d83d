package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/models"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/export"
)

const auditWriteTimeout = 3 * time.Second

type auditRepository interface {
	Insert(ctx context.Context, entry *models.AuditLog) error
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
}

// AuditRecorder is the write side of the audit trail. Implementations never
// fail the caller.
type AuditRecorder interface {
	Record(ctx context.Context, userID, table string, action models.AuditAction, rowID string, details interface{})
	RecordError(ctx context.Context, userID, table, message string, details map[string]interface{})
}

// AuditService appends to and reads the audit trail.
type AuditService struct {
	repo    auditRepository
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuditService constructs an AuditService.
func NewAuditService(repo auditRepository, metrics *MetricsService, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, metrics: metrics, logger: logger, now: time.Now}
}

// Record appends a business event. Failures are logged and swallowed; the
// write outlives a cancelled request context.
func (s *AuditService) Record(ctx context.Context, userID, table string, action models.AuditAction, rowID string, details interface{}) {
	entry := &models.AuditLog{
		UserID:    actorOrSystem(userID),
		TableName: table,
		Action:    action,
	}
	if rowID != "" {
		entry.RowID = &rowID
	}
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			s.logger.Warn("audit details not serialisable", zap.String("table", table), zap.Error(err))
		} else {
			entry.Details = types.NullJSONText{JSONText: raw, Valid: true}
		}
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	err := s.repo.Insert(writeCtx, entry)
	s.metrics.RecordAuditWrite(string(action), err == nil)
	if err != nil {
		s.logger.Error("audit insert failed",
			zap.String("table", table),
			zap.String("action", string(action)),
			zap.String("user_id", entry.UserID),
			zap.Error(err),
		)
	}
}

// RecordError appends an error entry. Its details are {"message": message}
// extended with the extra fields, which win on key clashes.
func (s *AuditService) RecordError(ctx context.Context, userID, table, message string, details map[string]interface{}) {
	merged := make(map[string]interface{}, len(details)+1)
	merged["message"] = message
	for k, v := range details {
		merged[k] = v
	}
	s.Record(ctx, userID, table, models.AuditError, "", merged)
}

// List returns entries newest first, at most MaxAuditLimit.
func (s *AuditService) List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error) {
	entries, err := s.repo.List(ctx, filter.Normalize())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to load audit log")
	}
	return entries, nil
}

// Export renders the filtered audit log in the requested format.
func (s *AuditService) Export(ctx context.Context, filter models.AuditFilter, format export.Format) ([]byte, error) {
	entries, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	table := AuditTable(entries)
	var out []byte
	switch format {
	case export.FormatPDF:
		out, err = export.RenderPDF(table, s.now())
	default:
		out, err = export.RenderCSV(table)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to render export")
	}
	return out, nil
}

// AuditTable flattens entries into an export table.
func AuditTable(entries []models.AuditLog) export.Table {
	table := export.Table{
		Title: "Audit log",
		Columns: []export.Column{
			{Title: "id", Weight: 0.6},
			{Title: "created_at", Weight: 1.8},
			{Title: "user_id", Weight: 2.4},
			{Title: "table_name", Weight: 1},
			{Title: "action", Weight: 0.8},
			{Title: "row_id", Weight: 0.8},
			{Title: "details", Weight: 4},
		},
		Rows: make([][]string, 0, len(entries)),
	}
	for _, e := range entries {
		rowID := ""
		if e.RowID != nil {
			rowID = *e.RowID
		}
		details := ""
		if e.Details.Valid {
			details = string(e.Details.JSONText)
		}
		table.Rows = append(table.Rows, []string{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.UserID,
			e.TableName,
			string(e.Action),
			rowID,
			details,
		})
	}
	return table
}

// RecentErrors condenses entries whose details carry a message or error
// field, preserving order and keeping at most limit.
func RecentErrors(entries []models.AuditLog, limit int) []models.RecentError {
	out := []models.RecentError{}
	for _, e := range entries {
		if len(out) >= limit {
			break
		}
		if !e.Details.Valid {
			continue
		}
		var details map[string]interface{}
		if err := json.Unmarshal(e.Details.JSONText, &details); err != nil {
			continue
		}
		msg := firstString(details, "message", "error")
		if msg == "" {
			continue
		}
		out = append(out, models.RecentError{ID: e.ID, TableName: e.TableName, Message: msg, CreatedAt: e.CreatedAt})
	}
	return out
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprint(v)
		}
	}
	return ""
}

func actorOrSystem(userID string) string {
	if userID == "" {
		return models.SystemActor
	}
	return userID
}
