package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/internal/validation"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/export"
	"github.com/noah-isme/class-admin/pkg/response"
)

type auditService interface {
	List(ctx context.Context, filter models.AuditFilter) ([]models.AuditLog, error)
	Export(ctx context.Context, filter models.AuditFilter, format export.Format) ([]byte, error)
}

// AuditHandler serves the admin-only audit trail.
type AuditHandler struct {
	service auditService
	logger  *zap.Logger
	now     func() time.Time
}

// NewAuditHandler constructs an audit handler.
func NewAuditHandler(svc auditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{service: svc, logger: logger, now: time.Now}
}

// List godoc
// @Summary List audit entries
// @Tags Audit
// @Produce json
// @Param table query string false "Table name or all"
// @Param user_id query string false "Actor id"
// @Param limit query int false "Max rows (default and cap 200)"
// @Success 200 {array} models.AuditLog
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	entries, err := h.service.List(c.Request.Context(), auditFilterFromQuery(c))
	if err != nil {
		fail(c, h.logger, "list audit", err)
		return
	}
	if entries == nil {
		entries = []models.AuditLog{}
	}
	response.JSON(c, http.StatusOK, entries)
}

// Export godoc
// @Summary Export audit entries
// @Tags Audit
// @Produce text/csv
// @Produce application/pdf
// @Param table query string false "Table name or all"
// @Param user_id query string false "Actor id"
// @Param limit query int false "Max rows (default and cap 200)"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Router /audit/export [get]
func (h *AuditHandler) Export(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		fail(c, h.logger, "export audit", appErrors.WithDetails(appErrors.ErrValidation,
			[]validation.FieldIssue{{Path: "format", Message: "Format must be csv or pdf"}}))
		return
	}
	body, err := h.service.Export(c.Request.Context(), auditFilterFromQuery(c), format)
	if err != nil {
		fail(c, h.logger, "export audit", err)
		return
	}

	filename := fmt.Sprintf("audit-log-%s.%s", h.now().UTC().Format("20060102-150405"), format)
	c.Header("Cache-Control", "no-store")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), body)
}

func auditFilterFromQuery(c *gin.Context) models.AuditFilter {
	filter := models.AuditFilter{
		Table:  strings.TrimSpace(c.Query("table")),
		UserID: strings.TrimSpace(c.Query("user_id")),
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	return filter.Normalize()
}
