package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/middleware"
	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/internal/validation"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/logger"
	"github.com/noah-isme/class-admin/pkg/response"
)

// currentAdmin returns the admin attached by middleware.RequireAdmin.
func currentAdmin(c *gin.Context) models.AdminUser {
	if user := middleware.AdminFromContext(c); user != nil {
		return *user
	}
	return models.AdminUser{}
}

// fail logs err, attaches it to the context for the error auditor and writes
// the error envelope.
func fail(c *gin.Context, log *zap.Logger, op string, err error) {
	appErr := appErrors.FromError(err)
	l := logger.FromContext(c, log)
	if appErr.Status >= 500 {
		l.Error(op+" failed", zap.String("error_code", appErr.Code), zap.Error(err))
	} else {
		l.Debug(op+" rejected", zap.Int("status", appErr.Status), zap.String("error", appErr.Message))
	}
	_ = c.Error(appErr)
	response.Error(c, appErr)
}

// bindJSON decodes the request body. Decoding failures are reported as
// validation issues.
func bindJSON(c *gin.Context, dest interface{}) error {
	if err := c.ShouldBindJSON(dest); err != nil {
		return appErrors.WithDetails(appErrors.ErrValidation, validation.Issues(err))
	}
	return nil
}

// pathID parses the :id route parameter as a positive integer.
func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.WithDetails(appErrors.ErrValidation, []validation.FieldIssue{{Path: "id", Message: "Id must be a positive integer"}})
	}
	return id, nil
}
