package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-admin/internal/service"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/middleware/requestid"
)

// AuditErrors records an "error" audit entry for every request under table
// that finished with a server error. Handlers attach the cause with c.Error.
func AuditErrors(recorder service.AuditRecorder, table string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if recorder == nil || c.Writer.Status() < 500 {
			return
		}

		message := appErrors.ErrInternal.Message
		if last := c.Errors.Last(); last != nil {
			message = appErrors.FromError(last.Err).Message
		}

		userID := ""
		if user := AdminFromContext(c); user != nil {
			userID = user.ID
		}

		recorder.RecordError(c.Request.Context(), userID, table, message, map[string]interface{}{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"request_id": requestid.Value(c),
		})
	}
}
