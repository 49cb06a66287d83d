package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/ratelimit"
	"github.com/noah-isme/class-admin/internal/service"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/logger"
	"github.com/noah-isme/class-admin/pkg/response"
)

// RateLimit admits requests per client IP through store. A store failure lets
// the request through; the limiter is best-effort.
func RateLimit(store ratelimit.Store, metrics *service.MetricsService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if key == "" {
			key = "0"
		}

		decision, err := store.Admit(c.Request.Context(), key)
		if err != nil {
			logger.FromContext(c, log).Warn("rate limit store unavailable", zap.Error(err))
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining()))
		h.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

		if !decision.Allowed {
			retry := int(time.Until(decision.ResetAt).Seconds()) + 1
			if retry < 1 {
				retry = 1
			}
			h.Set("Retry-After", strconv.Itoa(retry))
			metrics.RecordRejection(reasonRateLimit)
			response.Abort(c, appErrors.ErrRateLimited)
			return
		}
		c.Next()
	}
}
