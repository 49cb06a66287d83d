package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-admin/internal/service"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/response"
)

// Rejection reasons reported to metrics.
const (
	reasonOrigin       = "origin"
	reasonRateLimit    = "rate_limit"
	reasonUnauthorized = "unauthorized"
	reasonForbidden    = "forbidden"
)

// Origin rejects state-changing requests whose Origin or Referer host is not
// the request host or one of the configured site hosts.
func Origin(siteURLs []string, metrics *service.MetricsService) gin.HandlerFunc {
	configured := make(map[string]struct{}, len(siteURLs))
	for _, raw := range siteURLs {
		if host := hostOf(raw); host != "" {
			configured[host] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		if SameOrigin(c.Request, configured) {
			c.Next()
			return
		}
		metrics.RecordRejection(reasonOrigin)
		response.Abort(c, appErrors.ErrBadOrigin)
	}
}

// SameOrigin checks Origin first, then Referer, against the request host plus
// the allowed hosts. Unparsable headers never match.
func SameOrigin(r *http.Request, allowed map[string]struct{}) bool {
	reqHost := strings.ToLower(r.Host)
	match := func(header string) bool {
		host := hostOf(r.Header.Get(header))
		if host == "" {
			return false
		}
		if host == reqHost {
			return true
		}
		_, ok := allowed[host]
		return ok
	}
	return match("Origin") || match("Referer")
}

func hostOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Host)
}
