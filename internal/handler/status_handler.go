package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/auth"
	"github.com/noah-isme/class-admin/internal/models"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/response"
)

type statusService interface {
	Snapshot(ctx context.Context, creds auth.Credentials) *models.StatusSnapshot
}

type identifier interface {
	Identify(ctx context.Context, creds auth.Credentials) (*models.Identity, error)
}

// StatusHandler serves the dashboard status and caller introspection
// endpoints.
type StatusHandler struct {
	status statusService
	authz  identifier
	codec  *auth.CookieCodec
	logger *zap.Logger
}

// NewStatusHandler constructs a status handler.
func NewStatusHandler(status statusService, authz identifier, codec *auth.CookieCodec, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{status: status, authz: authz, codec: codec, logger: logger}
}

// Status godoc
// @Summary Dashboard health snapshot
// @Tags Status
// @Produce json
// @Success 200 {object} models.StatusSnapshot
// @Failure 401 {object} response.ErrorBody
// @Router /status [get]
func (h *StatusHandler) Status(c *gin.Context) {
	creds := auth.FromRequest(c.Request, h.codec)
	response.JSON(c, http.StatusOK, h.status.Snapshot(c.Request.Context(), creds))
}

// WhoAmIResponse wraps the resolved identity; User is null for anonymous
// callers.
type WhoAmIResponse struct {
	User *models.Identity `json:"user"`
}

// WhoAmI godoc
// @Summary Resolve the caller
// @Tags Status
// @Produce json
// @Success 200 {object} WhoAmIResponse
// @Router /whoami [get]
func (h *StatusHandler) WhoAmI(c *gin.Context) {
	identity, err := h.authz.Identify(c.Request.Context(), auth.FromRequest(c.Request, h.codec))
	if err != nil && !errors.Is(err, appErrors.ErrUnauthorized) {
		fail(c, h.logger, "whoami", err)
		return
	}
	response.JSON(c, http.StatusOK, WhoAmIResponse{User: identity})
}

// EdgeInfo godoc
// @Summary Client address and location from proxy headers
// @Tags Status
// @Produce json
// @Success 200 {object} models.EdgeInfo
// @Router /edge-info [get]
func (h *StatusHandler) EdgeInfo(c *gin.Context) {
	response.JSON(c, http.StatusOK, edgeInfo(c.Request.Header))
}

func edgeInfo(hdr http.Header) models.EdgeInfo {
	ip := hdr.Get("X-Real-IP")
	if ip == "" {
		if fwd := hdr.Get("X-Forwarded-For"); fwd != "" {
			ip = strings.TrimSpace(strings.SplitN(fwd, ",", 2)[0])
		}
	}
	if ip == "" {
		ip = hdr.Get("X-Vercel-Forwarded-For")
	}
	if ip == "" {
		ip = "unknown"
	}

	info := models.EdgeInfo{
		IP:          ip,
		City:        hdr.Get("X-Vercel-IP-City"),
		Region:      hdr.Get("X-Vercel-IP-Country-Region"),
		CountryCode: hdr.Get("X-Vercel-IP-Country"),
		Lat:         hdr.Get("X-Vercel-IP-Latitude"),
		Lon:         hdr.Get("X-Vercel-IP-Longitude"),
		Secure:      strings.EqualFold(hdr.Get("X-Forwarded-Proto"), "https"),
	}

	parts := make([]string, 0, 3)
	for _, p := range []string{info.City, info.Region, info.CountryCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	info.Location = strings.Join(parts, ", ")
	if info.Location == "" {
		info.Location = "Unknown"
	}
	return info
}
