package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/auth"
	"github.com/noah-isme/class-admin/internal/models"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/response"
)

type adminGranter interface {
	GrantSelf(ctx context.Context, creds auth.Credentials) (*models.AdminUser, error)
}

// SessionHandler manages the browser session cookies and admin bootstrap.
type SessionHandler struct {
	admins  adminGranter
	codec   *auth.CookieCodec
	siteURL string
	logger  *zap.Logger
}

// NewSessionHandler constructs a session handler. siteURL is where logout
// redirects to.
func NewSessionHandler(admins adminGranter, codec *auth.CookieCodec, siteURL string, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{admins: admins, codec: codec, siteURL: siteURL, logger: logger}
}

// Callback godoc
// @Summary Sync session cookies with the auth client
// @Tags Session
// @Accept json
// @Produce json
// @Param payload body models.SessionSyncRequest true "Auth event"
// @Success 200 {object} response.OK
// @Failure 400 {object} response.ErrorBody
// @Router /auth/callback [post]
func (h *SessionHandler) Callback(c *gin.Context) {
	var req models.SessionSyncRequest
	if err := bindJSON(c, &req); err != nil {
		fail(c, h.logger, "session callback", err)
		return
	}

	switch req.Event {
	case models.AuthEventSignedIn, models.AuthEventTokenRefreshed:
		var session models.Session
		if req.Session != nil {
			session = *req.Session
		}
		if session.AccessToken == "" {
			h.codec.ClearSession(c.Writer)
			break
		}
		if err := h.codec.SetSession(c.Writer, session.AccessToken, session.RefreshToken); err != nil {
			fail(c, h.logger, "session callback", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Failed to set session"))
			return
		}
	case models.AuthEventSignedOut:
		h.codec.ClearSession(c.Writer)
	}
	response.Ack(c)
}

// Logout godoc
// @Summary Clear the session and redirect to the login page
// @Tags Session
// @Success 302
// @Router /logout [post]
func (h *SessionHandler) Logout(c *gin.Context) {
	h.codec.ClearSession(c.Writer)
	c.Header("Cache-Control", "no-store")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Referrer-Policy", "same-origin")
	c.Redirect(http.StatusFound, h.siteURL+"/login")
}

// GrantSelfResponse acknowledges a development admin bootstrap.
type GrantSelfResponse struct {
	OK        bool `json:"ok"`
	Bootstrap bool `json:"bootstrap"`
}

// GrantSelf godoc
// @Summary Add the caller to the admins table (non-production only)
// @Tags Session
// @Produce json
// @Success 200 {object} GrantSelfResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /admins/grant-self [post]
func (h *SessionHandler) GrantSelf(c *gin.Context) {
	if _, err := h.admins.GrantSelf(c.Request.Context(), auth.FromRequest(c.Request, h.codec)); err != nil {
		fail(c, h.logger, "grant self", err)
		return
	}
	response.JSON(c, http.StatusOK, GrantSelfResponse{OK: true, Bootstrap: true})
}
