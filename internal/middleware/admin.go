package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-admin/internal/auth"
	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/internal/service"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
	"github.com/noah-isme/class-admin/pkg/response"
)

// Gin context keys set by the admission middleware.
const (
	ContextAdminKey    = "currentAdmin"
	ContextIdentityKey = "currentIdentity"
)

// AdminAuthorizer resolves credentials to an admin user.
type AdminAuthorizer interface {
	RequireAdmin(ctx context.Context, creds auth.Credentials) (*models.AdminUser, error)
}

// Identifier resolves credentials to the signed-in user.
type Identifier interface {
	Identify(ctx context.Context, creds auth.Credentials) (*models.Identity, error)
}

// Authorizer covers both session and admin checks.
type Authorizer interface {
	AdminAuthorizer
	Identifier
}

// RequireSession aborts with 401 unless the caller holds a valid session.
// Admin membership is not consulted.
func RequireSession(identifier Identifier, codec *auth.CookieCodec, metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := identifier.Identify(c.Request.Context(), auth.FromRequest(c.Request, codec))
		if err != nil {
			metrics.RecordRejection(reasonUnauthorized)
			response.Abort(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
			return
		}
		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// RequireAdmin aborts with 401 for anonymous callers and 403 for callers who
// are not in the admins table.
func RequireAdmin(authz AdminAuthorizer, codec *auth.CookieCodec, metrics *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := auth.FromRequest(c.Request, codec)
		user, err := authz.RequireAdmin(c.Request.Context(), creds)
		if err != nil {
			if errors.Is(err, appErrors.ErrUnauthorized) {
				metrics.RecordRejection(reasonUnauthorized)
			} else {
				metrics.RecordRejection(reasonForbidden)
			}
			response.Abort(c, err)
			return
		}
		c.Set(ContextAdminKey, user)
		c.Next()
	}
}

// AdminFromContext returns the admin stored by RequireAdmin, or nil.
func AdminFromContext(c *gin.Context) *models.AdminUser {
	value, exists := c.Get(ContextAdminKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.AdminUser)
	if !ok {
		return nil
	}
	return user
}
