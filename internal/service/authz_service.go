package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/auth"
	"github.com/noah-isme/class-admin/internal/models"
	appErrors "github.com/noah-isme/class-admin/pkg/errors"
)

type adminRepository interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
	Grant(ctx context.Context, userID string) error
	Ping(ctx context.Context) error
}

// AuthzConfig tunes admin resolution.
type AuthzConfig struct {
	// AdminEmails only feeds the informational admin flag of the status
	// snapshot; membership in the admins table is what RequireAdmin checks.
	AdminEmails []string
	// DevAllowAll treats every authenticated caller as admin outside
	// production.
	DevAllowAll bool
	Production  bool
}

// AuthzService authenticates callers and checks admin membership. Every call
// re-verifies; nothing is cached between requests.
type AuthzService struct {
	resolver auth.Resolver
	admins   adminRepository
	audit    AuditRecorder
	cfg      AuthzConfig
	logger   *zap.Logger
}

// NewAuthzService constructs an AuthzService.
func NewAuthzService(resolver auth.Resolver, admins adminRepository, audit AuditRecorder, cfg AuthzConfig, logger *zap.Logger) *AuthzService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthzService{resolver: resolver, admins: admins, audit: audit, cfg: cfg, logger: logger}
}

// Identify resolves the caller. Missing or rejected credentials yield
// ErrUnauthorized.
func (s *AuthzService) Identify(ctx context.Context, creds auth.Credentials) (*models.Identity, error) {
	if creds.Empty() {
		return nil, appErrors.ErrUnauthorized
	}
	identity, err := s.resolver.Resolve(ctx, creds.AccessToken)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidSession) {
			s.logger.Warn("identity resolution failed", zap.Error(err))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, appErrors.ErrUnauthorized.Message)
	}
	return identity, nil
}

// RequireAdmin authenticates the caller and then checks the admins table.
// Unauthenticated callers get ErrUnauthorized, authenticated non-admins get
// ErrForbidden. A failed membership lookup is also ErrForbidden.
func (s *AuthzService) RequireAdmin(ctx context.Context, creds auth.Credentials) (*models.AdminUser, error) {
	identity, err := s.Identify(ctx, creds)
	if err != nil {
		return nil, err
	}
	user := &models.AdminUser{ID: identity.ID, Email: identity.Email}

	if s.cfg.DevAllowAll && !s.cfg.Production {
		return user, nil
	}

	ok, err := s.admins.IsAdmin(ctx, identity.ID)
	if err != nil {
		s.logger.Warn("admin lookup failed", zap.String("user_id", identity.ID), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, appErrors.ErrForbidden.Message)
	}
	if !ok {
		return nil, appErrors.ErrForbidden
	}
	return user, nil
}

// LooksAdmin is the lenient admin flag shown by the status snapshot: metadata
// roles, the configured email allow-list, or a membership row.
func (s *AuthzService) LooksAdmin(ctx context.Context, identity *models.Identity) bool {
	if identity == nil {
		return false
	}
	if metadataSaysAdmin(identity.AppMetadata) || metadataSaysAdmin(identity.UserMetadata) {
		return true
	}
	if identity.Email != "" {
		email := strings.ToLower(identity.Email)
		for _, allowed := range s.cfg.AdminEmails {
			if allowed == email {
				return true
			}
		}
	}
	ok, err := s.admins.IsAdmin(ctx, identity.ID)
	return err == nil && ok
}

// PingAdmins reports whether the admins table is reachable.
func (s *AuthzService) PingAdmins(ctx context.Context) bool {
	return s.admins.Ping(ctx) == nil
}

// GrantSelf adds the authenticated caller to the admins table. It is refused
// in production.
func (s *AuthzService) GrantSelf(ctx context.Context, creds auth.Credentials) (*models.AdminUser, error) {
	if s.cfg.Production {
		return nil, appErrors.ErrForbidden
	}
	identity, err := s.Identify(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := s.admins.Grant(ctx, identity.ID); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "Failed to grant admin")
	}
	s.audit.Record(ctx, identity.ID, models.TableAdmins, models.AuditInsert, identity.ID, map[string]interface{}{"reason": "bootstrap-or-upsert"})
	return &models.AdminUser{ID: identity.ID, Email: identity.Email}, nil
}

func metadataSaysAdmin(meta map[string]interface{}) bool {
	if len(meta) == 0 {
		return false
	}
	if role, ok := meta["role"].(string); ok && strings.EqualFold(role, "admin") {
		return true
	}
	switch roles := meta["roles"].(type) {
	case []interface{}:
		for _, r := range roles {
			if s, ok := r.(string); ok && strings.EqualFold(strings.TrimSpace(s), "admin") {
				return true
			}
		}
	case string:
		for _, r := range strings.Split(roles, ",") {
			if strings.EqualFold(strings.TrimSpace(r), "admin") {
				return true
			}
		}
	}
	return truthy(meta["is_admin"]) || truthy(meta["admin"])
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return strings.EqualFold(t, "true")
	}
	return false
}
