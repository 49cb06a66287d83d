package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/auth"
	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/pkg/config"
)

const (
	recentAuditWindow = 20
	recentErrorLimit  = 5
)

type statusRepository interface {
	Ping(ctx context.Context) (time.Duration, error)
	Count(ctx context.Context, key string) (int, error)
	LastUpdate(ctx context.Context, table string) (*time.Time, error)
}

type recentAuditReader interface {
	Recent(ctx context.Context, limit int) ([]models.AuditLog, error)
}

type statusAuthz interface {
	Identify(ctx context.Context, creds auth.Credentials) (*models.Identity, error)
	LooksAdmin(ctx context.Context, identity *models.Identity) bool
	PingAdmins(ctx context.Context) bool
}

// StatusService assembles the dashboard health snapshot. Every probe degrades
// to a zero value on failure; only the snapshot as a whole can fail.
type StatusService struct {
	repo    statusRepository
	audit   recentAuditReader
	authz   statusAuthz
	cfg     *config.Config
	metrics *MetricsService
	logger  *zap.Logger
	now     func() time.Time
}

// NewStatusService constructs a StatusService.
func NewStatusService(repo statusRepository, audit recentAuditReader, authz statusAuthz, cfg *config.Config, metrics *MetricsService, logger *zap.Logger) *StatusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatusService{repo: repo, audit: audit, authz: authz, cfg: cfg, metrics: metrics, logger: logger, now: time.Now}
}

// Snapshot probes the database, the caller's identity and the audit trail.
func (s *StatusService) Snapshot(ctx context.Context, creds auth.Credentials) *models.StatusSnapshot {
	snap := &models.StatusSnapshot{
		RecentErrors: []models.RecentError{},
		GeneratedAt:  s.now().UTC(),
	}

	latency, err := s.repo.Ping(ctx)
	snap.DB = models.DBStatus{OK: err == nil, LatencyMs: latency.Milliseconds()}
	s.metrics.ObserveDBProbe(latency)
	if err != nil {
		s.logger.Warn("status db probe failed", zap.Error(err))
	}

	snap.Auth.OK = s.authz.PingAdmins(ctx)
	if !creds.Empty() {
		if identity, err := s.authz.Identify(ctx, creds); err == nil {
			id := identity.ID
			snap.Auth.Authed = true
			snap.Auth.UserID = &id
			snap.Auth.IsAdmin = s.authz.LooksAdmin(ctx, identity)
		}
	}

	snap.Counts = models.StatusCounts{
		Classes:  s.count(ctx, "classes"),
		Sections: s.count(ctx, "sections"),
		Errors:   s.count(ctx, "audit_log:errors"),
	}
	snap.LastUpdate = models.LastUpdate{
		Classes:  s.lastUpdate(ctx, "classes"),
		Sections: s.lastUpdate(ctx, "sections"),
	}

	if entries, err := s.audit.Recent(ctx, recentAuditWindow); err == nil {
		snap.RecentErrors = RecentErrors(entries, recentErrorLimit)
	} else {
		s.logger.Warn("status recent errors failed", zap.Error(err))
	}

	snap.Env = s.envStatus()
	snap.HasURL = snap.Env.HasSupabaseURL
	snap.HasKey = snap.Env.HasSupabaseAnon
	return snap
}

func (s *StatusService) count(ctx context.Context, key string) int {
	n, err := s.repo.Count(ctx, key)
	if err != nil {
		s.logger.Warn("status count failed", zap.String("table", key), zap.Error(err))
		return 0
	}
	return n
}

func (s *StatusService) lastUpdate(ctx context.Context, table string) *time.Time {
	ts, err := s.repo.LastUpdate(ctx, table)
	if err != nil {
		s.logger.Warn("status last update failed", zap.String("table", table), zap.Error(err))
		return nil
	}
	return ts
}

func (s *StatusService) envStatus() models.EnvStatus {
	if s.cfg == nil {
		return models.EnvStatus{}
	}
	env := models.EnvStatus{
		Env:              s.cfg.Env,
		HasSupabaseURL:   s.cfg.Supabase.URL != "",
		HasSupabaseAnon:  s.cfg.Supabase.AnonKey != "",
		HasServiceRole:   s.cfg.Supabase.ServiceRole != "",
		HasJWTSecret:     s.cfg.Supabase.JWTSecret != "",
		HasSiteURL:       len(s.cfg.AllowedSiteURLs()) > 0,
		HasAdminEmails:   len(s.cfg.Admin.Emails) > 0,
		DevAdminAllowAll: s.cfg.Admin.DevAllowAll && !s.cfg.IsProduction(),
	}
	env.SupabaseEnvOK = env.HasSupabaseURL && env.HasSupabaseAnon
	return env
}
