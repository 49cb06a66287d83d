package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/class-admin/internal/auth"
	"github.com/noah-isme/class-admin/internal/handler"
	"github.com/noah-isme/class-admin/internal/ratelimit"
	"github.com/noah-isme/class-admin/internal/repository"
	"github.com/noah-isme/class-admin/internal/service"
	"github.com/noah-isme/class-admin/internal/validation"
	"github.com/noah-isme/class-admin/pkg/cache"
	"github.com/noah-isme/class-admin/pkg/config"
	"github.com/noah-isme/class-admin/pkg/database"
	"github.com/noah-isme/class-admin/pkg/database/migrations"
	"github.com/noah-isme/class-admin/pkg/jobs"
)

const shutdownTimeout = 15 * time.Second

// App owns the long-lived resources of the API process. The caller must
// defer Close.
type App struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *sqlx.DB
	redis   *redis.Client
	sweeper *jobs.Periodic
	server  *http.Server
}

// NewApp connects to the database (and Redis when a component needs it),
// builds every service and mounts the router.
func NewApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	app := &App{cfg: cfg, logger: logger, db: db}

	if cfg.MigrateOnStart {
		if err := migrations.Up(db.DB); err != nil {
			app.Close()
			return nil, err
		}
		logger.Info("migrations applied")
	}

	if cfg.RateLimit.Backend == config.RateLimitRedis || cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.redis = client
	}

	codec, err := auth.NewCookieCodec(cfg.Session.HashKey, cfg.Session.BlockKey, cfg.Session.Secure)
	if err != nil {
		app.Close()
		return nil, err
	}

	metrics := service.NewMetricsService()
	validate := validation.New()

	auditSvc := service.NewAuditService(repository.NewAuditRepository(db), metrics, logger)
	authzSvc := service.NewAuthzService(newResolver(cfg), repository.NewAdminRepository(db), auditSvc, service.AuthzConfig{
		AdminEmails: cfg.Admin.Emails,
		DevAllowAll: cfg.Admin.DevAllowAll,
		Production:  cfg.IsProduction(),
	}, logger)

	var cacheRepo service.CacheRepository
	if app.redis != nil {
		cacheRepo = repository.NewCacheRepository(app.redis)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logger, cfg.Cache.Enabled)

	sectionSvc := service.NewSectionService(repository.NewSectionRepository(db), auditSvc, cacheSvc, validate, logger)
	classSvc := service.NewClassService(repository.NewClassRepository(db), auditSvc, validate, logger)
	statusSvc := service.NewStatusService(repository.NewStatusRepository(db), repository.NewAuditRepository(db), authzSvc, cfg, metrics, logger)

	router := NewRouter(RouterDeps{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
		Limiter: app.newLimiter(),
		Authz:   authzSvc,
		Audit:   auditSvc,
		Codec:   codec,
	}, Handlers{
		Sections: handler.NewSectionHandler(sectionSvc, logger),
		Classes:  handler.NewClassHandler(classSvc, logger),
		Audit:    handler.NewAuditHandler(auditSvc, logger),
		Status:   handler.NewStatusHandler(statusSvc, authzSvc, codec, logger),
		Session:  handler.NewSessionHandler(authzSvc, codec, cfg.Site.URL, logger),
		Ops:      handler.NewMetricsHandler(metrics, db),
	})

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return app, nil
}

// newResolver verifies tokens locally when the JWT secret is configured and
// asks the auth server otherwise.
func newResolver(cfg *config.Config) auth.Resolver {
	if cfg.Supabase.JWTSecret != "" {
		return auth.NewJWTResolver(cfg.Supabase.JWTSecret)
	}
	return auth.NewRemoteResolver(cfg.Supabase.URL, cfg.Supabase.AnonKey, nil)
}

func (a *App) newLimiter() ratelimit.Store {
	if a.cfg.RateLimit.Backend == config.RateLimitRedis && a.redis != nil {
		return ratelimit.NewRedisStore(a.redis, a.cfg.RateLimit.Max, a.cfg.RateLimit.Window)
	}
	store := ratelimit.NewMemoryStore(a.cfg.RateLimit.Max, a.cfg.RateLimit.Window)
	a.sweeper = jobs.NewPeriodic("ratelimit-sweep", func(ctx context.Context) {
		if n := store.Sweep(ctx); n > 0 {
			a.logger.Debug("rate limit entries swept", zap.Int("removed", n))
		}
	}, jobs.PeriodicConfig{Interval: store.Window(), Logger: a.logger})
	return store
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	if a.sweeper != nil {
		a.sweeper.Start(ctx)
		defer a.sweeper.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting", zap.String("addr", a.server.Addr), zap.String("env", a.cfg.Env))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Close releases the database and Redis connections.
func (a *App) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close postgres", zap.Error(err))
		}
	}
}
