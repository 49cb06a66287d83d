// Package server assembles the HTTP router and the process around it.
package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/class-admin/api/swagger"
	"github.com/noah-isme/class-admin/internal/auth"
	"github.com/noah-isme/class-admin/internal/handler"
	"github.com/noah-isme/class-admin/internal/middleware"
	"github.com/noah-isme/class-admin/internal/models"
	"github.com/noah-isme/class-admin/internal/ratelimit"
	"github.com/noah-isme/class-admin/internal/service"
	"github.com/noah-isme/class-admin/pkg/config"
	"github.com/noah-isme/class-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/class-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/class-admin/pkg/middleware/requestid"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Sections *handler.SectionHandler
	Classes  *handler.ClassHandler
	Audit    *handler.AuditHandler
	Status   *handler.StatusHandler
	Session  *handler.SessionHandler
	Ops      *handler.MetricsHandler
}

// RouterDeps carries what the middleware chain needs.
type RouterDeps struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService
	Limiter ratelimit.Store
	Authz   middleware.Authorizer
	Audit   service.AuditRecorder
	Codec   *auth.CookieCodec
}

// NewRouter mounts every route. Mutations run origin check, rate limit and
// admin authorization in that order before the handler. Reads only need a
// valid session.
func NewRouter(deps RouterDeps, h Handlers) *gin.Engine {
	cfg := deps.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		deps.Logger.Warn("invalid trusted proxies, trusting none", zap.Strings("proxies", cfg.TrustedProxies), zap.Error(err))
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	r.GET("/health", h.Ops.Health)
	r.GET("/ready", h.Ops.Ready)
	r.GET("/metrics", h.Ops.Prometheus)
	if !cfg.IsProduction() {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.POST("/auth/callback", h.Session.Callback)
	r.GET("/logout", h.Session.Logout)
	r.POST("/logout", h.Session.Logout)

	origin := middleware.Origin(cfg.AllowedSiteURLs(), deps.Metrics)
	limit := middleware.RateLimit(deps.Limiter, deps.Metrics, deps.Logger)
	admin := middleware.RequireAdmin(deps.Authz, deps.Codec, deps.Metrics)
	session := middleware.RequireSession(deps.Authz, deps.Codec, deps.Metrics)
	auditErrors := func(table string) gin.HandlerFunc {
		return middleware.AuditErrors(deps.Audit, table)
	}

	api := r.Group(cfg.APIPrefix)

	sections := api.Group("/sections", auditErrors(models.TableSections))
	sections.GET("", session, h.Sections.List)
	sections.POST("", origin, limit, admin, h.Sections.Create)
	sections.PATCH("/:id", origin, limit, admin, h.Sections.Update)
	sections.DELETE("/:id", origin, limit, admin, h.Sections.Delete)

	classes := api.Group("/classes", auditErrors(models.TableClasses))
	classes.GET("", session, h.Classes.List)
	classes.GET("/:id", session, h.Classes.Get)
	classes.POST("", origin, limit, admin, h.Classes.Create)
	classes.PATCH("/:id", origin, limit, admin, h.Classes.Update)
	classes.DELETE("/:id", origin, limit, admin, h.Classes.Delete)

	auditLog := api.Group("/audit", auditErrors(models.TableAuditLog), admin)
	auditLog.GET("", h.Audit.List)
	auditLog.GET("/export", h.Audit.Export)

	api.GET("/status", auditErrors("status"), session, h.Status.Status)
	api.GET("/whoami", auditErrors("whoami"), h.Status.WhoAmI)
	api.GET("/edge-info", h.Status.EdgeInfo)
	api.POST("/admins/grant-self", origin, limit, auditErrors(models.TableAdmins), h.Session.GrantSelf)
	api.POST("/logout", h.Session.Logout)

	return r
}
