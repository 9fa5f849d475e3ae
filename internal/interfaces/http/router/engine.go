package router

import (
	"time"

	"github.com/erp/catalogsync/docs"
	"github.com/erp/catalogsync/internal/infrastructure/auth"
	"github.com/erp/catalogsync/internal/infrastructure/config"
	"github.com/erp/catalogsync/internal/infrastructure/logger"
	"github.com/erp/catalogsync/internal/interfaces/http/handler"
	"github.com/erp/catalogsync/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig holds everything NewEngine wires together
type EngineConfig struct {
	ServiceName    string
	HTTP           config.HTTPConfig
	TracingEnabled bool
	// Meter enables HTTP metrics when set
	Meter  metric.Meter
	Logger *zap.Logger
	// JWT protects the sync routes when set
	JWT    *auth.JWTService
	System *handler.SystemHandler
	Sync   *handler.CatalogSyncHandler
}

// NewEngine builds the gin engine with the global middleware chain,
// the health endpoints and the /api/v1 routes. API docs are served under
// /swagger when HTTP.SwaggerEnabled is set.
func NewEngine(cfg EngineConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
			_ = engine.SetTrustedProxies(nil)
		}
	} else {
		_ = engine.SetTrustedProxies(nil)
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.AllowOrigins

	engine.Use(
		logger.Recovery(log),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.ServiceName,
			Enabled:     cfg.TracingEnabled,
		}),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(cfg.Meter, log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
	)
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	api := NewAPI(engine, DefaultAPIVersion)
	if cfg.System != nil {
		engine.GET("/health", cfg.System.Health)
		engine.GET("/ready", cfg.System.Ready)
		api.Mount(NewGroup("system", "").
			GET("/health", cfg.System.Health).
			GET("/ready", cfg.System.Ready))
	}
	if cfg.Sync != nil {
		api.Mount(CatalogSyncRoutes(cfg.Sync, cfg.JWT, cfg.HTTP, log))
	}
	for _, r := range api.Install() {
		log.Debug("Route registered", zap.String("group", r.Group), zap.String("method", r.Method), zap.String("path", r.Path))
	}
	if cfg.HTTP.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = "/api/" + api.Version()
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return engine
}

// CatalogSyncRoutes returns the /catalog-sync group. With a JWT service,
// runs need the sync scope and reads need the read scope.
func CatalogSyncRoutes(h *handler.CatalogSyncHandler, jwt *auth.JWTService, httpCfg config.HTTPConfig, log *zap.Logger) *Group {
	g := NewGroup("catalog-sync", "/catalog-sync")

	scope := func(string) []gin.HandlerFunc { return nil }
	if jwt != nil {
		jwtCfg := middleware.DefaultJWTConfig(jwt)
		jwtCfg.Logger = log
		g.Use(middleware.JWTAuthMiddlewareWithConfig(jwtCfg), middleware.TracingAttributeInjector())
		scope = func(s string) []gin.HandlerFunc {
			return []gin.HandlerFunc{middleware.RequireScope(s)}
		}
	}
	if httpCfg.RateLimitRPS > 0 {
		g.Use(middleware.RateLimit(middleware.NewRateLimiter(httpCfg.RateLimitRPS, httpCfg.RateLimitBurst, 10*time.Minute)))
	}

	g.POST("/runs", append(scope(auth.ScopeSyncRun), h.RunSync)...)
	g.POST("/test-connection", append(scope(auth.ScopeSyncRun), h.TestConnection)...)
	g.GET("/jobs", append(scope(auth.ScopeSyncRead), h.ListJobs)...)
	g.GET("/jobs/:id", append(scope(auth.ScopeSyncRead), h.GetJob)...)
	g.GET("/summary", append(scope(auth.ScopeSyncRead), h.GetSummary)...)

	return g
}
