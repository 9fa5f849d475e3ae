package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appintegration "github.com/erp/catalogsync/internal/application/integration"
	"github.com/erp/catalogsync/internal/domain/integration"
	"github.com/erp/catalogsync/internal/infrastructure/auth"
	"github.com/erp/catalogsync/internal/infrastructure/cache"
	"github.com/erp/catalogsync/internal/infrastructure/config"
	"github.com/erp/catalogsync/internal/infrastructure/ecommerce"
	"github.com/erp/catalogsync/internal/infrastructure/logger"
	"github.com/erp/catalogsync/internal/infrastructure/migration"
	"github.com/erp/catalogsync/internal/infrastructure/persistence"
	"github.com/erp/catalogsync/internal/infrastructure/scheduler"
	"github.com/erp/catalogsync/internal/infrastructure/telemetry"
	"github.com/erp/catalogsync/internal/interfaces/http/handler"
	"github.com/erp/catalogsync/internal/interfaces/http/router"
	"github.com/erp/catalogsync/migrations"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Catalog Sync API
//	@version		1.0
//	@description	Pulls a remote e-commerce catalog through the store proxy and reconciles it into local products.

//	@contact.name	Catalog Sync Maintainers
//	@contact.url	https://github.com/erp/catalogsync

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token with the catalog:sync or catalog:read scope. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: logger.DefaultTimeFormat,
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, log := startTelemetry(ctx, cfg, baseLog)
	meter := tel.Meter()
	defer func() {
		_ = log.Sync()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting catalog sync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	var gormOpts []logger.GormLoggerOption
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		gormOpts = append(gormOpts, logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	}
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), gormOpts...)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	dbSystem := "postgresql"
	if cfg.Database.Driver == "sqlite" {
		dbSystem = "sqlite"
	}
	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        dbSystem,
	}, log); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := migrateSchema(db, cfg, log); err != nil {
			log.Fatal("Failed to migrate schema", zap.Error(err))
		}
	}

	summaries, err := cache.NewSummaryStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create summary store", zap.Error(err))
	}
	defer func() {
		_ = summaries.Close()
	}()

	source, err := ecommerce.NewProxyClient(ecommerce.ProxyConfig{
		URL:               cfg.Remote.ProxyURL,
		Timeout:           cfg.Remote.Timeout,
		RequestsPerSecond: cfg.Remote.RequestsPerSecond,
		Burst:             cfg.Remote.Burst,
	}, ecommerce.WithProxyLogger(log))
	if err != nil {
		log.Fatal("Failed to create catalog proxy client", zap.Error(err))
	}

	service := appintegration.NewCatalogSyncService(
		source,
		persistence.NewGormSyncJobRepository(db.DB),
		persistence.NewGormTransactionScope(db.DB),
		summaries,
		appintegration.CatalogSyncConfig{
			PreviewPageSize:   cfg.Sync.PreviewPageSize,
			FullPageSize:      cfg.Sync.FullPageSize,
			ProgressInterval:  cfg.Sync.ProgressInterval,
			ErrorSummaryLimit: cfg.Sync.ErrorSummaryLimit,
			FinalizeRetries:   cfg.Sync.FinalizeRetries,
			FinalizeBackoff:   cfg.Sync.FinalizeBackoff,
		},
		log,
	)
	if meter != nil {
		if err := telemetry.RegisterPoolMetrics(meter, db.Stats); err != nil {
			log.Warn("Database pool metrics disabled", zap.Error(err))
		}
		syncMetrics, err := telemetry.NewSyncMetrics(telemetry.SyncMetricsConfig{Meter: meter, Logger: log})
		if err != nil {
			log.Warn("Sync metrics disabled", zap.Error(err))
		} else {
			service.SetSyncMetrics(syncMetrics)
		}
	}

	defaults := syncDefaults(cfg.Sync.Defaults)

	var jwtService *auth.JWTService
	if cfg.JWT.Enabled {
		jwtService = auth.NewJWTService(cfg.JWT)
	} else {
		log.Warn("API authentication is disabled")
	}

	engine := router.NewEngine(router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		HTTP:           cfg.HTTP,
		TracingEnabled: tel.TracingEnabled(),
		Meter:          meter,
		Logger:         log,
		JWT:            jwtService,
		System: handler.NewSystemHandler(cfg.App.Name, version, map[string]handler.HealthCheck{
			"database": db.Ping,
		}),
		Sync: handler.NewCatalogSyncHandler(service, defaults),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	var trigger *scheduler.CatalogSyncTrigger
	if cfg.Scheduler.Enabled {
		trigger, err = scheduler.NewCatalogSyncTrigger(scheduler.CatalogSyncTriggerConfig{
			Interval: cfg.Scheduler.Interval,
			Timeout:  cfg.Scheduler.Timeout,
			Credentials: integration.Credentials{
				Endpoint:   cfg.Remote.Endpoint,
				Key:        cfg.Remote.Key,
				Secret:     cfg.Remote.Secret,
				APIVersion: cfg.Remote.APIVersion,
				UseTLS:     cfg.Remote.UseTLS,
			},
			Options: defaults,
		}, service, log)
		if err != nil {
			log.Fatal("Invalid scheduler configuration", zap.Error(err))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if trigger != nil {
		g.Go(func() error {
			return trigger.Start(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		var errs []error
		if trigger != nil {
			errs = append(errs, trigger.Stop(shutdownCtx))
		}
		errs = append(errs, srv.Shutdown(shutdownCtx))
		errs = append(errs, tel.Shutdown(shutdownCtx))
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
	log.Info("Server exited gracefully")
}

// startTelemetry starts the OTLP providers. A signal that fails to start
// is logged and left disabled so the service still comes up.
func startTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*telemetry.Providers, *zap.Logger) {
	tc := cfg.Telemetry
	providers, err := telemetry.Start(ctx, telemetry.Settings{
		ServiceName:    tc.ServiceName,
		ServiceVersion: version,
		Endpoint:       tc.CollectorEndpoint,
		Insecure:       tc.Insecure,
		Traces:         tc.Enabled,
		SamplingRatio:  tc.SamplingRatio,
		Metrics:        tc.Enabled && tc.MetricsEnabled,
		MetricInterval: tc.MetricsInterval,
		Logs:           tc.Enabled && tc.LogsEnabled,
	}, log)
	if err != nil {
		log.Warn("Telemetry partially disabled", zap.Error(err))
	}
	return providers, providers.Logger(log, logger.ParseLevel(cfg.Log.Level))
}

// migrateSchema applies the embedded SQL migrations on postgres and falls
// back to gorm's AutoMigrate for sqlite
func migrateSchema(db *persistence.Database, cfg *config.Config, log *zap.Logger) error {
	if cfg.Database.Driver == "sqlite" {
		return db.AutoMigrate()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.New(sqlDB, migration.Config{Source: migrations.FS}, log)
	if err != nil {
		return err
	}
	// closing the migrator would close the shared *sql.DB
	return m.Up()
}

func syncDefaults(d config.SyncDefaults) integration.SyncOptions {
	return integration.SyncOptions{
		UpdateExisting: d.UpdateExisting,
		CreateNew:      d.CreateNew,
		SyncStockOnly:  d.SyncStockOnly,
		ImportImages:   d.ImportImages,
		Mode:           integration.SyncMode(d.Mode),
		BlankSKUPolicy: integration.BlankSKUPolicy(d.BlankSKUPolicy),
	}.Normalized()
}
