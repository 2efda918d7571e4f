package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/raas/backend/internal/application/billing"
	appenergy "github.com/raas/backend/internal/application/energy"
	"github.com/raas/backend/internal/application/ingestion"
	"github.com/raas/backend/internal/domain/billing"
	"github.com/raas/backend/internal/infrastructure/auth"
	"github.com/raas/backend/internal/infrastructure/cache"
	"github.com/raas/backend/internal/infrastructure/config"
	sheetimport "github.com/raas/backend/internal/infrastructure/import"
	"github.com/raas/backend/internal/infrastructure/logger"
	"github.com/raas/backend/internal/infrastructure/persistence"
	"github.com/raas/backend/internal/infrastructure/storage"
	"github.com/raas/backend/internal/infrastructure/strategy"
	"github.com/raas/backend/internal/infrastructure/telemetry"
	"github.com/raas/backend/internal/interfaces/http/handler"
	"github.com/raas/backend/internal/interfaces/http/middleware"
	"github.com/raas/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log.Info("Starting RAAS backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.TracingConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if tracerProvider.IsEnabled() {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBName:          cfg.Database.DBName,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		}, log)
		if err := dbTracing.Register(db.DB); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	metrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("raas-backend"))
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}

	distributorRepo := persistence.NewGormDistributorRepository(db.DB)
	installationRepo := persistence.NewGormInstallationRepository(db.DB)
	batchRepo := persistence.NewGormUploadBatchRepository(db.DB)
	billRepo := persistence.NewGormBillRecordRepository(db.DB, cfg.Upload.BatchSize)
	permanentRepo := persistence.NewGormPermanentRecordRepository(db.DB, cfg.Upload.BatchSize)

	guard, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create upload guard", zap.Error(err))
	}
	defer func() {
		_ = guard.Close()
	}()

	var archive ingestion.Archiver = storage.NewNoopArchive(cfg.Storage.KeyPrefix)
	if cfg.Storage.Enabled {
		s3Archive, err := storage.NewS3ObjectStorage(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Archive.EnsureBucket(ctx); err != nil {
			log.Warn("Archive bucket is not ready", zap.String("bucket", s3Archive.Bucket()), zap.Error(err))
		}
		archive = s3Archive
	}

	registry := strategy.NewStrategyRegistry()
	defaultStrategy := ingestion.NewDefaultStrategy(
		ingestion.Repositories{
			Installations: installationRepo,
			Batches:       batchRepo,
			Bills:         billRepo,
			Permanent:     permanentRepo,
		},
		sheetimport.NewReader(sheetimport.WithMaxRows(cfg.Upload.MaxRows)),
		ingestion.WithStrategyLogger(log),
		ingestion.WithStrategyMetrics(metrics),
	)
	if err := registry.Register(defaultStrategy); err != nil {
		log.Fatal("Failed to register ingestion strategy", zap.Error(err))
	}
	if err := registry.SetDefault(ingestion.DefaultStrategyName); err != nil {
		log.Fatal("Failed to set default ingestion strategy", zap.Error(err))
	}

	adminRoles := cfg.Upload.AdminRoles
	if len(adminRoles) == 0 {
		adminRoles = ingestion.DefaultAdminRoles
	}

	uploadService := ingestion.NewUploadService(
		ingestion.NewStrategyFactory(registry, distributorRepo, log),
		batchRepo,
		ingestion.ServiceConfig{
			MaxFileSize: cfg.Upload.MaxFileSize,
			AdminRoles:  adminRoles,
			GuardTTL:    cfg.Upload.GuardTTL,
		},
		ingestion.WithGuard(guard),
		ingestion.WithArchive(archive),
		ingestion.WithMetrics(metrics),
		ingestion.WithLogger(log),
	)

	generator := billing.NewGenerator(billing.GeneratorConfig{
		CemigRate:      cfg.Billing.CemigRate,
		Discount:       cfg.Billing.Discount,
		DueDays:        cfg.Billing.DueDays,
		HistoryPeriods: cfg.Billing.HistoryPeriods,
	}, log)
	invoiceService := appbilling.NewInvoiceService(installationRepo, billRepo, generator, metrics, log)
	historyService := appenergy.NewHistoryService(installationRepo, permanentRepo, log)

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	tracing := middleware.DefaultTracingConfig()
	tracing.Enabled = tracerProvider.IsEnabled()
	tracing.ServiceName = cfg.Telemetry.ServiceName

	engine, err := router.New(router.Config{
		Logger:         log,
		JWTService:     auth.NewJWTService(cfg.JWT),
		CORS:           cors,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		AdminRoles:     adminRoles,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		Metrics:        middleware.NewHTTPMetrics(),
		Tracing:        tracing,
	}, router.Handlers{
		Uploads:       handler.NewUploadHandler(uploadService),
		Invoices:      handler.NewInvoiceHandler(invoiceService),
		Installations: handler.NewInstallationHandler(historyService),
		System:        handler.NewSystemHandler(db),
	})
	if err != nil {
		log.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush metrics", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to flush traces", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
