package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fintech/wcm/internal/application/alerting"
	"github.com/fintech/wcm/internal/application/dataimport"
	"github.com/fintech/wcm/internal/application/workingcapital"
	"github.com/fintech/wcm/internal/infrastructure/config"
	"github.com/fintech/wcm/internal/infrastructure/logger"
	"github.com/fintech/wcm/internal/infrastructure/persistence"
	"github.com/fintech/wcm/internal/infrastructure/scheduler"
	"github.com/fintech/wcm/internal/infrastructure/storage"
	"github.com/fintech/wcm/internal/infrastructure/telemetry"
	"github.com/fintech/wcm/internal/interfaces/http/handler"
	"github.com/fintech/wcm/internal/interfaces/http/middleware"
	"github.com/fintech/wcm/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting working capital engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Log export to the collector. When enabled, the base logger is rebuilt
	// with a zap core that tees every record to OTLP.
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logs provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down logs provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, logsProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Warn("Failed to bridge logger to collector, keeping local-only logger", zap.Error(err))
		} else {
			log = bridged
			log.Info("Log export to collector enabled")
		}
	}

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Metrics
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Continuous profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilingServer,
		ApplicationName: cfg.Telemetry.ServiceName,
		ProfileCPU:      true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Warn("Failed to start profiler, continuing without profiling", zap.Error(err))
	} else if profiler != nil {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Error stopping profiler", zap.Error(err))
			}
		}()
		// Associates CPU profiles with trace spans; needs the profiler running
		if profiler.IsEnabled() {
			if err := tracerProvider.EnableSpanProfiles(); err != nil {
				log.Warn("Failed to enable span profiles", zap.Error(err))
			}
		}
	}

	// Database with zap-backed GORM logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Database query tracing
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Repositories
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	receivableRepo := persistence.NewGormReceivableRepository(db.DB)
	payableRepo := persistence.NewGormPayableRepository(db.DB)
	inventoryRepo := persistence.NewGormInventoryRepository(db.DB)
	aggregator := persistence.NewGormLedgerAggregator(db.DB)

	// Engine business metrics (optional, requires an enabled meter provider)
	var engineMetrics *telemetry.EngineMetrics
	if meterProvider.IsEnabled() {
		engineMetrics, err = telemetry.NewEngineMetrics(telemetry.EngineMetricsConfig{
			Meter:         meterProvider.Meter("wcm.engine"),
			Logger:        log,
			AlertProvider: &alertMetricsAdapter{repo: alertRepo},
		})
		if err != nil {
			log.Warn("Failed to initialize engine metrics", zap.Error(err))
		}
	}

	// Application services
	snapshotBuilder := workingcapital.NewMetricsSnapshotBuilder(companyRepo, aggregator, alertRepo)
	alertEngine := alerting.NewAlertRulesEngine(snapshotBuilder, aggregator, alerting.NewRepositorySink(alertRepo), log)
	alertService := alerting.NewAlertService(alertRepo)

	// Scheduled import registry
	registry := scheduler.NewRegistry(log, cfg.Scheduler.MaxJobs, cfg.Scheduler.JobTimeout)
	defer registry.Shutdown()

	// Imported file archival (S3, or a no-op when no bucket is configured)
	var archiver storage.Archiver = storage.NopArchiver{}
	if cfg.Storage.Bucket != "" {
		s3Archiver, err := storage.NewS3Archiver(&cfg.Storage, log)
		if err != nil {
			log.Warn("Failed to initialize S3 archiver, imports will not be archived", zap.Error(err))
		} else {
			archiver = s3Archiver
			log.Info("Import archival enabled", zap.String("bucket", cfg.Storage.Bucket))
		}
	}

	importService := dataimport.NewImportService(companyRepo, dataimport.Repositories{
		Transactions: transactionRepo,
		Invoices:     invoiceRepo,
		Receivables:  receivableRepo,
		Payables:     payableRepo,
		Inventory:    inventoryRepo,
	}, registry, archiver, log)

	if engineMetrics != nil {
		snapshotBuilder.SetEngineMetrics(engineMetrics)
		alertEngine.SetEngineMetrics(engineMetrics)
		importService.SetEngineMetrics(engineMetrics)
		engineMetrics.StartPeriodicCollection(ctx, &companyMetricsAdapter{repo: companyRepo}, 0)
		defer engineMetrics.Stop()
	}

	// HTTP handlers
	metricsHandler := handler.NewMetricsHandler(snapshotBuilder)
	alertHandler := handler.NewAlertHandler(alertEngine, alertService)
	importHandler := handler.NewDataImportHandler(importService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.ProfilingWithConfig(middleware.ProfilingConfig{
		Enabled:   cfg.Telemetry.ProfilingEnabled,
		SkipPaths: []string{"/healthz", "/metrics"},
	}))

	// Health check endpoint (outside API versioning)
	engine.GET("/healthz", systemHandler.Healthz)

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(metricsHandler).
		Register(alertHandler).
		Register(importHandler).
		Register(systemHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// alertMetricsAdapter exposes the alert repository to the telemetry layer.
type alertMetricsAdapter struct {
	repo *persistence.GormAlertRepository
}

func (a *alertMetricsAdapter) GetUnreadAlertCount(ctx context.Context, companyID uuid.UUID) (int64, error) {
	return a.repo.CountUnreadByCompanyID(ctx, companyID)
}

// companyMetricsAdapter exposes active company IDs to the telemetry layer.
type companyMetricsAdapter struct {
	repo *persistence.GormCompanyRepository
}

func (a *companyMetricsAdapter) GetActiveCompanyIDs(ctx context.Context) ([]uuid.UUID, error) {
	companies, err := a.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(companies))
	for _, c := range companies {
		ids = append(ids, c.ID)
	}
	return ids, nil
}
