// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/carterperez-dev/slideview/internal/admin"
	"github.com/carterperez-dev/slideview/internal/auth"
	"github.com/carterperez-dev/slideview/internal/billing"
	"github.com/carterperez-dev/slideview/internal/config"
	"github.com/carterperez-dev/slideview/internal/core"
	"github.com/carterperez-dev/slideview/internal/draft"
	"github.com/carterperez-dev/slideview/internal/entitlement"
	"github.com/carterperez-dev/slideview/internal/health"
	"github.com/carterperez-dev/slideview/internal/metrics"
	"github.com/carterperez-dev/slideview/internal/middleware"
	"github.com/carterperez-dev/slideview/internal/migrations"
	"github.com/carterperez-dev/slideview/internal/plan"
	"github.com/carterperez-dev/slideview/internal/presentation"
	"github.com/carterperez-dev/slideview/internal/server"
	"github.com/carterperez-dev/slideview/internal/share"
	"github.com/carterperez-dev/slideview/internal/template"
	"github.com/carterperez-dev/slideview/internal/user"
	"github.com/carterperez-dev/slideview/internal/version"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db.DB.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	signer, err := auth.LoadSigner(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("token signer initialized",
		"algorithm", "ES256",
		"key_id", signer.KeyID(),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	userRepo := user.NewRepository(db.DB)

	planRepo := plan.NewCachedRepository(
		plan.NewRepository(db.DB),
		redis.Client,
		cfg.Plans.CacheTTL,
		logger,
	)
	planSvc := plan.NewService(planRepo, userRepo)

	userSvc := user.NewService(userRepo, planSvc)
	userHandler := user.NewHandler(userSvc)

	evaluator := entitlement.NewEvaluator(
		userRepo,
		planRepo,
		entitlement.NewCounter(db.DB),
		collector,
		logger,
	)

	authSvc := auth.NewService(auth.ServiceConfig{
		Sessions:    auth.NewRepository(db.DB),
		Accounts:    userSvc,
		Signer:      signer,
		Revocations: auth.NewRevocations(redis.Client, cfg.JWT.AccessTokenExpire),
		Premium:     evaluator,
		RefreshTTL:  cfg.JWT.RefreshTokenExpire,
		Logger:      logger,
	})
	authHandler := auth.NewHandler(authSvc)
	planHandler := plan.NewHandler(planSvc, evaluator)

	versions := version.NewEngine(version.NewRepository, collector)

	presentationSvc := presentation.NewService(presentation.ServiceConfig{
		DB:         db.DB,
		Transactor: db,
		Gate:       evaluator,
		Versions:   versions,
		Recorder:   collector,
		Logger:     logger,
	})
	presentationHandler := presentation.NewHandler(presentationSvc)

	draftSvc := draft.NewService(
		draft.NewRepository(db.DB),
		presentationSvc,
		collector,
		cfg.Drafts.Retention,
	)
	draftHandler := draft.NewHandler(draftSvc)

	shareSvc := share.NewService(share.ServiceConfig{
		DB:          db.DB,
		Transactor:  db,
		Recorder:    collector,
		FrontendURL: cfg.App.FrontendURL,
	})
	shareHandler := share.NewHandler(shareSvc)

	templateSvc := template.NewService(db.DB, presentationSvc, evaluator)
	templateHandler := template.NewHandler(templateSvc)

	billingSvc := billing.NewService(billing.ServiceConfig{
		DB:         db.DB,
		Transactor: db,
		Plans:      planSvc,
		Recorder:   collector,
		Logger:     logger,
	})
	billingHandler := billing.NewHandler(billingSvc, cfg.Billing.WebhookToken)

	healthHandler := health.NewHandler(
		health.Probe{Name: "database", Checker: db},
		health.Probe{Name: "redis", Checker: redis},
		health.Probe{Name: "plans", Checker: health.PlanCatalog(planRepo)},
	)

	cleanupJob := draft.NewCleanupJob(db.DB, collector, logger)
	if cfg.Drafts.Retention > 0 {
		cleanupJob.Retention = cfg.Drafts.Retention
	}

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Database: db,
		Cache:    redis,
		Usage:    admin.NewUsageRepository(db.DB),
		Sweeper:  cleanupJob,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(collector.Middleware)
	}
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler(registry))
	}

	router.Get("/.well-known/jwks.json", signer.JWKSHandler())

	planLimiter := middleware.NewRateLimiter(
		redis.Client,
		middleware.ByPlan(middleware.DefaultPlanLimits),
	).Handler
	authenticator := func(next http.Handler) http.Handler {
		return middleware.Authenticator(authSvc)(planLimiter(next))
	}
	optionalAuth := middleware.OptionalAuth(authSvc)
	adminOnly := middleware.RequireAdmin

	publicLimiter := middleware.NewRateLimiter(redis.Client, middleware.ByIP(
		middleware.PerWindow(
			cfg.RateLimit.PublicRequests,
			cfg.RateLimit.PublicBurst,
			cfg.RateLimit.Window,
		),
	)).Handler

	authLimiter := middleware.NewRateLimiter(redis.Client, middleware.ByIP(
		middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
	)).Handler

	router.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authLimiter)
			authHandler.RegisterRoutes(r, authenticator)
		})

		userHandler.RegisterRoutes(r, authenticator, adminOnly)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)

		planHandler.RegisterRoutes(r, authenticator)
		presentationHandler.RegisterRoutes(r, authenticator)
		draftHandler.RegisterRoutes(r, authenticator)
		shareHandler.RegisterRoutes(r, authenticator)
		shareHandler.RegisterPublicRoutes(r, publicLimiter)
		templateHandler.RegisterRoutes(r, authenticator, optionalAuth)
		billingHandler.RegisterRoutes(r, authenticator)
	})

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	if cfg.Drafts.CleanupEnabled {
		go cleanupJob.Start(workerCtx, cfg.Drafts.CleanupInterval)
		logger.Info("draft cleanup worker started",
			"interval", cfg.Drafts.CleanupInterval.String(),
			"retention", cleanupJob.Retention.String(),
		)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
