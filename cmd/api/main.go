package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/registry-service/internal/api/http"
	"github.com/spec-kit/registry-service/internal/api/http/handlers"
	"github.com/spec-kit/registry-service/internal/auth"
	"github.com/spec-kit/registry-service/internal/config"
	"github.com/spec-kit/registry-service/internal/events"
	"github.com/spec-kit/registry-service/internal/notify"
	"github.com/spec-kit/registry-service/internal/observability"
	"github.com/spec-kit/registry-service/internal/persistence"
	"github.com/spec-kit/registry-service/internal/ratelimit"
	"github.com/spec-kit/registry-service/internal/repository"
	"github.com/spec-kit/registry-service/internal/service"
	"github.com/spec-kit/registry-service/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.Sentry.DSN,
			Environment:      cfg.App.Env,
			Release:          cfg.App.Version,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
		}); err != nil {
			logger.Error("sentry init failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		submissionRepo repository.SubmissionRepository
		pg             *persistence.Postgres
	)
	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		pg, err = persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		submissionRepo = repository.NewPostgresSubmissionRepository(pg.PoolHandle())
	default:
		submissionRepo, err = repository.NewFileSubmissionRepository(cfg.Storage.DataDir)
		if err != nil {
			logger.Fatal("failed to open file store", zap.Error(err))
		}
	}
	logger.Info("submission store ready",
		zap.String("backend", cfg.Storage.Backend),
		zap.Bool("enforce_unique_email", cfg.Storage.EnforceUniqueEmail),
	)

	redisConn := persistence.NewRedis(cfg.Redis, logger)
	defer redisConn.Close()

	var cache service.Cache
	if redisConn.Enabled() {
		cache = redisConn
	}

	var (
		limiter ratelimit.Limiter
		memory  *ratelimit.MemoryLimiter
	)
	if cfg.RateLimit.Backend == config.RateLimitRedis && redisConn.Enabled() {
		limiter = ratelimit.NewRedisLimiter(redisConn.Client, cfg.RateLimit.MaxRequests, cfg.RateLimit.Window, logger)
	} else {
		memory = ratelimit.NewMemoryLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
		limiter = memory
	}
	sweeperDone := worker.StartRateLimitSweeper(ctx, memory, cfg.RateLimit.SweepInterval, logger)

	metrics := observability.NewMetrics()

	dispatcher := events.NewAsyncDispatcher(events.AsyncOptions{
		QueueSize:      cfg.Notification.QueueSize,
		Workers:        cfg.Notification.Workers,
		HandlerTimeout: cfg.Notification.SendTimeout,
	}, logger)

	notifiers := []notify.Notifier{
		notify.NewWebhookNotifier(cfg.Notification.WebhookURL, cfg.Notification.SendTimeout),
		notify.NewMailer(cfg.Notification),
	}
	sheets, err := notify.NewSheetsNotifier(ctx, cfg.Notification.SheetsCredentials, cfg.Notification.SheetsSpreadsheet)
	if err != nil {
		logger.Warn("sheets sync disabled", zap.Error(err))
	} else {
		notifiers = append(notifiers, sheets)
	}
	for _, n := range notifiers {
		logger.Info("notification channel", zap.String("channel", n.Name()), zap.Bool("enabled", n.Enabled()))
	}
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, metrics, notifiers...))

	statsService := service.NewStatsService(submissionRepo, cache, cfg.Metrics, logger)
	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		SubmissionRepo:     submissionRepo,
		Dispatcher:         dispatcher,
		Stats:              statsService,
		Metrics:            metrics,
		Logger:             logger,
		EnforceUniqueEmail: cfg.Storage.EnforceUniqueEmail,
	})
	reportService := service.NewReportService(submissionRepo, cfg.Admin.Location())
	authService := service.NewAuthService(cfg.Admin)
	if cfg.Admin.Password == "" && cfg.Admin.PasswordHash == "" {
		logger.Warn("admin password not configured, admin login will fail")
	}

	checks := map[string]handlers.Pinger{"store": submissionRepo}
	if redisConn.Enabled() {
		checks["redis"] = redisConn
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, checks),
		Submissions:    handlers.NewSubmissionsHandler(submissionService, limiter, metrics),
		Public:         handlers.NewPublicHandler(statsService),
		Admin:          handlers.NewAdminHandler(authService, reportService, cfg.Admin.SecureCookie),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Shutdown(shutdownCtx); err != nil {
		logger.Warn("notification queue not drained", zap.Error(err))
	}
	cancel()
	<-sweeperDone
	sentry.Flush(2 * time.Second)
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
