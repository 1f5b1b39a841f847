package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/coach-gateway/internal/api/http"
	"github.com/spec-kit/coach-gateway/internal/api/http/handlers"
	"github.com/spec-kit/coach-gateway/internal/auth"
	"github.com/spec-kit/coach-gateway/internal/config"
	"github.com/spec-kit/coach-gateway/internal/events"
	"github.com/spec-kit/coach-gateway/internal/membership"
	"github.com/spec-kit/coach-gateway/internal/observability"
	"github.com/spec-kit/coach-gateway/internal/persistence"
	"github.com/spec-kit/coach-gateway/internal/repository"
	"github.com/spec-kit/coach-gateway/internal/service"
	"github.com/spec-kit/coach-gateway/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	store := membership.NewRedisStore(redis.Client)
	dispatcher := events.NewInMemoryDispatcher()

	accessService := service.NewAccessService(cfg.Auth, store)
	proxyService := service.NewProxyService(cfg.Upstream)
	webhookService := service.NewWebhookService(cfg.Webhook.Secret, store, dispatcher, logger)

	if pool := pg.PoolHandle(); pool != nil {
		eventRepo := repository.NewMembershipEventRepository(pool)
		auditService := service.NewAuditService(dispatcher, eventRepo, logger)
		worker.StartAuditWorker(auditService)
	}

	metrics := observability.NewMetrics()
	authMiddleware := auth.NewMiddleware(accessService.Codec())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	accessHandler := handlers.NewAccessHandler(accessService)
	proxyHandler := handlers.NewProxyHandler(proxyService, accessService, metrics, logger)
	webhookHandler := handlers.NewWebhookHandler(webhookService, cfg.Webhook.SignatureHeader)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Access:         accessHandler,
		Proxy:          proxyHandler,
		Webhook:        webhookHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
