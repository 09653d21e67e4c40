package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/support-panel/internal/api/http"
	"github.com/spec-kit/support-panel/internal/api/http/handlers"
	"github.com/spec-kit/support-panel/internal/auth"
	"github.com/spec-kit/support-panel/internal/cache"
	"github.com/spec-kit/support-panel/internal/config"
	"github.com/spec-kit/support-panel/internal/events"
	"github.com/spec-kit/support-panel/internal/normalize"
	"github.com/spec-kit/support-panel/internal/observability"
	"github.com/spec-kit/support-panel/internal/persistence"
	"github.com/spec-kit/support-panel/internal/repository"
	"github.com/spec-kit/support-panel/internal/service"
	"github.com/spec-kit/support-panel/internal/worker"
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

	mongo := persistence.NewMongo(cfg.Mongo, logger)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongo.Close(ctx)
	}()

	// Warm up the lazy connection so a misconfigured store surfaces at
	// startup instead of on the first request.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.Mongo.ConnectTimeout())
	if err := mongo.Ping(warmCtx); err != nil {
		logger.Warn("mongodb not reachable yet; will retry on first request", zap.Error(err))
	}
	warmCancel()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notif)
	worker.StartNotificationWorker(notificationService)

	ticketStore := repository.NewTicketRepository(mongo, cfg.Mongo)
	listCache := cache.NewRedisTicketCache(redis, cfg.Cache, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:      ticketStore,
		Normalizer: normalize.New(),
		Cache:      listCache,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to init auth", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, mongo, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
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
