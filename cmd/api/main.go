package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/shop-at/authentication-service/internal/api/http"
	"github.com/shop-at/authentication-service/internal/api/http/handlers"
	"github.com/shop-at/authentication-service/internal/auth"
	"github.com/shop-at/authentication-service/internal/config"
	"github.com/shop-at/authentication-service/internal/events"
	"github.com/shop-at/authentication-service/internal/observability"
	"github.com/shop-at/authentication-service/internal/persistence"
	"github.com/shop-at/authentication-service/internal/repository"
	"github.com/shop-at/authentication-service/internal/service"
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
	if pg.PoolHandle() == nil {
		logger.Fatal("POSTGRES_DSN is required to resolve users and services")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	serviceRepo := repository.NewCachedServiceRepository(
		repository.NewServiceRepository(pool),
		redis.Client,
		cfg.Cache.ServiceRegistryTTL(),
		logger,
	)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	audit := events.NewAuditLogger(logger)
	dispatcher.Subscribe(events.EventTokenIssued, audit)
	dispatcher.Subscribe(events.EventTokenRejected, audit)

	authService, err := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:    userRepo,
		ServiceRepo: serviceRepo,
		Events:      dispatcher,
		Metrics:     metrics,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	authMiddleware := auth.NewServiceAuthMiddleware(authService.TokenService(), serviceRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Services:       handlers.NewServicesHandler(authService),
		Metrics:        handlers.NewMetricsHandler(metrics),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	logger.Info("authentication service started",
		zap.String("addr", cfg.App.Addr()),
		zap.Bool("verify_user_id", cfg.Auth.VerifyUserID),
		zap.Bool("verify_service_id", cfg.Auth.VerifyServiceID),
		zap.Duration("service_token_ttl", cfg.Auth.ServiceTokenTTL()),
	)

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
