package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/shop-service/internal/api/http"
	"github.com/spec-kit/shop-service/internal/api/http/handlers"
	"github.com/spec-kit/shop-service/internal/auth"
	"github.com/spec-kit/shop-service/internal/config"
	"github.com/spec-kit/shop-service/internal/events"
	"github.com/spec-kit/shop-service/internal/mail"
	"github.com/spec-kit/shop-service/internal/observability"
	"github.com/spec-kit/shop-service/internal/persistence"
	"github.com/spec-kit/shop-service/internal/repository"
	"github.com/spec-kit/shop-service/internal/service"
	"github.com/spec-kit/shop-service/internal/worker"
)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	readiness := map[string]handlers.Pinger{"postgres": pg}

	var store auth.RevocationStore
	switch cfg.Auth.RevocationBackend {
	case config.RevocationBackendMemory:
		logger.Warn("using in-process token blocklist; revocations are lost on restart")
		store = auth.NewMemoryRevocationStore(cfg.Auth.RevocationTTL())
	default:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		readiness["redis"] = redis
		store = auth.NewRedisRevocationStore(redis.Client, cfg.Auth.RevocationTTL(), cfg.Redis.OpTimeout())
	}

	metrics := observability.NewMetrics()

	codec := auth.NewCodec(cfg.Auth.JWTSecret)
	issuer := auth.NewIssuer(codec, cfg.Auth.AccessTTL(), cfg.Auth.RefreshTTL(), metrics)
	verifier := auth.NewVerifier(codec, store, logger, metrics)

	var outbox mail.Outbox
	if len(cfg.Notification.KafkaBrokers) > 0 {
		outbox = mail.NewKafkaOutbox(cfg.Notification.KafkaBrokers, cfg.Notification.KafkaTopic)
	} else {
		logger.Info("no kafka brokers configured; mail jobs are logged only")
		outbox = mail.NewLogOutbox(logger)
	}

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, outbox, logger, cfg.Notification)
	workerDone := worker.StartNotificationWorker(ctx, notificationService, outbox, logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	productRepo := repository.NewProductRepository(pool)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Issuer:     issuer,
		Verifier:   verifier,
		Hasher:     auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Links:      auth.NewLinkSigner(cfg.Auth.JWTSecret),
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	userService := service.NewUserService(userRepo, logger)
	catalogService := service.NewCatalogService(categoryRepo, productRepo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth.CookieSecure),
		Users:          handlers.NewUsersHandler(userService),
		Catalog:        handlers.NewCatalogHandler(catalogService),
		AuthMiddleware: auth.NewAuthMiddleware(verifier),
		Roles:          auth.NewRoleChecker(userRepo),
		Metrics:        metrics,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	<-workerDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
