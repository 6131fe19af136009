package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/civicfix/report-service/internal/api/http"
	"github.com/civicfix/report-service/internal/api/http/handlers"
	"github.com/civicfix/report-service/internal/auth"
	"github.com/civicfix/report-service/internal/config"
	"github.com/civicfix/report-service/internal/events"
	"github.com/civicfix/report-service/internal/lifecycle"
	"github.com/civicfix/report-service/internal/observability"
	"github.com/civicfix/report-service/internal/persistence"
	"github.com/civicfix/report-service/internal/projection"
	"github.com/civicfix/report-service/internal/repository"
	"github.com/civicfix/report-service/internal/service"
	"github.com/civicfix/report-service/internal/worker"
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

	pool := pg.PoolHandle()

	var (
		userRepo    repository.UserRepository
		reportRepo  repository.ReportRepository
		contactRepo repository.ContactMessageRepository
		redisConn   *persistence.Redis
		tokenStore  *repository.TokenStore
	)
	if pool != nil {
		userRepo = repository.NewUserRepository(pool)
		reportRepo = repository.NewReportRepository(pool)
		contactRepo = repository.NewContactMessageRepository(pool)
		redisConn = persistence.NewRedis(cfg.Redis, logger)
		defer redisConn.Close()
		tokenStore = repository.NewTokenStore(redisConn.Client)
	} else {
		// Full in-memory mode: no external dependencies at all.
		userRepo = repository.NewMemoryUserRepository()
		reportRepo = repository.NewMemoryReportRepository()
		contactRepo = repository.NewMemoryContactMessageRepository()
		tokenStore = repository.NewTokenStore(nil)
	}

	dispatcher := events.NewInMemoryDispatcher()
	authority := lifecycle.NewAuthority(reportRepo)
	projector := projection.NewProjector(reportRepo)

	authService := service.NewAuthService(cfg.Auth, userRepo, tokenStore)
	directoryService := service.NewDirectoryService(userRepo, dispatcher, cfg.Auth.BcryptCost)
	reportService := service.NewReportService(service.ReportDependencies{
		ReportRepo: reportRepo,
		Authority:  authority,
		Dispatcher: dispatcher,
	})
	contactService := service.NewContactService(contactRepo, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewMiddleware(authService.TokenManager(), userRepo, tokenStore)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:     handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redisConn),
		Users:      handlers.NewUsersHandler(authService, directoryService),
		Reports:    handlers.NewReportsHandler(reportService, projector),
		Admin:      handlers.NewAdminHandler(directoryService, contactService),
		Contact:    handlers.NewContactHandler(contactService),
		Middleware: authMiddleware,
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
