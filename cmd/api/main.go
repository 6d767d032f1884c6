package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/estimate-service/internal/api/http"
	"github.com/spec-kit/estimate-service/internal/api/http/handlers"
	"github.com/spec-kit/estimate-service/internal/auth"
	"github.com/spec-kit/estimate-service/internal/config"
	"github.com/spec-kit/estimate-service/internal/events"
	"github.com/spec-kit/estimate-service/internal/notification"
	"github.com/spec-kit/estimate-service/internal/observability"
	"github.com/spec-kit/estimate-service/internal/persistence"
	"github.com/spec-kit/estimate-service/internal/repository"
	"github.com/spec-kit/estimate-service/internal/service"
	"github.com/spec-kit/estimate-service/internal/sharetoken"
	"github.com/spec-kit/estimate-service/internal/worker"
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

	pool := pg.PoolHandle()
	contractorRepo := repository.NewContractorRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)

	refreshStore := persistence.NewSessionStore(redis, cfg.Session.RefreshTTL())
	links := sharetoken.NewLinks(cfg.Public.BaseURL)
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Session, contractorRepo, refreshStore)
	customerService := service.NewCustomerService(customerRepo, links)
	projectService := service.NewProjectService(projectRepo, customerRepo, links)
	publicService := service.NewPublicService(projectRepo, customerRepo, contractorRepo, dispatcher, logger)

	sender := notification.NewSender(cfg.Notification, logger)
	notificationService := service.NewNotificationService(dispatcher, sender, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	oracle := auth.NewCookieOracle(authService.SessionManager(), refreshStore)
	gate := auth.NewGate(auth.GateConfig{
		ProtectedPrefixes: cfg.Public.ProtectedPrefixes,
		LoginPath:         cfg.Public.LoginPath,
		DashboardPath:     cfg.Public.DashboardPath,
	}, oracle)
	authMiddleware := auth.NewMiddleware(oracle, contractorRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, cfg.Public.DashboardPath),
		Customers:      handlers.NewCustomersHandler(customerService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Public:         handlers.NewPublicHandler(publicService),
		Feedback:       handlers.NewFeedbackHandler(feedbackRepo),
		Admin:          handlers.NewAdminHandler(contractorRepo),
		Pages:          handlers.NewPagesHandler(cfg.App.Name),
		Gate:           gate,
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
