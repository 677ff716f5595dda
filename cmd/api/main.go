package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/sla"
	"github.com/spec-kit/helpdesk-service/internal/worker"
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
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)
	statusRepo := repository.NewCachedStatusRepository(
		repository.NewStatusRepository(pool),
		redis.Client,
		cfg.Redis.StatusCacheTTL(),
		logger,
	)

	statuses, err := statusRepo.List(ctx)
	if err != nil {
		logger.Fatal("failed to load status catalog", zap.Error(err))
	}
	catalog, err := domain.NewStatusCatalog(statuses)
	if err != nil {
		logger.Fatal("invalid status catalog", zap.Error(err))
	}

	calendar := sla.NewBusinessCalendar(cfg.SLA.WorkStartHour, cfg.SLA.WorkEndHour, cfg.SLA.WorkingDays)
	calculator := sla.NewCalculator(map[domain.TicketPriority]int{
		domain.PriorityCritical: cfg.SLA.CriticalHours,
		domain.PriorityHigh:     cfg.SLA.HighHours,
		domain.PriorityMedium:   cfg.SLA.MediumHours,
		domain.PriorityLow:      cfg.SLA.LowHours,
	}, calendar, logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo:   ticketRepo,
		UserRepo:     userRepo,
		CategoryRepo: categoryRepo,
		HistoryRepo:  historyRepo,
		Catalog:      catalog,
		Calculator:   calculator,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
	})
	reportService := service.NewReportService(service.ReportDependencies{
		TicketRepo: ticketRepo,
		Catalog:    catalog,
		Calculator: calculator,
	})
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(userRepo, tokenManager, cfg.Auth.BcryptCost, logger)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	monitor := worker.NewSLAMonitor(ticketRepo, catalog, calculator, dispatcher, metrics, logger, cfg.SLA.MonitorInterval())
	go monitor.Run(ctx)

	authMiddleware := auth.NewAuthMiddleware(tokenManager, userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(lifecycleService),
		Reports:        handlers.NewReportsHandler(reportService, metrics),
		Statuses:       handlers.NewStatusesHandler(statusRepo),
		Users:          handlers.NewUsersHandler(userRepo),
		History:        handlers.NewHistoryHandler(historyRepo),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
