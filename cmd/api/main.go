package main

import (
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/ramp-scheduler/internal/api/http"
	"github.com/spec-kit/ramp-scheduler/internal/api/http/handlers"
	"github.com/spec-kit/ramp-scheduler/internal/auth"
	"github.com/spec-kit/ramp-scheduler/internal/config"
	"github.com/spec-kit/ramp-scheduler/internal/domain"
	"github.com/spec-kit/ramp-scheduler/internal/events"
	"github.com/spec-kit/ramp-scheduler/internal/ingest"
	"github.com/spec-kit/ramp-scheduler/internal/ledger"
	"github.com/spec-kit/ramp-scheduler/internal/observability"
	"github.com/spec-kit/ramp-scheduler/internal/registry"
	"github.com/spec-kit/ramp-scheduler/internal/roster"
	"github.com/spec-kit/ramp-scheduler/internal/service"
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

	staff, err := ingest.LoadStaff(cfg.Data.EmployeesCSV)
	if err != nil {
		logger.Fatal("failed to load staff roster", zap.Error(err))
	}

	baseDate, err := time.Parse("2006-01-02", cfg.Data.BaseDate)
	if err != nil {
		logger.Fatal("invalid DATA_BASE_DATE", zap.Error(err))
	}

	flights, err := ingest.LoadFlights(cfg.Data.FlightsCSV, baseDate)
	if err != nil {
		logger.Fatal("failed to load flight log", zap.Error(err))
	}
	ingest.ApplyCityHeaviness(flights, cfg.Data.CityHeaviness)

	logger.Info("data loaded",
		zap.Int("staff", len(staff)),
		zap.Int("flights", len(flights)))

	seed := cfg.Scheduler.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	pool := roster.NewPool(staff)
	teams := registry.New(cfg.Scheduler.TeamLabels, rng)
	ldg := ledger.New()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	notificationSvc := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	notificationSvc.RegisterHandlers()

	detector := service.NewDetectorService(pool, teams, ldg, service.DetectorPolicy{
		DepartureWindow: cfg.Scheduler.DepartureWindow(),
		ArrivalWindow:   cfg.Scheduler.ArrivalWindow(),
		IdealTeamSize:   cfg.Scheduler.IdealTeamSize,
	}, metrics, logger)

	engine := service.NewAssignmentService(service.AssignmentDependencies{
		Flights: flights,
		Teams:   teams,
		Policy: domain.SizePolicy{
			Sizes: map[domain.Heaviness]int{
				domain.HeavinessLight:  cfg.Scheduler.LightTeamSize,
				domain.HeavinessMedium: cfg.Scheduler.MediumTeamSize,
				domain.HeavinessHeavy:  cfg.Scheduler.HeavyTeamSize,
			},
			AllowUndersized: cfg.Scheduler.AllowUndersized,
		},
		MinBreak:   cfg.Scheduler.MinBreak(),
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	scheduler := service.NewSchedulerService(service.SchedulerDependencies{
		Pool:       pool,
		Teams:      teams,
		Ledger:     ldg,
		Detector:   detector,
		Engine:     engine,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
		Formation: registry.FormationPolicy{
			MinTeamSize:     cfg.Scheduler.MinTeamSize,
			CriticalMinSize: cfg.Scheduler.CriticalMinSize,
			MaxTeams:        len(cfg.Scheduler.TeamLabels),
		},
		Window: cfg.Scheduler.Window(),
	})

	authService, err := service.NewAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to seed operators", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), authService)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version),
		Auth:           handlers.NewAuthHandler(authService),
		Scheduler:      handlers.NewSchedulerHandler(scheduler),
		Teams:          handlers.NewTeamsHandler(scheduler),
		Notifications:  handlers.NewNotificationsHandler(scheduler),
		Assignments:    handlers.NewAssignmentsHandler(scheduler),
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
