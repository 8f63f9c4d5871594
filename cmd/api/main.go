package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aircon_booking_backend/internal/adapters"
	"aircon_booking_backend/internal/bookings"
	"aircon_booking_backend/internal/catalog"
	"aircon_booking_backend/internal/events"
	apphttp "aircon_booking_backend/internal/http"
	"aircon_booking_backend/internal/http/router"
	"aircon_booking_backend/internal/notification"
	"aircon_booking_backend/internal/scheduler"
	"aircon_booking_backend/internal/scheduling"
	"aircon_booking_backend/internal/technicians"
	"aircon_booking_backend/platform/config"
	"aircon_booking_backend/platform/db"
	"aircon_booking_backend/platform/logger"
	"aircon_booking_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	emailSender := notification.NewSMTPSender(
		cfg.GetSMTPHost(), cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
	)
	smsSender := notification.NewLogSMSSender(log, cfg.GetSMSDefaultRegion())
	notificationModule := notification.NewModule(emailSender, smsSender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	catalogModule := catalog.NewModule(pool, val)
	techniciansModule := technicians.NewModule(pool, val, log, cfg.GetSMSDefaultRegion())

	// Collaborator adapters keep the booking and scheduling engines
	// decoupled from the concrete repositories.
	catalogAdapter := adapters.NewCatalogAdapter(catalogModule.Repo)
	technicianAdapter := adapters.NewTechnicianAdapter(techniciansModule.Repo)

	bookingsModule := bookings.NewModule(pool, val, log, eventBus, cfg, catalogAdapter, technicianAdapter)

	schedulingModule := scheduling.NewModule(
		technicianAdapter,
		adapters.NewTimeslotAdapter(catalogModule.Repo),
		adapters.NewBookingCountAdapter(bookingsModule.Repo),
		technicianAdapter,
		log,
	)

	if reminderClient, closeClient := initReminderScheduler(cfg, log); reminderClient != nil {
		defer closeClient()
		bookingsModule.Service.SetReminderScheduler(reminderClient)
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			techniciansModule,
			schedulingModule,
			bookingsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReminderScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; booking reminders disabled")
		return nil, nil
	}

	reminderClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize reminder scheduler client", "error", err)
		return nil, nil
	}

	return reminderClient, func() {
		_ = reminderClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
