package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/staff_scheduler/internal/app"
	"github.com/Freeeeeet/staff_scheduler/internal/config"
	"github.com/Freeeeeet/staff_scheduler/internal/controller/api"
	"github.com/Freeeeeet/staff_scheduler/internal/migrations"
	"github.com/Freeeeeet/staff_scheduler/internal/repository"
	"github.com/Freeeeeet/staff_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/staff_scheduler/internal/service"
)

func main() {
	cfg, fromFile, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment, cfg.LogLevel)
	defer logger.Sync()

	if fromFile {
		logger.Info("Loaded configuration from .env file")
	} else {
		logger.Info("No .env file found, using environment variables")
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting staff scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.StorageDriver),
		zap.Bool("strict_availability", cfg.StrictAvailability),
	)

	shutdownTracing, err := app.SetupTracing(ctx, app.TracingConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: "staff-scheduler",
		Endpoint:    cfg.OTelEndpoint,
	})
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}()

	var store repository.Store
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		store = memory.NewStore()
	default:
		pool, err := pgxpool.New(ctx, cfg.DBDSN)
		if err != nil {
			return err
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return err
		}

		migrator, err := app.NewMigrator(pool, migrations.FS, logger)
		if err != nil {
			return err
		}
		err = migrator.Run(ctx)
		migrator.Close()
		if err != nil {
			return err
		}

		store = repository.NewPostgresStore(pool)
	}

	staffService := service.NewStaffService(store, cfg.StrictAvailability, logger)
	bookingService := service.NewBookingService(store, logger)

	handlers := api.NewHandlers(staffService, bookingService, store, logger)
	router := api.NewRouter(handlers, api.RouterConfig{
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	}, logger)

	return app.NewServer(cfg.HTTPAddr, router, cfg.ShutdownTimeout, logger).Run(ctx)
}
