package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/noah-ing/pricehawk/internal/checker"
	"github.com/noah-ing/pricehawk/internal/config"
	"github.com/noah-ing/pricehawk/internal/database"
	"github.com/noah-ing/pricehawk/internal/handler"
	"github.com/noah-ing/pricehawk/internal/monitor"
	"github.com/noah-ing/pricehawk/internal/notify"
	"github.com/noah-ing/pricehawk/internal/service"
	"github.com/noah-ing/pricehawk/internal/telemetry"
	"github.com/noah-ing/pricehawk/pkg/middleware"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	config.InitLogger(cfg)

	slog.Info("Starting PriceHawk Monitor Service", "version", version)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			slog.Error("Failed to disconnect from MongoDB", "error", err)
		}
	}()

	// Create indexes
	if err := database.CreateIndexes(ctx, db); err != nil {
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	productRepo := database.NewProductRepository(db)
	userRepo := database.NewUserRepository(db)
	runRepo := database.NewRunRepository(db)
	historyRepo := database.NewPriceHistoryRepository(db)
	lockRepo := database.NewLockRepository(db)

	// Initialize services
	productService := service.NewProductService(productRepo, historyRepo)
	runService := service.NewRunService(runRepo)

	// Initialize price checker
	priceChecker := checker.New(cfg.CheckerTimeout, cfg.CheckerConcurrency)

	// Initialize notification dispatcher (falls back to log-only when no
	// gateway is configured)
	var notifier monitor.Notifier
	if cfg.NotifyGatewayURL != "" {
		notifier = notify.NewDispatcher(cfg.NotifyGatewayURL, cfg.NotifyTimeout)
	} else {
		slog.Warn("No notification gateway configured, notifications will only be logged")
		notifier = notify.LogNotifier{}
	}

	// Initialize telemetry client
	telemetryClient := telemetry.New(cfg.TelemetryURL, cfg.TelemetryTimeout)

	// Initialize monitor
	changeBuffer := monitor.NewChangeBuffer()
	executor := monitor.NewExecutor(monitor.ExecutorDeps{
		Products:  productRepo,
		Accounts:  userRepo,
		Checker:   priceChecker,
		Notifier:  notifier,
		Telemetry: telemetryClient,
		Buffer:    changeBuffer,
		History:   historyRepo,
		Runs:      runRepo,
	}, monitor.RetryPolicy{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Concurrency: cfg.RetryConcurrency,
	})
	digest := monitor.NewDigestDispatcher(changeBuffer, userRepo, productRepo, notifier)
	scheduler := monitor.NewScheduler(executor, digest, lockRepo, cfg.RunLockTTL, cfg.MonitorRunTimeout)
	asyncRunner := monitor.NewAsyncRunner(scheduler, cfg.MonitorRunTimeout)

	if cfg.MonitorAutoStart {
		scheduler.Start(monitor.Options{
			HourlyLimit:         cfg.MonitorHourlyLimit,
			DailyLimit:          cfg.MonitorDailyLimit,
			EnableNotifications: cfg.MonitorNotifications,
		})
	}

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService)
	monitorHandler := handler.NewMonitorHandler(scheduler, asyncRunner)
	runHandler := handler.NewRunHandler(runService)
	healthHandler := handler.NewHealthHandler(db, scheduler, version)

	// Create CORS config
	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	// Create router
	router := handler.NewRouter(
		productHandler,
		monitorHandler,
		runHandler,
		healthHandler,
		corsConfig,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Starting HTTP server", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the monitoring triggers first
	slog.Info("Stopping monitoring...")
	scheduler.Stop()

	// Release any run locks held by this instance
	if err := lockRepo.ReleaseAllLocks(shutdownCtx, scheduler.InstanceID()); err != nil {
		slog.Error("Failed to release run locks during shutdown", "error", err)
	}

	// Shutdown HTTP server
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("PriceHawk Monitor Service stopped")
}
