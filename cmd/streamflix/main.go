package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/streamflix/streamflix/internal/api"
	"github.com/streamflix/streamflix/internal/config"
	"github.com/streamflix/streamflix/internal/controllers"
	"github.com/streamflix/streamflix/internal/models"
	"github.com/streamflix/streamflix/internal/scheduler"
	"github.com/streamflix/streamflix/internal/services/tmdb"
	"github.com/streamflix/streamflix/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Streamflix")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize TMDB client
	tmdbClient := tmdb.NewClient(cfg, logger)
	logger.Info("TMDB client initialized")

	// 5. Initialize controllers
	sessionCtrl := controllers.NewSessionController(db, logger)
	catalogCtrl := controllers.NewCatalogController(tmdbClient, sessionCtrl, logger)
	logger.Info("Controllers initialized")

	// 6. Initialize scheduler
	sched := scheduler.NewScheduler(catalogCtrl, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 7. Initialize HTTP server
	server := api.NewServer(cfg, catalogCtrl, sessionCtrl, tmdbClient, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Streamflix is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Streamflix stopped")
	return nil
}
