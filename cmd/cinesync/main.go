package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/amaumene/cinesync/internal/api"
	"github.com/amaumene/cinesync/internal/config"
	"github.com/amaumene/cinesync/internal/controllers"
	"github.com/amaumene/cinesync/internal/models"
	"github.com/amaumene/cinesync/internal/recommend"
	"github.com/amaumene/cinesync/internal/scheduler"
	"github.com/amaumene/cinesync/internal/search"
	"github.com/amaumene/cinesync/internal/services/tmdb"
	"github.com/amaumene/cinesync/internal/utils"
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
	logger.Info("Starting CineSync")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize TMDB client
	tmdbClient, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	// 5. Initialize controllers
	catalogCtrl := controllers.NewCatalogController(tmdbClient, logger)
	listCtrl := controllers.NewListController(db, tmdbClient, logger)
	roomCtrl := controllers.NewRoomController(db, logger)
	shareCtrl := controllers.NewShareController(db, listCtrl, logger)
	logger.Info("Controllers initialized")

	// 6. Initialize search sessions and recommendation engine
	cacheTTL := time.Duration(cfg.SearchCacheTTLMinutes) * time.Minute
	debounce := time.Duration(cfg.SearchDebounceMS) * time.Millisecond
	requestTimeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	sessions := search.NewManager(func() *search.Aggregator {
		return search.NewAggregator(tmdbClient, cacheTTL, debounce, requestTimeout, logger)
	}, 30*time.Minute)

	engine := recommend.NewEngine(tmdbClient, catalogCtrl, db, logger)

	// 7. Initialize scheduler
	sched := scheduler.NewScheduler(catalogCtrl, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	// 8. Initialize HTTP server
	server := api.NewServer(cfg, api.Deps{
		DB:          db,
		TMDBClient:  tmdbClient,
		CatalogCtrl: catalogCtrl,
		ListCtrl:    listCtrl,
		RoomCtrl:    roomCtrl,
		ShareCtrl:   shareCtrl,
		Engine:      engine,
		Sessions:    sessions,
	}, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 9. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("CineSync is running")

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

	logger.Info("CineSync stopped")
	return nil
}
