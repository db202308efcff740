// Command api is the media notification server.
//
// Usage:
//
//	notifier-api
//	API_PORT=8400 notifier-api

// @title Media Notification API
// @version 1.0.0
// @description Per-user notifications for media catalog additions: generation, relevance filtering, storage with retention, and a poll-based read surface.
// @host localhost:8400
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/finchmedia/notifier/internal/api"
	"github.com/finchmedia/notifier/internal/api/handler"
	"github.com/finchmedia/notifier/internal/config"
	"github.com/finchmedia/notifier/internal/db"
	"github.com/finchmedia/notifier/internal/maintenance"
	"github.com/finchmedia/notifier/internal/mediahost"
	"github.com/finchmedia/notifier/internal/notifications"

	_ "github.com/finchmedia/notifier/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Host catalog collaborator and notification core
	host := mediahost.New(cfg.CatalogBaseURL, cfg.CatalogAPIKey, cfg.CatalogTimeout, logger)
	store := notifications.NewStore(pool.Pool, logger)
	analyzer := notifications.NewAnalyzer(host, host, logger)
	intake := notifications.NewIntake(ctx, host, host, analyzer, store, notifications.IntakeConfig{
		Levels:        cfg.Levels,
		RetentionDays: cfg.RetentionDays,
		SettleDelay:   cfg.SettleDelay,
	}, logger)
	logger.Info("Intake pipeline ready",
		"movie_level", cfg.Levels.Movie,
		"series_level", cfg.Levels.Series,
		"music_level", cfg.Levels.Music,
		"retention_days", cfg.RetentionDays)

	// Start maintenance ticker (expired notification purge)
	go maintenance.Start(ctx, store, maintenance.Config{PurgeInterval: cfg.PurgeInterval}, logger)

	// Create router
	h := handler.New(store, intake, pool)
	router := api.NewRouter(h, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Media Notification API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
