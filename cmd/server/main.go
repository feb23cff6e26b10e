package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/calvinwijaya/solitaire-be/internal/api"
	"github.com/calvinwijaya/solitaire-be/internal/config"
	"github.com/calvinwijaya/solitaire-be/internal/db"
	"github.com/calvinwijaya/solitaire-be/internal/leaderboard"
	"github.com/calvinwijaya/solitaire-be/internal/store"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}

	// Games and the leaderboard live in sqlite; without it everything is in memory
	var (
		gameStore store.Store
		kv        leaderboard.KV
	)
	database, err := db.NewDatabase(cfg.DBPath)
	if err != nil {
		logger.Warn("database unavailable, continuing without persistence", "path", cfg.DBPath, "error", err)
		gameStore = store.NewMemoryStore()
		kv = leaderboard.NewMemoryKV()
	} else {
		logger.Info("database initialized", "path", cfg.DBPath)
		defer database.Close()
		gameStore = store.NewDatabaseStore(database)
		kv = database
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize WebSocket hub
	hub := api.NewHub(logger, cfg.FrontendURL)
	go hub.Run(ctx)

	// Initialize API handlers
	handlers := api.NewHandlers(gameStore, leaderboard.New(kv), hub, logger)
	go handlers.RunTimer(ctx, cfg.TickInterval)

	// Set up router
	r := mux.NewRouter()
	r.Use(api.RequestIDMiddleware())
	r.Use(api.LoggingMiddleware(logger))
	handlers.RegisterRoutes(r)

	// Configure CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(r),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
