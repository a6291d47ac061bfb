package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tosifAN/sunrise-2024/internal/api"
	"github.com/tosifAN/sunrise-2024/internal/board"
	"github.com/tosifAN/sunrise-2024/internal/config"
	"github.com/tosifAN/sunrise-2024/internal/seed"
	"github.com/tosifAN/sunrise-2024/internal/store"
)

func main() {
	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Logger
	logLevel := slog.LevelInfo
	if cfg.LogLevel == "debug" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Seed list
	seedTasks, err := seed.Load(cfg.SeedFile)
	if err != nil {
		logger.Error("failed to load seed tasks", "error", err, "path", cfg.SeedFile)
		os.Exit(1)
	}

	// Store
	taskStore, err := store.New(cfg.Store, cfg.DBPath, seedTasks)
	if err != nil {
		logger.Error("failed to open task store", "error", err, "backend", cfg.Store)
		os.Exit(1)
	}
	defer taskStore.Close()

	svc := board.NewService(taskStore, logger)

	// Router
	router := api.NewRouter(svc, logger)

	// Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("task board server starting",
			"addr", addr,
			"store", cfg.Store,
			"seed_tasks", len(seedTasks),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
