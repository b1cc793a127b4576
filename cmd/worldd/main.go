package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neha-pm/npc-learn/internal/config"
	"github.com/neha-pm/npc-learn/internal/handlers"
	"github.com/neha-pm/npc-learn/internal/logger"
	"github.com/neha-pm/npc-learn/internal/sim"
	"github.com/neha-pm/npc-learn/internal/storage"
)

func main() {
	cfg := config.Load()

	log := logger.Setup(cfg.Environment, cfg.LogLevel)

	log.Info("Starting worldd",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"tick_interval", cfg.TickInterval)

	store := storage.NewRedisStore(cfg.RedisURL, logger.WithComponent(log, "storage"))

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer storageCancel()
	if err := store.Ping(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established")

	hub := sim.NewHub(logger.WithComponent(log, "hub"))
	ticker := sim.NewTicker(store, hub, cfg.TickInterval, logger.WithComponent(log, "ticker"))

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer seedCancel()
	if err := ticker.Seed(seedCtx); err != nil {
		log.Error("Failed to seed world", "error", err)
		os.Exit(1)
	}

	tickCtx, tickCancel := context.WithCancel(context.Background())
	defer tickCancel()
	go ticker.Run(tickCtx)

	mux := http.NewServeMux()
	mux.Handle("/health", handlers.NewHealthHandler(store, log))
	mux.Handle("/v1/snapshot", handlers.NewSnapshotHandler(store, log))
	mux.Handle("/v1/position", handlers.NewPositionHandler(store, log))
	mux.Handle("/v1/recall", handlers.NewRecallHandler(store, log))
	mux.Handle("/v1/reset", handlers.NewResetHandler(store, hub, ticker, log))
	mux.Handle("/v1/stream", handlers.NewStreamHandler(hub, logger.WithComponent(log, "stream")))

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		// No WriteTimeout: /v1/stream connections stay open indefinitely.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")
	tickCancel()

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
