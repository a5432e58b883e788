package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hallsync/internal/api"
	"hallsync/internal/config"
	"hallsync/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	log := logger.Get()

	server := api.NewServer(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := server.Start(ctx); err != nil {
		cancel()
		logger.Fatal("Failed to start console", "error", err)
	}
	cancel()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.GetRouter(),
	}

	go func() {
		log.Info("Starting console", "port", cfg.Port, "event_id", cfg.Coordinator.EventID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down console")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	// flush pending layout saves before exiting
	if err := server.Cleanup(shutdownCtx); err != nil {
		log.Error("Error during cleanup", "error", err)
	}

	log.Info("Console stopped")
}
