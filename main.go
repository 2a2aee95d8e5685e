package main

import (
	"context"
	"go.uber.org/zap"
	"log"
	"os"
	"os/signal"
	"shippio-service/api"
	"shippio-service/config"
	"shippio-service/core"
	"shippio-service/shipments"
	"shippio-service/workers/monitor"
	"syscall"
	"time"
)

func main() {
	cfg := config.LoadConfig()

	logger, err := core.NewLogger(*cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	if err := core.EnsureDatabase(ctx, *cfg.Database, logger); err != nil {
		logger.Error("Error ensuring database exists", zap.Error(err))
	}

	db, err := core.OpenDatabase(*cfg.Database, logger)
	if err != nil {
		logger.Fatal("Error connecting to database", zap.Error(err))
	}

	// Failed steps are already logged; the service still starts.
	if err := core.Bootstrap(ctx, db, logger); err != nil {
		logger.Warn("Bootstrap finished with errors", zap.Error(err))
	}

	service := shipments.NewService(logger.Named("shipments"), db, cfg.Database.QueryTimeout)
	server := api.NewServer(logger, cfg.HTTPAddress, api.NewRouter(logger, service))
	serverErr := server.Start()

	if cfg.Monitor.Enabled {
		orchestrator := core.NewOrchestrator(logger, []core.Worker{
			monitor.NewWorker(logger.Named("monitor"), db, cfg.Monitor.Schedule),
		})

		c, err := orchestrator.Start(ctx)
		if err != nil {
			logger.Fatal("Error starting workers", zap.Error(err))
		}
		defer c.Stop()
	}

	// Wait for termination signal to exit gracefully
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		logger.Info("Shutting down", zap.String("signal", s.String()))
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server stopped unexpectedly", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", zap.Error(err))
	}
}
