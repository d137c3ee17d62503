package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/gapscan/internal/cache"
	"github.com/soltixdb/gapscan/internal/config"
	"github.com/soltixdb/gapscan/internal/handlers"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/queue"
	"github.com/soltixdb/gapscan/internal/router"
	"github.com/soltixdb/gapscan/internal/services"
	"github.com/soltixdb/gapscan/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("API service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)
	handlers.Version = Version

	// Queue is optional for the API; without it /v1/jobs answers 503
	var publisher queue.Publisher
	if cfg.Queue.Enabled {
		logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
		queueClient, err := queue.NewQueue(cfg.Queue, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Queue", "error", err)
		}
		defer func() { _ = queueClient.Close() }()
		publisher = queueClient
		logger.Info("Queue connection established")
	} else {
		logger.Warn("Queue disabled - asynchronous jobs are not accepted")
	}

	reportCache, err := cache.New(cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Failed to initialize report cache", "error", err)
	}
	defer func() { _ = reportCache.Close() }()
	logger.Info("Report cache initialized", "type", cfg.Cache.Type)

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	gapService := services.NewGapService(logger, cfg.Analysis, reportCache, publisher, cfg.Queue.ReportSubject)
	app := router.New(logger, gapService, publisher, *cfg)

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
