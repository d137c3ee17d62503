package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/gapscan/internal/cache"
	"github.com/soltixdb/gapscan/internal/config"
	"github.com/soltixdb/gapscan/internal/logging"
	"github.com/soltixdb/gapscan/internal/queue"
	"github.com/soltixdb/gapscan/internal/services"
	"github.com/soltixdb/gapscan/internal/worker"
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
	logger.Info("Worker service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	if !cfg.Queue.Enabled {
		logger.Fatal("Worker requires queue.enabled=true")
	}

	logger.Info("Connecting to Queue", "type", cfg.Queue.Type, "url", cfg.Queue.URL)
	queueClient, err := queue.NewQueue(cfg.Queue, logger)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "error", err)
	}
	defer func() { _ = queueClient.Close() }()

	reportCache, err := cache.New(cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Failed to initialize report cache", "error", err)
	}
	defer func() { _ = reportCache.Close() }()

	gapService := services.NewGapService(logger, cfg.Analysis, reportCache, queueClient, cfg.Queue.ReportSubject)

	w := worker.New(logger, queueClient, gapService, cfg.Queue.JobSubject)
	if err := w.Start(); err != nil {
		logger.Fatal("Failed to start worker", "error", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	if err := w.Stop(); err != nil {
		logger.Error("Failed to unsubscribe", "error", err)
	}

	stats := w.Stats()
	logger.Info("Worker exited",
		"completed", stats.Completed, "rejected", stats.Rejected, "retried", stats.Retried)
}
