package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/Harsh2563/flagright-relgraph/internal/config"
	"github.com/Harsh2563/flagright-relgraph/internal/logging"
	"github.com/Harsh2563/flagright-relgraph/internal/metrics"
	"github.com/Harsh2563/flagright-relgraph/internal/server"
	"github.com/Harsh2563/flagright-relgraph/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}

	fs := pflag.NewFlagSet("relgraph-server", pflag.ExitOnError)
	config.RegisterFlags(fs)
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	source, closeSource, err := service.OpenSource(ctx, cfg)
	if err != nil {
		logger.Error("failed to open relationship source", "source", cfg.Source, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeSource(context.Background()); err != nil {
			logger.Warn("closing relationship source failed", "error", err)
		}
	}()

	var m *metrics.Metrics
	if cfg.HTTP.MetricsEnabled {
		m = metrics.New()
	}

	explorer := service.NewExplorerService(source, logger, m, cfg.Upstream.MaxConcurrency)
	deps := server.RouterDependencies{
		Health:           explorer,
		API:              server.NewAPIHandlers(logger, explorer),
		AllowedOrigins:   cfg.HTTP.AllowedOrigins(),
		AllowCredentials: true,
	}
	if m != nil {
		deps.Metrics = m.Handler()
	}

	srv := server.New(logger, cfg.HTTP, server.NewRouter(logger, deps))
	logger.Info("relationship source ready", "source", cfg.Source)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
