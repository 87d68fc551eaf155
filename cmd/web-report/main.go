// Command web-report serves the analysis summary over HTTP. It processes
// the given raw product file at startup, then exposes the analyses under
// /api/analysis along with health and Prometheus metrics endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"shoppulse/internal/config"
	"shoppulse/internal/infrastructure"
	"shoppulse/internal/pipeline"
	"shoppulse/internal/services"
	httptransport "shoppulse/internal/transport/http"
)

func main() {
	configFile := flag.String("config", "", "path to YAML config file (optional)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: web-report [flags] input.json")
		flag.PrintDefaults()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)
	defer infrastructure.CloseLogFile()

	metrics, err := infrastructure.NewMetrics()
	if err != nil {
		logger.Error("Failed to initialize metrics", slog.String("error", err.Error()))
		os.Exit(1)
	}

	p, err := pipeline.New(cfg, metrics, logger)
	if err != nil {
		logger.Error("Failed to build pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := services.NewReportService(cfg, logger)
	if err := service.LoadFile(ctx, p, inputPath); err != nil {
		logger.Error("Failed to load dataset",
			slog.String("path", inputPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := httptransport.NewServer(cfg.Server, service, metrics, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown failed", slog.String("error", err.Error()))
		}
		if err := metrics.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Metrics shutdown failed", slog.String("error", err.Error()))
		}
	}
}
