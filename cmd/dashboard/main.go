package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // DISPLAY_TIMEZONE must resolve on hosts without zoneinfo

	httpadapter "github.com/couchcryptid/sentinel-dashboard/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/sentinel-dashboard/internal/adapter/kafka"
	"github.com/couchcryptid/sentinel-dashboard/internal/adapter/sentinelapi"
	"github.com/couchcryptid/sentinel-dashboard/internal/config"
	"github.com/couchcryptid/sentinel-dashboard/internal/dashboard"
	"github.com/couchcryptid/sentinel-dashboard/internal/domain"
	"github.com/couchcryptid/sentinel-dashboard/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	domain.SetLocation(cfg.DisplayTimezone)

	api := sentinelapi.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)

	opts := dashboard.Options{Days: cfg.DefaultDays, Interval: cfg.ReloadInterval}

	// Kafka publishing is feature-flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts.Publisher = writer
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	ctrl := dashboard.New(api, opts, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, ctrl, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh loop.
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		if err := ctrl.Run(ctx); err != nil {
			logger.Error("dashboard controller error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	<-runDone
	if err := ctrl.WaitContext(shutdownCtx); err != nil {
		logger.Error("refresh cycles did not finish", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
