package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/civicsignal/econdash/internal/adapter/cache"
	"github.com/civicsignal/econdash/internal/adapter/census"
	"github.com/civicsignal/econdash/internal/adapter/fred"
	"github.com/civicsignal/econdash/internal/adapter/hud"
	httpadapter "github.com/civicsignal/econdash/internal/adapter/http"
	kafkaadapter "github.com/civicsignal/econdash/internal/adapter/kafka"
	"github.com/civicsignal/econdash/internal/catalog"
	"github.com/civicsignal/econdash/internal/config"
	"github.com/civicsignal/econdash/internal/domain"
	"github.com/civicsignal/econdash/internal/observability"
	"github.com/civicsignal/econdash/internal/report"
	"github.com/civicsignal/econdash/internal/session"
)

func main() {
	// Local development reads keys from .env; absence is fine in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	index := catalog.NewIndex()

	fetchers := []domain.Fetcher{
		cache.NewFetcher(census.NewClient(cfg.CensusBaseURL, cfg.CensusAPIKey, cfg.UpstreamTimeout, index, logger), cfg.FetchCacheSize, metrics),
		cache.NewFetcher(fred.NewClient(cfg.FredBaseURL, cfg.FredAPIKey, cfg.UpstreamTimeout, index, logger), cfg.FetchCacheSize, metrics),
		hud.NewSimulator(index, logger),
	}

	// Snapshot publishing is feature-flagged via KAFKA_ENABLED.
	var publisher session.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		metrics.SnapshotsEnabled.Set(1)
		logger.Info("kafka snapshot publishing enabled", "topic", cfg.KafkaSnapshotTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka snapshot publishing disabled")
	}

	service := session.NewService(fetchers, publisher, metrics, logger)
	reports := report.NewBuilder(logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, service, index, reports, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
