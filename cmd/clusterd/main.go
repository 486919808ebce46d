package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hazard-cluster-service/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/hazard-cluster-service/internal/adapter/kafka"
	"github.com/couchcryptid/hazard-cluster-service/internal/adapter/mapbox"
	"github.com/couchcryptid/hazard-cluster-service/internal/cluster"
	"github.com/couchcryptid/hazard-cluster-service/internal/config"
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/observability"
	"github.com/couchcryptid/hazard-cluster-service/internal/pipeline"
	"github.com/couchcryptid/hazard-cluster-service/internal/report"
	"github.com/couchcryptid/hazard-cluster-service/internal/snapshot"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env file is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	sentryEnabled, err := report.Setup(cfg.SentryDSN, cfg.SentryEnvironment, version)
	if err != nil {
		logger.Error("sentry setup failed, continuing without error reporting", "error", err)
	}
	if sentryEnabled {
		defer report.Flush()
		logger.Info("sentry error reporting enabled", "environment", cfg.SentryEnvironment)
	}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, logger, metrics)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	clock := clockwork.NewRealClock()
	store := snapshot.NewStore()
	engine := cluster.NewCachedEngine(cluster.NewEngine(cfg.Cluster, domain.ContentIDs{}, clock), cfg.ResultCacheSize, metrics)

	pruner := snapshot.NewPruner(store, cfg.ReportRetention, clock, logger, metrics)
	if err := pruner.Start(cfg.PruneSchedule); err != nil {
		logger.Error("failed to start pruner", "error", err)
		os.Exit(1)
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(geocoder, logger)

	p := pipeline.New(reader, transformer, store, engine, writer, logger, metrics, cfg.BatchSize)
	p.OnError(func(err error, stage string) {
		report.Error(err, map[string]string{"stage": stage})
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, engine, cfg.ViewportPadding, logger)

	logger.Info("hazard cluster service starting",
		"version", version,
		"radius_km", cfg.Cluster.RadiusKm,
		"grid_size_km", cfg.Cluster.GridSizeKm,
		"large_dataset_threshold", cfg.Cluster.LargeDatasetThreshold,
		"seed_order", cfg.Cluster.SeedOrder,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			report.Error(err, map[string]string{"stage": "http"})
		}
	}()

	// Start intake pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	pruner.Stop(shutdownCtx)
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
