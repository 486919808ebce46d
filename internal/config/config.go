package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/hazard-cluster-service/internal/cluster"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Clustering configuration.
	Cluster         cluster.Options
	ViewportPadding float64
	ResultCacheSize int

	// Snapshot retention.
	ReportRetention time.Duration
	PruneSchedule   string

	// Mapbox region enrichment.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	SentryDSN         string
	SentryEnvironment string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	clusterOpts, err := loadClusterOptions()
	if err != nil {
		return nil, err
	}

	padding, err := parseFloat("VIEWPORT_PADDING", cluster.DefaultViewportPadding, 0)
	if err != nil {
		return nil, err
	}

	retention, err := parseDuration("REPORT_RETENTION", "168h")
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := parseDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "hazard-reports"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "hazard-clusters"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "hazard-cluster-service"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		Cluster:         clusterOpts,
		ViewportPadding: padding,
		ResultCacheSize: parsePositiveInt("RESULT_CACHE_SIZE", 64),

		ReportRetention: retention,
		PruneSchedule:   sharedcfg.EnvOrDefault("PRUNE_SCHEDULE", "@every 5m"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parsePositiveInt("MAPBOX_CACHE_SIZE", 1000),

		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: sharedcfg.EnvOrDefault("SENTRY_ENVIRONMENT", "development"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func loadClusterOptions() (cluster.Options, error) {
	radius, err := parseFloat("CLUSTER_RADIUS_KM", cluster.DefaultRadiusKm, 1e-9)
	if err != nil {
		return cluster.Options{}, err
	}
	gap, err := parseDuration("CLUSTER_TIME_GAP", cluster.DefaultMaxTimeGap.String())
	if err != nil {
		return cluster.Options{}, err
	}
	minSize, err := parseInt("CLUSTER_MIN_SIZE", cluster.DefaultMinClusterSize)
	if err != nil {
		return cluster.Options{}, err
	}
	order, err := cluster.ParseSeedOrder(os.Getenv("CLUSTER_SEED_ORDER"))
	if err != nil {
		return cluster.Options{}, fmt.Errorf("invalid CLUSTER_SEED_ORDER: %w", err)
	}
	grid, err := parseFloat("GRID_SIZE_KM", cluster.DefaultGridSizeKm, 1e-9)
	if err != nil {
		return cluster.Options{}, err
	}
	threshold, err := parseInt("LARGE_DATASET_THRESHOLD", cluster.DefaultLargeDatasetThreshold)
	if err != nil {
		return cluster.Options{}, err
	}

	return cluster.Options{
		RadiusKm:              radius,
		MaxTimeGap:            gap,
		MinClusterSize:        minSize,
		SeedOrder:             order,
		GridSizeKm:            grid,
		LargeDatasetThreshold: threshold,
	}, nil
}

// parseDuration reads a positive duration.
func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

// parseFloat reads a float that must be at least minimum.
func parseFloat(key string, fallback, minimum float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < minimum {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

// parseInt reads a positive integer.
func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

// parsePositiveInt is parseInt that falls back instead of failing.
func parsePositiveInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
