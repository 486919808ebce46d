package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-cluster-service/internal/cluster"
)

const (
	defaultBroker   = "localhost:9092"
	testMapboxToken = "pk.test-token"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "hazard-reports", cfg.KafkaSourceTopic)
	assert.Equal(t, "hazard-clusters", cfg.KafkaSinkTopic)
	assert.Equal(t, "hazard-cluster-service", cfg.KafkaGroupID)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.BatchFlushInterval)

	assert.Equal(t, cluster.DefaultOptions(), cfg.Cluster)
	assert.Equal(t, 0.1, cfg.ViewportPadding)
	assert.Equal(t, 64, cfg.ResultCacheSize)
	assert.Equal(t, 168*time.Hour, cfg.ReportRetention)
	assert.Equal(t, "@every 5m", cfg.PruneSchedule)

	assert.False(t, cfg.MapboxEnabled)
	assert.Empty(t, cfg.MapboxToken)
	assert.Equal(t, 5*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
	assert.Empty(t, cfg.SentryDSN)
	assert.Equal(t, "development", cfg.SentryEnvironment)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SOURCE_TOPIC", "custom-source")
	t.Setenv("KAFKA_SINK_TOPIC", "custom-sink")
	t.Setenv("KAFKA_GROUP_ID", "custom-group")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("BATCH_SIZE", "100")
	t.Setenv("BATCH_FLUSH_INTERVAL", "1s")
	t.Setenv("CLUSTER_RADIUS_KM", "0.5")
	t.Setenv("CLUSTER_TIME_GAP", "30m")
	t.Setenv("CLUSTER_MIN_SIZE", "3")
	t.Setenv("CLUSTER_SEED_ORDER", "urgency")
	t.Setenv("GRID_SIZE_KM", "5")
	t.Setenv("LARGE_DATASET_THRESHOLD", "1000")
	t.Setenv("VIEWPORT_PADDING", "0")
	t.Setenv("RESULT_CACHE_SIZE", "8")
	t.Setenv("REPORT_RETENTION", "24h")
	t.Setenv("PRUNE_SCHEDULE", "*/10 * * * *")
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_TIMEOUT", "10s")
	t.Setenv("MAPBOX_CACHE_SIZE", "500")
	t.Setenv("SENTRY_DSN", "https://public@sentry.example.com/1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-source", cfg.KafkaSourceTopic)
	assert.Equal(t, "custom-sink", cfg.KafkaSinkTopic)
	assert.Equal(t, "custom-group", cfg.KafkaGroupID)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1*time.Second, cfg.BatchFlushInterval)

	assert.Equal(t, cluster.Options{
		RadiusKm:              0.5,
		MaxTimeGap:            30 * time.Minute,
		MinClusterSize:        3,
		SeedOrder:             cluster.SeedOrderUrgency,
		GridSizeKm:            5,
		LargeDatasetThreshold: 1000,
	}, cfg.Cluster)
	assert.Equal(t, 0.0, cfg.ViewportPadding)
	assert.Equal(t, 8, cfg.ResultCacheSize)
	assert.Equal(t, 24*time.Hour, cfg.ReportRetention)
	assert.Equal(t, "*/10 * * * *", cfg.PruneSchedule)

	assert.True(t, cfg.MapboxEnabled)
	assert.Equal(t, testMapboxToken, cfg.MapboxToken)
	assert.Equal(t, 10*time.Second, cfg.MapboxTimeout)
	assert.Equal(t, 500, cfg.MapboxCacheSize)
	assert.Equal(t, "https://public@sentry.example.com/1", cfg.SentryDSN)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SHUTDOWN_TIMEOUT", "-1s"},
		{"BATCH_SIZE", "0"},
		{"BATCH_SIZE", "9999"},
		{"BATCH_FLUSH_INTERVAL", "not-a-duration"},
		{"CLUSTER_RADIUS_KM", "0"},
		{"CLUSTER_RADIUS_KM", "wide"},
		{"CLUSTER_TIME_GAP", "-5m"},
		{"CLUSTER_MIN_SIZE", "0"},
		{"CLUSTER_SEED_ORDER", "random"},
		{"GRID_SIZE_KM", "-2"},
		{"LARGE_DATASET_THRESHOLD", "many"},
		{"VIEWPORT_PADDING", "-0.1"},
		{"REPORT_RETENTION", "forever"},
		{"MAPBOX_TIMEOUT", "bad"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_InvalidCacheSizesFallBack(t *testing.T) {
	t.Setenv("RESULT_CACHE_SIZE", "-1")
	t.Setenv("MAPBOX_CACHE_SIZE", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.ResultCacheSize)
	assert.Equal(t, 1000, cfg.MapboxCacheSize)
}

func TestLoad_MapboxEnabledWithoutToken(t *testing.T) {
	t.Setenv("MAPBOX_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MAPBOX_TOKEN")
}

func TestLoad_MapboxTokenImpliesEnabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MapboxEnabled)
}

func TestLoad_MapboxExplicitlyDisabled(t *testing.T) {
	t.Setenv("MAPBOX_TOKEN", testMapboxToken)
	t.Setenv("MAPBOX_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MapboxEnabled)
}
