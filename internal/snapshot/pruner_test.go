package snapshot

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-cluster-service/internal/observability"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPruner_PruneNow(t *testing.T) {
	s := NewStore()
	s.Upsert(testReport("fresh", time.Hour))
	s.Upsert(testReport("week-old", 8*24*time.Hour))

	clock := clockwork.NewFakeClockAt(now)
	metrics := observability.NewMetricsForTesting()
	p := NewPruner(s, 7*24*time.Hour, clock, discardLogger(), metrics)

	assert.Equal(t, 1, p.PruneNow())
	assert.Equal(t, []string{"fresh"}, reportIDs(s.Reports()))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ReportsPruned))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.SnapshotSize))

	clock.Advance(7 * 24 * time.Hour)
	assert.Equal(t, 1, p.PruneNow())
	assert.Equal(t, 0, s.Len())
}

func TestPruner_StartRejectsBadSchedule(t *testing.T) {
	p := NewPruner(NewStore(), time.Hour, nil, discardLogger(), observability.NewMetricsForTesting())

	err := p.Start("not a schedule")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule pruner")
}

func TestPruner_StartAndStop(t *testing.T) {
	p := NewPruner(NewStore(), time.Hour, nil, discardLogger(), observability.NewMetricsForTesting())

	require.NoError(t, p.Start("@every 1h"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	p.Stop(ctx)
}

func TestPruner_StopWithoutStart(t *testing.T) {
	p := NewPruner(NewStore(), time.Hour, nil, discardLogger(), observability.NewMetricsForTesting())
	p.Stop(context.Background())
}
