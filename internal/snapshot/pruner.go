package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/robfig/cron/v3"

	"github.com/couchcryptid/hazard-cluster-service/internal/observability"
)

// Pruner enforces report retention on a cron schedule.
type Pruner struct {
	store     *Store
	retention time.Duration
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	cron      *cron.Cron
}

// NewPruner creates a pruner that drops reports older than retention.
func NewPruner(store *Store, retention time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Pruner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Pruner{
		store:     store,
		retention: retention,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
	}
}

// PruneNow runs one retention pass and returns the number of reports dropped.
func (p *Pruner) PruneNow() int {
	cutoff := p.clock.Now().Add(-p.retention)
	removed := p.store.Prune(cutoff)

	p.metrics.SnapshotSize.Set(float64(p.store.Len()))
	if removed > 0 {
		p.metrics.ReportsPruned.Add(float64(removed))
		p.logger.Info("pruned expired reports", "removed", removed, "cutoff", cutoff, "remaining", p.store.Len())
	}
	return removed
}

// Start schedules PruneNow using a standard five-field cron spec or a
// descriptor such as "@every 5m".
func (p *Pruner) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { p.PruneNow() }); err != nil {
		return fmt.Errorf("schedule pruner %q: %w", schedule, err)
	}
	p.cron = c
	c.Start()
	p.logger.Info("pruner started", "schedule", schedule, "retention", p.retention)
	return nil
}

// Stop halts the schedule and waits for a running pass to finish or ctx to end.
func (p *Pruner) Stop(ctx context.Context) {
	if p.cron == nil {
		return
	}
	done := p.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
