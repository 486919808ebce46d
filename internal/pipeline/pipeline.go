package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/hazard-cluster-service/internal/cluster"
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/observability"
	"github.com/couchcryptid/hazard-cluster-service/internal/snapshot"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw event into a normalized report.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.Report, error)
}

// Ranker produces the ranked items for a snapshot version.
type Ranker interface {
	Rank(version uint64, reports []domain.Report) cluster.Ranked
}

// BatchLoader writes ranked items to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, items []domain.Item) error
}

// ErrorReporter receives errors the pipeline recovers from by backing off.
type ErrorReporter func(err error, stage string)

// Pipeline keeps the report snapshot current from the source topic and
// publishes a full re-ranking after every batch that changed it.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	store       *snapshot.Store
	ranker      Ranker
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
	reportErr   ErrorReporter

	// published is the store version last loaded to the sink. pending holds
	// consumed messages whose offsets wait on the next successful load.
	published uint64
	pending   []domain.RawEvent
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, store *snapshot.Store, r Ranker, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		store:       store,
		ranker:      r,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// OnError registers a reporter for extract and load failures.
func (p *Pipeline) OnError(fn ErrorReporter) {
	p.reportErr = fn
}

// CheckReadiness returns nil once the pipeline has published at least once,
// or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not published any clusters yet")
	}
	return nil
}

// Ready reports whether the pipeline has published at least once.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := initialBackoff

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff) {
			return nil
		}
	}
}

const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// processBatch runs one extract-apply-publish cycle. An empty batch still
// publishes when an earlier load failed and left the snapshot ahead of the
// sink. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration) bool {
	start := time.Now()

	rawBatch, err := p.extractor.ExtractBatch(ctx, p.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		p.logger.Error("extract batch failed", "error", err)
		p.report(err, "extract")
		return p.backoffOrStop(ctx, backoff)
	}

	if len(rawBatch) > 0 {
		p.metrics.ReportsConsumed.Add(float64(len(rawBatch)))
		p.metrics.BatchSize.Observe(float64(len(rawBatch)))
		*backoff = initialBackoff
		p.apply(ctx, rawBatch)
	}

	if ctx.Err() != nil {
		return false
	}

	published, ok := p.publish(ctx)
	if !ok {
		return p.backoffOrStop(ctx, backoff)
	}
	if published {
		*backoff = initialBackoff
		p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	}
	return true
}

// apply folds the batch into the snapshot. Every message, including parse
// failures, joins the pending commits so no offset is committed ahead of an
// unpublished change in the same partition.
func (p *Pipeline) apply(ctx context.Context, rawBatch []domain.RawEvent) {
	for _, raw := range rawBatch {
		p.pending = append(p.pending, raw)

		if raw.Tombstone() {
			id := string(raw.Key)
			if p.store.Remove(id) {
				p.logger.Debug("report removed", "report_id", id)
			}
			continue
		}

		report, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("parse failed, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.ParseErrors.Inc()
			continue
		}
		p.store.Upsert(report)
	}
}

// publish loads the re-ranked snapshot when it has moved past the last
// published version, then commits pending offsets. Returns whether a load
// happened and false when the load failed.
func (p *Pipeline) publish(ctx context.Context) (bool, bool) {
	version, reports := p.store.Snapshot()
	if version == p.published {
		p.commitPending(ctx)
		return false, true
	}

	p.metrics.SnapshotSize.Set(float64(len(reports)))
	ranked := p.ranker.Rank(version, reports)

	if err := p.loader.LoadBatch(ctx, ranked.Items); err != nil {
		p.logger.Error("load batch failed", "error", err, "version", version, "batch_size", len(ranked.Items))
		p.report(err, "load")
		return false, false
	}

	p.published = version
	p.ready.Store(true)
	p.metrics.ItemsPublished.Add(float64(len(ranked.Items)))
	p.logger.Debug("snapshot published",
		"version", version,
		"strategy", ranked.Strategy,
		"reports", len(reports),
		"items", len(ranked.Items),
	)

	p.commitPending(ctx)
	return true, true
}

func (p *Pipeline) commitPending(ctx context.Context) {
	for _, raw := range p.pending {
		p.commitOffset(ctx, raw)
	}
	p.pending = p.pending[:0]
}

func (p *Pipeline) report(err error, stage string) {
	if p.reportErr != nil {
		p.reportErr(err, stage)
	}
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
