package cluster

import (
	"time"

	"github.com/couchcryptid/hazard-cluster-service/internal/cache"
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/observability"
)

// CachedEngine memoizes ranked runs by snapshot version. Only the unfiltered
// ranking is cached; filters and viewports are evaluated on every call.
// Cached items are shared between callers and must be treated as read-only.
type CachedEngine struct {
	engine  *Engine
	results *cache.LRU[uint64, Ranked]
	metrics *observability.Metrics
}

// NewCachedEngine wraps engine with an LRU of maxEntries ranked runs.
func NewCachedEngine(engine *Engine, maxEntries int, metrics *observability.Metrics) *CachedEngine {
	return &CachedEngine{
		engine:  engine,
		results: cache.NewLRU[uint64, Ranked](maxEntries),
		metrics: metrics,
	}
}

// Engine returns the wrapped engine.
func (c *CachedEngine) Engine() *Engine { return c.engine }

// Rank returns the ranked run for the snapshot at version, computing it from
// reports on a miss. Callers must pass the reports belonging to version.
func (c *CachedEngine) Rank(version uint64, reports []domain.Report) Ranked {
	if r, ok := c.results.Get(version); ok {
		c.metrics.ResultCache.WithLabelValues("hit").Inc()
		return r
	}
	c.metrics.ResultCache.WithLabelValues("miss").Inc()

	start := time.Now()
	r := c.engine.Rank(reports)
	c.metrics.ClusteringRuns.WithLabelValues(string(r.Strategy)).Inc()
	c.metrics.ClusteringDuration.WithLabelValues(string(r.Strategy)).Observe(time.Since(start).Seconds())

	clusters, standalone := countKinds(r.Items)
	c.metrics.ItemsEmitted.WithLabelValues(string(domain.KindCluster)).Add(float64(clusters))
	c.metrics.ItemsEmitted.WithLabelValues(string(domain.KindStandalone)).Add(float64(standalone))

	c.results.Put(version, r)
	return r
}

// Run is the cached Rank followed by Engine.Apply.
func (c *CachedEngine) Run(version uint64, reports []domain.Report, criteria Criteria, padding float64) Result {
	return c.engine.Apply(c.Rank(version, reports), criteria, padding)
}

func countKinds(items []domain.Item) (clusters, standalone int) {
	for _, it := range items {
		if it.IsCluster() {
			clusters++
		} else {
			standalone++
		}
	}
	return clusters, standalone
}
