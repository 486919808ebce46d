package cluster

import (
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

// Ranked is the unfiltered, display-ordered output of one clustering run.
type Ranked struct {
	Strategy Strategy
	Items    []domain.Item
}

// Result is a filtered view of a run plus the viewport framing it.
type Result struct {
	Strategy Strategy               `json:"strategy"`
	Items    []domain.Item          `json:"items"`
	Viewport *domain.ViewportBounds `json:"viewport"`
}

// Engine composes strategy selection, grouping, aggregation, ranking,
// filtering and viewport framing. It holds no mutable state; every call
// recomputes from the reports it is given.
type Engine struct {
	opts  Options
	agg   Aggregator
	clock clockwork.Clock
}

// NewEngine creates an engine. A nil ids defaults to content-derived cluster
// IDs and a nil clock to the real clock.
func NewEngine(opts Options, ids domain.IDGenerator, clock clockwork.Clock) *Engine {
	opts = opts.withDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Engine{
		opts:  opts,
		agg:   NewAggregator(opts.MinClusterSize, ids),
		clock: clock,
	}
}

// Options returns the effective options, defaults filled in.
func (e *Engine) Options() Options { return e.opts }

// Rank clusters reports and returns every resulting item in display order.
// Reports are never modified.
func (e *Engine) Rank(reports []domain.Report) Ranked {
	c := Select(len(reports), e.opts)
	items := e.agg.Build(c.Group(reports), c.RadiusKm())
	Rank(items)
	return Ranked{Strategy: c.Strategy(), Items: items}
}

// Apply filters a ranked run against criteria evaluated at the engine clock's
// current time and frames the survivors.
func (e *Engine) Apply(r Ranked, criteria Criteria, padding float64) Result {
	items := Filter(r.Items, criteria, e.clock.Now())
	return Result{
		Strategy: r.Strategy,
		Items:    items,
		Viewport: ComputeViewport(items, padding),
	}
}

// Run is Rank followed by Apply.
func (e *Engine) Run(reports []domain.Report, criteria Criteria, padding float64) Result {
	return e.Apply(e.Rank(reports), criteria, padding)
}
