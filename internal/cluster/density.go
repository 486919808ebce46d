package cluster

import (
	"cmp"
	"slices"
	"time"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/geo"
)

// DensityClusterer groups reports around seed reports. Each unassigned seed,
// visited in SeedOrder, claims every later unassigned report that is within
// MaxTimeGap of the seed's timestamp and within RadiusKm of the seed itself.
// Clusters are therefore star-shaped around their seed, and the partition
// depends on visit order. Cost is quadratic in the number of located reports.
type DensityClusterer struct {
	Radius     float64
	MaxTimeGap time.Duration
	SeedOrder  SeedOrder
}

// NewDensityClusterer builds a density clusterer from opts, filling defaults.
func NewDensityClusterer(opts Options) DensityClusterer {
	opts = opts.withDefaults()
	return DensityClusterer{
		Radius:     opts.RadiusKm,
		MaxTimeGap: opts.MaxTimeGap,
		SeedOrder:  opts.SeedOrder,
	}
}

func (d DensityClusterer) Strategy() Strategy { return StrategyDensity }
func (d DensityClusterer) RadiusKm() float64  { return d.Radius }

func (d DensityClusterer) Group(reports []domain.Report) Grouping {
	located, unlocated := splitLocated(reports)
	ordered := orderSeeds(located, d.SeedOrder)

	g := Grouping{Ungrouped: unlocated}
	assigned := make([]bool, len(ordered))

	for i, seed := range ordered {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		group := []domain.Report{seed}

		for j := i + 1; j < len(ordered); j++ {
			if assigned[j] {
				continue
			}
			candidate := ordered[j]
			if !withinTimeGap(seed.Timestamp, candidate.Timestamp, d.MaxTimeGap) {
				continue
			}
			dist := geo.SafeDistance(seed.Location.Lat, seed.Location.Lng, candidate.Location.Lat, candidate.Location.Lng)
			if dist > d.Radius {
				continue
			}
			assigned[j] = true
			group = append(group, candidate)
		}

		g.Groups = append(g.Groups, group)
	}
	return g
}

// withinTimeGap reports whether two timestamps are at most gap apart. A zero
// timestamp is never within any window.
func withinTimeGap(a, b time.Time, gap time.Duration) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return diff <= gap
}

// orderSeeds returns reports in visit order. The input slice is not modified.
func orderSeeds(reports []domain.Report, order SeedOrder) []domain.Report {
	out := slices.Clone(reports)
	switch order {
	case SeedOrderUrgency:
		slices.SortStableFunc(out, func(a, b domain.Report) int {
			if c := cmp.Compare(b.UrgentLevel.Priority(), a.UrgentLevel.Priority()); c != 0 {
				return c
			}
			return b.Timestamp.Compare(a.Timestamp)
		})
	case SeedOrderNewest:
		slices.SortStableFunc(out, func(a, b domain.Report) int {
			return b.Timestamp.Compare(a.Timestamp)
		})
	}
	return out
}
