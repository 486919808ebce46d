package cluster

import (
	"math"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/geo"
)

// GridClusterer buckets reports into square lat/lng cells of GridSizeKm,
// using the flat 111 km per degree approximation for both axes. Every report
// in a cell joins the same group, however far apart, and neighbors across a
// cell edge never merge. Cost is linear.
type GridClusterer struct {
	GridSizeKm float64
}

// NewGridClusterer builds a grid clusterer from opts, filling defaults.
func NewGridClusterer(opts Options) GridClusterer {
	return GridClusterer{GridSizeKm: opts.withDefaults().GridSizeKm}
}

func (g GridClusterer) Strategy() Strategy { return StrategyGrid }
func (g GridClusterer) RadiusKm() float64  { return g.GridSizeKm }

// Cell identifies a grid cell by row (latitude) and column (longitude).
type Cell struct {
	Row, Col int64
}

// CellOf returns the cell containing a point.
func (g GridClusterer) CellOf(lat, lng float64) Cell {
	step := g.GridSizeKm / geo.KmPerDegree
	return Cell{
		Row: int64(math.Floor(lat / step)),
		Col: int64(math.Floor(lng / step)),
	}
}

// Group returns one group per occupied cell, in order of each cell's first
// report.
func (g GridClusterer) Group(reports []domain.Report) Grouping {
	located, unlocated := splitLocated(reports)

	out := Grouping{Ungrouped: unlocated}
	index := make(map[Cell]int)

	for _, r := range located {
		cell := g.CellOf(r.Location.Lat, r.Location.Lng)
		i, ok := index[cell]
		if !ok {
			i = len(out.Groups)
			index[cell] = i
			out.Groups = append(out.Groups, nil)
		}
		out.Groups[i] = append(out.Groups[i], r)
	}
	return out
}
