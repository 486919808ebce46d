package geo

import (
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
)

// pointTolerance gives indexed points a non-degenerate rectangle.
const pointTolerance = 1e-9

// NearbyIndex is an R-tree over points, built for a single query pass and
// then discarded. Entries are identified by the caller's slice index.
type NearbyIndex struct {
	tree   *rtreego.Rtree
	points map[int][2]float64
}

type indexedPoint struct {
	rect  rtreego.Rect
	index int
}

func (p indexedPoint) Bounds() rtreego.Rect { return p.rect }

// Neighbor is a query hit.
type Neighbor struct {
	Index      int
	DistanceKm float64
}

// NewNearbyIndex creates an empty index.
func NewNearbyIndex() *NearbyIndex {
	return &NearbyIndex{
		tree:   rtreego.NewTree(2, 25, 50),
		points: make(map[int][2]float64),
	}
}

// Insert adds the point at the caller's index.
func (ix *NearbyIndex) Insert(index int, lat, lng float64) {
	ix.tree.Insert(indexedPoint{
		rect:  rtreego.Point{lat, lng}.ToRect(pointTolerance),
		index: index,
	})
	ix.points[index] = [2]float64{lat, lng}
}

// Len returns the number of indexed points.
func (ix *NearbyIndex) Len() int { return len(ix.points) }

// Within returns the points whose great-circle distance from (lat, lng) is at
// most radiusKm, nearest first (ties by index). Longitude wrap-around at the
// antimeridian is not searched.
func (ix *NearbyIndex) Within(lat, lng, radiusKm float64) []Neighbor {
	if radiusKm < 0 || math.IsNaN(radiusKm) {
		return nil
	}

	tol := radiusKm / KmPerDegree
	if c := math.Cos(lat * math.Pi / 180); c > 0.01 {
		tol = math.Max(tol, radiusKm/(KmPerDegree*c))
	} else {
		tol = math.Max(tol, radiusKm/(KmPerDegree*0.01))
	}

	candidates := ix.tree.SearchIntersect(rtreego.Point{lat, lng}.ToRect(tol + pointTolerance))

	hits := make([]Neighbor, 0, len(candidates))
	for _, obj := range candidates {
		item := obj.(indexedPoint)
		p := ix.points[item.index]
		d := SafeDistance(lat, lng, p[0], p[1])
		if d <= radiusKm {
			hits = append(hits, Neighbor{Index: item.index, DistanceKm: d})
		}
	}

	slices.SortFunc(hits, func(a, b Neighbor) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		default:
			return a.Index - b.Index
		}
	})
	return hits
}
