package geo

import "github.com/paulmach/orb"

// Box is an inclusive latitude/longitude rectangle. It is backed by an
// orb.Bound whose X axis is longitude and Y axis is latitude.
type Box struct {
	bound orb.Bound
}

// NewBox builds a box from its four edges in degrees.
func NewBox(south, west, north, east float64) Box {
	return Box{bound: orb.Bound{
		Min: orb.Point{west, south},
		Max: orb.Point{east, north},
	}}
}

func (b Box) South() float64 { return b.bound.Min[1] }
func (b Box) North() float64 { return b.bound.Max[1] }
func (b Box) West() float64  { return b.bound.Min[0] }
func (b Box) East() float64  { return b.bound.Max[0] }

// Contains reports whether the point lies within [south,north] x [west,east].
func (b Box) Contains(lat, lng float64) bool {
	return b.bound.Contains(orb.Point{lng, lat})
}

// Center returns the arithmetic midpoint of the box.
func (b Box) Center() (lat, lng float64) {
	c := b.bound.Center()
	return c[1], c[0]
}

// Pad grows the box by fraction of its latitude span on the north and south
// edges and by fraction of its longitude span on the east and west edges.
func (b Box) Pad(fraction float64) Box {
	dLat := (b.North() - b.South()) * fraction
	dLng := (b.East() - b.West()) * fraction
	return NewBox(b.South()-dLat, b.West()-dLng, b.North()+dLat, b.East()+dLng)
}

// Extent accumulates points into the smallest enclosing Box.
type Extent struct {
	bound orb.Bound
	n     int
}

// Add includes a point in the extent.
func (e *Extent) Add(lat, lng float64) {
	p := orb.Point{lng, lat}
	if e.n == 0 {
		e.bound = orb.Bound{Min: p, Max: p}
	} else {
		e.bound = e.bound.Extend(p)
	}
	e.n++
}

// Len returns the number of points added.
func (e *Extent) Len() int { return e.n }

// Box returns the enclosing box, or false when no points were added.
func (e *Extent) Box() (Box, bool) {
	if e.n == 0 {
		return Box{}, false
	}
	return Box{bound: e.bound}, true
}
