// Package geo holds the spherical geometry used by the clustering engine:
// great-circle distance, lat/lng rectangles, and a per-call proximity index.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean radius of the Earth in kilometers
// (NASA Planetary Fact Sheet, volumetric mean radius).
const EarthRadiusKm = 6371.0

// KmPerDegree approximates the length of one degree of latitude.
const KmPerDegree = 111.0

// Distance returns the Haversine great-circle distance in kilometers between
// two points given in decimal degrees. NaN inputs yield NaN.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusKm
}

// SafeDistance is Distance with NaN mapped to +Inf, so malformed input never
// compares as "near".
func SafeDistance(lat1, lng1, lat2, lng2 float64) float64 {
	d := Distance(lat1, lng1, lat2, lng2)
	if math.IsNaN(d) {
		return math.Inf(1)
	}
	return d
}
