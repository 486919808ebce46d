package cluster

import (
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/geo"
)

// ComputeViewport frames the located items: their bounding box grown by
// padding times each span on every side. Center is the midpoint of the
// unpadded box. Returns nil when no item has a usable location.
func ComputeViewport(items []domain.Item, padding float64) *domain.ViewportBounds {
	var extent geo.Extent
	for _, it := range items {
		if it.Located() {
			extent.Add(it.Location.Lat, it.Location.Lng)
		}
	}

	box, ok := extent.Box()
	if !ok {
		return nil
	}

	centerLat, centerLng := box.Center()
	padded := box.Pad(padding)
	return &domain.ViewportBounds{
		North:  padded.North(),
		South:  padded.South(),
		East:   padded.East(),
		West:   padded.West(),
		Center: domain.Point{Lat: centerLat, Lng: centerLng},
	}
}
