package domain

import "time"

// ItemKind tags the variant of an Item.
type ItemKind string

const (
	KindCluster    ItemKind = "cluster"
	KindStandalone ItemKind = "standalone"
)

// Item is one map-displayable entry: either a cluster of reports or a single
// standalone report. The shared fields are populated for both kinds so the
// ranker and filters can treat them uniformly.
type Item struct {
	ID          string      `json:"id"`
	Kind        ItemKind    `json:"type"`
	Location    *Location   `json:"location,omitempty"`
	UrgentLevel UrgentLevel `json:"urgentLevel"`
	Timestamp   time.Time   `json:"timestamp,omitzero"`
	Count       int         `json:"count"`

	// Cluster fields.
	Radius     float64        `json:"radius,omitempty"`
	Reports    []Report       `json:"reports,omitempty"`
	TypeGroups map[string]int `json:"typeGroups,omitempty"`
	Summary    string         `json:"summary,omitempty"`

	// Standalone field.
	Report *Report `json:"report,omitempty"`
}

// IsCluster reports whether the item is a cluster.
func (it Item) IsCluster() bool { return it.Kind == KindCluster }

// Located reports whether the item has a usable location.
func (it Item) Located() bool {
	return it.Location != nil && it.Location.Valid()
}

// NewStandalone wraps a single report. The report's location, urgency and
// timestamp are surfaced on the item.
func NewStandalone(r Report) Item {
	report := r
	return Item{
		ID:          "standalone-" + r.ID,
		Kind:        KindStandalone,
		Location:    r.Location,
		UrgentLevel: r.UrgentLevel,
		Timestamp:   r.Timestamp,
		Count:       1,
		Report:      &report,
	}
}

// Point is a latitude/longitude pair in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ViewportBounds frames a map view around a set of items.
type ViewportBounds struct {
	North  float64 `json:"north"`
	South  float64 `json:"south"`
	East   float64 `json:"east"`
	West   float64 `json:"west"`
	Center Point   `json:"center"`
}

// Bounds is an inclusive latitude/longitude rectangle.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}
