package cluster

import (
	"slices"
	"time"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/geo"
)

// Criteria narrows a ranked item list. Zero-valued fields do not filter.
// All set fields must match for an item to be kept.
type Criteria struct {
	EmergencyOnly bool
	UrgentLevels  []domain.UrgentLevel
	Bounds        *domain.Bounds
	Types         []string
	MaxAge        time.Duration
}

// IsZero reports whether the criteria keep every item.
func (c Criteria) IsZero() bool {
	return !c.EmergencyOnly && len(c.UrgentLevels) == 0 && c.Bounds == nil && len(c.Types) == 0 && c.MaxAge <= 0
}

// Filter returns a new slice holding the items that match c, in input order.
// The input is never modified.
func Filter(items []domain.Item, c Criteria, now time.Time) []domain.Item {
	preds := c.predicates(now)
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		if matchesAll(it, preds) {
			out = append(out, it)
		}
	}
	return out
}

type predicate func(domain.Item) bool

func (c Criteria) predicates(now time.Time) []predicate {
	var preds []predicate
	if c.EmergencyOnly {
		preds = append(preds, func(it domain.Item) bool {
			return it.UrgentLevel.IsEmergency()
		})
	}
	if len(c.UrgentLevels) > 0 {
		preds = append(preds, func(it domain.Item) bool {
			return slices.Contains(c.UrgentLevels, it.UrgentLevel)
		})
	}
	if c.Bounds != nil {
		box := geo.NewBox(c.Bounds.South, c.Bounds.West, c.Bounds.North, c.Bounds.East)
		preds = append(preds, func(it domain.Item) bool {
			return it.Located() && box.Contains(it.Location.Lat, it.Location.Lng)
		})
	}
	if len(c.Types) > 0 {
		preds = append(preds, func(it domain.Item) bool {
			return matchesType(it, c.Types)
		})
	}
	if c.MaxAge > 0 {
		cutoff := now.Add(-c.MaxAge)
		preds = append(preds, func(it domain.Item) bool {
			return !it.Timestamp.IsZero() && !it.Timestamp.Before(cutoff)
		})
	}
	return preds
}

func matchesAll(it domain.Item, preds []predicate) bool {
	for _, p := range preds {
		if !p(it) {
			return false
		}
	}
	return true
}

// matchesType checks a standalone report's type, or any cluster type group
// with a positive count.
func matchesType(it domain.Item, types []string) bool {
	if it.IsCluster() {
		for t, n := range it.TypeGroups {
			if n > 0 && slices.Contains(types, t) {
				return true
			}
		}
		return false
	}
	if it.Report == nil {
		return false
	}
	return slices.Contains(types, typeKey(it.Report.Type))
}
