package cluster

import (
	"cmp"
	"slices"
	"strings"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

// Rank sorts items in place for display: urgency descending, count
// descending, timestamp descending, then ID ascending. Zero timestamps sort
// as the oldest.
func Rank(items []domain.Item) {
	slices.SortFunc(items, CompareItems)
}

// CompareItems is the display order used by Rank.
func CompareItems(a, b domain.Item) int {
	if c := cmp.Compare(b.UrgentLevel.Priority(), a.UrgentLevel.Priority()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
