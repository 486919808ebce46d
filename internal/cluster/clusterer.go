package cluster

import "github.com/couchcryptid/hazard-cluster-service/internal/domain"

// Grouping is the raw output of a clustering strategy. Every input report is
// in exactly one group or in Ungrouped.
type Grouping struct {
	// Groups holds candidate clusters in emission order. Groups smaller than
	// the minimum cluster size become standalone items.
	Groups [][]domain.Report
	// Ungrouped holds reports without a usable location.
	Ungrouped []domain.Report
}

// Clusterer partitions reports into spatial groups.
type Clusterer interface {
	Strategy() Strategy
	// RadiusKm is the radius recorded on clusters this strategy forms.
	RadiusKm() float64
	Group(reports []domain.Report) Grouping
}

// splitLocated separates reports that can be grouped spatially from those
// that cannot, preserving order in both.
func splitLocated(reports []domain.Report) (located, unlocated []domain.Report) {
	located = make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		if r.Located() {
			located = append(located, r)
		} else {
			unlocated = append(unlocated, r)
		}
	}
	return located, unlocated
}
