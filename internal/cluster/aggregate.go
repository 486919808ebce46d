package cluster

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

const (
	summaryMaxTypes  = 3
	summarySeparator = " • "
	unknownType      = "unknown"
)

// Aggregator turns groups into display items: clusters for groups of at least
// MinClusterSize reports, standalone items for everything else.
type Aggregator struct {
	MinClusterSize int
	IDs            domain.IDGenerator
}

// NewAggregator returns an aggregator with content-derived cluster IDs when
// ids is nil.
func NewAggregator(minClusterSize int, ids domain.IDGenerator) Aggregator {
	if minClusterSize <= 0 {
		minClusterSize = DefaultMinClusterSize
	}
	if ids == nil {
		ids = domain.ContentIDs{}
	}
	return Aggregator{MinClusterSize: minClusterSize, IDs: ids}
}

// Build converts a grouping into items. Each input report appears exactly once
// in the result, either as a cluster member or as a standalone item.
func (a Aggregator) Build(g Grouping, radiusKm float64) []domain.Item {
	items := make([]domain.Item, 0, len(g.Groups)+len(g.Ungrouped))
	for _, group := range g.Groups {
		if len(group) >= a.MinClusterSize {
			items = append(items, a.Cluster(group, radiusKm))
			continue
		}
		for _, r := range group {
			items = append(items, domain.NewStandalone(r))
		}
	}
	for _, r := range g.Ungrouped {
		items = append(items, domain.NewStandalone(r))
	}
	return items
}

// Cluster builds a cluster item from a non-empty group of located reports.
func (a Aggregator) Cluster(group []domain.Report, radiusKm float64) domain.Item {
	members := slices.Clone(group)
	slices.SortStableFunc(members, compareMembers)

	typeGroups := make(map[string]int)
	var latest time.Time
	for _, r := range members {
		typeGroups[typeKey(r.Type)]++
		if r.Timestamp.After(latest) {
			latest = r.Timestamp
		}
	}

	lat, lng := weightedCentroid(group)
	return domain.Item{
		ID:          a.IDs.ClusterID(members),
		Kind:        domain.KindCluster,
		Location:    &domain.Location{Lat: lat, Lng: lng, Region: inheritedRegion(group)},
		UrgentLevel: members[0].UrgentLevel,
		Timestamp:   latest,
		Count:       len(members),
		Radius:      radiusKm,
		Reports:     members,
		TypeGroups:  typeGroups,
		Summary:     Summarize(typeGroups),
	}
}

// compareMembers orders most urgent first, then most recent.
func compareMembers(a, b domain.Report) int {
	if c := cmp.Compare(b.UrgentLevel.Priority(), a.UrgentLevel.Priority()); c != 0 {
		return c
	}
	return b.Timestamp.Compare(a.Timestamp)
}

// weightedCentroid averages member coordinates weighted by urgency priority.
// When every weight is zero it falls back to the plain mean.
func weightedCentroid(group []domain.Report) (lat, lng float64) {
	var sumLat, sumLng, sumW float64
	for _, r := range group {
		w := float64(r.UrgentLevel.Priority())
		sumLat += r.Location.Lat * w
		sumLng += r.Location.Lng * w
		sumW += w
	}
	if sumW > 0 {
		return sumLat / sumW, sumLng / sumW
	}

	for _, r := range group {
		sumLat += r.Location.Lat
		sumLng += r.Location.Lng
	}
	n := float64(len(group))
	return sumLat / n, sumLng / n
}

func inheritedRegion(group []domain.Report) string {
	for _, r := range group {
		if r.Location != nil && r.Location.Region != "" {
			return r.Location.Region
		}
	}
	return ""
}

// typeKey is the TypeGroups key for a report type.
func typeKey(t string) string {
	if t == "" {
		return unknownType
	}
	return t
}

// Summarize renders the most frequent types, e.g. "Fire Sighting (3) • Road
// Closure". Types are ranked by count, then name.
func Summarize(typeGroups map[string]int) string {
	types := make([]string, 0, len(typeGroups))
	for t, n := range typeGroups {
		if n > 0 {
			types = append(types, t)
		}
	}
	slices.SortFunc(types, func(a, b string) int {
		if c := cmp.Compare(typeGroups[b], typeGroups[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	if len(types) > summaryMaxTypes {
		types = types[:summaryMaxTypes]
	}

	caser := cases.Title(language.English)
	parts := make([]string, len(types))
	for i, t := range types {
		label := caser.String(strings.NewReplacer("-", " ", "_", " ").Replace(t))
		if n := typeGroups[t]; n > 1 {
			label = fmt.Sprintf("%s (%d)", label, n)
		}
		parts[i] = label
	}
	return strings.Join(parts, summarySeparator)
}
