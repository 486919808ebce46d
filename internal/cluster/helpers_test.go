package cluster_test

import (
	"fmt"
	"time"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

var baseTime = time.Date(2024, 8, 1, 14, 0, 0, 0, time.UTC)

// kmEast is the longitude offset of one kilometer east along the equator.
const kmEast = 1 / 111.19492664455873

func report(id string, lat, lng float64, level domain.UrgentLevel, typ string, offset time.Duration) domain.Report {
	return domain.Report{
		ID:          id,
		Location:    &domain.Location{Lat: lat, Lng: lng},
		Type:        typ,
		UrgentLevel: level,
		Timestamp:   baseTime.Add(offset),
	}
}

func unlocated(id string) domain.Report {
	return domain.Report{ID: id, Type: "road-closure", UrgentLevel: domain.Normal, Timestamp: baseTime}
}

// memberIDs lists report IDs per group.
func memberIDs(groups [][]domain.Report) [][]string {
	out := make([][]string, len(groups))
	for i, g := range groups {
		for _, r := range g {
			out[i] = append(out[i], r.ID)
		}
	}
	return out
}

// partitionIDs collects every report ID surfaced by items, with multiplicity.
func partitionIDs(items []domain.Item) map[string]int {
	seen := make(map[string]int)
	for _, it := range items {
		if it.IsCluster() {
			for _, r := range it.Reports {
				seen[r.ID]++
			}
			continue
		}
		seen[it.Report.ID]++
	}
	return seen
}

// scatter builds n reports spread over a few hotspots, every seventh one
// without a location.
func scatter(n int) []domain.Report {
	levels := []domain.UrgentLevel{domain.Critical, domain.High, domain.Normal, domain.Low}
	types := []string{"fire-sighting", "road-closure", "flooding"}
	hotspots := [][2]float64{{34.05, -118.24}, {37.77, -122.42}, {47.61, -122.33}}

	reports := make([]domain.Report, 0, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("r-%04d", i)
		if i%7 == 6 {
			reports = append(reports, unlocated(id))
			continue
		}
		h := hotspots[i%len(hotspots)]
		jitter := float64(i%11) * 0.002
		reports = append(reports, report(id, h[0]+jitter, h[1]-jitter,
			levels[i%len(levels)], types[i%len(types)], time.Duration(i%5)*10*time.Minute))
	}
	return reports
}
