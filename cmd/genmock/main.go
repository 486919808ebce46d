// Command genmock generates a deterministic hazard report fixture around a set
// of hotspots and prints the clustering it produces, using the same domain and
// cluster packages as the service.
//
// Usage:
//
//	go run ./cmd/genmock -out data/mock/hazard_reports.json -count 240 -seed 42
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hazard-cluster-service/internal/cluster"
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/geo"
)

// baseTime is the newest timestamp in the fixture; reports are spread over
// the preceding day.
var baseTime = time.Date(2024, time.August, 1, 18, 0, 0, 0, time.UTC)

type hotspot struct {
	name     string
	lat, lng float64
	spreadKm float64
	types    []string
	share    float64 // fraction of generated reports
}

var hotspots = []hotspot{
	{name: "Los Angeles", lat: 34.0522, lng: -118.2437, spreadKm: 1.5, types: []string{"fire-sighting", "smoke", "evacuation"}, share: 0.30},
	{name: "Houston", lat: 29.7604, lng: -95.3698, spreadKm: 2.5, types: []string{"flooding", "road-closure", "power-outage"}, share: 0.25},
	{name: "San Francisco", lat: 37.7749, lng: -122.4194, spreadKm: 1.0, types: []string{"earthquake-damage", "gas-leak"}, share: 0.15},
	{name: "Miami", lat: 25.7617, lng: -80.1918, spreadKm: 3.0, types: []string{"flooding", "downed-tree", "power-outage"}, share: 0.15},
	{name: "Denver", lat: 39.7392, lng: -104.9903, spreadKm: 4.0, types: []string{"hail", "road-closure"}, share: 0.10},
}

var levels = []domain.UrgentLevel{domain.Critical, domain.High, domain.High, domain.Normal, domain.Normal, domain.Low}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/hazard_reports.json", "output path for the report fixture")
	count := flag.Int("count", 240, "number of reports to generate")
	seed := flag.Uint64("seed", 42, "random seed")
	flag.Parse()

	if *count <= 0 {
		flag.Usage()
		return fmt.Errorf("count must be positive")
	}

	reports := generate(*count, *seed)
	if err := writeJSON(*out, reports); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d reports: %s", len(reports), *out)

	printStats(reports)
	return nil
}

// generate scatters reports around each hotspot. A small share of reports
// are left unlocated so the fixture exercises the unlocated path.
func generate(n int, seed uint64) []domain.Report {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	reports := make([]domain.Report, 0, n)

	for i := range n {
		h := pickHotspot(rng.Float64())
		r := domain.Report{
			ID:                fmt.Sprintf("r-%04d", i+1),
			Type:              h.types[rng.IntN(len(h.types))],
			UrgentLevel:       levels[rng.IntN(len(levels))],
			Timestamp:         baseTime.Add(-time.Duration(rng.IntN(24*60)) * time.Minute),
			VerificationCount: rng.IntN(6),
			Title:             h.name + " report",
		}
		if i%25 != 24 {
			lat, lng := jitter(rng, h)
			r.Location = &domain.Location{Lat: lat, Lng: lng}
		}
		reports = append(reports, r)
	}
	return reports
}

func pickHotspot(x float64) hotspot {
	acc := 0.0
	for _, h := range hotspots {
		acc += h.share
		if x < acc {
			return h
		}
	}
	return hotspots[len(hotspots)-1]
}

// jitter offsets the hotspot center by a normally distributed distance.
func jitter(rng *rand.Rand, h hotspot) (float64, float64) {
	dLat := rng.NormFloat64() * h.spreadKm / geo.KmPerDegree
	dLng := rng.NormFloat64() * h.spreadKm / (geo.KmPerDegree * math.Cos(h.lat*math.Pi/180))
	return round6(h.lat + dLat), round6(h.lng + dLng)
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

type typeCount struct {
	name  string
	count int
}

func printStats(reports []domain.Report) {
	engine := cluster.NewEngine(cluster.DefaultOptions(), domain.ContentIDs{}, clockwork.NewFakeClockAt(baseTime))
	result := engine.Run(reports, cluster.Criteria{}, cluster.DefaultViewportPadding)

	var clusters, standalone, clustered int
	for _, it := range result.Items {
		if it.IsCluster() {
			clusters++
			clustered += it.Count
		} else {
			standalone++
		}
	}

	types := map[string]int{}
	for _, r := range reports {
		types[r.Type]++
	}
	tc := make([]typeCount, 0, len(types))
	for name, c := range types {
		tc = append(tc, typeCount{name, c})
	}
	sort.Slice(tc, func(i, j int) bool {
		if tc[i].count != tc[j].count {
			return tc[i].count > tc[j].count
		}
		return tc[i].name < tc[j].name
	})

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Reports: %d\n", len(reports))
	fmt.Printf("Strategy: %s\n", result.Strategy)
	fmt.Printf("Items: %d (clusters=%d, standalone=%d, clustered reports=%d)\n",
		len(result.Items), clusters, standalone, clustered)
	fmt.Print("Types:")
	for _, t := range tc {
		fmt.Printf(" %s=%d", t.name, t.count)
	}
	fmt.Println()

	if v := result.Viewport; v != nil {
		fmt.Printf("Viewport: N=%.4f S=%.4f E=%.4f W=%.4f center=(%.4f, %.4f)\n",
			v.North, v.South, v.East, v.West, v.Center.Lat, v.Center.Lng)
	}

	for i, it := range result.Items[:min(5, len(result.Items))] {
		fmt.Printf("  #%d %s %s count=%d urgency=%s %s\n", i+1, it.Kind, it.ID, it.Count, it.UrgentLevel, it.Summary)
	}
}
