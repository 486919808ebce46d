// Command validate runs the clustering engine over a report fixture and
// checks the structural properties every run must satisfy: each report lands
// in exactly one item, clusters are well formed, items are in display order,
// an empty filter keeps everything, and the viewport frames every located item.
//
// Usage:
//
//	go run ./cmd/validate -reports data/mock/hazard_reports.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hazard-cluster-service/internal/cluster"
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
	"github.com/couchcryptid/hazard-cluster-service/internal/geo"
)

// evalTime matches the newest timestamp genmock produces.
var evalTime = time.Date(2024, time.August, 1, 18, 0, 0, 0, time.UTC)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	reportsPath := flag.String("reports", "", "path to the hazard report JSON fixture")
	seedOrder := flag.String("seed-order", "input", "density seed order: input, urgency, newest")
	flag.Parse()

	if *reportsPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	order, err := cluster.ParseSeedOrder(*seedOrder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		os.Exit(1)
	}

	if code := run(*reportsPath, order); code != 0 {
		os.Exit(code)
	}
}

func run(reportsPath string, order cluster.SeedOrder) int {
	// Set a fixed clock so ReceivedAt and filter cutoffs are reproducible.
	clock := clockwork.NewFakeClockAt(evalTime)
	domain.SetClock(clock)
	defer domain.SetClock(nil)

	fmt.Println("=== Hazard Clustering Validation ===")
	fmt.Println()

	loadPhase, reports, err := loadReports(reportsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load reports: %v\n", err)
		return 1
	}

	opts := cluster.DefaultOptions()
	opts.SeedOrder = order
	density := cluster.NewEngine(opts, domain.ContentIDs{}, clock)

	gridOpts := opts
	gridOpts.LargeDatasetThreshold = 1
	grid := cluster.NewEngine(gridOpts, domain.ContentIDs{}, clock)

	densityRun := density.Run(reports, cluster.Criteria{}, cluster.DefaultViewportPadding)
	gridRun := grid.Run(reports, cluster.Criteria{}, cluster.DefaultViewportPadding)

	phases := []*phase{
		loadPhase,
		validatePartition("Density partition", reports, densityRun),
		validatePartition("Grid partition", reports, gridRun),
		validateClusters("Density cluster shape", densityRun, density.Options()),
		validateClusters("Grid cluster shape", gridRun, grid.Options()),
		validateOrdering(densityRun, gridRun),
		validateFilters(density, reports, clock.Now()),
		validateViewport(densityRun, gridRun),
		validateDeterminism(density, reports, densityRun),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Reports: %d; density items: %d; grid items: %d\n",
		len(reports), len(densityRun.Items), len(gridRun.Items))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// loadReports decodes the fixture through the same parse and normalize path
// the intake pipeline uses.
func loadReports(path string) (*phase, []domain.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	p := &phase{name: "Fixture integrity"}
	seen := make(map[string]bool, len(raws))
	reports := make([]domain.Report, 0, len(raws))
	for i, raw := range raws {
		r, err := domain.ParseReport(domain.RawEvent{Value: raw, Offset: int64(i)})
		if err != nil {
			p.errorf("record %d: %v", i, err)
			continue
		}
		r = domain.NormalizeReport(r)
		if seen[r.ID] {
			p.errorf("record %d: duplicate id %s", i, r.ID)
		}
		seen[r.ID] = true
		if r.Location != nil && !r.Located() {
			p.errorf("record %d (%s): location present but invalid", i, r.ID)
		}
		if r.UrgentLevel.Priority() == 0 {
			p.errorf("record %d (%s): unrecognized urgency %q", i, r.ID, r.UrgentLevel)
		}
		reports = append(reports, r)
	}
	return p, reports, nil
}

// ── Validation phases ──

func validatePartition(name string, reports []domain.Report, res cluster.Result) *phase {
	p := &phase{name: name}
	counts := make(map[string]int, len(reports))
	for _, it := range res.Items {
		if it.IsCluster() {
			for _, m := range it.Reports {
				counts[m.ID]++
			}
			continue
		}
		if it.Report == nil {
			p.errorf("standalone %s has no report", it.ID)
			continue
		}
		counts[it.Report.ID]++
	}
	for _, r := range reports {
		if c := counts[r.ID]; c != 1 {
			p.errorf("report %s appears %d times", r.ID, c)
		}
		delete(counts, r.ID)
	}
	for id := range counts {
		p.errorf("item references unknown report %s", id)
	}
	return p
}

func validateClusters(name string, res cluster.Result, opts cluster.Options) *phase {
	p := &phase{name: name}
	for _, it := range res.Items {
		if !it.IsCluster() {
			if it.Count != 1 {
				p.errorf("standalone %s: count %d", it.ID, it.Count)
			}
			continue
		}
		if it.Count != len(it.Reports) {
			p.errorf("cluster %s: count %d but %d reports", it.ID, it.Count, len(it.Reports))
		}
		if it.Count < opts.MinClusterSize {
			p.errorf("cluster %s: count %d below minimum %d", it.ID, it.Count, opts.MinClusterSize)
		}
		total := 0
		for _, n := range it.TypeGroups {
			total += n
		}
		if total != it.Count {
			p.errorf("cluster %s: type groups sum to %d, want %d", it.ID, total, it.Count)
		}
		if it.Summary == "" {
			p.errorf("cluster %s: empty summary", it.ID)
		}
		if !it.Located() {
			p.errorf("cluster %s: centroid not located", it.ID)
			continue
		}
		if res.Strategy == cluster.StrategyDensity {
			checkDensitySpread(p, it, opts.RadiusKm)
		}
		for _, m := range it.Reports {
			if m.UrgentLevel.Priority() > it.UrgentLevel.Priority() {
				p.errorf("cluster %s: member %s more urgent than cluster", it.ID, m.ID)
			}
		}
	}
	return p
}

// checkDensitySpread verifies members lie within twice the radius of the
// centroid. Every member is within the radius of the seed and the centroid
// lies inside their hull, so twice the radius bounds any member.
func checkDensitySpread(p *phase, it domain.Item, radiusKm float64) {
	const tolerance = 1e-6
	for _, m := range it.Reports {
		d := geo.Distance(it.Location.Lat, it.Location.Lng, m.Location.Lat, m.Location.Lng)
		if d > 2*radiusKm+tolerance {
			p.errorf("cluster %s: member %s is %.3f km from centroid", it.ID, m.ID, d)
		}
	}
}

func validateOrdering(runs ...cluster.Result) *phase {
	p := &phase{name: "Display ordering"}
	for _, res := range runs {
		for i := 1; i < len(res.Items); i++ {
			if cluster.CompareItems(res.Items[i-1], res.Items[i]) > 0 {
				p.errorf("%s: item %d (%s) ranks above item %d (%s)",
					res.Strategy, i, res.Items[i].ID, i-1, res.Items[i-1].ID)
			}
		}
	}
	return p
}

func validateFilters(engine *cluster.Engine, reports []domain.Report, now time.Time) *phase {
	p := &phase{name: "Filter consistency"}
	ranked := engine.Rank(reports)

	all := cluster.Filter(ranked.Items, cluster.Criteria{}, now)
	if !slices.EqualFunc(all, ranked.Items, func(a, b domain.Item) bool { return a.ID == b.ID }) {
		p.errorf("empty criteria changed the item list")
	}

	emergency := cluster.Filter(ranked.Items, cluster.Criteria{EmergencyOnly: true}, now)
	for _, it := range emergency {
		if !it.UrgentLevel.IsEmergency() {
			p.errorf("emergency filter kept %s (%s)", it.ID, it.UrgentLevel)
		}
	}
	if !isSubsequence(emergency, ranked.Items) {
		p.errorf("emergency filter reordered items")
	}

	recent := cluster.Filter(ranked.Items, cluster.Criteria{MaxAge: 6 * time.Hour}, now)
	cutoff := now.Add(-6 * time.Hour)
	for _, it := range recent {
		if it.Timestamp.Before(cutoff) {
			p.errorf("max age filter kept %s at %s", it.ID, it.Timestamp.Format(time.RFC3339))
		}
	}
	return p
}

func isSubsequence(sub, full []domain.Item) bool {
	j := 0
	for _, it := range full {
		if j < len(sub) && sub[j].ID == it.ID {
			j++
		}
	}
	return j == len(sub)
}

func validateViewport(runs ...cluster.Result) *phase {
	p := &phase{name: "Viewport framing"}
	for _, res := range runs {
		located := 0
		for _, it := range res.Items {
			if it.Located() {
				located++
			}
		}
		v := res.Viewport
		if located == 0 {
			if v != nil {
				p.errorf("%s: viewport set without located items", res.Strategy)
			}
			continue
		}
		if v == nil {
			p.errorf("%s: viewport missing for %d located items", res.Strategy, located)
			continue
		}
		for _, it := range res.Items {
			if !it.Located() {
				continue
			}
			if it.Location.Lat < v.South || it.Location.Lat > v.North ||
				it.Location.Lng < v.West || it.Location.Lng > v.East {
				p.errorf("%s: item %s outside viewport", res.Strategy, it.ID)
			}
		}
	}
	return p
}

func validateDeterminism(engine *cluster.Engine, reports []domain.Report, first cluster.Result) *phase {
	p := &phase{name: "Deterministic recomputation"}
	again := engine.Run(reports, cluster.Criteria{}, cluster.DefaultViewportPadding)
	if len(again.Items) != len(first.Items) {
		p.errorf("item count changed: %d then %d", len(first.Items), len(again.Items))
		return p
	}
	for i := range first.Items {
		if first.Items[i].ID != again.Items[i].ID {
			p.errorf("item %d: %s then %s", i, first.Items[i].ID, again.Items[i].ID)
		}
	}
	return p
}
