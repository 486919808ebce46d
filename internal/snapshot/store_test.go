package snapshot

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

var now = time.Date(2024, 8, 1, 14, 0, 0, 0, time.UTC)

func testReport(id string, age time.Duration) domain.Report {
	return domain.Report{
		ID:          id,
		Location:    &domain.Location{Lat: 34.05, Lng: -118.24},
		Type:        "fire-sighting",
		UrgentLevel: domain.High,
		Timestamp:   now.Add(-age),
	}
}

func reportIDs(reports []domain.Report) []string {
	out := make([]string, len(reports))
	for i, r := range reports {
		out[i] = r.ID
	}
	return out
}

func TestStore_UpsertKeepsArrivalOrder(t *testing.T) {
	s := NewStore()
	s.Upsert(testReport("b", 0))
	s.Upsert(testReport("a", 0))
	s.Upsert(testReport("c", 0))

	updated := testReport("b", 0)
	updated.UrgentLevel = domain.Critical
	s.Upsert(updated)

	assert.Equal(t, []string{"b", "a", "c"}, reportIDs(s.Reports()))
	assert.Equal(t, 3, s.Len())

	got, ok := s.Get("b")
	require.True(t, ok)
	assert.Equal(t, domain.Critical, got.UrgentLevel)
}

func TestStore_VersionBumpsOnChange(t *testing.T) {
	s := NewStore()
	assert.Equal(t, uint64(0), s.Version())

	s.Upsert(testReport("a", 0))
	assert.Equal(t, uint64(1), s.Version())

	s.Upsert(testReport("a", 0))
	assert.Equal(t, uint64(2), s.Version())

	assert.False(t, s.Remove("missing"))
	assert.Equal(t, uint64(2), s.Version())

	assert.True(t, s.Remove("a"))
	assert.Equal(t, uint64(3), s.Version())
	assert.Equal(t, 0, s.Len())
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Upsert(testReport("a", 0))

	version, reports := s.Snapshot()
	reports[0].ID = "mutated"

	assert.Equal(t, uint64(1), version)
	assert.Equal(t, []string{"a"}, reportIDs(s.Reports()))
}

func TestStore_Prune(t *testing.T) {
	s := NewStore()
	s.Upsert(testReport("fresh", time.Hour))
	s.Upsert(testReport("old", 10*24*time.Hour))
	undated := testReport("undated", 0)
	undated.Timestamp = time.Time{}
	s.Upsert(undated)
	s.Upsert(testReport("edge", 24*time.Hour))

	before := s.Version()
	removed := s.Prune(now.Add(-24 * time.Hour))

	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"fresh", "edge"}, reportIDs(s.Reports()))
	assert.Equal(t, before+1, s.Version())

	assert.Equal(t, 0, s.Prune(now.Add(-24*time.Hour)))
	assert.Equal(t, before+1, s.Version(), "no-op prune must not bump the version")
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				s.Upsert(testReport(fmt.Sprintf("r-%d-%d", g, i), 0))
				_, _ = s.Snapshot()
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 200, s.Len())
	assert.Equal(t, uint64(200), s.Version())
}
