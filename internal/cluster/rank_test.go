package cluster_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/hazard-cluster-service/internal/cluster"
	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

func item(id string, level domain.UrgentLevel, count int, ts time.Time) domain.Item {
	return domain.Item{ID: id, Kind: domain.KindStandalone, UrgentLevel: level, Count: count, Timestamp: ts}
}

func TestRank(t *testing.T) {
	items := []domain.Item{
		item("low", domain.Low, 9, baseTime),
		item("high-small-new", domain.High, 1, baseTime),
		item("high-big", domain.High, 5, baseTime.Add(-time.Hour)),
		item("high-small-old", domain.High, 1, baseTime.Add(-time.Hour)),
		item("high-small-zero", domain.High, 1, time.Time{}),
		item("critical", domain.Critical, 1, baseTime.Add(-48*time.Hour)),
		item("unknown", domain.UrgentLevel("unrated"), 50, baseTime),
		item("tie-b", domain.Normal, 2, baseTime),
		item("tie-a", domain.Normal, 2, baseTime),
	}

	cluster.Rank(items)

	got := make([]string, len(items))
	for i, it := range items {
		got[i] = it.ID
	}
	expected := []string{
		"critical",
		"high-big",
		"high-small-new",
		"high-small-old",
		"high-small-zero",
		"tie-a",
		"tie-b",
		"low",
		"unknown",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("rank order mismatch (-want +got):\n%s", diff)
	}
}

func TestRank_IsTotalOrder(t *testing.T) {
	a := item("a", domain.High, 1, baseTime)
	b := item("b", domain.High, 1, baseTime)

	if cluster.CompareItems(a, b) >= 0 || cluster.CompareItems(b, a) <= 0 {
		t.Fatal("identical keys must be ordered by ID")
	}
	if cluster.CompareItems(a, a) != 0 {
		t.Fatal("an item must compare equal to itself")
	}
}

func TestRank_PermutationInvariant(t *testing.T) {
	items := []domain.Item{
		item("c", domain.Normal, 1, baseTime),
		item("a", domain.Normal, 1, baseTime),
		item("b", domain.Critical, 3, baseTime),
		item("d", domain.Low, 1, time.Time{}),
	}
	reversed := []domain.Item{items[3], items[2], items[1], items[0]}

	cluster.Rank(items)
	cluster.Rank(reversed)

	if diff := cmp.Diff(items, reversed); diff != "" {
		t.Errorf("ranking depends on input order (-first +second):\n%s", diff)
	}
}
