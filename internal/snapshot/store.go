// Package snapshot keeps the current set of live hazard reports that the
// clustering engine recomputes from.
package snapshot

import (
	"slices"
	"sync"
	"time"

	"github.com/couchcryptid/hazard-cluster-service/internal/domain"
)

// Store is a thread-safe report set keyed by report ID. Reports are returned
// in arrival order because density clustering is sensitive to input order; an
// update to a known report keeps its original position.
type Store struct {
	mu      sync.RWMutex
	order   []string
	reports map[string]domain.Report
	version uint64
}

// NewStore creates an empty store at version 0.
func NewStore() *Store {
	return &Store{reports: make(map[string]domain.Report)}
}

// Upsert inserts or replaces a report.
func (s *Store) Upsert(r domain.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = r
	s.version++
}

// Remove deletes a report. It returns false when the ID is unknown.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[id]; !ok {
		return false
	}
	delete(s.reports, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	s.version++
	return true
}

// Get returns a report by ID.
func (s *Store) Get(id string) (domain.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	return r, ok
}

// Snapshot returns the current version together with a copy of the reports
// in arrival order. The pair is consistent.
func (s *Store) Snapshot() (uint64, []domain.Report) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Report, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.reports[id])
	}
	return s.version, out
}

// Reports returns a copy of the reports in arrival order.
func (s *Store) Reports() []domain.Report {
	_, reports := s.Snapshot()
	return reports
}

// Len returns the number of reports held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reports)
}

// Version increases on every change and never repeats.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Prune drops reports whose timestamp is before cutoff, including reports
// with no usable timestamp. It returns the number removed.
func (s *Store) Prune(cutoff time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	s.order = slices.DeleteFunc(s.order, func(id string) bool {
		ts := s.reports[id].Timestamp
		if ts.IsZero() || ts.Before(cutoff) {
			delete(s.reports, id)
			removed++
			return true
		}
		return false
	})
	if removed > 0 {
		s.version++
	}
	return removed
}
