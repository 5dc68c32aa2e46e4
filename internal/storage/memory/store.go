package memory

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"review_analyzer/internal/domain"
)

type record struct {
	review domain.Review
	date   time.Time // calendar date of review.Timestamp, parsed once on append
}

// Store keeps reviews in insertion order together with the set of locations
// a POST may reference. Reads share the lock; appends and location updates
// take it exclusively.
type Store struct {
	mu        sync.RWMutex
	records   []record
	ids       map[string]struct{}
	locations map[string]struct{}
}

var _ domain.ReviewStore = (*Store)(nil)

func New() *Store {
	return &Store{
		ids:       make(map[string]struct{}),
		locations: make(map[string]struct{}),
	}
}

// Seed loads the initial collection and derives the valid location set from
// its distinct non-empty locations.
func Seed(reviews []domain.Review) (*Store, error) {
	s := New()
	for i, r := range reviews {
		if err := s.Append(r); err != nil {
			return nil, fmt.Errorf("seed review %d (%s): %w", i, r.ReviewID, err)
		}
		if r.Location != "" {
			s.AddValidLocation(r.Location)
		}
	}
	return s, nil
}

func (s *Store) Append(r domain.Review) error {
	d, err := domain.ReviewDate(r.Timestamp)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.ids[r.ReviewID]; dup {
		return domain.ErrDuplicateID
	}
	s.ids[r.ReviewID] = struct{}{}
	s.records = append(s.records, record{review: r, date: d})
	return nil
}

func (s *Store) AddValidLocation(loc string) {
	s.mu.Lock()
	s.locations[loc] = struct{}{}
	s.mu.Unlock()
}

func (s *Store) HasLocation(loc string) bool {
	s.mu.RLock()
	_, ok := s.locations[loc]
	s.mu.RUnlock()
	return ok
}

// Filter returns a copy of every review matching all supplied predicates.
// Date bounds are inclusive and compare calendar dates only.
func (s *Store) Filter(f domain.Filter) []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Review, 0, len(s.records))
	for _, rec := range s.records {
		if f.Location != nil && rec.review.Location != *f.Location {
			continue
		}
		if f.StartDate != nil && rec.date.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && rec.date.After(*f.EndDate) {
			continue
		}
		out = append(out, rec.review)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Locations returns the valid location set, sorted.
func (s *Store) Locations() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.locations))
	for l := range s.locations {
		out = append(out, l)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}
