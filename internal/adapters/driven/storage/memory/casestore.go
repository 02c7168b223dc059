package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
)

// Ensure CaseStore implements the interface.
var _ driven.CaseStore = (*CaseStore)(nil)

// CaseStore is an in-memory implementation of driven.CaseStore.
type CaseStore struct {
	mu       sync.RWMutex
	searches []domain.Search
	cases    map[int64]domain.Case
	nextCase int64
	nextOrd  int64
	now      func() time.Time
}

// NewCaseStore creates a new in-memory case store.
func NewCaseStore() *CaseStore {
	return &CaseStore{
		cases: make(map[int64]domain.Case),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// RecordSearch stores a lookup attempt.
func (s *CaseStore) RecordSearch(_ context.Context, id domain.CaseIdentifier) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	search := domain.Search{
		ID:             int64(len(s.searches) + 1),
		CaseIdentifier: id,
		SearchedAt:     s.now(),
	}
	s.searches = append(s.searches, search)
	return search.ID, nil
}

// MarkSearchFailed attaches an error message to a search.
func (s *CaseStore) MarkSearchFailed(_ context.Context, searchID int64, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if searchID < 1 || searchID > int64(len(s.searches)) {
		return domain.ErrNotFound
	}
	s.searches[searchID-1].ErrorMessage = message
	return nil
}

// SaveCase stores a case and its orders, assigning IDs in place.
func (s *CaseStore) SaveCase(_ context.Context, c *domain.Case) error {
	if c == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.SearchedAt.IsZero() {
		c.SearchedAt = s.now()
	}
	s.nextCase++
	c.ID = s.nextCase
	for i := range c.Orders {
		s.nextOrd++
		c.Orders[i].ID = s.nextOrd
		c.Orders[i].CaseID = c.ID
	}

	stored := *c
	stored.Orders = append([]domain.Order(nil), c.Orders...)
	s.cases[c.ID] = stored
	return nil
}

// GetCase returns a copy of a case, newest order first.
func (s *CaseStore) GetCase(_ context.Context, id int64) (*domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c.Orders = append([]domain.Order(nil), c.Orders...)
	sort.SliceStable(c.Orders, func(i, j int) bool {
		a, b := c.Orders[i], c.Orders[j]
		if a.OrderDate != b.OrderDate {
			return a.OrderDate > b.OrderDate
		}
		return a.ID > b.ID
	})
	return &c, nil
}

// ListCases returns all cases without orders, newest search first.
func (s *CaseStore) ListCases(_ context.Context) ([]domain.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Case, 0, len(s.cases))
	for _, c := range s.cases {
		c.Orders = nil
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return newer(result[i].SearchedAt, result[i].ID, result[j].SearchedAt, result[j].ID)
	})
	return result, nil
}

// RecentSearches returns the latest searches joined with their cases.
func (s *CaseStore) RecentSearches(_ context.Context, limit int) ([]domain.SearchRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	searches := append([]domain.Search(nil), s.searches...)
	sort.Slice(searches, func(i, j int) bool {
		return newer(searches[i].SearchedAt, searches[i].ID, searches[j].SearchedAt, searches[j].ID)
	})
	if len(searches) > limit {
		searches = searches[:limit]
	}

	records := make([]domain.SearchRecord, 0, len(searches))
	for _, search := range searches {
		r := domain.SearchRecord{Search: search}
		if c, ok := s.latestCase(search.CaseIdentifier); ok {
			r.CaseID = c.ID
			r.Petitioner = c.Petitioner
			r.Respondent = c.Respondent
			r.Status = c.Status
		}
		records = append(records, r)
	}
	return records, nil
}

// latestCase finds the most recently saved case for id (caller must hold lock).
func (s *CaseStore) latestCase(id domain.CaseIdentifier) (domain.Case, bool) {
	var (
		best  domain.Case
		found bool
	)
	for _, c := range s.cases {
		if c.CaseIdentifier != id {
			continue
		}
		if !found || newer(c.SearchedAt, c.ID, best.SearchedAt, best.ID) {
			best, found = c, true
		}
	}
	return best, found
}

// Reset removes everything.
func (s *CaseStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searches = nil
	s.cases = make(map[int64]domain.Case)
	return nil
}

// Ping always succeeds.
func (s *CaseStore) Ping(_ context.Context) error {
	return nil
}

func newer(at time.Time, id int64, otherAt time.Time, otherID int64) bool {
	if !at.Equal(otherAt) {
		return at.After(otherAt)
	}
	return id > otherID
}
