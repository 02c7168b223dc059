package driven

import (
	"context"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

// CaseStore persists searches, cases and their orders.
type CaseStore interface {
	// RecordSearch stores a lookup attempt and returns its ID.
	RecordSearch(ctx context.Context, id domain.CaseIdentifier) (int64, error)

	// MarkSearchFailed attaches an error message to a recorded search.
	MarkSearchFailed(ctx context.Context, searchID int64, message string) error

	// SaveCase stores a case and all of its orders, assigning IDs in place.
	SaveCase(ctx context.Context, c *domain.Case) error

	// GetCase returns a case with its orders, newest order first.
	// Returns domain.ErrNotFound if the case does not exist.
	GetCase(ctx context.Context, id int64) (*domain.Case, error)

	// ListCases returns all cases without orders, newest search first.
	ListCases(ctx context.Context) ([]domain.Case, error)

	// RecentSearches returns up to limit searches joined with their cases,
	// newest first.
	RecentSearches(ctx context.Context, limit int) ([]domain.SearchRecord, error)

	// Reset deletes every search, case and order.
	Reset(ctx context.Context) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}
