package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

// CaseService looks up cases and serves the stored results.
type CaseService interface {
	// Search validates raw form input, scrapes the case, ingests its order
	// documents and stores everything. A *domain.ValidationError is returned
	// before anything is recorded if the input is invalid.
	Search(ctx context.Context, caseNumber, caseType, filingYear string) (*domain.Case, error)

	// Get returns a stored case with its orders.
	Get(ctx context.Context, id int64) (*domain.Case, error)

	// List returns all stored cases, newest first.
	List(ctx context.Context) ([]domain.Case, error)

	// Recent returns the most recent searches, newest first.
	Recent(ctx context.Context, limit int) ([]domain.SearchRecord, error)

	// Health reports whether the service can reach its store.
	Health(ctx context.Context) HealthReport
}

// HealthReport is the result of a health check.
type HealthReport struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
	Version   string    `json:"version"`
	Error     string    `json:"error,omitempty"`
}

// Healthy reports whether every dependency is up.
func (h HealthReport) Healthy() bool {
	return h.Status == "healthy"
}
