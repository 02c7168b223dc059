package mcp

import (
	"context"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"
)

// mockCaseService is a mock implementation of driving.CaseService.
type mockCaseService struct {
	found   *domain.Case
	cases   []domain.Case
	records []domain.SearchRecord
	err     error

	lastLimit int
}

func (m *mockCaseService) Search(_ context.Context, _, _, _ string) (*domain.Case, error) {
	return m.found, m.err
}

func (m *mockCaseService) Get(_ context.Context, _ int64) (*domain.Case, error) {
	if m.found == nil && m.err == nil {
		return nil, domain.ErrNotFound
	}
	return m.found, m.err
}

func (m *mockCaseService) List(_ context.Context) ([]domain.Case, error) {
	return m.cases, m.err
}

func (m *mockCaseService) Recent(_ context.Context, limit int) ([]domain.SearchRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

func (m *mockCaseService) Health(_ context.Context) driving.HealthReport {
	return driving.HealthReport{Status: "healthy"}
}
