package web

import (
	"context"
	"net/http"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"
)

// mockCaseService is a mock implementation of driving.CaseService.
type mockCaseService struct {
	searched  *domain.Case
	searchErr error
	cases     []domain.Case
	getCase   *domain.Case
	records   []domain.SearchRecord
	health    driving.HealthReport
	err       error
	panicOn   string

	lastSearch [3]string
}

func (m *mockCaseService) Search(_ context.Context, caseNumber, caseType, filingYear string) (*domain.Case, error) {
	m.lastSearch = [3]string{caseNumber, caseType, filingYear}
	return m.searched, m.searchErr
}

func (m *mockCaseService) Get(_ context.Context, _ int64) (*domain.Case, error) {
	if m.getCase == nil && m.err == nil {
		return nil, domain.ErrNotFound
	}
	return m.getCase, m.err
}

func (m *mockCaseService) List(_ context.Context) ([]domain.Case, error) {
	if m.panicOn == "list" {
		panic("list exploded")
	}
	return m.cases, m.err
}

func (m *mockCaseService) Recent(_ context.Context, _ int) ([]domain.SearchRecord, error) {
	return m.records, m.err
}

func (m *mockCaseService) Health(_ context.Context) driving.HealthReport {
	return m.health
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	paths map[string]string
	err   error
}

func (m *mockIngestService) IngestOrderDocument(context.Context, domain.CaseIdentifier, string) (*domain.OrderDocument, error) {
	return &domain.OrderDocument{}, nil
}

func (m *mockIngestService) ExtractAndNormalizeText(context.Context, domain.DownloadedArtifact) string {
	return ""
}

func (m *mockIngestService) ArtifactPath(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if p, ok := m.paths[name]; ok {
		return p, nil
	}
	return "", domain.ErrNotFound
}

// fakeMetrics records routes and serves a fixed exposition.
type fakeMetrics struct {
	routes []string
	codes  []int
}

func (f *fakeMetrics) ObserveRequest(route string, code int, _ time.Duration) {
	f.routes = append(f.routes, route)
	f.codes = append(f.codes, code)
}

func (f *fakeMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("courtfetch_up 1\n"))
	})
}
