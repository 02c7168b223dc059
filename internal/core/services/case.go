package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"
	"github.com/custodia-labs/court-case-fetcher/internal/logger"
)

// Ensure CaseService implements the interface.
var _ driving.CaseService = (*CaseService)(nil)

// Version is reported by health checks.
const Version = "1.0.0"

// Search outcomes recorded in metrics.
const (
	OutcomeOK         = "ok"
	OutcomeValidation = "validation"
	OutcomeScrape     = "scrape_error"
	OutcomeStore      = "store_error"
)

// CaseService runs case lookups end to end.
type CaseService struct {
	store   driven.CaseStore
	scraper driven.CaseScraper
	ingest  driving.IngestService
	metrics driven.Metrics
	log     *logger.Logger
	now     func() time.Time
}

// NewCaseService creates a new case service.
func NewCaseService(
	store driven.CaseStore,
	scraper driven.CaseScraper,
	ingest driving.IngestService,
) *CaseService {
	return &CaseService{
		store:   store,
		scraper: scraper,
		ingest:  ingest,
		log:     logger.Nop(),
		now:     time.Now,
	}
}

// SetLogger sets the logger.
func (s *CaseService) SetLogger(l *logger.Logger) {
	s.log = l.With("cases")
}

// SetMetrics records search outcomes.
func (s *CaseService) SetMetrics(m driven.Metrics) {
	s.metrics = m
}

// Search validates the raw input, scrapes the case, ingests every order
// document and stores the result. Order documents that fail to download
// leave the order without a file; they do not fail the search.
func (s *CaseService) Search(ctx context.Context, caseNumber, caseType, filingYear string) (*domain.Case, error) {
	s.log.Section("Case Search")

	id, err := domain.NewCaseIdentifier(caseNumber, caseType, filingYear)
	if err != nil {
		s.observe(OutcomeValidation)
		s.log.Debug("rejected input %q/%q/%q: %v", caseType, caseNumber, filingYear, err)
		return nil, err
	}

	searchID, err := s.store.RecordSearch(ctx, id)
	if err != nil {
		s.observe(OutcomeStore)
		return nil, fmt.Errorf("recording search: %w", err)
	}

	data, err := s.scraper.Scrape(ctx, id)
	if err != nil {
		s.fail(ctx, searchID, err)
		s.observe(OutcomeScrape)
		return nil, fmt.Errorf("fetching case %s: %w", id, err)
	}

	c := &domain.Case{
		CaseIdentifier: id,
		Petitioner:     data.Petitioner,
		Respondent:     data.Respondent,
		Status:         data.Status,
		NextDate:       data.NextDate,
		SearchedAt:     s.now().UTC(),
		Orders:         make([]domain.Order, 0, len(data.Orders)),
	}

	for _, scraped := range data.Orders {
		order := domain.Order{
			OrderDate: scraped.OrderDate,
			OrderText: scraped.OrderText,
			PDFURL:    scraped.PDFURL,
		}
		if scraped.PDFURL != "" {
			doc, err := s.ingest.IngestOrderDocument(ctx, id, scraped.PDFURL)
			if err != nil {
				s.log.Warn("order document for %s dated %s: %v", id, scraped.OrderDate, err)
			} else {
				order.PDFFilename = doc.Filename
				order.PDFText = doc.Text
			}
		}
		c.Orders = append(c.Orders, order)
	}

	if err := s.store.SaveCase(ctx, c); err != nil {
		s.fail(ctx, searchID, err)
		s.observe(OutcomeStore)
		return nil, fmt.Errorf("saving case %s: %w", id, err)
	}

	s.observe(OutcomeOK)
	s.log.Info("stored case %s as #%d with %d orders", id, c.ID, len(c.Orders))
	return c, nil
}

// Get returns a stored case with its orders.
func (s *CaseService) Get(ctx context.Context, id int64) (*domain.Case, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: case id %d", domain.ErrNotFound, id)
	}
	return s.store.GetCase(ctx, id)
}

// List returns all stored cases, newest first.
func (s *CaseService) List(ctx context.Context) ([]domain.Case, error) {
	cases, err := s.store.ListCases(ctx)
	if err != nil {
		return nil, err
	}
	if cases == nil {
		cases = []domain.Case{}
	}
	return cases, nil
}

// Recent returns the latest searches, newest first.
func (s *CaseService) Recent(ctx context.Context, limit int) ([]domain.SearchRecord, error) {
	records, err := s.store.RecentSearches(ctx, limit)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.SearchRecord{}
	}
	return records, nil
}

// Health pings the store.
func (s *CaseService) Health(ctx context.Context) driving.HealthReport {
	report := driving.HealthReport{
		Status:    "healthy",
		Timestamp: s.now().UTC(),
		Database:  "connected",
		Version:   Version,
	}
	if err := s.store.Ping(ctx); err != nil {
		report.Status = "unhealthy"
		report.Database = "disconnected"
		report.Error = err.Error()
	}
	return report
}

// fail stores the error message on the search record.
func (s *CaseService) fail(ctx context.Context, searchID int64, cause error) {
	// The caller's context may be the reason for the failure.
	ctx = context.WithoutCancel(ctx)
	if err := s.store.MarkSearchFailed(ctx, searchID, cause.Error()); err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Error("recording failure of search %d: %v", searchID, err)
	}
}

func (s *CaseService) observe(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveSearch(outcome)
	}
}
