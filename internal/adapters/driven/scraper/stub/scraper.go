// Package stub provides a driven.CaseScraper that returns fixed sample data.
//
// It stands in for the court portal: every identifier resolves to a pending
// case with a single order whose document lives on the configured host.
package stub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
	"github.com/custodia-labs/court-case-fetcher/internal/logger"
)

// Ensure Scraper implements the interface.
var _ driven.CaseScraper = (*Scraper)(nil)

// Sample values returned for every case.
const (
	SampleStatus    = "Pending"
	SampleNextDate  = "2024-02-15"
	SampleOrderDate = "2024-01-15"
)

// Scraper returns sample case data.
type Scraper struct {
	baseURL string
	delay   time.Duration
	log     *logger.Logger
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithBaseURL sets the scheme and host that order URLs point at.
func WithBaseURL(u string) Option {
	return func(s *Scraper) { s.baseURL = strings.TrimRight(u, "/") }
}

// WithDelay simulates portal latency.
func WithDelay(d time.Duration) Option {
	return func(s *Scraper) { s.delay = d }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Scraper) { s.log = l.With("scraper") }
}

// New creates a stub scraper pointing at the default court host.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		baseURL: "https://" + domain.DefaultCourtHost,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape returns sample data for id after the configured delay.
func (s *Scraper) Scrape(ctx context.Context, id domain.CaseIdentifier) (*domain.CaseData, error) {
	s.log.Info("scraping case %s", id)

	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("scraping %s: %w: %w", id, domain.ErrTimeout, ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scraping %s: %w: %w", id, domain.ErrTimeout, err)
	}

	data := &domain.CaseData{
		Petitioner: "Petitioner " + id.CaseNumber,
		Respondent: "Respondent " + id.CaseNumber,
		Status:     SampleStatus,
		NextDate:   SampleNextDate,
		Orders: []domain.ScrapedOrder{{
			OrderDate: SampleOrderDate,
			OrderText: "Order for case " + id.CaseNumber,
			PDFURL:    fmt.Sprintf("%s/order_%s.pdf", s.baseURL, id.CaseNumber),
		}},
	}

	s.log.Info("scraped case %s", id)
	return data, nil
}
