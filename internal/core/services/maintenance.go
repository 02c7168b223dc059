package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"
)

// Ensure MaintenanceService implements the interface.
var _ driving.MaintenanceService = (*MaintenanceService)(nil)

// SampleCase is the demonstration case written by InitDatabase with Seed.
// It bypasses NewCaseIdentifier because its number predates the current
// validation rules.
func SampleCase() domain.Case {
	return domain.Case{
		CaseIdentifier: domain.CaseIdentifier{CaseNumber: "1234", CaseType: "WP(C)", FilingYear: 2023},
		Petitioner:     "Sample Petitioner",
		Respondent:     "Sample Respondent",
		Status:         "Pending",
		NextDate:       "2024-02-15",
		Orders: []domain.Order{{
			OrderDate: "2024-01-15",
			OrderText: "Sample order text for case 1234",
			PDFURL:    "https://" + domain.DefaultCourtHost + "/sample_order.pdf",
		}},
	}
}

// MaintenanceService prepares the case store.
type MaintenanceService struct {
	store    driven.CaseStore
	location string
}

// NewMaintenanceService creates a new maintenance service. location is
// reported back to the caller, typically the database path.
func NewMaintenanceService(store driven.CaseStore, location string) *MaintenanceService {
	return &MaintenanceService{store: store, location: location}
}

// InitDatabase optionally clears the store and seeds the sample case.
func (s *MaintenanceService) InitDatabase(ctx context.Context, opts driving.InitOptions) (*driving.InitReport, error) {
	if err := s.store.Ping(ctx); err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	report := &driving.InitReport{Location: s.location}

	if opts.Reset {
		if err := s.store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("resetting store: %w", err)
		}
		report.Reset = true
	}

	if opts.Seed {
		sample := SampleCase()
		if _, err := s.store.RecordSearch(ctx, sample.CaseIdentifier); err != nil {
			return nil, fmt.Errorf("seeding search: %w", err)
		}
		if err := s.store.SaveCase(ctx, &sample); err != nil {
			return nil, fmt.Errorf("seeding case: %w", err)
		}
		report.SeededID = sample.ID
	}

	return report, nil
}
