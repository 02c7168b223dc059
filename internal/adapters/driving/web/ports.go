package web

import "github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"

// Ports holds the services the web interface drives.
type Ports struct {
	Cases  driving.CaseService
	Ingest driving.IngestService
}

// Validate checks that every port is set.
func (p *Ports) Validate() error {
	if p.Cases == nil {
		return ErrMissingCaseService
	}
	if p.Ingest == nil {
		return ErrMissingIngestService
	}
	return nil
}
