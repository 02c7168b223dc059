package web

import "errors"

var (
	// ErrMissingCaseService is returned when the case service is nil.
	ErrMissingCaseService = errors.New("web: case service is required")

	// ErrMissingIngestService is returned when the ingest service is nil.
	ErrMissingIngestService = errors.New("web: ingest service is required")
)
