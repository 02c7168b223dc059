package mcp

import (
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Cases looks up and serves stored cases.
	Cases driving.CaseService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Cases == nil {
		return ErrMissingCaseService
	}
	return nil
}
