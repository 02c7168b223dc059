package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

const (
	// URIScheme is the custom URI scheme for courtfetch resources.
	uriScheme = "courtfetch://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "cases",
		Name:        "cases",
		Description: "All stored cases, newest first",
		MIMEType:    "application/json",
	}, s.handleCasesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "cases/{caseId}",
		Name:        "case",
		Description: "A stored case with its orders",
		MIMEType:    "application/json",
	}, s.handleCaseResource)
}

// handleCasesResource returns a summary of every stored case.
func (s *Server) handleCasesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	cases, err := s.ports.Cases.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cases: %w", err)
	}

	infos := make([]CaseOutput, len(cases))
	for i := range cases {
		infos[i] = toCaseOutput(&cases[i])
		infos[i].Orders = nil
	}
	return jsonResult(req.Params.URI, infos)
}

// handleCaseResource returns one case with its orders.
func (s *Server) handleCaseResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractCaseID(req.Params.URI)
	if id <= 0 {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	c, err := s.ports.Cases.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting case: %w", err)
	}
	return jsonResult(req.Params.URI, toCaseOutput(c))
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCaseID extracts the case ID from a URI like courtfetch://cases/{caseId}.
// It returns 0 when the URI does not name a case.
func extractCaseID(uri string) int64 {
	const prefix = uriScheme + "cases/"

	if !strings.HasPrefix(uri, prefix) {
		return 0
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(uri, prefix), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
