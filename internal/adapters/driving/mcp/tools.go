package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

// defaultRecentLimit matches the web history page.
const defaultRecentLimit = 20

// LookupInput is the input schema for the lookup_case tool.
type LookupInput struct {
	CaseType   string `json:"case_type" jsonschema:"case type such as WP(C), CS or CM1"`
	CaseNumber string `json:"case_number" jsonschema:"case number, 3-50 characters with a letter and a digit"`
	FilingYear string `json:"filing_year" jsonschema:"four digit filing year"`
}

// GetCaseInput is the input schema for the get_case tool.
type GetCaseInput struct {
	ID int64 `json:"id" jsonschema:"stored case id"`
}

// RecentInput is the input schema for the recent_searches tool.
type RecentInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of searches to return (default 20)"`
}

// CaseOutput is a stored case.
type CaseOutput struct {
	ID         int64         `json:"id"`
	CaseType   string        `json:"case_type"`
	CaseNumber string        `json:"case_number"`
	FilingYear int           `json:"filing_year"`
	Petitioner string        `json:"petitioner"`
	Respondent string        `json:"respondent"`
	Status     string        `json:"status"`
	NextDate   string        `json:"next_date,omitempty"`
	SearchedAt string        `json:"searched_at"`
	Orders     []OrderOutput `json:"orders,omitempty"`
}

// OrderOutput is an order with its extracted document text.
type OrderOutput struct {
	OrderDate   string `json:"order_date"`
	OrderText   string `json:"order_text"`
	PDFURL      string `json:"pdf_url,omitempty"`
	PDFFilename string `json:"pdf_filename,omitempty"`
	PDFText     string `json:"pdf_text,omitempty"`
}

// RecentOutput is the output schema for the recent_searches tool.
type RecentOutput struct {
	Searches []SearchOutput `json:"searches"`
	Count    int            `json:"count"`
}

// SearchOutput is one search history entry.
type SearchOutput struct {
	CaseType   string `json:"case_type"`
	CaseNumber string `json:"case_number"`
	FilingYear int    `json:"filing_year"`
	SearchedAt string `json:"searched_at"`
	CaseID     int64  `json:"case_id,omitempty"`
	Status     string `json:"status,omitempty"`
	Error      string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_case",
		Description: "Look up a case on the court portal, download its order documents and store the result",
	}, s.handleLookup)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_case",
		Description: "Get a stored case with its orders and extracted order text",
	}, s.handleGetCase)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "recent_searches",
		Description: "List the most recent case lookups, including failed ones",
	}, s.handleRecent)
}

func (s *Server) handleLookup(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupInput,
) (*mcp.CallToolResult, CaseOutput, error) {
	c, err := s.ports.Cases.Search(ctx, input.CaseNumber, input.CaseType, input.FilingYear)
	if err != nil {
		s.log.Warn("lookup_case %s/%s/%s: %v", input.CaseType, input.CaseNumber, input.FilingYear, err)
		return nil, CaseOutput{}, err
	}
	return nil, toCaseOutput(c), nil
}

func (s *Server) handleGetCase(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetCaseInput,
) (*mcp.CallToolResult, CaseOutput, error) {
	c, err := s.ports.Cases.Get(ctx, input.ID)
	if err != nil {
		return nil, CaseOutput{}, err
	}
	return nil, toCaseOutput(c), nil
}

func (s *Server) handleRecent(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RecentInput,
) (*mcp.CallToolResult, RecentOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	records, err := s.ports.Cases.Recent(ctx, limit)
	if err != nil {
		return nil, RecentOutput{}, err
	}

	output := RecentOutput{
		Searches: make([]SearchOutput, len(records)),
		Count:    len(records),
	}
	for i := range records {
		r := &records[i]
		output.Searches[i] = SearchOutput{
			CaseType:   r.CaseType,
			CaseNumber: r.CaseNumber,
			FilingYear: r.FilingYear,
			SearchedAt: formatTime(r.SearchedAt),
			CaseID:     r.CaseID,
			Status:     r.Status,
			Error:      r.ErrorMessage,
		}
	}
	return nil, output, nil
}

func toCaseOutput(c *domain.Case) CaseOutput {
	out := CaseOutput{
		ID:         c.ID,
		CaseType:   c.CaseType,
		CaseNumber: c.CaseNumber,
		FilingYear: c.FilingYear,
		Petitioner: c.Petitioner,
		Respondent: c.Respondent,
		Status:     c.Status,
		NextDate:   c.NextDate,
		SearchedAt: formatTime(c.SearchedAt),
	}
	for _, o := range c.Orders {
		out.Orders = append(out.Orders, OrderOutput{
			OrderDate:   o.OrderDate,
			OrderText:   o.OrderText,
			PDFURL:      o.PDFURL,
			PDFFilename: o.PDFFilename,
			PDFText:     o.PDFText,
		})
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
