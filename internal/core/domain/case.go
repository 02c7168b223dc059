package domain

import (
	"strconv"
	"time"
)

// CaseIdentifier names a case on the court portal.
// Build it with NewCaseIdentifier so the field invariants hold.
type CaseIdentifier struct {
	CaseNumber string `json:"case_number"`
	CaseType   string `json:"case_type"`
	FilingYear int    `json:"filing_year"`
}

// Year returns the filing year in its textual form.
func (id CaseIdentifier) Year() string {
	return strconv.Itoa(id.FilingYear)
}

// String returns the conventional TYPE/NUMBER/YEAR rendering.
func (id CaseIdentifier) String() string {
	return id.CaseType + "/" + id.CaseNumber + "/" + id.Year()
}

// Case is the persisted metadata for a looked-up case.
type Case struct {
	ID int64 `json:"id"`
	CaseIdentifier
	Petitioner string    `json:"petitioner"`
	Respondent string    `json:"respondent"`
	Status     string    `json:"status"`
	NextDate   string    `json:"next_date,omitempty"`
	SearchedAt time.Time `json:"search_date"`
	Orders     []Order   `json:"orders,omitempty"`
}

// Order is a court order attached to a case. PDFFilename and PDFText stay
// empty when the order document could not be ingested.
type Order struct {
	ID          int64  `json:"id"`
	CaseID      int64  `json:"case_id"`
	OrderDate   string `json:"order_date"`
	OrderText   string `json:"order_text"`
	PDFURL      string `json:"pdf_url,omitempty"`
	PDFFilename string `json:"pdf_filename,omitempty"`
	PDFText     string `json:"pdf_text,omitempty"`
}

// HasDocument reports whether the order's PDF was downloaded.
func (o Order) HasDocument() bool {
	return o.PDFFilename != ""
}

// Search records a single lookup attempt, successful or not.
type Search struct {
	ID int64 `json:"id"`
	CaseIdentifier
	SearchedAt   time.Time `json:"search_date"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// Failed reports whether the lookup recorded an error.
func (s Search) Failed() bool {
	return s.ErrorMessage != ""
}

// SearchRecord is a search joined with the case it produced, if any.
type SearchRecord struct {
	Search
	CaseID     int64  `json:"case_id,omitempty"`
	Petitioner string `json:"petitioner,omitempty"`
	Respondent string `json:"respondent,omitempty"`
	Status     string `json:"status,omitempty"`
}

// CaseData is what a scraper returns for an identifier.
type CaseData struct {
	Petitioner string
	Respondent string
	Status     string
	NextDate   string
	Orders     []ScrapedOrder
}

// ScrapedOrder is an order as listed on the court portal.
type ScrapedOrder struct {
	OrderDate string
	OrderText string
	PDFURL    string
}
