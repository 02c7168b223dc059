package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates a client exceeded its request budget.
	ErrRateLimited = errors.New("rate limited")

	// Ingestion Errors.

	// ErrValidation indicates a case identifier failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrUnsafeURL indicates a URL is malformed or its host is not allow-listed.
	ErrUnsafeURL = errors.New("unsafe url")

	// ErrTimeout indicates a download exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork indicates a transport failure or a non-success HTTP status.
	ErrNetwork = errors.New("network error")

	// ErrUnexpectedContentType indicates the remote document is not a PDF.
	ErrUnexpectedContentType = errors.New("unexpected content type")

	// ErrSizeExceeded indicates a document is larger than the configured ceiling.
	ErrSizeExceeded = errors.New("size limit exceeded")

	// ErrExtraction indicates text could not be extracted from an artifact.
	ErrExtraction = errors.New("text extraction failed")

	// ErrStorage indicates the local filesystem refused an artifact write.
	ErrStorage = errors.New("artifact storage failed")
)

// ValidationError names the case identifier field that failed validation.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// DownloadError is returned by the bounded fetcher.
// Kind is one of ErrUnsafeURL, ErrTimeout, ErrNetwork,
// ErrUnexpectedContentType, ErrSizeExceeded, ErrStorage or ErrInvalidInput.
type DownloadError struct {
	Kind error
	URL  string
	Err  error
}

func (e *DownloadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("download %s: %v", e.URL, e.Kind)
	}
	return fmt.Sprintf("download %s: %v: %v", e.URL, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *DownloadError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// ExtractionReason classifies why text extraction produced nothing.
type ExtractionReason string

// Extraction reasons.
const (
	ExtractionMissing      ExtractionReason = "missing"
	ExtractionEmpty        ExtractionReason = "empty"
	ExtractionTooLarge     ExtractionReason = "too_large"
	ExtractionTooManyPages ExtractionReason = "too_many_pages"
	ExtractionUnreadable   ExtractionReason = "unreadable"
)

// ExtractionError is the diagnostic returned alongside empty text.
type ExtractionError struct {
	Reason ExtractionReason
	Path   string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("extract %s: %s: %v", e.Path, e.Reason, e.Err)
}

// Unwrap lets errors.Is match ErrExtraction and the underlying cause.
func (e *ExtractionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrExtraction}
	}
	return []error{ErrExtraction, e.Err}
}

// PolicyViolation reports whether the artifact itself breaks the extraction
// policy, as opposed to being a well-sized file the PDF reader could not parse.
func (e *ExtractionError) PolicyViolation() bool {
	switch e.Reason {
	case ExtractionMissing, ExtractionEmpty, ExtractionTooLarge, ExtractionTooManyPages:
		return true
	default:
		return false
	}
}
