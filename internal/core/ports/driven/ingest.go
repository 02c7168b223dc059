package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

// CaseScraper looks up case metadata on the court portal.
type CaseScraper interface {
	// Scrape returns the case data for id.
	Scrape(ctx context.Context, id domain.CaseIdentifier) (*domain.CaseData, error)
}

// Downloader fetches a remote document to local disk within hard bounds.
type Downloader interface {
	// Download writes ref to destPath. It fails with a *domain.DownloadError
	// and leaves no file behind if the URL is not allow-listed, the request
	// exceeds timeout, the response is not a PDF, or more than maxBytes
	// would be written.
	Download(
		ctx context.Context,
		ref domain.RemoteDocumentRef,
		destPath string,
		timeout time.Duration,
		maxBytes int64,
	) (*domain.DownloadedArtifact, error)
}

// TextExtractor reads normalised text out of a downloaded document.
type TextExtractor interface {
	// Extract returns the extraction result within limits. On failure the
	// error is a *domain.ExtractionError and the returned Extraction, if
	// any, holds empty text.
	Extract(
		ctx context.Context,
		artifact domain.DownloadedArtifact,
		limits domain.ExtractionLimits,
	) (*domain.Extraction, error)
}

// Metrics records pipeline outcomes.
type Metrics interface {
	// ObserveDownload records one download attempt.
	ObserveDownload(outcome string, bytes int64, elapsed time.Duration)

	// ObserveExtraction records one extraction attempt.
	ObserveExtraction(outcome string, pages int)

	// ObserveSearch records one case lookup.
	ObserveSearch(outcome string)
}
