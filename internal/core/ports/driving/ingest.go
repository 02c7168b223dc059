package driving

import (
	"context"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

// IngestService runs the download and extraction pipeline for order documents.
type IngestService interface {
	// IngestOrderDocument downloads the order PDF at pdfURL for the case and
	// returns its local filename and normalised text. Extraction failures
	// degrade to empty text; download failures return a *domain.DownloadError.
	IngestOrderDocument(ctx context.Context, id domain.CaseIdentifier, pdfURL string) (*domain.OrderDocument, error)

	// ExtractAndNormalizeText returns the normalised text of artifact, or ""
	// if nothing could be extracted. It never fails.
	ExtractAndNormalizeText(ctx context.Context, artifact domain.DownloadedArtifact) string

	// ArtifactPath resolves a stored filename inside the download directory.
	// Names that could escape the directory return domain.ErrInvalidInput;
	// missing files return domain.ErrNotFound.
	ArtifactPath(filename string) (string, error)
}
