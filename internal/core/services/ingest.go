package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"
	"github.com/custodia-labs/court-case-fetcher/internal/filename"
	"github.com/custodia-labs/court-case-fetcher/internal/logger"
	"github.com/custodia-labs/court-case-fetcher/internal/urlgate"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// SettingsSource supplies the current settings. It is read on every
// operation so reloaded configuration applies to the next document.
type SettingsSource interface {
	Get() (*domain.AppSettings, error)
}

// IngestService downloads order documents and extracts their text.
type IngestService struct {
	settings   SettingsSource
	gate       *urlgate.Gate
	downloader driven.Downloader
	extractor  driven.TextExtractor
	baseDir    string
	log        *logger.Logger
}

// NewIngestService creates a new ingest service. gate must be the same gate
// the downloader enforces.
func NewIngestService(
	settings SettingsSource,
	gate *urlgate.Gate,
	downloader driven.Downloader,
	extractor driven.TextExtractor,
) *IngestService {
	return &IngestService{
		settings:   settings,
		gate:       gate,
		downloader: downloader,
		extractor:  extractor,
		log:        logger.Nop(),
	}
}

// SetLogger sets the logger.
func (s *IngestService) SetLogger(l *logger.Logger) {
	s.log = l.With("ingest")
}

// SetBaseDir anchors a relative download directory.
func (s *IngestService) SetBaseDir(dir string) {
	s.baseDir = dir
}

// DownloadDir returns the resolved directory artifacts are written to.
func (s *IngestService) DownloadDir() (string, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return "", err
	}
	return s.resolveDir(settings.Ingest.DownloadDir), nil
}

func (s *IngestService) resolveDir(dir string) string {
	if dir == "" {
		dir = domain.DefaultDownloadDir
	}
	if filepath.IsAbs(dir) || s.baseDir == "" {
		return dir
	}
	return filepath.Join(s.baseDir, dir)
}

// IngestOrderDocument downloads pdfURL for the case and extracts its text.
func (s *IngestService) IngestOrderDocument(
	ctx context.Context,
	id domain.CaseIdentifier,
	pdfURL string,
) (*domain.OrderDocument, error) {
	settings, err := s.settings.Get()
	if err != nil {
		return nil, err
	}

	// Nothing is touched for a URL the gate rejects.
	if err := s.gate.Check(pdfURL); err != nil {
		return nil, &domain.DownloadError{Kind: domain.ErrUnsafeURL, URL: pdfURL, Err: err}
	}

	name := filename.Generate(id.CaseType, id.CaseNumber, id.Year(), pdfURL)
	dir := s.resolveDir(settings.Ingest.DownloadDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &domain.DownloadError{Kind: domain.ErrStorage, URL: pdfURL, Err: err}
	}
	dest := filepath.Join(dir, name)

	artifact, err := s.downloader.Download(
		ctx,
		domain.RemoteDocumentRef{URL: pdfURL},
		dest,
		settings.Ingest.RequestTimeout,
		settings.Ingest.MaxDocumentBytes,
	)
	if err != nil {
		return nil, err
	}

	doc := &domain.OrderDocument{Filename: name, Size: artifact.ByteSize}

	extraction, err := s.extractor.Extract(ctx, *artifact, limitsFrom(settings))
	if err != nil {
		var extErr *domain.ExtractionError
		if errors.As(err, &extErr) && extErr.PolicyViolation() {
			// Documents over a ceiling are not kept.
			if rmErr := os.Remove(dest); rmErr != nil && !os.IsNotExist(rmErr) {
				s.log.Warn("removing rejected document %s: %v", dest, rmErr)
			}
			s.log.Warn("discarded %s for case %s: %v", name, id, err)
			return &domain.OrderDocument{}, nil
		}
		s.log.Warn("no text for %s of case %s: %v", name, id, err)
		return doc, nil
	}

	doc.Text = extraction.Text
	return doc, nil
}

// ExtractAndNormalizeText returns the normalised text of artifact, or "".
func (s *IngestService) ExtractAndNormalizeText(ctx context.Context, artifact domain.DownloadedArtifact) string {
	limits := domain.ExtractionLimits{}
	if settings, err := s.settings.Get(); err == nil {
		limits = limitsFrom(settings)
	}

	extraction, err := s.extractor.Extract(ctx, artifact, limits)
	if err != nil || extraction == nil {
		return ""
	}
	return extraction.Text
}

// ArtifactPath resolves filename inside the download directory.
func (s *IngestService) ArtifactPath(name string) (string, error) {
	if !safeName(name) {
		return "", fmt.Errorf("%w: invalid filename %q", domain.ErrInvalidInput, name)
	}

	dir, err := s.DownloadDir()
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotFound, name)
		}
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return path, nil
}

func safeName(name string) bool {
	if name == "" || name == "." || strings.Contains(name, "..") {
		return false
	}
	return !strings.ContainsAny(name, `/\`+"\x00")
}

func limitsFrom(settings *domain.AppSettings) domain.ExtractionLimits {
	return domain.ExtractionLimits{
		MaxPages:      settings.Ingest.MaxPages,
		MaxTextLength: settings.Ingest.MaxTextLength,
	}
}
