// Package pdf extracts normalised text from downloaded order PDFs.
//
// Extraction is bounded three ways: files over domain.MaxExtractableBytes
// are not opened, documents with more pages than the limit are rejected,
// and accumulated text is cut at the text length limit. A page the PDF
// reader cannot decode is logged and skipped. Extract never panics.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
	"github.com/custodia-labs/court-case-fetcher/internal/logger"
	"github.com/custodia-labs/court-case-fetcher/internal/textnorm"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// Extractor reads text from PDF artifacts.
type Extractor struct {
	log     *logger.Logger
	metrics driven.Metrics
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Extractor) { e.log = l.With("extract") }
}

// WithMetrics records every extraction outcome.
func WithMetrics(m driven.Metrics) Option {
	return func(e *Extractor) { e.metrics = m }
}

// New creates a PDF text extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{log: logger.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the normalised text of artifact.
func (e *Extractor) Extract(
	ctx context.Context,
	artifact domain.DownloadedArtifact,
	limits domain.ExtractionLimits,
) (*domain.Extraction, error) {
	result, err := e.extract(ctx, artifact.LocalPath, limits.WithDefaults())
	if e.metrics != nil {
		e.metrics.ObserveExtraction(Outcome(err), result.Pages)
	}
	if err != nil {
		e.log.Warn("no text from %s: %v", artifact.LocalPath, err)
		return &domain.Extraction{Pages: result.Pages}, err
	}

	e.log.Info("extracted %d chars from %d pages of %s (%d skipped, truncated=%t)",
		utf8.RuneCountInString(result.Text), result.Pages, artifact.LocalPath, result.SkippedPages, result.Truncated)
	return result, nil
}

func (e *Extractor) extract(ctx context.Context, path string, limits domain.ExtractionLimits) (*domain.Extraction, error) {
	result := &domain.Extraction{}
	fail := func(reason domain.ExtractionReason, err error) (*domain.Extraction, error) {
		return result, &domain.ExtractionError{Reason: reason, Path: path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(domain.ExtractionMissing, err)
	}
	if info.IsDir() {
		return fail(domain.ExtractionMissing, errors.New("path is a directory"))
	}
	if info.Size() == 0 {
		return fail(domain.ExtractionEmpty, nil)
	}
	if info.Size() > domain.MaxExtractableBytes {
		return fail(domain.ExtractionTooLarge, fmt.Errorf("%d bytes exceeds %d", info.Size(), domain.MaxExtractableBytes))
	}

	f, err := os.Open(path)
	if err != nil {
		return fail(domain.ExtractionMissing, err)
	}
	defer f.Close()

	reader, err := openReader(f, info.Size())
	if err != nil {
		return fail(domain.ExtractionUnreadable, err)
	}

	numPages, err := pageCount(reader)
	if err != nil {
		return fail(domain.ExtractionUnreadable, err)
	}
	result.Pages = numPages
	if numPages > limits.MaxPages {
		return fail(domain.ExtractionTooManyPages, fmt.Errorf("%d pages exceeds %d", numPages, limits.MaxPages))
	}

	var (
		b     strings.Builder
		runes int
	)
	for i := 1; i <= numPages; i++ {
		if ctx.Err() != nil {
			result.Truncated = true
			break
		}

		text, err := pageText(reader, i)
		if err != nil {
			result.SkippedPages++
			e.log.Debug("skipping page %d of %s: %v", i, path, err)
			continue
		}

		text += "\n"
		n := utf8.RuneCountInString(text)
		if runes+n >= limits.MaxTextLength {
			b.WriteString(truncateRunes(text, limits.MaxTextLength-runes))
			result.Truncated = runes+n > limits.MaxTextLength || i < numPages
			break
		}
		b.WriteString(text)
		runes += n
	}

	if numPages > 0 && result.SkippedPages == numPages {
		return fail(domain.ExtractionUnreadable, errors.New("no page could be decoded"))
	}

	result.Text = textnorm.Normalize(b.String())
	return result, nil
}

// openReader guards the PDF library, which can panic on malformed input.
func openReader(f *os.File, size int64) (r *lpdf.Reader, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pdf reader panic: %v", p)
		}
	}()
	r, err = lpdf.NewReader(f, size)
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	return r, nil
}

func pageCount(r *lpdf.Reader) (n int, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("page count panic: %v", p)
		}
	}()
	return r.NumPage(), nil
}

func pageText(r *lpdf.Reader, i int) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("page %d panic: %v", i, p)
		}
	}()
	page := r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Outcome labels an extraction result for metrics.
func Outcome(err error) string {
	var extErr *domain.ExtractionError
	if errors.As(err, &extErr) {
		return string(extErr.Reason)
	}
	if err != nil {
		return "error"
	}
	return "ok"
}
