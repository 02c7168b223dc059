// Package fetch implements the bounded downloader for order documents.
//
// A download is a single attempt: the URL is re-checked against the
// allow-list, the response must be a PDF, and the body is streamed in fixed
// chunks to a temporary sibling of the destination. The temporary file is
// renamed into place only after the whole body arrived within the byte
// ceiling, so every failure leaves the destination untouched.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
	"github.com/custodia-labs/court-case-fetcher/internal/logger"
	"github.com/custodia-labs/court-case-fetcher/internal/urlgate"
)

// Ensure Fetcher implements the interface.
var _ driven.Downloader = (*Fetcher)(nil)

// Defaults.
const (
	DefaultUserAgent    = "court-case-fetcher/1.0"
	DefaultMaxRedirects = 5
	pdfContentType      = "application/pdf"
)

// Fetcher downloads documents from allow-listed hosts.
type Fetcher struct {
	gate      *urlgate.Gate
	client    *http.Client
	userAgent string
	chunkSize int
	log       *logger.Logger
	metrics   driven.Metrics
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTransport replaces the HTTP transport, mainly for tests.
func WithTransport(rt http.RoundTripper) Option {
	return func(f *Fetcher) { f.client.Transport = rt }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithChunkSize sets the streaming buffer size. Non-positive values are ignored.
func WithChunkSize(n int) Option {
	return func(f *Fetcher) {
		if n > 0 {
			f.chunkSize = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(f *Fetcher) { f.log = l.With("fetch") }
}

// WithMetrics records every download outcome.
func WithMetrics(m driven.Metrics) Option {
	return func(f *Fetcher) { f.metrics = m }
}

// New creates a fetcher bound to gate.
func New(gate *urlgate.Gate, opts ...Option) *Fetcher {
	f := &Fetcher{
		gate:      gate,
		userAgent: DefaultUserAgent,
		chunkSize: domain.DefaultChunkSize,
		log:       logger.Nop(),
	}
	f.client = &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			MaxIdleConns:          10,
			IdleConnTimeout:       90 * time.Second,
			DisableCompression:    true,
			ExpectContinueTimeout: time.Second,
		},
		CheckRedirect: f.checkRedirect,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= DefaultMaxRedirects {
		return fmt.Errorf("too many redirects (max %d)", DefaultMaxRedirects)
	}
	if err := f.gate.CheckURL(req.URL); err != nil {
		return fmt.Errorf("redirect blocked: %w", err)
	}
	return nil
}

// Download fetches ref into destPath.
func (f *Fetcher) Download(
	ctx context.Context,
	ref domain.RemoteDocumentRef,
	destPath string,
	timeout time.Duration,
	maxBytes int64,
) (*domain.DownloadedArtifact, error) {
	start := time.Now()
	artifact, err := f.download(ctx, ref, destPath, timeout, maxBytes)

	var size int64
	if artifact != nil {
		size = artifact.ByteSize
	}
	if f.metrics != nil {
		f.metrics.ObserveDownload(Outcome(err), size, time.Since(start))
	}
	if err != nil {
		f.log.Warn("download of %s failed: %v", ref.URL, err)
		return nil, err
	}

	f.log.Info("downloaded %s (%d bytes) to %s", ref.URL, size, destPath)
	return artifact, nil
}

func (f *Fetcher) download(
	ctx context.Context,
	ref domain.RemoteDocumentRef,
	destPath string,
	timeout time.Duration,
	maxBytes int64,
) (*domain.DownloadedArtifact, error) {
	fail := func(kind, err error) error {
		return &domain.DownloadError{Kind: kind, URL: ref.URL, Err: err}
	}

	if err := f.gate.Check(ref.URL); err != nil {
		return nil, fail(domain.ErrUnsafeURL, err)
	}
	if maxBytes <= 0 {
		return nil, fail(domain.ErrInvalidInput, errors.New("max bytes must be positive"))
	}
	if destPath == "" {
		return nil, fail(domain.ErrInvalidInput, errors.New("destination path is empty"))
	}
	if timeout <= 0 {
		timeout = domain.DefaultRequestTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return nil, fail(domain.ErrNetwork, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", pdfContentType)

	f.log.Debug("GET %s (timeout %s, max %d bytes)", ref.URL, timeout, maxBytes)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fail(classify(err), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fail(domain.ErrNetwork, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), pdfContentType) {
		return nil, fail(domain.ErrUnexpectedContentType, fmt.Errorf("got %q", contentType))
	}

	if resp.ContentLength > maxBytes {
		return nil, fail(domain.ErrSizeExceeded, fmt.Errorf("declared %d bytes, limit %d", resp.ContentLength, maxBytes))
	}

	written, err := f.stream(resp.Body, destPath, maxBytes)
	if err != nil {
		var kindErr *streamError
		if errors.As(err, &kindErr) {
			return nil, fail(kindErr.kind, kindErr.err)
		}
		return nil, fail(domain.ErrStorage, err)
	}

	return &domain.DownloadedArtifact{LocalPath: destPath, ByteSize: written}, nil
}

// streamError carries the failure kind out of stream.
type streamError struct {
	kind error
	err  error
}

func (e *streamError) Error() string { return e.err.Error() }

// stream copies body into a temporary file next to destPath and renames it
// into place. The temporary file is removed on every failure.
func (f *Fetcher) stream(body io.Reader, destPath string, maxBytes int64) (written int64, err error) {
	dir, base := filepath.Split(destPath)
	if dir == "" {
		dir = "."
	}
	tmpPath := filepath.Join(dir, "."+base+".part-"+uuid.NewString())

	out, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, &streamError{kind: domain.ErrStorage, err: fmt.Errorf("create temp file: %w", err)}
	}
	defer func() {
		if err != nil {
			out.Close()
			os.Remove(tmpPath)
		}
	}()

	buf := make([]byte, f.chunkSize)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > maxBytes {
				return 0, &streamError{
					kind: domain.ErrSizeExceeded,
					err:  fmt.Errorf("body exceeded limit of %d bytes", maxBytes),
				}
			}
			if _, werr := out.Write(buf[:n]); werr != nil {
				return 0, &streamError{kind: domain.ErrStorage, err: fmt.Errorf("write temp file: %w", werr)}
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return 0, &streamError{kind: classify(readErr), err: fmt.Errorf("read body: %w", readErr)}
		}
	}

	if err := out.Close(); err != nil {
		return 0, &streamError{kind: domain.ErrStorage, err: fmt.Errorf("close temp file: %w", err)}
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return 0, &streamError{kind: domain.ErrStorage, err: fmt.Errorf("rename temp file: %w", err)}
	}
	return written, nil
}

// classify maps a transport error onto the download taxonomy.
func classify(err error) error {
	if errors.Is(err, domain.ErrUnsafeURL) {
		return domain.ErrUnsafeURL
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrTimeout
	}
	return domain.ErrNetwork
}

// Outcome labels a download result for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnsafeURL):
		return "unsafe_url"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrUnexpectedContentType):
		return "content_type"
	case errors.Is(err, domain.ErrSizeExceeded):
		return "size_exceeded"
	case errors.Is(err, domain.ErrStorage):
		return "storage"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	default:
		return "network"
	}
}
