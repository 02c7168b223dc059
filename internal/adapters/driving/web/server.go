package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/logger"
)

// Metrics records HTTP traffic and exposes the metrics endpoint.
type Metrics interface {
	ObserveRequest(route string, code int, elapsed time.Duration)
	Handler() http.Handler
}

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Server is the web interface.
type Server struct {
	ports   Ports
	log     *logger.Logger
	limiter *RateLimiter
	metrics Metrics
	flash   *flasher
	debug   bool
	pages   map[string]*template.Template
	handler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Server) { s.log = l.With("web") }
}

// WithMetrics records requests and mounts /metrics.
func WithMetrics(m Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithRateLimiter sets the limiter guarding /search and /api/cases.
func WithRateLimiter(l *RateLimiter) Option {
	return func(s *Server) { s.limiter = l }
}

// WithSecretKey sets the key that signs flash cookies.
func WithSecretKey(key string) Option {
	return func(s *Server) { s.flash = newFlasher(key) }
}

// WithDebug shows error details on the 500 page.
func WithDebug(debug bool) Option {
	return func(s *Server) { s.debug = debug }
}

// NewServer creates the web server.
func NewServer(ports Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		ports: ports,
		log:   logger.Nop(),
		pages: pages,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.limiter == nil {
		s.limiter = NewRateLimiter(DefaultRequestsPerMinute)
	}
	if s.flash == nil {
		s.log.Warn("no server.secret_key set; flash messages use a per-process key")
		s.flash = newFlasher("")
	}

	s.handler = s.observe(s.recoverPanics(s.routes()))
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening on http://%s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
