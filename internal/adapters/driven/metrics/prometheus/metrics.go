// Package prometheus records pipeline and HTTP metrics with the Prometheus
// client library. Each Metrics owns its registry, so tests and multiple
// servers in one process never collide on the default registerer.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
)

// Namespace prefixes every metric name.
const Namespace = "courtfetch"

// Ensure Metrics implements the interface.
var _ driven.Metrics = (*Metrics)(nil)

// Metrics is a driven.Metrics backed by a private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	downloads       *prometheus.CounterVec
	downloadBytes   prometheus.Counter
	downloadSeconds *prometheus.HistogramVec
	extractions     *prometheus.CounterVec
	extractedPages  prometheus.Histogram
	searches        *prometheus.CounterVec
	httpRequests    *prometheus.CounterVec
	httpSeconds     *prometheus.HistogramVec
}

// New creates and registers the collectors. Go runtime and process
// collectors are included.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.downloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "downloads_total",
		Help:      "Order document downloads by outcome.",
	}, []string{"outcome"})

	m.downloadBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "downloaded_bytes_total",
		Help:      "Bytes written by successful downloads.",
	})

	m.downloadSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "download_duration_seconds",
		Help:      "Time spent downloading order documents.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	m.extractions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "extractions_total",
		Help:      "PDF text extractions by outcome.",
	}, []string{"outcome"})

	m.extractedPages = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "extraction_pages",
		Help:      "Page count of documents handed to the extractor.",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
	})

	m.searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "searches_total",
		Help:      "Case lookups by outcome.",
	}, []string{"outcome"})

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	m.httpSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	m.registry.MustRegister(
		m.downloads,
		m.downloadBytes,
		m.downloadSeconds,
		m.extractions,
		m.extractedPages,
		m.searches,
		m.httpRequests,
		m.httpSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveDownload records one download attempt.
func (m *Metrics) ObserveDownload(outcome string, bytes int64, elapsed time.Duration) {
	m.downloads.WithLabelValues(outcome).Inc()
	m.downloadSeconds.WithLabelValues(outcome).Observe(elapsed.Seconds())
	if bytes > 0 {
		m.downloadBytes.Add(float64(bytes))
	}
}

// ObserveExtraction records one extraction attempt.
func (m *Metrics) ObserveExtraction(outcome string, pages int) {
	m.extractions.WithLabelValues(outcome).Inc()
	if pages > 0 {
		m.extractedPages.Observe(float64(pages))
	}
}

// ObserveSearch records one case lookup.
func (m *Metrics) ObserveSearch(outcome string) {
	m.searches.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpSeconds.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
