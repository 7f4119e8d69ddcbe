package monitoring

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Payload metrics
	UploadBytes       prometheus.Counter
	Uploads           *prometheus.CounterVec
	ListingsTruncated prometheus.Counter

	// Connection metrics
	Connections      prometheus.Counter
	ConnectionErrors *prometheus.CounterVec
	BreakerOpen      prometheus.Gauge

	registry  *prometheus.Registry
	startTime time.Time

	// Snapshot for the JSON health endpoint
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the health endpoint
type Snapshot struct {
	Connections   int64   `json:"connections"`
	Requests      int64   `json:"requests"`
	Failures      int64   `json:"failures"`
	BytesUploaded int64   `json:"bytes_uploaded"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// NewMetrics creates a new metrics collector registered on reg. A nil reg
// gets a fresh registry, which keeps tests from colliding on the global one.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfs_requests_total",
				Help: "Total number of requests by command and status",
			},
			[]string{"command", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nfs_request_duration_seconds",
				Help:    "Request handling duration in seconds",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"command"},
		),

		UploadBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nfs_upload_bytes_total",
				Help: "Total number of bytes written by uploads",
			},
		),
		Uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfs_uploads_total",
				Help: "Uploads by detected content type",
			},
			[]string{"mime"},
		),
		ListingsTruncated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nfs_listings_truncated_total",
				Help: "Directory listings cut short at the frame boundary",
			},
		),

		Connections: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nfs_connections_total",
				Help: "Total number of accepted connections",
			},
		),
		ConnectionErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfs_connection_errors_total",
				Help: "Transport errors by stage (accept, read, write)",
			},
			[]string{"stage"},
		),
		BreakerOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "nfs_accept_breaker_open",
				Help: "1 while the accept loop circuit breaker is open",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "nfs_uptime_seconds",
			Help: "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordRequest records one handled request
func (m *Metrics) RecordRequest(command, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(command, status).Inc()
	m.RequestDuration.WithLabelValues(command).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.Requests++
	if status != "success" {
		m.snapshot.Failures++
	}
	m.mu.Unlock()
}

// RecordUpload counts one upload of n bytes with the given detected
// content type. Parameters such as charset are dropped from the label.
func (m *Metrics) RecordUpload(n int64, mime string) {
	mime, _, _ = strings.Cut(mime, ";")
	if mime == "" {
		mime = "none"
	}
	m.Uploads.WithLabelValues(mime).Inc()
	m.UploadBytes.Add(float64(n))
	m.mu.Lock()
	m.snapshot.BytesUploaded += n
	m.mu.Unlock()
}

// IncListingsTruncated counts a listing that did not fit the frame
func (m *Metrics) IncListingsTruncated() {
	m.ListingsTruncated.Inc()
}

// IncConnections counts an accepted connection
func (m *Metrics) IncConnections() {
	m.Connections.Inc()
	m.mu.Lock()
	m.snapshot.Connections++
	m.mu.Unlock()
}

// RecordConnectionError counts a transport error at the given stage
func (m *Metrics) RecordConnectionError(stage string) {
	m.ConnectionErrors.WithLabelValues(stage).Inc()
}

// SetBreakerOpen reflects the accept breaker state
func (m *Metrics) SetBreakerOpen(open bool) {
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}

// Snapshot returns a copy of the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
