// Package observability provides the Prometheus metrics shared by the
// ingest paths and the HTTP API.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application metric collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	// DetectionsTotal counts accepted detection events by ingest source
	// (listener, webhook).
	DetectionsTotal *prometheus.CounterVec

	// DetectionsDropped counts detections rejected at the ingest boundary,
	// labeled by reason (debounced, invalid).
	DetectionsDropped *prometheus.CounterVec

	// HTTPRequestDuration observes API handler latency by route and status.
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DetectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dovewatch_detections_total",
			Help: "Number of accepted detection events by ingest source.",
		}, []string{"source"}),
		DetectionsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dovewatch_detections_dropped_total",
			Help: "Number of detections rejected at the ingest boundary.",
		}, []string{"reason"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dovewatch_http_request_duration_seconds",
			Help:    "API request duration by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}

	collectors := []prometheus.Collector{
		m.DetectionsTotal,
		m.DetectionsDropped,
		m.HTTPRequestDuration,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// Handler returns the HTTP handler exposing the registry in the Prometheus
// text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
