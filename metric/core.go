package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the core request-path metrics for the proxy service
type Metrics struct {
	// Gateway metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec

	// Upstream metrics
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
}

// NewMetrics creates a new Metrics instance with all core metrics
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "merchproxy",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"route", "status"},
		),

		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "merchproxy",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request handling duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "merchproxy",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors by classification",
			},
			[]string{"route", "class"},
		),

		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "merchproxy",
				Subsystem: "upstream",
				Name:      "requests_total",
				Help:      "Total number of requests forwarded to the upstream API",
			},
			[]string{"status"},
		),

		UpstreamDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "merchproxy",
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Upstream API round-trip duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// RecordRequest increments the request counter for a route/status pair
func (m *Metrics) RecordRequest(route, status string) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
}

// RecordRequestDuration records handling time for a route
func (m *Metrics) RecordRequestDuration(route string, duration time.Duration) {
	m.RequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordError increments the error counter for a route/class pair
func (m *Metrics) RecordError(route, class string) {
	m.ErrorsTotal.WithLabelValues(route, class).Inc()
}

// RecordUpstreamRequest increments the upstream counter for a status
func (m *Metrics) RecordUpstreamRequest(status string) {
	m.UpstreamRequests.WithLabelValues(status).Inc()
}

// RecordUpstreamDuration records an upstream round-trip time
func (m *Metrics) RecordUpstreamDuration(duration time.Duration) {
	m.UpstreamDuration.Observe(duration.Seconds())
}
