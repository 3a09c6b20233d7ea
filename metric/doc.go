// Package metric provides Prometheus metrics infrastructure for merchproxy.
//
// The package wraps a private prometheus.Registry so that every metric the
// service exposes is registered deliberately, with duplicate registration
// surfaced as an error instead of a panic. Core request-path metrics live in
// Metrics; components register their own collectors through MetricsRegistry.
//
// Server exposes the registry on a dedicated port via promhttp so the
// metrics listener can be firewalled separately from the API surface.
package metric
