package cache

import (
	"github.com/c360/merchproxy/metric"
)

// Option configures cache behavior using the functional options pattern.
type Option[V any] func(*cacheOptions[V])

// cacheOptions holds internal configuration for cache instances.
// Stats are always collected; Prometheus export is opt-in via WithMetrics.
type cacheOptions[V any] struct {
	metricsReg    *metric.MetricsRegistry
	metricsPrefix string
	evictCallback EvictCallback[V]
}

// WithMetrics enables Prometheus metrics export for cache statistics.
// If registry is nil or prefix is empty, the option is ignored.
func WithMetrics[V any](registry *metric.MetricsRegistry, prefix string) Option[V] {
	return func(opts *cacheOptions[V]) {
		if registry != nil && prefix != "" {
			opts.metricsReg = registry
			opts.metricsPrefix = prefix
		}
	}
}

// WithEvictionCallback sets a callback invoked with the key and value of
// every evicted entry.
func WithEvictionCallback[V any](callback EvictCallback[V]) Option[V] {
	return func(opts *cacheOptions[V]) {
		opts.evictCallback = callback
	}
}

// applyOptions applies functional options to create final cache configuration.
func applyOptions[V any](options ...Option[V]) *cacheOptions[V] {
	opts := &cacheOptions[V]{}

	for _, opt := range options {
		if opt != nil {
			opt(opts)
		}
	}

	return opts
}
