package cache

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/c360/merchproxy/metric"
)

// cacheMetrics holds Prometheus metrics for cache operations.
type cacheMetrics struct {
	operations    *prometheus.CounterVec
	size          prometheus.Gauge
	sweepDuration prometheus.Histogram
}

// newCacheMetrics creates and registers cache metrics with the provided registry.
func newCacheMetrics(registry *metric.MetricsRegistry, prefix string) (*cacheMetrics, error) {
	m := &cacheMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "merchproxy",
			Subsystem:   "cache",
			Name:        "operations_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total cache operations by outcome",
		}, []string{"operation"}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "merchproxy",
			Subsystem:   "cache",
			Name:        "size",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Current number of entries in cache",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "merchproxy",
			Subsystem:   "cache",
			Name:        "sweep_duration_seconds",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Duration of expired-entry sweeps in seconds",
			Buckets:     prometheus.DefBuckets,
		}),
	}

	if err := registry.RegisterCounterVec(prefix, "cache_operations", m.operations); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "cache_size", m.size); err != nil {
		return nil, err
	}
	if err := registry.RegisterHistogram(prefix, "cache_sweep_duration", m.sweepDuration); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *cacheMetrics) recordHit()      { m.operations.WithLabelValues("hit").Inc() }
func (m *cacheMetrics) recordMiss()     { m.operations.WithLabelValues("miss").Inc() }
func (m *cacheMetrics) recordSet()      { m.operations.WithLabelValues("set").Inc() }
func (m *cacheMetrics) recordDelete()   { m.operations.WithLabelValues("delete").Inc() }
func (m *cacheMetrics) recordEviction() { m.operations.WithLabelValues("eviction").Inc() }

func (m *cacheMetrics) updateSize(size int) {
	m.size.Set(float64(size))
}

func (m *cacheMetrics) observeSweep(d time.Duration) {
	m.sweepDuration.Observe(d.Seconds())
}
