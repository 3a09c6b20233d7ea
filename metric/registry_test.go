package metric

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsRegistry(t *testing.T) {
	registry := NewMetricsRegistry()

	require.NotNil(t, registry)
	assert.NotNil(t, registry.PrometheusRegistry())
	assert.NotNil(t, registry.CoreMetrics())
}

func TestRegisterCounter(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_counter_total",
		Help: "test counter",
	})

	err := registry.RegisterCounter("proxy", "test_counter", counter)
	require.NoError(t, err)

	// Duplicate registration under the same key is rejected
	err = registry.RegisterCounter("proxy", "test_counter", counter)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterGauge(t *testing.T) {
	registry := NewMetricsRegistry()

	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "test_gauge",
		Help: "test gauge",
	})

	require.NoError(t, registry.RegisterGauge("cache", "test_gauge", gauge))
}

func TestRegisterHistogram(t *testing.T) {
	registry := NewMetricsRegistry()

	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_duration_seconds",
		Help:    "test histogram",
		Buckets: prometheus.DefBuckets,
	})

	require.NoError(t, registry.RegisterHistogram("cache", "test_duration", histogram))

	err := registry.RegisterHistogram("cache", "test_duration", histogram)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterCounterVec(t *testing.T) {
	registry := NewMetricsRegistry()

	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_operations_total",
		Help: "test counter vec",
	}, []string{"operation"})

	require.NoError(t, registry.RegisterCounterVec("cache", "test_operations", counterVec))
	counterVec.WithLabelValues("hit").Inc()

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	found := false
	for _, f := range families {
		if f.GetName() == "test_operations_total" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestUnregister(t *testing.T) {
	registry := NewMetricsRegistry()

	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "test_unregister_total",
		Help: "test counter",
	})

	require.NoError(t, registry.RegisterCounter("proxy", "test_unregister", counter))
	assert.True(t, registry.Unregister("proxy", "test_unregister"))
	assert.False(t, registry.Unregister("proxy", "test_unregister"))

	// Registration works again after unregister
	require.NoError(t, registry.RegisterCounter("proxy", "test_unregister", counter))
}

func TestCoreMetricsRecording(t *testing.T) {
	registry := NewMetricsRegistry()
	m := registry.CoreMetrics()

	// Recording must not panic; values are asserted via Gather
	m.RecordRequest("/api/graphql", "200")
	m.RecordError("/api/graphql", "upstream_unavailable")
	m.RecordUpstreamRequest("502")

	families, err := registry.PrometheusRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	assert.True(t, names["merchproxy_http_requests_total"])
	assert.True(t, names["merchproxy_errors_total"])
	assert.True(t, names["merchproxy_upstream_requests_total"])
}
