package metric

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/c360/merchproxy/errors"
)

// MetricsRegistry manages the registration and lifecycle of metrics
type MetricsRegistry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
	registeredMetrics  map[string]prometheus.Collector
	mu                 sync.RWMutex
}

// NewMetricsRegistry creates a new metrics registry with core service metrics
func NewMetricsRegistry() *MetricsRegistry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &MetricsRegistry{
		prometheusRegistry: prometheusRegistry,
		registeredMetrics:  make(map[string]prometheus.Collector),
	}

	// Initialize and register core metrics
	registry.Metrics = NewMetrics()
	registry.registerCoreMetrics()

	// Add Go runtime metrics
	registry.prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// registerCoreMetrics registers the core metric set with the Prometheus registry.
// Core metrics are owned by this package so MustRegister is safe here.
func (r *MetricsRegistry) registerCoreMetrics() {
	r.prometheusRegistry.MustRegister(
		r.Metrics.RequestsTotal,
		r.Metrics.RequestDuration,
		r.Metrics.ErrorsTotal,
		r.Metrics.UpstreamRequests,
		r.Metrics.UpstreamDuration,
	)
}

// PrometheusRegistry returns the underlying Prometheus registry
func (r *MetricsRegistry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// CoreMetrics returns the core service metrics
func (r *MetricsRegistry) CoreMetrics() *Metrics {
	return r.Metrics
}

// register registers a named collector for a component, rejecting duplicates.
func (r *MetricsRegistry) register(componentName, metricName, kind string, c prometheus.Collector) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", componentName, metricName)

	if _, exists := r.registeredMetrics[key]; exists {
		return errors.WrapInvalid(
			fmt.Errorf("metric %s already registered for component %s", metricName, componentName),
			"MetricsRegistry", "Register"+kind, "duplicate metric registration")
	}

	if err := r.prometheusRegistry.Register(c); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if stderrors.As(err, &alreadyRegErr) {
			return errors.WrapInvalid(err, "MetricsRegistry", "Register"+kind,
				fmt.Sprintf("prometheus conflict for metric %s", metricName))
		}
		return errors.WrapInternal(err, "MetricsRegistry", "Register"+kind,
			"failed to register collector with prometheus")
	}

	r.registeredMetrics[key] = c
	return nil
}

// RegisterCounter registers a counter metric for a component
func (r *MetricsRegistry) RegisterCounter(componentName, metricName string, counter prometheus.Counter) error {
	return r.register(componentName, metricName, "Counter", counter)
}

// RegisterGauge registers a gauge metric for a component
func (r *MetricsRegistry) RegisterGauge(componentName, metricName string, gauge prometheus.Gauge) error {
	return r.register(componentName, metricName, "Gauge", gauge)
}

// RegisterHistogram registers a histogram metric for a component
func (r *MetricsRegistry) RegisterHistogram(componentName, metricName string, histogram prometheus.Histogram) error {
	return r.register(componentName, metricName, "Histogram", histogram)
}

// RegisterCounterVec registers a counter vector metric for a component
func (r *MetricsRegistry) RegisterCounterVec(componentName, metricName string, counterVec *prometheus.CounterVec) error {
	return r.register(componentName, metricName, "CounterVec", counterVec)
}

// Unregister removes a previously registered metric.
// Returns true if the metric existed and was removed.
func (r *MetricsRegistry) Unregister(componentName, metricName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := fmt.Sprintf("%s.%s", componentName, metricName)
	c, exists := r.registeredMetrics[key]
	if !exists {
		return false
	}

	r.prometheusRegistry.Unregister(c)
	delete(r.registeredMetrics, key)
	return true
}
