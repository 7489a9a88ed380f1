// Package metrics provides Prometheus metrics for plant identification requests.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// IdentificationMetrics contains all Prometheus metrics related to model calls.
type IdentificationMetrics struct {
	IdentificationsTotal   *prometheus.CounterVec
	IdentificationDuration *prometheus.HistogramVec
	registry               *prometheus.Registry
}

// NewIdentificationMetrics creates and registers the identification metrics.
// It returns an error if metric registration fails.
func NewIdentificationMetrics(registry *prometheus.Registry) (*IdentificationMetrics, error) {
	m := &IdentificationMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register identification metrics: %w", err)
	}
	return m, nil
}

func (m *IdentificationMetrics) initMetrics() {
	m.IdentificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantid_identifications_total",
		Help: "Total number of model calls by outcome (parsed, fallback, error).",
	}, []string{"outcome"})

	m.IdentificationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plantid_identification_duration_seconds",
		Help:    "Duration of model calls in seconds.",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
	}, []string{"outcome"})
}

// RecordIdentification counts one model call and observes its duration.
func (m *IdentificationMetrics) RecordIdentification(outcome string, duration time.Duration) {
	m.IdentificationsTotal.WithLabelValues(outcome).Inc()
	m.IdentificationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *IdentificationMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.HTTPErrorOnError,
	})
}

// Collect implements the prometheus.Collector interface.
func (m *IdentificationMetrics) Collect(ch chan<- prometheus.Metric) {
	m.IdentificationsTotal.Collect(ch)
	m.IdentificationDuration.Collect(ch)
}

// Describe implements the prometheus.Collector interface.
func (m *IdentificationMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.IdentificationsTotal.Describe(ch)
	m.IdentificationDuration.Describe(ch)
}
