// Package middleware provides cross-cutting concerns for the decision
// engine: metrics collection and tracing wrappers around criterion units.
package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ml297/Decision-Science/internal/ports"
)

var _ ports.MetricsCollector = (*PrometheusMetrics)(nil)

// PrometheusMetrics implements the MetricsCollector interface using
// Prometheus. It provides real-time monitoring of ranking latency,
// comparison counts, and matrix dimensions for the decision engine.
type PrometheusMetrics struct {
	rankLatency      *prometheus.HistogramVec
	comparisonsTotal *prometheus.CounterVec
	operationCounter *prometheus.CounterVec
	systemGauges     *prometheus.GaugeVec
}

// NewPrometheusMetrics creates a new PrometheusMetrics instance and
// registers all required metrics with the given registerer. A nil
// registerer falls back to the global Prometheus registry; tests pass
// their own registry to avoid duplicate registration. Registration
// failures are reported as a ports.MetricsError naming the offending
// metric.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	pm := &PrometheusMetrics{
		rankLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "decision_rank_duration_seconds",
				Help:    "Execution time of ranking operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "unit"},
		),
		comparisonsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decision_comparisons_total",
				Help: "Total number of pairwise comparisons performed across rankings.",
			},
			[]string{"criterion", "unit"},
		),
		operationCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "decision_rank_operations_total",
				Help: "Total number of ranking operations performed by criterion units.",
			},
			[]string{"operation", "status", "unit"},
		),
		systemGauges: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "decision_matrix_dimensions",
				Help: "Dimensions of the most recently ranked decision matrix.",
			},
			[]string{"metric", "unit"},
		),
	}

	collectors := []struct {
		name      string
		collector prometheus.Collector
	}{
		{"decision_rank_duration_seconds", pm.rankLatency},
		{"decision_comparisons_total", pm.comparisonsTotal},
		{"decision_rank_operations_total", pm.operationCounter},
		{"decision_matrix_dimensions", pm.systemGauges},
	}
	for _, c := range collectors {
		if err := reg.Register(c.collector); err != nil {
			return nil, ports.NewMetricsError(c.name, "Register", err)
		}
	}

	return pm, nil
}

// RecordLatency implements the MetricsCollector interface by recording
// execution latency in a Prometheus histogram.
func (pm *PrometheusMetrics) RecordLatency(
	operation string,
	duration time.Duration,
	labels map[string]string,
) {
	unit, ok := labels["unit"]
	if !ok {
		unit = "unknown"
	}
	pm.rankLatency.WithLabelValues(operation, unit).Observe(duration.Seconds())
}

// RecordCounter implements the MetricsCollector interface by incrementing
// Prometheus counters.
func (pm *PrometheusMetrics) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	unit, ok := labels["unit"]
	if !ok {
		unit = "unknown"
	}

	switch metric {
	case "decision_comparisons_total":
		pm.comparisonsTotal.WithLabelValues(labels["criterion"], unit).Add(value)
	default:
		status, ok := labels["status"]
		if !ok {
			status = "success"
		}
		pm.operationCounter.WithLabelValues(metric, status, unit).Add(value)
	}
}

// RecordGauge implements the MetricsCollector interface by setting
// Prometheus gauge values.
func (pm *PrometheusMetrics) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	unit, ok := labels["unit"]
	if !ok {
		unit = "unknown"
	}
	pm.systemGauges.WithLabelValues(metric, unit).Set(value)
}

// RecordHistogram implements the MetricsCollector interface by recording
// values in the ranking latency histogram, treating the value as seconds.
func (pm *PrometheusMetrics) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	unit, ok := labels["unit"]
	if !ok {
		unit = "unknown"
	}
	pm.rankLatency.WithLabelValues(metric, unit).Observe(value)
}
