package summarizer

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LLMMetricsRecorder records provider call outcomes. The interface exists so
// tests can inject a mock instead of Prometheus.
type LLMMetricsRecorder interface {
	// RecordCall records one provider call with its outcome and duration.
	RecordCall(provider string, success bool, duration time.Duration)
}

// PrometheusLLMMetrics implements LLMMetricsRecorder using Prometheus.
type PrometheusLLMMetrics struct {
	callsTotal        *prometheus.CounterVec
	durationHistogram *prometheus.HistogramVec
}

var (
	prometheusMetricsInstance *PrometheusLLMMetrics
	prometheusMetricsOnce     sync.Once
)

// NewPrometheusLLMMetrics returns the process-wide Prometheus recorder.
// Uses singleton pattern to avoid duplicate metric registration in tests.
func NewPrometheusLLMMetrics() *PrometheusLLMMetrics {
	prometheusMetricsOnce.Do(func() {
		prometheusMetricsInstance = &PrometheusLLMMetrics{
			callsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "llm_calls_total",
				Help: "Total LLM provider calls by provider and outcome",
			}, []string{"provider", "outcome"}),
			durationHistogram: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "llm_call_duration_seconds",
				Help:    "LLM provider call duration in seconds",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			}, []string{"provider"}),
		}
	})
	return prometheusMetricsInstance
}

// RecordCall records one provider call.
func (m *PrometheusLLMMetrics) RecordCall(provider string, success bool, duration time.Duration) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.callsTotal.WithLabelValues(provider, outcome).Inc()
	m.durationHistogram.WithLabelValues(provider).Observe(duration.Seconds())
}
