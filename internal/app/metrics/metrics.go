// Package metrics defines the Prometheus instruments for vendor calls, the
// polling loop and the HTTP surface. Tests should pass their own registry
// to New so that instruments never leak across test cases.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "voxscribe"

// Metrics groups every collector the service records into.
type Metrics struct {
	VendorRequests  *prometheus.CounterVec
	VendorDuration  *prometheus.HistogramVec
	PollIterations  *prometheus.CounterVec
	Transcriptions  *prometheus.CounterVec
	PipelineSeconds *prometheus.HistogramVec
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	HistoryFallback *prometheus.CounterVec
	ActiveJobs      prometheus.Gauge
}

// New creates the collectors and registers them with reg. A nil reg creates
// unregistered collectors.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		VendorRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vendor_requests_total",
			Help:      "Calls made to the speech-to-text vendor.",
		}, []string{"vendor", "operation", "status"}),
		VendorDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vendor_request_duration_seconds",
			Help:      "Latency of single vendor calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"vendor", "operation"}),
		PollIterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_iterations_total",
			Help:      "Status polls issued while waiting for jobs.",
		}, []string{"vendor", "status"}),
		Transcriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcriptions_total",
			Help:      "Finished transcription pipelines by outcome.",
		}, []string{"vendor", "outcome"}),
		PipelineSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transcription_duration_seconds",
			Help:      "Wall time from upload start to final status.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"vendor", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		HistoryFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_fallback_total",
			Help:      "History operations served by the local store.",
		}, []string{"operation"}),
		ActiveJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_jobs",
			Help:      "Asynchronous jobs currently polling.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.VendorRequests,
			m.VendorDuration,
			m.PollIterations,
			m.Transcriptions,
			m.PipelineSeconds,
			m.HTTPRequests,
			m.HTTPDuration,
			m.HistoryFallback,
			m.ActiveJobs,
		)
	}
	return m
}

// ObserveVendorCall records one vendor call. status is "ok" or an error code.
func (m *Metrics) ObserveVendorCall(vendor, operation, status string, started time.Time) {
	if m == nil {
		return
	}
	m.VendorRequests.WithLabelValues(vendor, operation, status).Inc()
	m.VendorDuration.WithLabelValues(vendor, operation).Observe(time.Since(started).Seconds())
}

// ObservePoll records one poll iteration.
func (m *Metrics) ObservePoll(vendor, status string) {
	if m == nil {
		return
	}
	m.PollIterations.WithLabelValues(vendor, status).Inc()
}

// ObservePipeline records a finished pipeline.
func (m *Metrics) ObservePipeline(vendor, outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Transcriptions.WithLabelValues(vendor, outcome).Inc()
	m.PipelineSeconds.WithLabelValues(vendor, outcome).Observe(time.Since(started).Seconds())
}

// ObserveFallback records a history operation answered by the local store.
func (m *Metrics) ObserveFallback(operation string) {
	if m == nil {
		return
	}
	m.HistoryFallback.WithLabelValues(operation).Inc()
}
