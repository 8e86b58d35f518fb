package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BackendMetrics records outbound calls to the order-taking API.
type BackendMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewBackendMetrics registers the backend call metrics on the provided registerer.
func NewBackendMetrics(reg prometheus.Registerer) *BackendMetrics {
	if reg == nil {
		return &BackendMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backend_request_duration_seconds",
		Help:    "Duration of backend API requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_request_success_total",
		Help: "Backend API requests that returned a success status.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backend_request_failure_total",
		Help: "Backend API requests that failed, by failure kind.",
	}, []string{"operation", "kind"})
	reg.MustRegister(duration, success, failure)
	return &BackendMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *BackendMetrics) ObserveDuration(operation string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(d.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *BackendMetrics) IncSuccess(operation string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter; kind is "transport" or "status".
func (m *BackendMetrics) IncFailure(operation, kind string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(operation), normalizeLabel(kind)).Inc()
}

// CheckoutMetrics counts checkout outcomes, including the degraded fallback.
type CheckoutMetrics struct {
	outcomes *prometheus.CounterVec
}

const (
	CheckoutRegistered = "registered"
	CheckoutDegraded   = "degraded"
)

// NewCheckoutMetrics registers the checkout outcome counter.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_outcomes_total",
		Help: "Checkout submissions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(outcomes)
	return &CheckoutMetrics{outcomes: outcomes}
}

// Inc increments the counter for the outcome.
func (m *CheckoutMetrics) Inc(outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// Counter returns the series for one outcome.
func (m *CheckoutMetrics) Counter(outcome string) prometheus.Counter {
	if m == nil || m.outcomes == nil {
		return prometheus.NewCounter(prometheus.CounterOpts{Name: "checkout_outcomes_unregistered"})
	}
	return m.outcomes.WithLabelValues(normalizeLabel(outcome))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
