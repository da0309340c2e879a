// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_backend_calls_total",
			Help: "Total number of backend calls by service, method and status class",
		},
		[]string{"service", "method", "status_class"},
	)

	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "console_backend_call_duration_seconds",
			Help: "Duration of backend calls in seconds",
		},
		[]string{"service", "method"},
	)

	BackendRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_backend_requests_in_flight",
			Help: "Number of backend calls currently outstanding",
		},
	)

	ListLoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_list_loads_total",
			Help: "Total number of list loads by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)

	OnboardingStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_onboarding_steps_total",
			Help: "Total number of onboarding steps executed by step and result",
		},
		[]string{"step", "result"},
	)

	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_mutations_total",
			Help: "Total number of mutation requests by action and result",
		},
		[]string{"action", "result"},
	)
)

// StatusClass buckets an HTTP status for metric labels.
func StatusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Result maps a boolean outcome to a metric label.
func Result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
