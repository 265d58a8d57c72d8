package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeBusy    = "busy"
)

var (
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_runs_total",
			Help: "Total number of onboarding runs by outcome",
		},
		[]string{"outcome"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "onboarding_run_duration_seconds",
			Help:    "Duration of onboarding runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ServiceCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "onboarding_service_calls_total",
			Help: "Total number of service adapter calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	ProgressSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "onboarding_progress_subscribers",
			Help: "Number of connected progress stream subscribers",
		},
	)
)

// Outcome maps a success flag to an outcome label.
func Outcome(ok bool) string {
	if ok {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
