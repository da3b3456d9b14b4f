package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ValidationDecisions counts credential validation outcomes by reason.
	ValidationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "apikey_validation_decisions_total",
			Help: "Total number of API key validation decisions by outcome reason",
		},
		[]string{"reason"},
	)

	// ValidationDuration observes end-to-end validation pipeline latency.
	ValidationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "apikey_validation_duration_seconds",
			Help:    "Duration of the API key validation pipeline in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	// RateLimitDegraded counts rate-limit checks that failed open because
	// the counter store was unreachable.
	RateLimitDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratelimit_degraded_total",
			Help: "Total number of rate limit checks that failed open due to counter store errors",
		},
	)

	// AuditDropped counts audit events that could not be handled by a sink.
	AuditDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_dropped_total",
			Help: "Total number of audit events dropped by a failing sink",
		},
		[]string{"sink"},
	)
)

// RecordDecision increments the decision counter for a reason label.
// Success is recorded under the "allowed" label.
func RecordDecision(reason string) {
	if reason == "" {
		reason = "allowed"
	}
	ValidationDecisions.WithLabelValues(reason).Inc()
}
