package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Matching and notification Prometheus metrics.
var (
	MatchingRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matching_runs_total",
			Help:      "Matching runs by outcome",
		},
		[]string{"status"}, // "ok" / "error" / "skipped"
	)

	MatchingRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "matching_run_duration_seconds",
			Help:      "Duration of a single matching run",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	MatchingCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matching_candidates_total",
			Help:      "Candidates scored by outcome",
		},
		[]string{"outcome"}, // "matched" / "below_threshold" / "duplicate" / "invalid" / "insert_error"
	)

	MatchesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_created_total",
			Help:      "Match records persisted",
		},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Match notification emails by status",
		},
		[]string{"status"}, // "sent" / "failed" / "skipped_anonymous" / "already_claimed"
	)

	BackgroundUnitsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "background_units_in_flight",
			Help:      "Deferred units currently running",
		},
	)

	BackgroundUnitFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "background_unit_failures_total",
			Help:      "Deferred units that returned an error or panicked",
		},
		[]string{"unit", "reason"}, // reason: "error" / "panic"
	)
)

var registerMatching sync.Once

// RegisterMatchingMetrics registers matching, notification and background unit
// collectors. Repeated calls are no-ops.
func RegisterMatchingMetrics() {
	registerMatching.Do(func() {
		prometheus.MustRegister(
			MatchingRunsTotal,
			MatchingRunDuration,
			MatchingCandidatesTotal,
			MatchesCreatedTotal,
			NotificationsTotal,
			BackgroundUnitsInFlight,
			BackgroundUnitFailuresTotal,
		)
	})
}
