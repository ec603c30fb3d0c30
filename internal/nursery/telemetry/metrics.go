// Package telemetry holds the Prometheus metrics for the nursery service.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Resolution outcomes.
const (
	OutcomeExisting  = "existing"
	OutcomeCreated   = "created"
	OutcomeFallback  = "fallback"
	OutcomeStale     = "stale"
	OutcomeSignedOut = "signed_out"
)

var (
	// Resolutions counts role resolutions by how they ended.
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nursery",
			Subsystem: "session",
			Name:      "resolutions_total",
			Help:      "Role resolutions by outcome",
		},
		[]string{"outcome"},
	)

	// ResolutionDuration measures identity change to committed snapshot.
	ResolutionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "nursery",
			Subsystem: "session",
			Name:      "resolution_duration_seconds",
			Help:      "Time from identity change to resolved session",
			Buckets:   prometheus.DefBuckets,
		},
	)

	GuardDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nursery",
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Route guard decisions",
		},
		[]string{"decision"},
	)

	LandingRedirects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nursery",
			Subsystem: "landing",
			Name:      "redirects_total",
			Help:      "Landing navigations by target path",
		},
		[]string{"target"},
	)

	LiveClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nursery",
			Name:      "live_clients",
			Help:      "Client runtimes currently held in memory",
		},
	)

	// StateStoreErrors counts failed identity state store calls.
	StateStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nursery",
			Subsystem: "identity",
			Name:      "state_store_errors_total",
			Help:      "Identity state store failures by operation",
		},
		[]string{"op"},
	)
)

func RecordResolution(outcome string, d time.Duration) {
	Resolutions.WithLabelValues(outcome).Inc()
	if outcome != OutcomeStale {
		ResolutionDuration.Observe(d.Seconds())
	}
}

func RecordGuardDecision(decision string) {
	GuardDecisions.WithLabelValues(decision).Inc()
}

func RecordLandingRedirect(target string) {
	LandingRedirects.WithLabelValues(target).Inc()
}

func SetLiveClients(n int) {
	LiveClients.Set(float64(n))
}

func RecordStateStoreError(op string) {
	StateStoreErrors.WithLabelValues(op).Inc()
}
