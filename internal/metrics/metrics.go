// Package metrics holds the Prometheus instruments for solve runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchbox_solve_total",
		Help: "Solve runs by outcome (no_evidence, consistent, contradictory, malformed, too_many, canceled, error).",
	}, []string{"outcome"})

	SolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchbox_solve_duration_seconds",
		Help:    "Wall time of uncached solve runs.",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
	})

	SolutionCount = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchbox_solutions",
		Help:    "Number of consistent pairings per solve run.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	})

	PrunedAssignments = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchbox_pruned_assignments_total",
		Help: "Merged assignments discarded during folding.",
	})

	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchbox_cache_requests_total",
		Help: "Result cache lookups by result (hit, miss, error).",
	}, []string{"result"})
)
