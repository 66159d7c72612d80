// Package metrics provides Prometheus metrics collection for the search engine.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "truckload"

var (
	// QueueCandidatesTotal tracks admissible candidates produced per category.
	QueueCandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_candidates_total",
			Help:      "Total number of admissible queue candidates generated",
		},
		[]string{"category"},
	)

	// SearchNodesTotal tracks DFS nodes by search kind and outcome.
	SearchNodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_nodes_total",
			Help:      "Total number of search nodes by outcome",
		},
		[]string{"search", "outcome"},
	)

	// SearchDuration tracks wall time of a complete search.
	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300, 1800},
		},
		[]string{"search"},
	)

	// SolverNodesTotal tracks branch-and-bound nodes explored.
	SolverNodesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_nodes_total",
			Help:      "Total number of branch-and-bound nodes explored",
		},
	)

	// SolverRunsTotal tracks integer-program solves by status.
	SolverRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_runs_total",
			Help:      "Total number of integer-program solves",
		},
		[]string{"status"},
	)

	// CacheOperationsTotal tracks queue cache operations.
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of queue cache operations",
		},
		[]string{"operation", "result"},
	)
)

// RecordCandidates records the candidate count of one generated category.
func RecordCandidates(category string, n int) {
	QueueCandidatesTotal.WithLabelValues(category).Add(float64(n))
}

// RecordSearch records node counters and duration of a finished search.
func RecordSearch(search string, expanded, pruned, emitted int64, duration time.Duration) {
	SearchNodesTotal.WithLabelValues(search, "expanded").Add(float64(expanded))
	SearchNodesTotal.WithLabelValues(search, "pruned").Add(float64(pruned))
	SearchNodesTotal.WithLabelValues(search, "emitted").Add(float64(emitted))
	SearchDuration.WithLabelValues(search).Observe(duration.Seconds())
}

// RecordSolve records a finished integer-program solve.
func RecordSolve(status string, nodes int) {
	SolverNodesTotal.Add(float64(nodes))
	SolverRunsTotal.WithLabelValues(status).Inc()
}

// RecordCacheOperation records metrics for a cache operation.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// WriteTextfile dumps the default registry in text exposition format.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
