// Package observability provides tracing and metrics instrumentation.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis command failures by command name.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kalem_redis_errors_total",
		Help: "Total number of Redis command errors",
	}, []string{"command"})

	// DatabaseQueryLatency observes query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kalem_db_query_duration_seconds",
		Help:    "Database query latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// VotesAccepted counts votes recorded in the ledger.
	VotesAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kalem_votes_accepted_total",
		Help: "Total number of votes accepted into the ledger",
	})

	// VotesRejected counts rejected vote attempts by reason.
	VotesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kalem_votes_rejected_total",
		Help: "Total number of rejected vote attempts",
	}, []string{"reason"})

	// BattlesByOutcome counts battle lifecycle terminations.
	BattlesByOutcome = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kalem_battles_finished_total",
		Help: "Total number of battles finished, by outcome",
	}, []string{"outcome"})

	// CascadeFailures counts post/author cascade writes that failed after the
	// primary write committed. These are recoverable-later inconsistencies.
	CascadeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kalem_cascade_failures_total",
		Help: "Total number of failed dependent-entity cascade updates",
	}, []string{"cascade"})
)

// TrackQuery returns a closure that records the elapsed time for a query.
//
//	defer observability.TrackQuery("select", "battles")()
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
