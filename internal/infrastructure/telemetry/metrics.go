package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Command and query counters. Labels stay low-cardinality: aggregate and
// operation names only, never tenant or document identifiers.
var (
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_commands_total",
		Help: "Commands processed, by aggregate, operation and result.",
	}, []string{"aggregate", "operation", "result"})

	ConcurrencyRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_concurrency_retries_total",
		Help: "Save retries caused by optimistic concurrency conflicts.",
	}, []string{"operation"})

	ProjectionEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_projection_events_total",
		Help: "Events applied to read-model projections, by stream type.",
	}, []string{"stream_type"})

	CacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_cache_lookups_total",
		Help: "Read-model cache lookups, by model and outcome.",
	}, []string{"model", "outcome"})
)

// RecordCommand increments the command counter with an ok/error result.
func RecordCommand(aggregate, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	CommandsTotal.WithLabelValues(aggregate, operation, result).Inc()
}
