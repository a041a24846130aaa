package storage

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Warehouse query metrics, labeled by the analytics operation that issued
// the query (kpi_snapshot, drift_rows, ...).
var (
	queryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analytics_warehouse_query_duration_seconds",
			Help:    "Warehouse query duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
		},
		[]string{"operation"},
	)

	queryErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_warehouse_query_errors_total",
			Help: "Total number of failed warehouse queries",
		},
		[]string{"operation", "reason"},
	)

	queryRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_warehouse_query_retries_total",
			Help: "Total number of warehouse query retries",
		},
		[]string{"operation"},
	)

	cacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analytics_result_cache_requests_total",
			Help: "Result cache lookups by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

// Cache lookup outcomes
const (
	cacheOutcomeHit   = "hit"
	cacheOutcomeMiss  = "miss"
	cacheOutcomeError = "error"
)

// RecordCacheLookup records the outcome of a result-cache lookup
func RecordCacheLookup(operation string, outcome string) {
	cacheRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// CacheHit records a result-cache hit for an operation
func CacheHit(operation string) { RecordCacheLookup(operation, cacheOutcomeHit) }

// CacheMiss records a result-cache miss for an operation
func CacheMiss(operation string) { RecordCacheLookup(operation, cacheOutcomeMiss) }

// CacheError records a result-cache error for an operation
func CacheError(operation string) { RecordCacheLookup(operation, cacheOutcomeError) }
