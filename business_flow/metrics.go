package businessflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Import rows partitioned by outcome
	importRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_import_rows_total",
			Help: "Total number of price import rows processed",
		},
		[]string{"outcome"},
	)

	// Unit-of-work flushes triggered by imports
	importFlushesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "price_import_flushes_total",
			Help: "Total number of persistence flushes during price imports",
		},
	)

	// Wall-clock duration of whole import batches
	importDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_import_duration_seconds",
			Help:    "Price import batch durations in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Row outcome labels
const (
	outcomeSucceeded = "succeeded"
	outcomeNotFound  = "not_found"
	outcomeInvalid   = "invalid_range"
	outcomeViolation = "violation"
	outcomeError     = "error"
)
