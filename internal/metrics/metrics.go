package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Yetkilendirme
	AuthorizationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorizations_total",
			Help: "Authorization attempts by outcome",
		},
		[]string{"outcome"},
	)
	AuthorizationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "authorization_duration_seconds",
			Help:    "Time spent deciding one authorization",
			Buckets: prometheus.DefBuckets,
		},
	)
	FundsUpdateConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "funds_update_conflicts_total",
			Help: "Conditional funds updates that lost a race and were retried",
		},
	)
	RecordingFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "recording_failures_total",
			Help: "Transaction records that could not be written",
		},
	)
	ReconciliationEntries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconciliation_entries_total",
			Help: "Discrepancies written for manual reconciliation",
		},
		[]string{"reason"},
	)

	// HTTP
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Worker kuyruğu
	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// /metrics endpoint'i için handler
var Handler = promhttp.Handler

// Init registers every collector with the default registry. Safe to call
// more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			AuthorizationsTotal,
			AuthorizationDuration,
			FundsUpdateConflicts,
			RecordingFailures,
			ReconciliationEntries,
			HTTPLatency,
			WorkerQueueDepth,
		)
	})
}
