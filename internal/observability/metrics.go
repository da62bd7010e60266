// Package observability holds the Prometheus collectors of the service.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	latencyBuckets = prometheus.ExponentialBuckets(0.0005, 2, 14) // 0.5ms to ~4s

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: latencyBuckets,
		},
		[]string{"method", "route", "status"},
	)

	operationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georelate_operations_total",
			Help: "Geometry operations by kind, input format and outcome.",
		},
		[]string{"op", "format", "outcome"},
	)

	operationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "georelate_operation_duration_seconds",
			Help:    "Duration of geometry operations in seconds.",
			Buckets: latencyBuckets,
		},
		[]string{"op", "format"},
	)

	predicateResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georelate_predicate_results_total",
			Help: "Spatial predicate evaluations by predicate and result.",
		},
		[]string{"predicate", "result"},
	)

	diagnosticsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georelate_diagnostics_total",
			Help: "Diagnostic warnings raised by the geometry packages.",
		},
		[]string{"code"},
	)

	cacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georelate_cache_results_total",
			Help: "Result cache lookups by tier and outcome.",
		},
		[]string{"tier", "outcome"},
	)

	cacheOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_op_total",
			Help: "Redis operations by op and outcome.",
		},
		[]string{"op", "outcome"},
	)

	redisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Duration of Redis operations in seconds.",
			Buckets: latencyBuckets,
		},
		[]string{"op"},
	)

	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "georelate_events_total",
			Help: "Operation events by outcome (queued, dropped, failed).",
		},
		[]string{"outcome"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveOp(op, format string, err error, durationSeconds float64) {
	operationsTotal.WithLabelValues(op, format, outcome(err)).Inc()
	operationDurationSeconds.WithLabelValues(op, format).Observe(durationSeconds)
}

func ObservePredicate(predicate string, result bool) {
	predicateResults.WithLabelValues(predicate, strconv.FormatBool(result)).Inc()
}

func IncDiagnostic(code string) {
	diagnosticsTotal.WithLabelValues(code).Inc()
}

// AddCacheResults counts n lookups on tier ("local" or "redis") with
// outcome "hit" or "miss".
func AddCacheResults(tier, outcome string, n int) {
	if n <= 0 {
		return
	}
	cacheResults.WithLabelValues(tier, outcome).Add(float64(n))
}

func ObserveCacheOp(op string, err error, durationSeconds float64) {
	cacheOps.WithLabelValues(op, outcome(err)).Inc()
	redisOpDuration.WithLabelValues(op).Observe(durationSeconds)
}

func IncEvent(outcome string) {
	eventsTotal.WithLabelValues(outcome).Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
