package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are registered with the default registry through promauto.

var (
	// ==================== HTTP METRICS ====================

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// ==================== CACHE METRICS ====================

	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.0001, .0005, .001, .0025, .005, .01, .025, .05},
		},
		[]string{"operation"}, // get, set
	)

	// ==================== RATE LIMITING METRICS ====================

	RateLimitedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limited_requests_total",
			Help: "Total number of rate-limited requests",
		},
	)

	RateLimitAllowedRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rate_limit_allowed_requests_total",
			Help: "Total number of requests allowed by rate limiter",
		},
	)

	// ==================== BUSINESS METRICS ====================

	AssetsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assets_created_total",
			Help: "Total number of asset records persisted",
		},
	)

	// CodesGeneratedTotal counts generated code URLs by mode (reference, inline)
	CodesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codes_generated_total",
			Help: "Total number of code URLs generated",
		},
		[]string{"mode"},
	)

	// StoreFallbacksTotal counts reference requests that fell back to inline encoding
	StoreFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_fallbacks_total",
			Help: "Total number of store failures answered with an inline code",
		},
	)

	ResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resolutions_total",
			Help: "Total number of code URL resolutions",
		},
		[]string{"mode", "result"},
	)

	ScansRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scans_recorded_total",
			Help: "Total number of scan events recorded",
		},
	)

	// ==================== DATABASE METRICS ====================

	DatabaseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "database_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	DatabaseErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "database_errors_total",
			Help: "Total number of database errors",
		},
		[]string{"operation"},
	)
)

// RecordCacheHit increments cache hit counter
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss increments cache miss counter
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

func RecordAssetCreated() {
	AssetsCreatedTotal.Inc()
}

func RecordCodeGenerated(mode string) {
	CodesGeneratedTotal.WithLabelValues(mode).Inc()
}

func RecordStoreFallback() {
	StoreFallbacksTotal.Inc()
}

// RecordResolution counts one resolution; result is "ok" or an error kind.
func RecordResolution(mode, result string) {
	ResolutionsTotal.WithLabelValues(mode, result).Inc()
}

func RecordScan() {
	ScansRecordedTotal.Inc()
}

// RecordRateLimited increments rate-limited requests counter
func RecordRateLimited() {
	RateLimitedRequestsTotal.Inc()
}

// RecordRateLimitAllowed increments allowed requests counter
func RecordRateLimitAllowed() {
	RateLimitAllowedRequestsTotal.Inc()
}
