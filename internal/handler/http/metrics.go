package http

import (
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"catchup-feed/internal/handler/http/pathutil"
	"catchup-feed/internal/observability/slo"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// sloTotalRequests/sloServerErrors back the availability and error-rate SLO
// gauges with a running count; reset is never needed since both are ratios.
var (
	sloTotalRequests int64
	sloServerErrors  int64
)

// Prometheus metrics
var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration tracks request latency with optimized buckets for API response times.
	// Buckets are designed to capture:
	// - Fast responses: 5ms, 10ms, 25ms
	// - Normal responses: 50ms, 100ms, 250ms
	// - Slow responses: 500ms, 1s, 2.5s, 5s, 10s
	// This enables accurate p95 and p99 latency measurements.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestsInFlight tracks the current number of HTTP requests being processed.
	// This metric helps identify:
	// - Load levels and capacity
	// - Request queuing issues
	// - Potential bottlenecks
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	httpRequestSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_size_bytes",
			Help:    "HTTP request size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)

	// Application metrics
	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	// Business metrics
	feedsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feeds_total",
			Help: "Total number of feeds in the database",
		},
	)

	entriesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "entries_total",
			Help: "Total number of entries in the database",
		},
	)

	feedSyncsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_syncs_total",
			Help: "Total number of feed sync attempts by result tag",
		},
		[]string{"result"},
	)

	feedSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "feed_sync_duration_seconds",
			Help:    "Time taken to load and upsert one feed",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	opmlImportJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opml_import_jobs_total",
			Help: "Total number of OPML import jobs by terminal status",
		},
		[]string{"status"},
	)

	dbQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)

// responseWriter wraps http.ResponseWriter to record status code and response size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	size, err := rw.ResponseWriter.Write(b)
	rw.size += size
	return size, err
}

// MetricsMiddleware records HTTP request metrics including duration, size, and status codes.
// It uses path normalization to prevent label cardinality explosion from ID-containing paths.
// The middleware tracks:
// - In-flight requests (gauge incremented/decremented per request)
// - Request duration with optimized histogram buckets
// - Request and response sizes
// - Status code distribution
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Track in-flight requests
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Track active connections (legacy metric, kept for compatibility)
		activeConnections.Inc()
		defer activeConnections.Dec()

		// Normalize path to prevent cardinality explosion
		// Example: /api/v1/feeds/<uuid> -> /api/v1/feeds/:id
		normalizedPath := pathutil.NormalizePath(r.URL.Path)

		// Record request size
		if r.ContentLength > 0 {
			httpRequestSize.WithLabelValues(r.Method, normalizedPath).Observe(float64(r.ContentLength))
		}

		// Wrap response writer to capture status code and response size
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Measure request duration
		start := time.Now()
		next.ServeHTTP(rw, r)
		duration := time.Since(start).Seconds()

		// Record metrics (using normalized path to prevent cardinality explosion)
		status := strconv.Itoa(rw.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, normalizedPath, status).Observe(duration)
		httpResponseSize.WithLabelValues(r.Method, normalizedPath).Observe(float64(rw.size))

		total := atomic.AddInt64(&sloTotalRequests, 1)
		errors := atomic.LoadInt64(&sloServerErrors)
		if rw.statusCode >= 500 {
			errors = atomic.AddInt64(&sloServerErrors, 1)
		}
		slo.UpdateErrorRate(float64(errors) / float64(total))
		slo.UpdateAvailability(float64(total-errors) / float64(total))
	})
}

// MetricsHandler returns an HTTP handler for the Prometheus metrics endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// RecordFeedSync records the outcome and duration of one sync attempt,
// tagged with the same string synctag.Classify would produce.
func RecordFeedSync(result string, duration time.Duration) {
	feedSyncsTotal.WithLabelValues(result).Inc()
	feedSyncDuration.Observe(duration.Seconds())
}

// RecordOpmlImportJob records the terminal status of one OPML import job.
func RecordOpmlImportJob(status string) {
	opmlImportJobsTotal.WithLabelValues(status).Inc()
}

// RecordDBQuery records the duration of a database query operation.
func RecordDBQuery(operation string, duration time.Duration) {
	dbQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateFeedsTotal updates the total count of feeds in the database.
func UpdateFeedsTotal(count int) {
	feedsTotal.Set(float64(count))
}

// UpdateEntriesTotal updates the total count of entries in the database.
func UpdateEntriesTotal(count int) {
	entriesTotal.Set(float64(count))
}
