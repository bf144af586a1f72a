package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadRowsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_rows_imported_total",
			Help: "Rows persisted by spreadsheet imports",
		},
	)

	leadRowsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_rows_rejected_total",
			Help: "Rows skipped by spreadsheet imports",
		},
		[]string{"reason"},
	)

	runsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "action_runs_total",
			Help: "Action runs by dispatch outcome",
		},
		[]string{"state"},
	)

	callbacksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_callbacks_total",
			Help: "Status reports received from the workflow engine",
		},
		[]string{"source", "result"},
	)

	staleRunsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "action_runs_expired_total",
			Help: "Runs moved to dispatch_failed by the stale-run sweeper",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics records request count and latency per route pattern, so ids in
// the path do not explode label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

func RecordImport(accepted int, rejectedByReason map[string]int) {
	leadRowsImported.Add(float64(accepted))
	for reason, n := range rejectedByReason {
		leadRowsRejected.WithLabelValues(reason).Add(float64(n))
	}
}

func RecordRun(state string) {
	runsDispatched.WithLabelValues(state).Inc()
}

func RecordCallback(source, result string) {
	callbacksReceived.WithLabelValues(source, result).Inc()
}

func RecordStaleRuns(n int) {
	staleRunsExpired.Add(float64(n))
}
