package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultSlowRequest is the default threshold for slow request warnings.
const DefaultSlowRequest = 200 * time.Millisecond

// requestIDCounter is an atomic counter for request IDs.
var requestIDCounter uint64

// knownRoutes are reported as their own label; anything else is "other".
var knownRoutes = map[string]bool{
	"/": true, "/login": true, "/logout": true, "/dashboard": true,
	"/physio": true, "/assign": true, "/patient": true, "/calendar.ics": true,
	"/metrics": true, "/healthz": true,
}

// knownMethods are reported as their own label; anything else is "other".
var knownMethods = map[string]bool{
	http.MethodGet: true, http.MethodHead: true, http.MethodPost: true,
	http.MethodPut: true, http.MethodPatch: true, http.MethodDelete: true, http.MethodOptions: true,
}

// methodLabel maps a request method to a bounded metric label.
func methodLabel(method string) string {
	if knownMethods[method] {
		return method
	}
	return "other"
}

// routeLabel maps a request path to a bounded metric label.
func routeLabel(path string) string {
	if knownRoutes[path] {
		return path
	}
	if strings.HasPrefix(path, "/done/") {
		return "/done/{id}"
	}
	return "other"
}

// NewRequestMetrics registers the request duration histogram on reg.
// PRE: reg is non-nil and has no collector with the same name
// POST: Returns a histogram labelled by method, route and status
func NewRequestMetrics(reg prometheus.Registerer) *prometheus.HistogramVec {
	hist := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "physio",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	reg.MustRegister(hist)
	return hist
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Timing returns middleware that logs request duration and observes it on hist.
// Normal requests log at DEBUG; slow requests (at or above threshold) log at WARN.
// A nil hist disables metrics; a non-positive threshold uses DefaultSlowRequest.
func Timing(hist *prometheus.HistogramVec, threshold time.Duration) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowRequest
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := atomic.AddUint64(&requestIDCounter, 1)
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			elapsed := time.Since(start)
			durationMs := float64(elapsed.Microseconds()) / 1000.0
			level := slog.LevelDebug
			msg := "request"
			if elapsed >= threshold {
				level = slog.LevelWarn
				msg = "slow_request"
			}
			slog.Log(r.Context(), level, msg,
				"request_id", reqID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", durationMs,
			)

			if hist != nil {
				hist.WithLabelValues(methodLabel(r.Method), routeLabel(r.URL.Path), strconv.Itoa(sw.status)).Observe(elapsed.Seconds())
			}
		})
	}
}
