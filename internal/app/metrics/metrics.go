package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "catalog",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	searches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "catalogue",
			Name:      "searches_total",
			Help:      "Total number of catalogue searches by sort key.",
		},
		[]string{"sort"},
	)

	searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "catalog",
			Subsystem: "catalogue",
			Name:      "search_results",
			Help:      "Number of assets returned per search.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
		},
	)

	published = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "publishing",
			Name:      "assets_total",
			Help:      "Publish attempts by outcome.",
		},
		[]string{"outcome"},
	)

	deletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "ownership",
			Name:      "deletes_total",
			Help:      "Delete attempts by outcome.",
		},
		[]string{"outcome"},
	)

	storeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "catalog",
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Store failures by operation and error code.",
		},
		[]string{"operation", "code"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		searches,
		searchResults,
		published,
		deletes,
		storeErrors,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

// RecordSearch counts a completed search and its result size.
func RecordSearch(sort string, results int) {
	if sort == "" {
		sort = "downloads"
	}
	searches.WithLabelValues(sort).Inc()
	searchResults.Observe(float64(results))
}

// RecordPublish counts a publish attempt. outcome is "created", "invalid"
// or "failed".
func RecordPublish(outcome string) {
	published.WithLabelValues(outcome).Inc()
}

// RecordDelete counts a delete attempt by outcome.
func RecordDelete(outcome string) {
	deletes.WithLabelValues(outcome).Inc()
}

// RecordStoreError counts a failed store call.
func RecordStoreError(operation, code string) {
	if operation == "" {
		operation = "unknown"
	}
	storeErrors.WithLabelValues(operation, code).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// canonicalPath collapses asset ids and upload names so label cardinality
// stays bounded.
func canonicalPath(raw string) string {
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	switch parts[0] {
	case "uploads":
		return "/uploads/:file"
	case "api":
		if len(parts) < 2 {
			return "/api"
		}
		if parts[1] != "assets" || len(parts) == 2 {
			return "/api/" + parts[1]
		}
		switch parts[2] {
		case "mine", "dashboard", "home-summary":
			return "/api/assets/" + parts[2]
		default:
			return "/api/assets/:id"
		}
	default:
		return "/" + parts[0]
	}
}
