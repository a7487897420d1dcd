// Package metrics exposes Prometheus collectors for the HTTP surface, the
// wizard and the upload proxy.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "patentdesk"

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	stepTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "step_transitions_total",
			Help:      "Wizard step triggers by step and outcome.",
		},
		[]string{"step", "outcome"},
	)

	pendingWaits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "pending_wait_seconds",
			Help:      "Time spent waiting for an application number to reach the draft.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
	)

	uploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "files_total",
			Help:      "Uploaded files by category and outcome.",
		},
		[]string{"category", "outcome"},
	)

	referenceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reference",
			Name:      "fetches_total",
			Help:      "Reference list loads from the database by kind.",
		},
		[]string{"kind"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		stepTransitions,
		pendingWaits,
		uploads,
		referenceFetches,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per matched gin route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// RecordStep counts a wizard trigger outcome such as "advanced", "invalid" or "error".
func RecordStep(step int, outcome string) {
	stepTransitions.WithLabelValues(strconv.Itoa(step), outcome).Inc()
}

// ObservePendingWait records how long a navigation waited for its application number.
func ObservePendingWait(d time.Duration) {
	pendingWaits.Observe(d.Seconds())
}

// RecordUpload counts one file outcome ("uploaded", "failed", "rejected").
func RecordUpload(category, outcome string) {
	uploads.WithLabelValues(category, outcome).Inc()
}

// RecordReferenceFetch counts a reference list load that reached the database.
func RecordReferenceFetch(kind string) {
	referenceFetches.WithLabelValues(kind).Inc()
}
