package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgegate",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edgegate",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
	authDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgegate",
			Subsystem: "pathauth",
			Name:      "decisions_total",
			Help:      "Path authentication decisions by matched prefix and outcome.",
		},
		[]string{"node", "prefix", "outcome"},
	)
	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "edgegate",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Requests proxied to the upstream service.",
		},
		[]string{"node", "method", "status", "success"},
	)
	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "edgegate",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Upstream proxy request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "status", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, authDecisions, upstreamRequests, upstreamDuration)
	})
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

func RecordAuthDecision(node, prefix, outcome string) {
	RegisterMetrics()
	authDecisions.WithLabelValues(node, prefix, outcome).Inc()
}

func RecordUpstreamProxy(node, method string, status int, duration time.Duration, success bool) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	successLabel := strconv.FormatBool(success)
	upstreamRequests.WithLabelValues(node, method, statusLabel, successLabel).Inc()
	upstreamDuration.WithLabelValues(node, method, statusLabel, successLabel).
		Observe(duration.Seconds())
}
