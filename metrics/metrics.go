// Package metrics provides Prometheus metrics for the legislation MCP
// server. It tracks tool call counts, latencies, cache performance, and
// upstream API behavior.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const (
	Namespace = "kr_legislation_mcp"
)

var (
	// RequestsTotal counts total MCP tool calls by tool name and status
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "requests_total",
		Help:      "Total number of MCP tool calls",
	}, []string{"tool", "status"})

	// RequestDuration measures request latency distribution
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "request_duration_seconds",
		Help:      "Request latency distribution by tool",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"tool"})

	// RequestInFlight tracks currently executing requests
	RequestInFlight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "requests_in_flight",
		Help:      "Number of requests currently being processed",
	}, []string{"tool"})

	// CacheHits counts cache hits
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "cache_hits_total",
		Help:      "Total cache hit count",
	})

	// CacheMisses counts cache misses
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "cache_misses_total",
		Help:      "Total cache miss count",
	})

	// CacheSize tracks current cache entry count
	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "cache_entries",
		Help:      "Current number of cache entries",
	})

	// UpstreamLatency measures law.go.kr API call latency by category and target
	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "upstream_latency_seconds",
		Help:      "Upstream API call latency by category and target",
		Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"category", "target"})

	// UpstreamRequestsTotal counts upstream API requests
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "upstream_requests_total",
		Help:      "Total upstream API requests by category, target and status",
	}, []string{"category", "target", "status"})

	// UpstreamRetries counts upstream request retries
	UpstreamRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "upstream_retries_total",
		Help:      "Upstream API retry count by category and target",
	}, []string{"category", "target"})

	// EnvelopeFallbacks counts responses resolved by scanning instead of the
	// known envelope entry for the target
	EnvelopeFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "envelope_fallbacks_total",
		Help:      "Responses whose envelope did not match the known key pair",
	}, []string{"target"})

	// AuthFailures counts OC rejections
	AuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_failures_total",
		Help:      "Authentication failure count",
	})

	// PanicsRecovered counts recovered panics
	PanicsRecovered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "panics_recovered_total",
		Help:      "Number of panics recovered in tool handlers",
	}, []string{"tool"})
)

// RecordRequest records a completed tool call with its duration and status
func RecordRequest(tool string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	RequestsTotal.WithLabelValues(tool, status).Inc()
	RequestDuration.WithLabelValues(tool).Observe(duration)
}

// RecordUpstreamCall records a law.go.kr API call
func RecordUpstreamCall(category, target string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(category, target, status).Inc()
	UpstreamLatency.WithLabelValues(category, target).Observe(duration)
}

// RecordCacheAccess records a cache hit or miss
func RecordCacheAccess(hit bool) {
	if hit {
		CacheHits.Inc()
	} else {
		CacheMisses.Inc()
	}
}

// SetCacheSize updates the current cache size gauge
func SetCacheSize(size int64) {
	CacheSize.Set(float64(size))
}
