// Package metrics defines the Prometheus collectors exported by the proxy.
// Collectors are registered with the default registry at init via promauto,
// so importing the package is enough to make them scrapeable.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route and status class.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iqbandit_requests_total",
			Help: "Total HTTP requests handled, by route and status code.",
		},
		[]string{"route", "status"},
	)

	// ChatLatency observes end-to-end chat request latency in seconds.
	ChatLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iqbandit_chat_latency_seconds",
			Help:    "End-to-end chat completion latency.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"mode", "outcome"},
	)

	// RateLimitDecisions counts rate-limit checks by policy and outcome.
	RateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iqbandit_ratelimit_decisions_total",
			Help: "Rate limit checks, by policy and decision.",
		},
		[]string{"policy", "decision"},
	)

	// AuditWriteFailures counts audit log writes that needed the fallback
	// path or were lost entirely.
	AuditWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iqbandit_audit_write_failures_total",
			Help: "Audit log writes that failed, by backend.",
		},
		[]string{"backend"},
	)

	// StreamedBytes counts bytes relayed to clients on the streaming path.
	StreamedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "iqbandit_streamed_bytes_total",
			Help: "Total bytes relayed to clients over SSE streams.",
		},
	)

	// UpstreamErrors counts classified upstream failures by error code.
	UpstreamErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iqbandit_upstream_errors_total",
			Help: "Upstream failures, by classified error code.",
		},
		[]string{"code"},
	)
)

// Handler returns the Prometheus exposition handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
