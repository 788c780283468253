package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ActivityRequestsTotal counts activity feed requests by result
	// ("cache_hit", "fetched", "error").
	ActivityRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "activity_requests_total",
			Help: "Number of activity feed requests by result.",
		},
		[]string{"result"},
	)

	// UpstreamRequestsTotal counts outbound upstream calls by target and outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Number of upstream requests by target and outcome.",
		},
		[]string{"upstream", "outcome"},
	)

	// UpstreamRequestDuration observes upstream call latency per target.
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Latency of upstream requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream"},
	)

	// WalletOperationsTotal counts wallet session operations by operation and outcome.
	WalletOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_operations_total",
			Help: "Number of wallet session operations by outcome.",
		},
		[]string{"operation", "outcome"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		ActivityRequestsTotal,
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		WalletOperationsTotal,
	)
}
