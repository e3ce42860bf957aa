package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TokensIssued counts one-time auth tokens created by the store.
	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vrno_auth_tokens_issued_total",
		Help: "One-time auth tokens issued.",
	})

	// TokensConsumed counts successful verify-and-consume operations.
	TokensConsumed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vrno_auth_tokens_consumed_total",
		Help: "One-time auth tokens consumed successfully.",
	})

	// TokensRejected counts verify attempts that failed for any reason.
	TokensRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vrno_auth_tokens_rejected_total",
		Help: "One-time auth token verifications rejected.",
	})

	// TokensSwept counts rows removed by the expiry sweeper.
	TokensSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vrno_auth_tokens_swept_total",
		Help: "Expired auth token rows deleted by the sweeper.",
	})

	// ExternalFallbacks counts requests answered by the secondary data
	// source after the primary path missed or failed. For most endpoints the
	// primary source is the local store and the fallback is the upstream
	// market API; for price history it is the other way around.
	ExternalFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vrno_fallback_served_total",
		Help: "Requests answered by the fallback data source.",
	}, []string{"endpoint"})
)
