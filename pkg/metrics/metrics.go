package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WishSubmissions counts wish submission attempts by result
	// (created|duplicate|invalid|error).
	WishSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakeenah_wish_submissions_total",
			Help: "Total number of wish submission attempts",
		},
		[]string{"result"},
	)

	// InvitationLookups counts invitation point reads by result (hit|miss).
	InvitationLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sakeenah_invitation_lookups_total",
			Help: "Total number of invitation lookups",
		},
		[]string{"result"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sakeenah_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
