// File: internal/utils/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts HTTP requests by method, path and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verification_service_requests_total",
		Help: "The total number of HTTP requests",
	}, []string{"method", "path", "status"})

	// RequestDuration observes HTTP request latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "verification_service_request_duration_seconds",
		Help:    "The request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// VendorCallsTotal counts outbound vendor calls by vendor and outcome.
	VendorCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verification_service_vendor_calls_total",
		Help: "The total number of vendor API calls",
	}, []string{"vendor", "operation", "status"})

	// WebhooksTotal counts received webhooks by vendor and outcome.
	WebhooksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verification_service_webhooks_total",
		Help: "The total number of received webhooks",
	}, []string{"vendor", "status"})

	// PurchasesCreatedTotal counts lazily created purchase records.
	PurchasesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verification_service_purchases_created_total",
		Help: "The total number of purchase records created from payment polls",
	})

	// VerificationsByStatus counts verification status transitions.
	VerificationsByStatus = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verification_service_status_transitions_total",
		Help: "The total number of verification status transitions",
	}, []string{"status"})
)
