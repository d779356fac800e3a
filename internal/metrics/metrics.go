package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for monitoring gateway health and performance
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	WebhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Total number of verified webhook events received",
		},
		[]string{"event_type"},
	)

	WebhookFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_failures_total",
			Help: "Total number of webhook deliveries that were not acknowledged",
		},
		[]string{"reason"},
	)

	PaymentOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_operations_total",
			Help: "Total number of payment operations by outcome",
		},
		[]string{"operation", "outcome"},
	)
)

var registered bool

// Register registers all gateway metrics with the default registry. Safe to
// call once per process; tests that import this package indirectly must not
// call it again.
func Register() {
	if registered {
		return
	}
	registered = true

	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		WebhookEventsTotal,
		WebhookFailuresTotal,
		PaymentOperationsTotal,
	)
}
