package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	CheckoutInitiated *prometheus.CounterVec
	CheckoutConfirmed *prometheus.CounterVec
	CheckoutRejected  *prometheus.CounterVec
	CartOperations    *prometheus.CounterVec
	GatewayDuration   *prometheus.HistogramVec
}

// New registers every collector on reg under the given prefix. Tests pass a
// fresh prometheus.NewRegistry so repeated construction does not collide.
func New(reg prometheus.Registerer, prefix string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		CheckoutInitiated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_checkout_initiated_total",
				Help: "Pending orders created with a gateway reference",
			},
			[]string{"gateway"},
		),
		CheckoutConfirmed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_checkout_confirmed_total",
				Help: "Orders moved to Confirmed, duplicates included under outcome=duplicate",
			},
			[]string{"gateway", "outcome"},
		),
		CheckoutRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_checkout_rejected_total",
				Help: "Checkout operations that failed, by stage and reason",
			},
			[]string{"stage", "reason"},
		),
		CartOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_cart_operations_total",
				Help: "Cart mutations by operation",
			},
			[]string{"operation"},
		),
		GatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    prefix + "_gateway_call_duration_seconds",
				Help:    "Duration of payment gateway calls in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"gateway", "call"},
		),
	}
}

// NewNop is for tests that do not inspect metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry(), "test")
}

func (m *Metrics) TrackGatewayCall(gateway, call string) func() {
	start := time.Now()
	return func() {
		m.GatewayDuration.WithLabelValues(gateway, call).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecordCartOperation(operation string) {
	m.CartOperations.WithLabelValues(operation).Inc()
}

func (m *Metrics) RecordRejection(stage, reason string) {
	m.CheckoutRejected.WithLabelValues(stage, reason).Inc()
}
