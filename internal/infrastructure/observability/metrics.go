package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Payment metrics
	PaymentsTotal   *prometheus.CounterVec
	PaymentDuration *prometheus.HistogramVec
	RefundsTotal    *prometheus.CounterVec
	PayoutsTotal    *prometheus.CounterVec

	// Callback metrics
	CallbacksTotal     *prometheus.CounterVec
	SignatureFailures  *prometheus.CounterVec
	UnsignedCallbacks  *prometheus.CounterVec
	IdempotencyReplays *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := prometheus.WrapRegistererWith(nil, reg)

	m := &Metrics{
		PaymentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payments_total",
				Help:      "Total number of payment creations by gateway and status",
			},
			[]string{"gateway", "status"},
		),
		PaymentDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "payment_duration_seconds",
				Help:      "Adapter call duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"gateway", "operation"},
		),
		RefundsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "refunds_total",
				Help:      "Total number of refunds by gateway and status",
			},
			[]string{"gateway", "status"},
		),
		PayoutsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payouts_total",
				Help:      "Total number of payouts by gateway and status",
			},
			[]string{"gateway", "status"},
		),
		CallbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callbacks_total",
				Help:      "Total number of provider callbacks by gateway and normalized status",
			},
			[]string{"gateway", "status"},
		),
		SignatureFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callback_signature_failures_total",
				Help:      "Callbacks rejected because their signature did not verify",
			},
			[]string{"gateway"},
		),
		UnsignedCallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "callback_unsigned_total",
				Help:      "Callbacks processed without any signature header",
			},
			[]string{"gateway"},
		),
		IdempotencyReplays: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "idempotency_replays_total",
				Help:      "Requests answered from the idempotency store",
			},
			[]string{"operation"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	// Register all collectors
	factory.MustRegister(
		m.PaymentsTotal,
		m.PaymentDuration,
		m.RefundsTotal,
		m.PayoutsTotal,
		m.CallbacksTotal,
		m.SignatureFailures,
		m.UnsignedCallbacks,
		m.IdempotencyReplays,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}
