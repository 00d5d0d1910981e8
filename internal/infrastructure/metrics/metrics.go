package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	PaymentsCreated   *prometheus.CounterVec
	WebhooksProcessed *prometheus.CounterVec
	GatewayLatency    *prometheus.HistogramVec
}

// New builds collectors on a private registry so repeated construction (tests) does not panic.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		PaymentsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payhub_payments_created_total",
				Help: "Payment creation attempts by gateway and outcome",
			},
			[]string{"gateway", "outcome"},
		),
		WebhooksProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payhub_webhooks_processed_total",
				Help: "Inbound gateway callbacks by gateway and reconciliation outcome",
			},
			[]string{"gateway", "outcome"},
		),
		GatewayLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payhub_gateway_call_duration_seconds",
				Help:    "Duration of outbound payment creation calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"gateway"},
		),
	}

	reg.MustRegister(m.PaymentsCreated, m.WebhooksProcessed, m.GatewayLatency)
	reg.MustRegister(prometheus.NewGoCollector())
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObservePaymentCreated is nil-safe so use cases can run without metrics.
func (m *Metrics) ObservePaymentCreated(gateway, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.PaymentsCreated.WithLabelValues(gateway, outcome).Inc()
	m.GatewayLatency.WithLabelValues(gateway).Observe(took.Seconds())
}

func (m *Metrics) ObserveWebhook(gateway, outcome string) {
	if m == nil {
		return
	}
	m.WebhooksProcessed.WithLabelValues(gateway, outcome).Inc()
}
