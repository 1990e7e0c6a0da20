package server

import (
	"net/http"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Delivery outcomes recorded by the deliveries counter.
const (
	OutcomeAccepted         = "accepted"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomeBadRequest       = "bad_request"
	OutcomeSinkError        = "sink_error"
)

// Metrics owns a dedicated registry so several servers can coexist in one
// process and in tests.
type Metrics struct {
	registry   *prometheus.Registry
	deliveries *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: constants.MetricsNamespace,
		Name:      "webhook_deliveries_total",
		Help:      "Inbound webhook deliveries by outcome.",
	}, []string{constants.WebhookMetricsLabel})

	registry.MustRegister(deliveries)

	for _, outcome := range []string{OutcomeAccepted, OutcomeInvalidSignature, OutcomeBadRequest, OutcomeSinkError} {
		deliveries.WithLabelValues(outcome)
	}

	return &Metrics{registry: registry, deliveries: deliveries}
}

func (m *Metrics) observe(outcome string) {
	m.deliveries.WithLabelValues(outcome).Inc()
}

// Deliveries returns the counter for one outcome.
func (m *Metrics) Deliveries(outcome string) prometheus.Counter {
	return m.deliveries.WithLabelValues(outcome)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
