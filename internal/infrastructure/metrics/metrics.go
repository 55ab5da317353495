package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chat_client"

// Metrics holds the client's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	messagesSent    prometheus.Counter
	messagesDropped *prometheus.CounterVec
	inboundMessages *prometheus.CounterVec
	toastsCreated   *prometheus.CounterVec
	toastsActive    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		messagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbound_messages_sent_total",
			Help:      "Outbound messages handed to the connection.",
		}),
		messagesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbound_messages_dropped_total",
			Help:      "Outbound messages that were not transmitted.",
		}, []string{"reason"}),
		inboundMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inbound_messages_total",
			Help:      "Inbound server messages by type.",
		}, []string{"type"}),
		toastsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "toasts_created_total",
			Help:      "Toasts added to the queue by category.",
		}, []string{"category"}),
		toastsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "toasts_active",
			Help:      "Toasts currently in the queue.",
		}),
	}

	m.registry.MustRegister(
		m.messagesSent,
		m.messagesDropped,
		m.inboundMessages,
		m.toastsCreated,
		m.toastsActive,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) MessageSent() {
	if m == nil {
		return
	}
	m.messagesSent.Inc()
}

func (m *Metrics) MessageDropped(reason string) {
	if m == nil {
		return
	}
	m.messagesDropped.WithLabelValues(reason).Inc()
}

func (m *Metrics) InboundMessage(kind string) {
	if m == nil {
		return
	}
	m.inboundMessages.WithLabelValues(kind).Inc()
}

func (m *Metrics) ToastCreated(category string) {
	if m == nil {
		return
	}
	m.toastsCreated.WithLabelValues(category).Inc()
}

func (m *Metrics) SetToastsActive(n int) {
	if m == nil {
		return
	}
	m.toastsActive.Set(float64(n))
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
