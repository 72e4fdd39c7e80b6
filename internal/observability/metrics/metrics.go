package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the WhatsApp assistant.
type AssistantMetrics struct {
	inboundTotal    *prometheus.CounterVec
	repliesTotal    *prometheus.CounterVec
	bookingsTotal   *prometheus.CounterVec
	responseLatency prometheus.Histogram
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "assistant",
			Name:      "inbound_webhook_total",
			Help:      "Total inbound Z-API webhooks",
		}, []string{"status"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "assistant",
			Name:      "replies_total",
			Help:      "Total replies sent, by resulting conversation step",
		}, []string{"step"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "assistant",
			Name:      "bookings_total",
			Help:      "Total booking attempts, by outcome",
		}, []string{"outcome"}),
		responseLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "studio",
			Subsystem: "assistant",
			Name:      "response_latency_seconds",
			Help:      "Latency of webhook processing, inbound message to reply",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.repliesTotal, m.bookingsTotal, m.responseLatency)
	return m
}

func (m *AssistantMetrics) ObserveInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

func (m *AssistantMetrics) ObserveReply(step string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(step).Inc()
}

func (m *AssistantMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *AssistantMetrics) ObserveResponseLatency(seconds float64) {
	if m == nil {
		return
	}
	m.responseLatency.Observe(seconds)
}
