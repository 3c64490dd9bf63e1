// Package metrics exposes Prometheus collectors for the dispatch pipeline
// and the Telegram transport.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/botwright/teleflow/flow"
)

// Metrics bundles the collectors recorded across the pipeline.
type Metrics struct {
	UpdatesReceived  *prometheus.CounterVec
	DispatchesTotal  *prometheus.CounterVec
	TransitionsTotal *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	ChainHops        prometheus.Histogram
	SendsTotal       *prometheus.CounterVec
	RateLimited      prometheus.Counter
}

var _ flow.Observer = (*Metrics)(nil)

// New creates the collector set. Collectors are not registered anywhere yet;
// use NewRegistry for a ready-to-serve registry.
func New() *Metrics {
	return &Metrics{
		UpdatesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "teleflow",
				Subsystem: "updates",
				Name:      "received_total",
				Help:      "Total number of inbound Telegram updates by event kind",
			},
			[]string{"kind"},
		),

		DispatchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "teleflow",
				Subsystem: "dispatch",
				Name:      "handled_total",
				Help:      "Total number of dispatched events by outcome status",
			},
			[]string{"status"},
		),

		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "teleflow",
				Subsystem: "dispatch",
				Name:      "transitions_total",
				Help:      "Total number of fired transitions by source state and trigger",
			},
			[]string{"source", "trigger"},
		),

		DispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "teleflow",
				Subsystem: "dispatch",
				Name:      "duration_seconds",
				Help:      "End-to-end dispatch duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"status"},
		),

		ChainHops: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "teleflow",
				Subsystem: "dispatch",
				Name:      "chain_hops",
				Help:      "Pass-through chain length per dispatched event",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 16},
			},
		),

		SendsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "teleflow",
				Subsystem: "sender",
				Name:      "messages_total",
				Help:      "Total number of outbound messages by delivery status",
			},
			[]string{"status"},
		),

		RateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "teleflow",
				Subsystem: "updates",
				Name:      "rate_limited_total",
				Help:      "Total number of updates rejected by the rate limiter",
			},
		),
	}
}

// NewRegistry builds a private registry with the pipeline collectors and the
// Go runtime collectors registered.
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := New()
	reg.MustRegister(
		m.UpdatesReceived,
		m.DispatchesTotal,
		m.TransitionsTotal,
		m.DispatchDuration,
		m.ChainHops,
		m.SendsTotal,
		m.RateLimited,
	)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg, m
}

// RecordUpdate increments the inbound update counter.
func (m *Metrics) RecordUpdate(kind string) {
	m.UpdatesReceived.WithLabelValues(kind).Inc()
}

// DispatchHandled records one completed dispatch.
func (m *Metrics) DispatchHandled(status string, hops int, took time.Duration) {
	m.DispatchesTotal.WithLabelValues(status).Inc()
	m.DispatchDuration.WithLabelValues(status).Observe(took.Seconds())
	m.ChainHops.Observe(float64(hops))
}

// TransitionFired records one fired transition.
func (m *Metrics) TransitionFired(source, trigger, _ string) {
	m.TransitionsTotal.WithLabelValues(source, trigger).Inc()
}

// RecordSend records one outbound delivery attempt.
func (m *Metrics) RecordSend(status string) {
	m.SendsTotal.WithLabelValues(status).Inc()
}

// RecordRateLimited increments the rate limiter rejection counter.
func (m *Metrics) RecordRateLimited() {
	m.RateLimited.Inc()
}
