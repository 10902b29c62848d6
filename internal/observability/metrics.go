// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeOK labels requests that succeeded.
const OutcomeOK = "ok"

// Metrics contains the service's Prometheus metrics.
type Metrics struct {
	ConnectionsTotal     *prometheus.CounterVec
	RequestsTotal        *prometheus.CounterVec
	RequestDuration      *prometheus.HistogramVec
	PublishFailuresTotal prometheus.Counter
}

// NewMetrics creates the service metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConnectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holoauth_connections_total",
				Help: "Total number of accepted client connections by transport",
			},
			[]string{"transport"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holoauth_requests_total",
				Help: "Total number of requests by operation and outcome kind",
			},
			[]string{"operation", "kind"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "holoauth_request_duration_seconds",
				Help:    "Request latency by operation",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation"},
		),
		PublishFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "holoauth_event_publish_failures_total",
				Help: "Total number of domain events that could not be published",
			},
		),
	}

	reg.MustRegister(m.ConnectionsTotal, m.RequestsTotal, m.RequestDuration, m.PublishFailuresTotal)
	return m
}

// ConnectionOpened counts an accepted connection. Safe on a nil receiver.
func (m *Metrics) ConnectionOpened(transport string) {
	if m == nil {
		return
	}
	m.ConnectionsTotal.WithLabelValues(transport).Inc()
}

// ObserveRequest records one handled request. kind is OutcomeOK or an error kind.
// Safe on a nil receiver.
func (m *Metrics) ObserveRequest(operation, kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(operation, kind).Inc()
	m.RequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// PublishFailed counts an event that could not be published. Safe on a nil receiver.
func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.PublishFailuresTotal.Inc()
}
