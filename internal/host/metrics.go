// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Modhost Contributors

package host

import "github.com/prometheus/client_golang/prometheus"

// Metrics contains Prometheus metrics for the plugin host.
type Metrics struct {
	LoadsTotal      *prometheus.CounterVec
	UnloadsTotal    prometheus.Counter
	BroadcastsTotal prometheus.Counter
	DeliveriesTotal *prometheus.CounterVec
}

// NewMetrics creates and registers host metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		LoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modhost_plugin_loads_total",
				Help: "Total number of plugin load attempts by result",
			},
			[]string{"result"},
		),
		UnloadsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modhost_plugin_unloads_total",
				Help: "Total number of completed plugin unloads",
			},
		),
		BroadcastsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "modhost_broadcasts_total",
				Help: "Total number of broadcast events",
			},
		),
		DeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "modhost_event_deliveries_total",
				Help: "Total number of event deliveries to plugins by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.LoadsTotal)
	reg.MustRegister(m.UnloadsTotal)
	reg.MustRegister(m.BroadcastsTotal)
	reg.MustRegister(m.DeliveriesTotal)

	return m
}

// Metric label values.
const (
	resultOK    = "ok"
	resultError = "error"
)
