// Package metrics exposes Prometheus collectors for the evaluation
// orchestrator plus a runtime memory snapshot helper.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics bundles the orchestrator's Prometheus collectors on a private
// registry, so multiple runs in one process do not collide.
type Metrics struct {
	registry *prometheus.Registry

	// RoundsTotal counts aggregation rounds executed.
	RoundsTotal prometheus.Counter
	// CombinedProgress is the latest combined completion fraction.
	CombinedProgress prometheus.Gauge
	// StoreEntries is the number of populated composite-result slots.
	StoreEntries prometheus.Gauge
	// WorkersCompleted is the number of direct worker units that finished.
	WorkersCompleted prometheus.Gauge
	// VariantProgress is the per-variant completion fraction, labeled by
	// the variant's entry name.
	VariantProgress *prometheus.GaugeVec
}

// New creates the collectors on a fresh private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		RoundsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aleval",
			Name:      "aggregation_rounds_total",
			Help:      "Number of poll-merge-publish rounds executed.",
		}),
		CombinedProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aleval",
			Name:      "combined_progress_fraction",
			Help:      "Unweighted mean completion fraction across direct worker units.",
		}),
		StoreEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aleval",
			Name:      "result_store_entries",
			Help:      "Number of populated composite-result slots.",
		}),
		WorkersCompleted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aleval",
			Name:      "workers_completed",
			Help:      "Number of direct worker units that reached Completed.",
		}),
		VariantProgress: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "aleval",
			Name:      "variant_progress_fraction",
			Help:      "Per-variant completion fraction.",
		}, []string{"variant"}),
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RoundsTotal,
		m.CombinedProgress,
		m.StoreEntries,
		m.WorkersCompleted,
		m.VariantProgress,
	)
	return m
}

// Registry returns the private registry for exposition (e.g., promhttp).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }
