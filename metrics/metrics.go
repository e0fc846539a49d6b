// Package metrics exports operation history activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brunoga/undo"
	"github.com/brunoga/undo/notify"
)

// Collector is a prometheus.Collector fed by the StackChanged events of the
// controllers it observes.
type Collector struct {
	events    *prometheus.CounterVec
	merges    prometheus.Counter
	undoDepth prometheus.Gauge
	redoDepth prometheus.Gauge
}

// NewCollector returns a collector whose metrics are prefixed by namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stack_events_total",
			Help:      "History transitions by kind.",
		}, []string{"kind"}),
		merges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Pushes folded into the previous operation.",
		}),
		undoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "undo_depth",
			Help:      "Operations available to undo.",
		}),
		redoDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "redo_depth",
			Help:      "Operations available to redo.",
		}),
	}
}

// Observe starts feeding the collector from c. Depth gauges follow the last
// observed controller that changed.
func (m *Collector) Observe(c *undo.Controller) notify.Subscription {
	m.undoDepth.Set(float64(c.UndoCount()))
	m.redoDepth.Set(float64(c.RedoCount()))

	return c.OnStackChanged(func(e undo.StackChangedEvent) {
		m.events.WithLabelValues(e.Kind.String()).Inc()
		if e.Merged {
			m.merges.Inc()
		}
		m.undoDepth.Set(float64(c.UndoCount()))
		m.redoDepth.Set(float64(c.RedoCount()))
	})
}

// Describe implements prometheus.Collector.
func (m *Collector) Describe(ch chan<- *prometheus.Desc) {
	m.events.Describe(ch)
	m.merges.Describe(ch)
	m.undoDepth.Describe(ch)
	m.redoDepth.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Collector) Collect(ch chan<- prometheus.Metric) {
	m.events.Collect(ch)
	m.merges.Collect(ch)
	m.undoDepth.Collect(ch)
	m.redoDepth.Collect(ch)
}
