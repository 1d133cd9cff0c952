package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the mutation dispatcher.
type Metrics struct {
	Dispatched *prometheus.CounterVec
	Failed     *prometheus.CounterVec
	Dropped    prometheus.Counter
}

// NewMetrics creates and registers the dispatcher metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Dispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groupdeck_mutations_dispatched_total",
			Help: "Total membership mutations the hub acknowledged",
		}, []string{"kind"}),
		Failed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groupdeck_mutations_failed_total",
			Help: "Total membership mutations the hub rejected or that errored",
		}, []string{"kind"}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "groupdeck_mutations_dropped_total",
			Help: "Total mutations dropped because the dispatch queue was full",
		}),
	}
}

// IncDispatched records one acknowledged mutation.
func (m *Metrics) IncDispatched(kind string) {
	if m == nil {
		return
	}
	m.Dispatched.WithLabelValues(kind).Inc()
}

// IncFailed records one failed mutation.
func (m *Metrics) IncFailed(kind string) {
	if m == nil {
		return
	}
	m.Failed.WithLabelValues(kind).Inc()
}

// IncDropped records one mutation dropped before dispatch.
func (m *Metrics) IncDropped() {
	if m == nil {
		return
	}
	m.Dropped.Inc()
}
