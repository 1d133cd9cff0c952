package panel

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for both panel services. One instance is
// shared; series are split by the panel label.
type Metrics struct {
	Rebuilds        *prometheus.CounterVec
	RebuildDuration *prometheus.HistogramVec
	Drops           *prometheus.CounterVec
	DropsRejected   *prometheus.CounterVec
}

// NewMetrics creates and registers the panel metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		Rebuilds: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groupdeck_panel_rebuilds_total",
			Help: "Total surface rebuilds triggered by snapshot pushes",
		}, []string{"panel"}),
		RebuildDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "groupdeck_panel_rebuild_duration_seconds",
			Help:    "Duration of index build plus surface render per push",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}, []string{"panel"}),
		Drops: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groupdeck_panel_drops_total",
			Help: "Total drop events accepted and turned into mutations",
		}, []string{"panel"}),
		DropsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "groupdeck_panel_drops_rejected_total",
			Help: "Total drop events ignored (source-only container, unknown target, stale entity)",
		}, []string{"panel"}),
	}
}

// ObserveRebuild records one completed surface rebuild.
func (m *Metrics) ObserveRebuild(panel string, start time.Time) {
	if m == nil {
		return
	}
	m.Rebuilds.WithLabelValues(panel).Inc()
	m.RebuildDuration.WithLabelValues(panel).Observe(time.Since(start).Seconds())
}

// IncDrop records one accepted drop.
func (m *Metrics) IncDrop(panel string) {
	if m == nil {
		return
	}
	m.Drops.WithLabelValues(panel).Inc()
}

// IncDropRejected records one ignored drop.
func (m *Metrics) IncDropRejected(panel string) {
	if m == nil {
		return
	}
	m.DropsRejected.WithLabelValues(panel).Inc()
}
