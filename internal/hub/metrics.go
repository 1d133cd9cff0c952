package hub

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WatcherMetrics provides observability for the snapshot refresh loop.
type WatcherMetrics struct {
	RefreshDuration prometheus.Histogram
	RefreshFailed   prometheus.Counter
}

// NewWatcherMetrics creates and registers the watcher metrics.
func NewWatcherMetrics() *WatcherMetrics {
	return &WatcherMetrics{
		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "groupdeck_snapshot_refresh_duration_seconds",
			Help:    "Duration of full snapshot pulls from the hub",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		RefreshFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "groupdeck_snapshot_refresh_failures_total",
			Help: "Total snapshot pulls that failed and were skipped",
		}),
	}
}

// ObserveRefresh records one successful snapshot refresh.
func (m *WatcherMetrics) ObserveRefresh(start time.Time) {
	if m == nil {
		return
	}
	m.RefreshDuration.Observe(time.Since(start).Seconds())
}

// IncRefreshFailed records one failed snapshot refresh.
func (m *WatcherMetrics) IncRefreshFailed() {
	if m == nil {
		return
	}
	m.RefreshFailed.Inc()
}
