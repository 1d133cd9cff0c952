package hub

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
)

// Subscriber receives every fresh snapshot. Delivery is synchronous and in
// subscription order; a slow subscriber delays the next refresh, it never
// observes a partially applied one.
type Subscriber interface {
	Apply(ctx context.Context, snap *Snapshot)
}

// Watcher turns the hub's change signal into full snapshot pushes. Every
// signal triggers one fresh pull; bursts coalesce into the next pull rather
// than queueing.
type Watcher struct {
	client  *Client
	logger  *slog.Logger
	subs    []Subscriber
	metrics *WatcherMetrics
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the watcher logger.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithWatcherMetrics sets the watcher metrics collector.
func WithWatcherMetrics(m *WatcherMetrics) WatcherOption {
	return func(w *Watcher) {
		w.metrics = m
	}
}

// NewWatcher builds a watcher that feeds the given subscribers.
func NewWatcher(client *Client, subs []Subscriber, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		client: client,
		logger: slog.Default(),
		subs:   subs,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run subscribes to hub events, performs the initial snapshot push, then
// refreshes on every change signal until the context ends or the session
// drops.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.client.SubscribeEvents(ctx); err != nil {
		return fmt.Errorf("subscribe hub events: %w", err)
	}
	if err := w.refresh(ctx); err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.client.Done():
			return fmt.Errorf("hub session lost: %w", w.client.Err())
		case <-w.client.Changes():
			if err := w.refresh(ctx); err != nil {
				// A failed pull leaves subscribers on the previous
				// snapshot; the next change signal tries again.
				w.logger.WarnContext(ctx, "snapshot refresh failed", "error", err)
				w.metrics.IncRefreshFailed()
			}
		}
	}
}

func (w *Watcher) refresh(ctx context.Context) error {
	tracer := otel.Tracer("groupdeck/hub")
	ctx, span := tracer.Start(ctx, "hub.snapshot")
	defer span.End()

	start := time.Now()
	snap, err := w.client.Snapshot(ctx)
	if err != nil {
		return err
	}
	for _, sub := range w.subs {
		sub.Apply(ctx, snap)
	}
	w.metrics.ObserveRefresh(start)
	w.logger.DebugContext(ctx, "snapshot pushed",
		"entities", len(snap.Entities),
		"zones", len(snap.Zones),
		"tags", len(snap.Tags),
	)
	return nil
}
