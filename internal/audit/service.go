package audit

import (
	"context"
	"log/slog"
	"time"
)

// Trail is the append side the dispatcher writes to. It persists each record
// and optionally mirrors it to Kafka so tests can swap sinks easily.
type Trail struct {
	store     Store
	publisher *KafkaPublisher
	logger    *slog.Logger
}

// TrailOption configures a Trail.
type TrailOption func(*Trail)

// WithPublisher mirrors records to Kafka in addition to the store.
func WithPublisher(p *KafkaPublisher) TrailOption {
	return func(t *Trail) {
		t.publisher = p
	}
}

// WithLogger sets the trail logger.
func WithLogger(logger *slog.Logger) TrailOption {
	return func(t *Trail) {
		t.logger = logger
	}
}

// NewTrail builds a trail over the given store.
func NewTrail(store Store, opts ...TrailOption) *Trail {
	t := &Trail{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Record appends one mutation record. Persistence failures are logged, not
// propagated: the trail never blocks a mutation path.
func (t *Trail) Record(ctx context.Context, rec Record) {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	if err := t.store.Append(ctx, rec); err != nil {
		t.logger.WarnContext(ctx, "failed to persist audit record",
			"mutation_id", rec.ID,
			"error", err,
		)
	}
	t.publisher.Publish(ctx, rec)
}

// ListRecent returns up to limit records, most recent first.
func (t *Trail) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	return t.store.ListRecent(ctx, limit)
}
