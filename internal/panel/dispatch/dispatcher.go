// Package dispatch owns the asynchronous hand-off of membership mutations to
// the hub. Dispatch is fire-and-forget: no retry, no rollback, no local state
// change. The hub's next snapshot push is the only reconciliation point, so a
// failed call costs nothing but a notice and a log line.
package dispatch

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"groupdeck/internal/audit"
	"groupdeck/internal/panel"
)

// Authority is the hub's mutation surface.
type Authority interface {
	SetZone(ctx context.Context, entityID, zoneID string) error
	AddTag(ctx context.Context, entityID, tagID string) error
}

// Notifier surfaces non-blocking user-visible notices.
type Notifier interface {
	Warn(ctx context.Context, title, message string)
}

// Dispatcher consumes mutations from its inbox and issues one hub call each.
type Dispatcher struct {
	authority Authority
	trail     *audit.Trail
	notifier  Notifier
	logger    *slog.Logger
	metrics   *Metrics
	inbox     chan panel.Mutation
	tracer    trace.Tracer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// WithNotifier surfaces dispatch failures to the operator.
func WithNotifier(n Notifier) Option {
	return func(d *Dispatcher) {
		d.notifier = n
	}
}

// WithInboxSize overrides the default mutation queue depth.
func WithInboxSize(size int) Option {
	return func(d *Dispatcher) {
		if size > 0 {
			d.inbox = make(chan panel.Mutation, size)
		}
	}
}

// New builds a dispatcher over the given authority and audit trail.
func New(authority Authority, trail *audit.Trail, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		authority: authority,
		trail:     trail,
		logger:    slog.Default(),
		inbox:     make(chan panel.Mutation, 64),
		tracer:    otel.Tracer("groupdeck/dispatch"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Enqueue hands one mutation to the worker without blocking. False means the
// queue is saturated and the mutation was dropped before dispatch.
func (d *Dispatcher) Enqueue(m panel.Mutation) bool {
	select {
	case d.inbox <- m:
		return true
	default:
		d.logger.Warn("mutation queue full, dropping",
			"mutation_id", m.ID,
			"panel", m.Panel,
			"entity_id", m.EntityID,
		)
		d.metrics.IncDropped()
		return false
	}
}

// Run consumes the inbox until the context ends. Mutations already in flight
// when a new snapshot arrives are simply allowed to finish; nothing waits on
// them and nothing cancels them.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m := <-d.inbox:
			d.dispatch(ctx, m)
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, m panel.Mutation) {
	ctx, span := d.tracer.Start(ctx, "hub.mutation",
		trace.WithAttributes(
			attribute.String("mutation.kind", string(m.Kind)),
			attribute.String("mutation.panel", m.Panel),
		),
	)
	defer span.End()

	var err error
	switch m.Kind {
	case panel.MutationSetZone:
		err = d.authority.SetZone(ctx, m.EntityID, m.GroupID)
	case panel.MutationAddTag:
		err = d.authority.AddTag(ctx, m.EntityID, m.GroupID)
	default:
		d.logger.ErrorContext(ctx, "unknown mutation kind", "kind", string(m.Kind))
		return
	}

	rec := audit.Record{
		ID:        m.ID,
		Panel:     m.Panel,
		Action:    string(m.Kind),
		EntityID:  m.EntityID,
		GroupID:   m.GroupID,
		RequestID: m.RequestID,
		Outcome:   audit.OutcomeDispatched,
	}
	if err != nil {
		rec.Outcome = audit.OutcomeFailed
		rec.Error = err.Error()
		d.logger.WarnContext(ctx, "hub mutation failed",
			"mutation_id", m.ID,
			"kind", string(m.Kind),
			"entity_id", m.EntityID,
			"error", err,
		)
		d.metrics.IncFailed(string(m.Kind))
		if d.notifier != nil {
			d.notifier.Warn(ctx, "Regrouping failed",
				"The hub rejected the change for "+m.EntityID+"; the panel will resync on the next update.")
		}
	} else {
		d.metrics.IncDispatched(string(m.Kind))
	}

	if d.trail != nil {
		d.trail.Record(ctx, rec)
	}
}
