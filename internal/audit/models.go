// Package audit records every membership mutation the service dispatches to
// the hub, together with its outcome. The trail is diagnostic: the hub stays
// the authority on actual membership state.
package audit

import (
	"context"
	"time"
)

// Outcome states whether the hub accepted a dispatched mutation.
type Outcome string

const (
	OutcomeDispatched Outcome = "dispatched"
	OutcomeFailed     Outcome = "failed"
)

// Record is one dispatched mutation.
type Record struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Panel     string    `json:"panel"`
	Action    string    `json:"action"`
	EntityID  string    `json:"entity_id"`
	GroupID   string    `json:"group_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	Error     string    `json:"error,omitempty"`
}

// Store persists mutation records.
type Store interface {
	Append(ctx context.Context, rec Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
