package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Registers the postgres driver with database/sql.
	_ "github.com/lib/pq"
)

// Clock abstracts time.Now for deterministic tests.
type Clock func() time.Time

// PostgresStore persists the mutation trail in PostgreSQL.
type PostgresStore struct {
	db    *sql.DB
	clock Clock
}

// PostgresStoreOption configures a PostgresStore.
type PostgresStoreOption func(*PostgresStore)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) PostgresStoreOption {
	return func(s *PostgresStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(db *sql.DB, opts ...PostgresStoreOption) *PostgresStore {
	s := &PostgresStore{
		db:    db,
		clock: time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Append writes one mutation record.
func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = s.clock()
	}
	query := `
		INSERT INTO mutation_audit (id, ts, panel, action, entity_id, group_id, request_id, outcome, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			outcome = EXCLUDED.outcome,
			error = EXCLUDED.error
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, ts, rec.Panel, rec.Action, rec.EntityID, rec.GroupID, rec.RequestID, string(rec.Outcome), rec.Error)
	if err != nil {
		return fmt.Errorf("append mutation record: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records, most recent first.
func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, ts, panel, action, entity_id, group_id, request_id, outcome, error
		FROM mutation_audit
		ORDER BY ts DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list mutation records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var outcome string
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Panel, &rec.Action,
			&rec.EntityID, &rec.GroupID, &rec.RequestID, &outcome, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan mutation record: %w", err)
		}
		rec.Outcome = Outcome(outcome)
		records = append(records, rec)
	}
	return records, rows.Err()
}
