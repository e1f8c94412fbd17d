package database

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
)

// pgUniqueViolation is the SQLSTATE for a unique constraint failure
const pgUniqueViolation = "23505"

// PgEventStore persists event streams in the ledger_events table. Optimistic
// concurrency rides on the UNIQUE (stream_id, sequence) constraint: two
// writers appending after the same revision race for the same sequence slot
// and exactly one insert wins.
type PgEventStore struct {
	db *pgxpool.Pool
}

func NewPgEventStore(db *pgxpool.Pool) *PgEventStore {
	return &PgEventStore{db: db}
}

// Append writes events in one transaction, starting at expectedVersion+1.
// The assigned stream id and sequence are stamped back onto the slice so
// callers publish envelopes that match what was persisted.
func (s *PgEventStore) Append(ctx context.Context, streamID uuid.UUID, expectedVersion int, evts []events.StoredEvent) error {
	if len(evts) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return errors.NewInternalError("failed to begin transaction").WithCause(err)
	}
	defer tx.Rollback(ctx)

	for i := range evts {
		evts[i].StreamID = streamID
		evts[i].Sequence = expectedVersion + i + 1

		event := evts[i]
		_, err := tx.Exec(ctx, `
			INSERT INTO ledger_events (
				id, stream_id, stream_type, tenant_id, sequence, event_type, payload, occurred_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, event.ID, event.StreamID, event.StreamType, event.TenantID, event.Sequence, event.EventType, event.Payload, event.OccurredAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return errors.NewConcurrencyConflict(streamID.String())
			}
			return errors.NewInternalError("failed to insert event").WithCause(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.NewInternalError("failed to commit event append").WithCause(err)
	}
	return nil
}

// ReadStream returns the full stream in sequence order.
func (s *PgEventStore) ReadStream(ctx context.Context, streamID uuid.UUID) ([]events.StoredEvent, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, stream_id, stream_type, tenant_id, sequence, event_type, payload, occurred_at
		FROM ledger_events
		WHERE stream_id = $1
		ORDER BY sequence ASC
	`, streamID)
	if err != nil {
		return nil, errors.NewInternalError("failed to query event stream").WithCause(err)
	}
	defer rows.Close()

	var stream []events.StoredEvent
	for rows.Next() {
		var e events.StoredEvent
		if err := rows.Scan(&e.ID, &e.StreamID, &e.StreamType, &e.TenantID, &e.Sequence, &e.EventType, &e.Payload, &e.OccurredAt); err != nil {
			return nil, errors.NewInternalError("failed to scan event row").WithCause(err)
		}
		stream = append(stream, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternalError("failed to read event stream").WithCause(err)
	}

	return stream, nil
}

var _ events.Store = (*PgEventStore)(nil)
