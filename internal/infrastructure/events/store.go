package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Stream type tags, one per aggregate
const (
	StreamTypeInvoice = "invoice"
	StreamTypePayment = "payment"
	StreamTypeJournal = "journal_entry"
	StreamTypeAccount = "account"
)

// StoredEvent is the persisted envelope around a serialized domain event.
// Sequence is 1-based and contiguous within a stream.
type StoredEvent struct {
	ID         uuid.UUID       `json:"id"`
	StreamID   uuid.UUID       `json:"stream_id"`
	StreamType string          `json:"stream_type"`
	TenantID   uuid.UUID       `json:"tenant_id"`
	Sequence   int             `json:"sequence"`
	EventType  string          `json:"event_type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Store appends and reads ordered event streams. Append must fail with a
// concurrency conflict when another writer has already taken the sequence
// positions implied by expectedVersion.
type Store interface {
	// Append writes events after position expectedVersion. The first event
	// is stored at sequence expectedVersion+1. Implementations stamp the
	// assigned stream id and sequence back onto the passed slice so callers
	// can publish the envelopes exactly as persisted.
	Append(ctx context.Context, streamID uuid.UUID, expectedVersion int, events []StoredEvent) error

	// ReadStream returns the full stream in sequence order. An unknown
	// stream returns an empty slice, not an error.
	ReadStream(ctx context.Context, streamID uuid.UUID) ([]StoredEvent, error)
}
