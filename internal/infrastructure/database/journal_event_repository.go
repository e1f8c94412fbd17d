package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/journal"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
)

// JournalEventRepository implements journal.Repository on top of the event store.
type JournalEventRepository struct {
	store     events.Store
	publisher events.Publisher
}

func NewJournalEventRepository(store events.Store, publisher events.Publisher) *JournalEventRepository {
	return &JournalEventRepository{store: store, publisher: publisher}
}

func (r *JournalEventRepository) Save(ctx context.Context, entry *journal.Entry) error {
	uncommitted := entry.UncommittedEvents()
	if len(uncommitted) == 0 {
		return nil
	}

	expectedVersion := entry.Version() - len(uncommitted)

	stored := make([]events.StoredEvent, 0, len(uncommitted))
	for _, event := range uncommitted {
		payload, err := json.Marshal(event)
		if err != nil {
			return errors.NewInternalError("failed to marshal journal event").WithCause(err)
		}
		stored = append(stored, events.StoredEvent{
			ID:         uuid.New(),
			StreamID:   entry.ID(),
			StreamType: events.StreamTypeJournal,
			TenantID:   event.TenantID(),
			EventType:  event.EventType(),
			Payload:    payload,
			OccurredAt: event.OccurredAt(),
		})
	}

	if err := r.store.Append(ctx, entry.ID(), expectedVersion, stored); err != nil {
		return err
	}
	entry.ClearUncommitted()

	if r.publisher != nil {
		return r.publisher.Publish(ctx, stored)
	}
	return nil
}

func (r *JournalEventRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*journal.Entry, error) {
	stream, err := r.store.ReadStream(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(stream) == 0 || stream[0].TenantID != tenantID {
		return nil, errors.NewNotFoundError("journal entry")
	}

	domainEvents := make([]journal.Event, 0, len(stream))
	for _, stored := range stream {
		event, err := decodeJournalEvent(stored.EventType, stored.Payload)
		if err != nil {
			return nil, err
		}
		domainEvents = append(domainEvents, event)
	}

	return journal.Replay(domainEvents)
}

func decodeJournalEvent(eventType string, payload json.RawMessage) (journal.Event, error) {
	switch eventType {
	case journal.EventTypeCreated:
		var e journal.Created
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal journal.created").WithCause(err)
		}
		return e, nil

	case journal.EventTypeLinesReplaced:
		var e journal.LinesReplaced
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal journal.lines_replaced").WithCause(err)
		}
		return e, nil

	case journal.EventTypePosted:
		var e journal.Posted
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal journal.posted").WithCause(err)
		}
		return e, nil

	case journal.EventTypeReversed:
		var e journal.Reversed
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal journal.reversed").WithCause(err)
		}
		return e, nil

	case journal.EventTypeCancelled:
		var e journal.Cancelled
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal journal.cancelled").WithCause(err)
		}
		return e, nil

	default:
		return nil, errors.NewInternalError(fmt.Sprintf("unknown journal event type: %s", eventType))
	}
}

var _ journal.Repository = (*JournalEventRepository)(nil)
