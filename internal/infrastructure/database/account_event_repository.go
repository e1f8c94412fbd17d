package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/account"
	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
)

// AccountEventRepository implements account.Repository on top of the event store.
type AccountEventRepository struct {
	store     events.Store
	publisher events.Publisher
}

func NewAccountEventRepository(store events.Store, publisher events.Publisher) *AccountEventRepository {
	return &AccountEventRepository{store: store, publisher: publisher}
}

func (r *AccountEventRepository) Save(ctx context.Context, a *account.Account) error {
	uncommitted := a.UncommittedEvents()
	if len(uncommitted) == 0 {
		return nil
	}

	expectedVersion := a.Version() - len(uncommitted)

	stored := make([]events.StoredEvent, 0, len(uncommitted))
	for _, event := range uncommitted {
		payload, err := json.Marshal(event)
		if err != nil {
			return errors.NewInternalError("failed to marshal account event").WithCause(err)
		}
		stored = append(stored, events.StoredEvent{
			ID:         uuid.New(),
			StreamID:   a.ID(),
			StreamType: events.StreamTypeAccount,
			TenantID:   event.TenantID(),
			EventType:  event.EventType(),
			Payload:    payload,
			OccurredAt: event.OccurredAt(),
		})
	}

	if err := r.store.Append(ctx, a.ID(), expectedVersion, stored); err != nil {
		return err
	}
	a.ClearUncommitted()

	if r.publisher != nil {
		return r.publisher.Publish(ctx, stored)
	}
	return nil
}

func (r *AccountEventRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*account.Account, error) {
	stream, err := r.store.ReadStream(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(stream) == 0 || stream[0].TenantID != tenantID {
		return nil, errors.NewNotFoundError("account")
	}

	domainEvents := make([]account.Event, 0, len(stream))
	for _, stored := range stream {
		event, err := decodeAccountEvent(stored.EventType, stored.Payload)
		if err != nil {
			return nil, err
		}
		domainEvents = append(domainEvents, event)
	}

	return account.Replay(domainEvents)
}

func decodeAccountEvent(eventType string, payload json.RawMessage) (account.Event, error) {
	switch eventType {
	case account.EventTypeCreated:
		var e account.Created
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal account.created").WithCause(err)
		}
		return e, nil

	case account.EventTypePosted:
		var e account.Posted
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal account.posted").WithCause(err)
		}
		return e, nil

	case account.EventTypeRenamed:
		var e account.Renamed
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal account.renamed").WithCause(err)
		}
		return e, nil

	case account.EventTypeDeactivated:
		var e account.Deactivated
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal account.deactivated").WithCause(err)
		}
		return e, nil

	case account.EventTypeReactivated:
		var e account.Reactivated
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal account.reactivated").WithCause(err)
		}
		return e, nil

	default:
		return nil, errors.NewInternalError(fmt.Sprintf("unknown account event type: %s", eventType))
	}
}

var _ account.Repository = (*AccountEventRepository)(nil)
