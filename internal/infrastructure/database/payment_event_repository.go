package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/payment"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
)

// PaymentEventRepository implements payment.Repository on top of the event store.
type PaymentEventRepository struct {
	store     events.Store
	publisher events.Publisher
}

func NewPaymentEventRepository(store events.Store, publisher events.Publisher) *PaymentEventRepository {
	return &PaymentEventRepository{store: store, publisher: publisher}
}

func (r *PaymentEventRepository) Save(ctx context.Context, p *payment.Payment) error {
	uncommitted := p.UncommittedEvents()
	if len(uncommitted) == 0 {
		return nil
	}

	expectedVersion := p.Version() - len(uncommitted)

	stored := make([]events.StoredEvent, 0, len(uncommitted))
	for _, event := range uncommitted {
		payload, err := json.Marshal(event)
		if err != nil {
			return errors.NewInternalError("failed to marshal payment event").WithCause(err)
		}
		stored = append(stored, events.StoredEvent{
			ID:         uuid.New(),
			StreamID:   p.ID(),
			StreamType: events.StreamTypePayment,
			TenantID:   event.TenantID(),
			EventType:  event.EventType(),
			Payload:    payload,
			OccurredAt: event.OccurredAt(),
		})
	}

	if err := r.store.Append(ctx, p.ID(), expectedVersion, stored); err != nil {
		return err
	}
	p.ClearUncommitted()

	if r.publisher != nil {
		return r.publisher.Publish(ctx, stored)
	}
	return nil
}

func (r *PaymentEventRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*payment.Payment, error) {
	stream, err := r.store.ReadStream(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(stream) == 0 || stream[0].TenantID != tenantID {
		return nil, errors.NewNotFoundError("payment")
	}

	domainEvents := make([]payment.Event, 0, len(stream))
	for _, stored := range stream {
		event, err := decodePaymentEvent(stored.EventType, stored.Payload)
		if err != nil {
			return nil, err
		}
		domainEvents = append(domainEvents, event)
	}

	return payment.Replay(domainEvents)
}

func decodePaymentEvent(eventType string, payload json.RawMessage) (payment.Event, error) {
	switch eventType {
	case payment.EventTypeCreated:
		var e payment.Created
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal payment.created").WithCause(err)
		}
		return e, nil

	case payment.EventTypeProcessingStarted:
		var e payment.ProcessingStarted
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal payment.processing_started").WithCause(err)
		}
		return e, nil

	case payment.EventTypeCompleted:
		var e payment.Completed
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal payment.completed").WithCause(err)
		}
		return e, nil

	case payment.EventTypeReconciled:
		var e payment.Reconciled
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal payment.reconciled").WithCause(err)
		}
		return e, nil

	case payment.EventTypeFailed:
		var e payment.Failed
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal payment.failed").WithCause(err)
		}
		return e, nil

	case payment.EventTypeReversed:
		var e payment.Reversed
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal payment.reversed").WithCause(err)
		}
		return e, nil

	default:
		return nil, errors.NewInternalError(fmt.Sprintf("unknown payment event type: %s", eventType))
	}
}

var _ payment.Repository = (*PaymentEventRepository)(nil)
