package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
)

// InvoiceEventRepository implements invoice.Repository on top of the event
// store. Saving appends the aggregate's uncommitted events after its last
// persisted revision and publishes them once the append commits.
type InvoiceEventRepository struct {
	store     events.Store
	publisher events.Publisher
}

func NewInvoiceEventRepository(store events.Store, publisher events.Publisher) *InvoiceEventRepository {
	return &InvoiceEventRepository{store: store, publisher: publisher}
}

func (r *InvoiceEventRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	uncommitted := inv.UncommittedEvents()
	if len(uncommitted) == 0 {
		return nil
	}

	expectedVersion := inv.Version() - len(uncommitted)

	stored := make([]events.StoredEvent, 0, len(uncommitted))
	for _, event := range uncommitted {
		payload, err := json.Marshal(event)
		if err != nil {
			return errors.NewInternalError("failed to marshal invoice event").WithCause(err)
		}
		stored = append(stored, events.StoredEvent{
			ID:         uuid.New(),
			StreamID:   inv.ID(),
			StreamType: events.StreamTypeInvoice,
			TenantID:   event.TenantID(),
			EventType:  event.EventType(),
			Payload:    payload,
			OccurredAt: event.OccurredAt(),
		})
	}

	if err := r.store.Append(ctx, inv.ID(), expectedVersion, stored); err != nil {
		return err
	}
	inv.ClearUncommitted()

	if r.publisher != nil {
		return r.publisher.Publish(ctx, stored)
	}
	return nil
}

func (r *InvoiceEventRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	stream, err := r.store.ReadStream(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(stream) == 0 {
		return nil, errors.NewNotFoundError("invoice")
	}
	if stream[0].TenantID != tenantID {
		return nil, errors.NewNotFoundError("invoice")
	}

	domainEvents := make([]invoice.Event, 0, len(stream))
	for _, stored := range stream {
		event, err := decodeInvoiceEvent(stored.EventType, stored.Payload)
		if err != nil {
			return nil, err
		}
		domainEvents = append(domainEvents, event)
	}

	return invoice.Replay(domainEvents)
}

func decodeInvoiceEvent(eventType string, payload json.RawMessage) (invoice.Event, error) {
	switch eventType {
	case invoice.EventTypeCreated:
		var e invoice.Created
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal invoice.created").WithCause(err)
		}
		return e, nil

	case invoice.EventTypeApproved:
		var e invoice.Approved
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal invoice.approved").WithCause(err)
		}
		return e, nil

	case invoice.EventTypePaymentRecorded:
		var e invoice.PaymentRecorded
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal invoice.payment_recorded").WithCause(err)
		}
		return e, nil

	case invoice.EventTypeFullyPaid:
		var e invoice.FullyPaid
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal invoice.fully_paid").WithCause(err)
		}
		return e, nil

	case invoice.EventTypeCancelled:
		var e invoice.Cancelled
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.NewInternalError("failed to unmarshal invoice.cancelled").WithCause(err)
		}
		return e, nil

	default:
		return nil, errors.NewInternalError(fmt.Sprintf("unknown invoice event type: %s", eventType))
	}
}

var _ invoice.Repository = (*InvoiceEventRepository)(nil)
