package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func stored(eventType string) StoredEvent {
	return StoredEvent{
		ID:         uuid.New(),
		StreamID:   uuid.New(),
		StreamType: StreamTypeInvoice,
		TenantID:   uuid.New(),
		Sequence:   1,
		EventType:  eventType,
		Payload:    []byte(`{}`),
		OccurredAt: time.Now().UTC(),
	}
}

func TestPublisherDeliversByType(t *testing.T) {
	p := NewInProcessPublisher(zap.NewNop())

	var created, approved int
	p.Subscribe("invoice.created", func(ctx context.Context, e StoredEvent) error {
		created++
		return nil
	})
	p.Subscribe("invoice.approved", func(ctx context.Context, e StoredEvent) error {
		approved++
		return nil
	})

	err := p.Publish(context.Background(), []StoredEvent{
		stored("invoice.created"),
		stored("invoice.approved"),
		stored("invoice.cancelled"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, approved)
}

func TestPublisherFailingHandlerDoesNotBlockOthers(t *testing.T) {
	p := NewInProcessPublisher(zap.NewNop())

	var reached bool
	p.Subscribe("invoice.created", func(ctx context.Context, e StoredEvent) error {
		return errors.New("projection down")
	})
	p.Subscribe("invoice.created", func(ctx context.Context, e StoredEvent) error {
		reached = true
		return nil
	})

	err := p.Publish(context.Background(), []StoredEvent{stored("invoice.created")})
	require.NoError(t, err)
	assert.True(t, reached)
}
