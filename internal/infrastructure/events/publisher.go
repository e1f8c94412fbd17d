package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Handler consumes a stored event after it has been durably appended.
type Handler func(ctx context.Context, event StoredEvent) error

// Publisher fans stored events out to subscribers after a save commits.
type Publisher interface {
	Publish(ctx context.Context, events []StoredEvent) error
	Subscribe(eventType string, handler Handler)
}

// InProcessPublisher delivers events synchronously to per-type subscribers.
// A failing handler is logged and does not stop delivery to the others; the
// write that produced the events has already committed.
type InProcessPublisher struct {
	logger   *zap.Logger
	mu       sync.RWMutex
	handlers map[string][]Handler
}

func NewInProcessPublisher(logger *zap.Logger) *InProcessPublisher {
	return &InProcessPublisher{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for one event type.
func (p *InProcessPublisher) Subscribe(eventType string, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[eventType] = append(p.handlers[eventType], handler)
}

// Publish delivers each event to every handler registered for its type.
func (p *InProcessPublisher) Publish(ctx context.Context, events []StoredEvent) error {
	for _, event := range events {
		p.mu.RLock()
		handlers := p.handlers[event.EventType]
		p.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				p.logger.Error("event handler failed",
					zap.String("event_type", event.EventType),
					zap.String("stream_id", event.StreamID.String()),
					zap.Int("sequence", event.Sequence),
					zap.Error(err))
			}
		}
	}
	return nil
}
