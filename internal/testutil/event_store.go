package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
)

// MemoryEventStore is an in-memory events.Store with the same optimistic
// concurrency semantics as the Postgres store. Safe for concurrent use.
type MemoryEventStore struct {
	mu      sync.Mutex
	streams map[uuid.UUID][]events.StoredEvent
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		streams: make(map[uuid.UUID][]events.StoredEvent),
	}
}

func (s *MemoryEventStore) Append(ctx context.Context, streamID uuid.UUID, expectedVersion int, evts []events.StoredEvent) error {
	if len(evts) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[streamID]
	if len(stream) != expectedVersion {
		return errors.NewConcurrencyConflict(streamID.String())
	}

	// stamp assignments onto the caller's slice, as the Postgres store does
	for i := range evts {
		evts[i].StreamID = streamID
		evts[i].Sequence = expectedVersion + i + 1
		stream = append(stream, evts[i])
	}
	s.streams[streamID] = stream
	return nil
}

func (s *MemoryEventStore) ReadStream(ctx context.Context, streamID uuid.UUID) ([]events.StoredEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[streamID]
	out := make([]events.StoredEvent, len(stream))
	copy(out, stream)
	return out, nil
}

// StreamLength reports how many events a stream holds.
func (s *MemoryEventStore) StreamLength(streamID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streams[streamID])
}

var _ events.Store = (*MemoryEventStore)(nil)
