package invoice

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the event-sourced persistence contract for invoices.
type Repository interface {
	// Save appends the aggregate's uncommitted events to its stream,
	// conditioned on the stream revision matching the version at load time.
	// A mismatch fails with ConcurrencyConflict and appends nothing.
	Save(ctx context.Context, inv *Invoice) error

	// FindByID replays the full event stream for the id into a fresh
	// instance. An empty stream fails with NotFoundError.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
}
