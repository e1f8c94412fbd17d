package journal

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the event-sourced persistence contract for journal entries.
type Repository interface {
	Save(ctx context.Context, e *Entry) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Entry, error)
}
