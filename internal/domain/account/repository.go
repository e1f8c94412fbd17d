package account

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the event-sourced persistence contract for accounts.
type Repository interface {
	Save(ctx context.Context, a *Account) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Account, error)
}
