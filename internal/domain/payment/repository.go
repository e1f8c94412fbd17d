package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the event-sourced persistence contract for payments.
type Repository interface {
	Save(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Payment, error)
}
