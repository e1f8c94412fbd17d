package account

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// ReadModel is the denormalized chart-of-accounts row with the running
// balance maintained by the projection.
type ReadModel struct {
	ID        uuid.UUID    `json:"id"`
	TenantID  uuid.UUID    `json:"tenant_id"`
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Type      string       `json:"type"`
	ParentID  uuid.UUID    `json:"parent_id,omitempty"`
	Currency  string       `json:"currency"`
	Balance   values.Money `json:"balance"`
	Status    string       `json:"status"`
	Version   int          `json:"version"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ReadRepository is the query-side storage contract for accounts.
type ReadRepository interface {
	Upsert(ctx context.Context, m *ReadModel) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReadModel, error)
	GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ReadModel, error)
	ListByType(ctx context.Context, tenantID uuid.UUID, accType Type) ([]*ReadModel, error)
}
