package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// ReadModel is the denormalized payment row maintained by the projection.
type ReadModel struct {
	ID             uuid.UUID    `json:"id"`
	TenantID       uuid.UUID    `json:"tenant_id"`
	InvoiceID      uuid.UUID    `json:"invoice_id"`
	Amount         values.Money `json:"amount"`
	Method         string       `json:"method"`
	Status         string       `json:"status"`
	TransactionRef string       `json:"transaction_ref,omitempty"`
	FailureReason  string       `json:"failure_reason,omitempty"`
	ReversalReason string       `json:"reversal_reason,omitempty"`
	ReconciledBy   uuid.UUID    `json:"reconciled_by,omitempty"`
	Version        int          `json:"version"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// ReadRepository is the query-side storage contract for payments.
type ReadRepository interface {
	Upsert(ctx context.Context, m *ReadModel) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReadModel, error)
	ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*ReadModel, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status Status, limit, offset int) ([]*ReadModel, error)
}
