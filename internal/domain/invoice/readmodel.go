package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// ReadModel is the denormalized invoice row maintained by the projection.
// Version mirrors the stream revision that produced the row, making upserts
// idempotent under event redelivery.
type ReadModel struct {
	ID              uuid.UUID    `json:"id"`
	TenantID        uuid.UUID    `json:"tenant_id"`
	Number          string       `json:"number"`
	Status          string       `json:"status"`
	VendorID        uuid.UUID    `json:"vendor_id"`
	CustomerID      uuid.UUID    `json:"customer_id"`
	IssueDate       time.Time    `json:"issue_date"`
	DueDate         time.Time    `json:"due_date"`
	Currency        string       `json:"currency"`
	Subtotal        values.Money `json:"subtotal"`
	Tax             values.Money `json:"tax"`
	GrandTotal      values.Money `json:"grand_total"`
	PaidToDate      values.Money `json:"paid_to_date"`
	MushakReference string       `json:"mushak_reference,omitempty"`
	CancelReason    string       `json:"cancel_reason,omitempty"`
	Version         int          `json:"version"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// ReadRepository is the query-side storage contract for invoices.
type ReadRepository interface {
	Upsert(ctx context.Context, m *ReadModel) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReadModel, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ReadModel, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status Status, limit, offset int) ([]*ReadModel, error)
}
