package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// ReadModel is the denormalized journal entry row maintained by the
// projection. Lines are stored as a JSONB document alongside the totals.
type ReadModel struct {
	ID               uuid.UUID    `json:"id"`
	TenantID         uuid.UUID    `json:"tenant_id"`
	Number           string       `json:"number"`
	Status           string       `json:"status"`
	EntryType        string       `json:"entry_type"`
	Description      string       `json:"description"`
	EntryDate        time.Time    `json:"entry_date"`
	FiscalPeriod     string       `json:"fiscal_period"`
	TotalDebit       values.Money `json:"total_debit"`
	TotalCredit      values.Money `json:"total_credit"`
	Lines            []LineData   `json:"lines"`
	PostedBy         uuid.UUID    `json:"posted_by,omitempty"`
	PostedAt         time.Time    `json:"posted_at,omitempty"`
	ReversingEntryID uuid.UUID    `json:"reversing_entry_id,omitempty"`
	Version          int          `json:"version"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// ReadRepository is the query-side storage contract for journal entries.
type ReadRepository interface {
	Upsert(ctx context.Context, m *ReadModel) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*ReadModel, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*ReadModel, error)
	ListByPeriod(ctx context.Context, tenantID uuid.UUID, fiscalPeriod string, limit, offset int) ([]*ReadModel, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status Status, limit, offset int) ([]*ReadModel, error)
}
