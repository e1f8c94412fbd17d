package projections

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/cache"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
)

// InvoiceProjector maintains the invoice read model. Each event triggers a
// rebuild from the stream; the version-guarded upsert makes redelivery and
// out-of-order handling harmless.
type InvoiceProjector struct {
	repo   invoice.Repository
	reads  invoice.ReadRepository
	cache  *cache.LedgerCache
	logger *zap.Logger
}

func NewInvoiceProjector(repo invoice.Repository, reads invoice.ReadRepository, c *cache.LedgerCache, logger *zap.Logger) *InvoiceProjector {
	return &InvoiceProjector{repo: repo, reads: reads, cache: c, logger: logger}
}

func (p *InvoiceProjector) Handle(ctx context.Context, e events.StoredEvent) error {
	inv, err := p.repo.FindByID(ctx, e.TenantID, e.StreamID)
	if err != nil {
		return err
	}

	m := invoiceToReadModel(inv)
	if err := p.reads.Upsert(ctx, m); err != nil {
		return err
	}
	telemetry.ProjectionEventsTotal.WithLabelValues(events.StreamTypeInvoice).Inc()

	if p.cache != nil {
		if err := p.cache.SetInvoice(ctx, m); err != nil {
			p.logger.Warn("failed to refresh invoice cache",
				zap.String("invoice_id", m.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func invoiceToReadModel(inv *invoice.Invoice) *invoice.ReadModel {
	return &invoice.ReadModel{
		ID:              inv.ID(),
		TenantID:        inv.TenantID(),
		Number:          inv.Number().String(),
		Status:          inv.Status().String(),
		VendorID:        inv.VendorID(),
		CustomerID:      inv.CustomerID(),
		IssueDate:       inv.IssueDate(),
		DueDate:         inv.DueDate(),
		Currency:        inv.Currency(),
		Subtotal:        inv.Subtotal(),
		Tax:             inv.Tax(),
		GrandTotal:      inv.GrandTotal(),
		PaidToDate:      inv.PaidToDate(),
		MushakReference: inv.MushakReference(),
		CancelReason:    inv.CancelReason(),
		Version:         inv.Version(),
		UpdatedAt:       time.Now().UTC(),
	}
}
