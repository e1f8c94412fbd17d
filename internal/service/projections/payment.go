package projections

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/payment"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/cache"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
)

// PaymentProjector maintains the payment read model.
type PaymentProjector struct {
	repo   payment.Repository
	reads  payment.ReadRepository
	cache  *cache.LedgerCache
	logger *zap.Logger
}

func NewPaymentProjector(repo payment.Repository, reads payment.ReadRepository, c *cache.LedgerCache, logger *zap.Logger) *PaymentProjector {
	return &PaymentProjector{repo: repo, reads: reads, cache: c, logger: logger}
}

func (p *PaymentProjector) Handle(ctx context.Context, e events.StoredEvent) error {
	pay, err := p.repo.FindByID(ctx, e.TenantID, e.StreamID)
	if err != nil {
		return err
	}

	m := paymentToReadModel(pay)
	if err := p.reads.Upsert(ctx, m); err != nil {
		return err
	}
	telemetry.ProjectionEventsTotal.WithLabelValues(events.StreamTypePayment).Inc()

	if p.cache != nil {
		if err := p.cache.SetPayment(ctx, m); err != nil {
			p.logger.Warn("failed to refresh payment cache",
				zap.String("payment_id", m.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func paymentToReadModel(p *payment.Payment) *payment.ReadModel {
	return &payment.ReadModel{
		ID:             p.ID(),
		TenantID:       p.TenantID(),
		InvoiceID:      p.InvoiceID(),
		Amount:         p.Amount(),
		Method:         p.Method().String(),
		Status:         p.Status().String(),
		TransactionRef: p.TransactionReference(),
		FailureReason:  p.FailureReason(),
		ReversalReason: p.ReversalReason(),
		ReconciledBy:   p.ReconciledBy(),
		Version:        p.Version(),
		UpdatedAt:      time.Now().UTC(),
	}
}
