package projections

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/account"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/cache"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
)

// AccountProjector maintains the chart-of-accounts read model, including the
// running balance carried on each posting event.
type AccountProjector struct {
	repo   account.Repository
	reads  account.ReadRepository
	cache  *cache.LedgerCache
	logger *zap.Logger
}

func NewAccountProjector(repo account.Repository, reads account.ReadRepository, c *cache.LedgerCache, logger *zap.Logger) *AccountProjector {
	return &AccountProjector{repo: repo, reads: reads, cache: c, logger: logger}
}

func (p *AccountProjector) Handle(ctx context.Context, e events.StoredEvent) error {
	a, err := p.repo.FindByID(ctx, e.TenantID, e.StreamID)
	if err != nil {
		return err
	}

	m := accountToReadModel(a)
	if err := p.reads.Upsert(ctx, m); err != nil {
		return err
	}
	telemetry.ProjectionEventsTotal.WithLabelValues(events.StreamTypeAccount).Inc()

	if p.cache != nil {
		if err := p.cache.SetAccount(ctx, m); err != nil {
			p.logger.Warn("failed to refresh account cache",
				zap.String("account_id", m.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func accountToReadModel(a *account.Account) *account.ReadModel {
	return &account.ReadModel{
		ID:        a.ID(),
		TenantID:  a.TenantID(),
		Code:      a.Code(),
		Name:      a.Name(),
		Type:      a.AccountType().String(),
		ParentID:  a.ParentID(),
		Currency:  a.Currency(),
		Balance:   a.Balance(),
		Status:    a.Status().String(),
		Version:   a.Version(),
		UpdatedAt: time.Now().UTC(),
	}
}
