package projections

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/journal"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/cache"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
)

// JournalProjector maintains the journal entry read model.
type JournalProjector struct {
	repo   journal.Repository
	reads  journal.ReadRepository
	cache  *cache.LedgerCache
	logger *zap.Logger
}

func NewJournalProjector(repo journal.Repository, reads journal.ReadRepository, c *cache.LedgerCache, logger *zap.Logger) *JournalProjector {
	return &JournalProjector{repo: repo, reads: reads, cache: c, logger: logger}
}

func (p *JournalProjector) Handle(ctx context.Context, e events.StoredEvent) error {
	entry, err := p.repo.FindByID(ctx, e.TenantID, e.StreamID)
	if err != nil {
		return err
	}

	m := journalToReadModel(entry)
	if err := p.reads.Upsert(ctx, m); err != nil {
		return err
	}
	telemetry.ProjectionEventsTotal.WithLabelValues(events.StreamTypeJournal).Inc()

	if p.cache != nil {
		if err := p.cache.SetJournalEntry(ctx, m); err != nil {
			p.logger.Warn("failed to refresh journal cache",
				zap.String("entry_id", m.ID.String()), zap.Error(err))
		}
	}
	return nil
}

func journalToReadModel(e *journal.Entry) *journal.ReadModel {
	lines := e.Lines()
	lineData := make([]journal.LineData, 0, len(lines))
	for _, line := range lines {
		lineData = append(lineData, journal.LineData{
			LineID:     line.ID,
			AccountID:  line.AccountID,
			Debit:      line.Debit,
			Credit:     line.Credit,
			CostCenter: line.CostCenter,
			ProjectID:  line.ProjectID,
			TaxCode:    line.TaxCode,
		})
	}

	return &journal.ReadModel{
		ID:               e.ID(),
		TenantID:         e.TenantID(),
		Number:           e.Number().String(),
		Status:           e.Status().String(),
		EntryType:        e.Type().String(),
		Description:      e.Description(),
		EntryDate:        e.EntryDate(),
		FiscalPeriod:     e.FiscalPeriod().String(),
		TotalDebit:       e.TotalDebit(),
		TotalCredit:      e.TotalCredit(),
		Lines:            lineData,
		PostedBy:         e.PostedBy(),
		PostedAt:         e.PostedAt(),
		ReversingEntryID: e.ReversingEntryID(),
		Version:          e.Version(),
		UpdatedAt:        time.Now().UTC(),
	}
}
