package queries

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/account"
	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
	"github.com/hisabkhata/ledger-backend/internal/domain/journal"
	"github.com/hisabkhata/ledger-backend/internal/domain/payment"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/cache"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/telemetry"
)

// Service answers read-side queries cache-first: a cache hit skips the
// database, a miss reads the projection table and refills the cache. Cache
// failures degrade to database reads rather than erroring.
type Service struct {
	invoices invoice.ReadRepository
	payments payment.ReadRepository
	journals journal.ReadRepository
	accounts account.ReadRepository
	cache    *cache.LedgerCache
	logger   *zap.Logger
}

func NewService(
	invoices invoice.ReadRepository,
	payments payment.ReadRepository,
	journals journal.ReadRepository,
	accounts account.ReadRepository,
	c *cache.LedgerCache,
	logger *zap.Logger,
) *Service {
	return &Service{
		invoices: invoices,
		payments: payments,
		journals: journals,
		accounts: accounts,
		cache:    c,
		logger:   logger,
	}
}

// Invoices

func (s *Service) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*invoice.ReadModel, error) {
	if s.cache != nil {
		if m, err := s.cache.GetInvoice(ctx, tenantID, id); err == nil && m != nil {
			telemetry.CacheLookupsTotal.WithLabelValues("invoice", "hit").Inc()
			return m, nil
		}
		telemetry.CacheLookupsTotal.WithLabelValues("invoice", "miss").Inc()
	}

	m, err := s.invoices.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	s.refillInvoice(ctx, m)
	return m, nil
}

func (s *Service) GetInvoiceByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*invoice.ReadModel, error) {
	if s.cache != nil {
		if id, ok := s.cache.GetInvoiceIDByNumber(ctx, tenantID, number); ok {
			return s.GetInvoice(ctx, tenantID, id)
		}
	}

	m, err := s.invoices.GetByNumber(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	s.refillInvoice(ctx, m)
	return m, nil
}

func (s *Service) ListInvoicesByStatus(ctx context.Context, tenantID uuid.UUID, status invoice.Status, limit, offset int) ([]*invoice.ReadModel, error) {
	return s.invoices.ListByStatus(ctx, tenantID, status, normalizeLimit(limit), offset)
}

func (s *Service) refillInvoice(ctx context.Context, m *invoice.ReadModel) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetInvoice(ctx, m); err != nil {
		s.logger.Warn("failed to refill invoice cache",
			zap.String("invoice_id", m.ID.String()), zap.Error(err))
	}
}

// Payments

func (s *Service) GetPayment(ctx context.Context, tenantID, id uuid.UUID) (*payment.ReadModel, error) {
	if s.cache != nil {
		if m, err := s.cache.GetPayment(ctx, tenantID, id); err == nil && m != nil {
			telemetry.CacheLookupsTotal.WithLabelValues("payment", "hit").Inc()
			return m, nil
		}
		telemetry.CacheLookupsTotal.WithLabelValues("payment", "miss").Inc()
	}

	m, err := s.payments.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetPayment(ctx, m); err != nil {
			s.logger.Warn("failed to refill payment cache",
				zap.String("payment_id", m.ID.String()), zap.Error(err))
		}
	}
	return m, nil
}

func (s *Service) ListPaymentsForInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*payment.ReadModel, error) {
	return s.payments.ListByInvoice(ctx, tenantID, invoiceID)
}

func (s *Service) ListPaymentsByStatus(ctx context.Context, tenantID uuid.UUID, status payment.Status, limit, offset int) ([]*payment.ReadModel, error) {
	return s.payments.ListByStatus(ctx, tenantID, status, normalizeLimit(limit), offset)
}

// Journal entries

func (s *Service) GetJournalEntry(ctx context.Context, tenantID, id uuid.UUID) (*journal.ReadModel, error) {
	if s.cache != nil {
		if m, err := s.cache.GetJournalEntry(ctx, tenantID, id); err == nil && m != nil {
			telemetry.CacheLookupsTotal.WithLabelValues("journal", "hit").Inc()
			return m, nil
		}
		telemetry.CacheLookupsTotal.WithLabelValues("journal", "miss").Inc()
	}

	m, err := s.journals.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	s.refillJournal(ctx, m)
	return m, nil
}

func (s *Service) GetJournalEntryByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*journal.ReadModel, error) {
	if s.cache != nil {
		if id, ok := s.cache.GetJournalEntryIDByNumber(ctx, tenantID, number); ok {
			return s.GetJournalEntry(ctx, tenantID, id)
		}
	}

	m, err := s.journals.GetByNumber(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	s.refillJournal(ctx, m)
	return m, nil
}

func (s *Service) ListJournalEntriesByPeriod(ctx context.Context, tenantID uuid.UUID, fiscalPeriod string, limit, offset int) ([]*journal.ReadModel, error) {
	return s.journals.ListByPeriod(ctx, tenantID, fiscalPeriod, normalizeLimit(limit), offset)
}

func (s *Service) ListJournalEntriesByStatus(ctx context.Context, tenantID uuid.UUID, status journal.Status, limit, offset int) ([]*journal.ReadModel, error) {
	return s.journals.ListByStatus(ctx, tenantID, status, normalizeLimit(limit), offset)
}

func (s *Service) refillJournal(ctx context.Context, m *journal.ReadModel) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJournalEntry(ctx, m); err != nil {
		s.logger.Warn("failed to refill journal cache",
			zap.String("entry_id", m.ID.String()), zap.Error(err))
	}
}

// Accounts

func (s *Service) GetAccount(ctx context.Context, tenantID, id uuid.UUID) (*account.ReadModel, error) {
	if s.cache != nil {
		if m, err := s.cache.GetAccount(ctx, tenantID, id); err == nil && m != nil {
			telemetry.CacheLookupsTotal.WithLabelValues("account", "hit").Inc()
			return m, nil
		}
		telemetry.CacheLookupsTotal.WithLabelValues("account", "miss").Inc()
	}

	m, err := s.accounts.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	s.refillAccount(ctx, m)
	return m, nil
}

func (s *Service) GetAccountByCode(ctx context.Context, tenantID uuid.UUID, code string) (*account.ReadModel, error) {
	if s.cache != nil {
		if id, ok := s.cache.GetAccountIDByCode(ctx, tenantID, code); ok {
			return s.GetAccount(ctx, tenantID, id)
		}
	}

	m, err := s.accounts.GetByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}
	s.refillAccount(ctx, m)
	return m, nil
}

func (s *Service) ListAccountsByType(ctx context.Context, tenantID uuid.UUID, accType account.Type) ([]*account.ReadModel, error) {
	return s.accounts.ListByType(ctx, tenantID, accType)
}

func (s *Service) refillAccount(ctx context.Context, m *account.ReadModel) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetAccount(ctx, m); err != nil {
		s.logger.Warn("failed to refill account cache",
			zap.String("account_id", m.ID.String()), zap.Error(err))
	}
}

const defaultListLimit = 50

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return defaultListLimit
	}
	return limit
}
