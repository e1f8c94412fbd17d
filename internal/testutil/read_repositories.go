package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/account"
	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
	"github.com/hisabkhata/ledger-backend/internal/domain/journal"
	"github.com/hisabkhata/ledger-backend/internal/domain/payment"
)

// In-memory read repositories with the same version-guarded upsert semantics
// as the Postgres ones.

type MemoryInvoiceReads struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*invoice.ReadModel
}

func NewMemoryInvoiceReads() *MemoryInvoiceReads {
	return &MemoryInvoiceReads{rows: make(map[uuid.UUID]*invoice.ReadModel)}
}

func (r *MemoryInvoiceReads) Upsert(ctx context.Context, m *invoice.ReadModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[m.ID]; ok && existing.Version >= m.Version {
		return nil
	}
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}

func (r *MemoryInvoiceReads) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*invoice.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rows[id]
	if !ok || m.TenantID != tenantID {
		return nil, errors.NewNotFoundError("invoice")
	}
	cp := *m
	return &cp, nil
}

func (r *MemoryInvoiceReads) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*invoice.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.Number == number {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("invoice")
}

func (r *MemoryInvoiceReads) ListByStatus(ctx context.Context, tenantID uuid.UUID, status invoice.Status, limit, offset int) ([]*invoice.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*invoice.ReadModel
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.Status == status.String() {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ invoice.ReadRepository = (*MemoryInvoiceReads)(nil)

type MemoryPaymentReads struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*payment.ReadModel
}

func NewMemoryPaymentReads() *MemoryPaymentReads {
	return &MemoryPaymentReads{rows: make(map[uuid.UUID]*payment.ReadModel)}
}

func (r *MemoryPaymentReads) Upsert(ctx context.Context, m *payment.ReadModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[m.ID]; ok && existing.Version >= m.Version {
		return nil
	}
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}

func (r *MemoryPaymentReads) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*payment.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rows[id]
	if !ok || m.TenantID != tenantID {
		return nil, errors.NewNotFoundError("payment")
	}
	cp := *m
	return &cp, nil
}

func (r *MemoryPaymentReads) ListByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]*payment.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*payment.ReadModel
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.InvoiceID == invoiceID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryPaymentReads) ListByStatus(ctx context.Context, tenantID uuid.UUID, status payment.Status, limit, offset int) ([]*payment.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*payment.ReadModel
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.Status == status.String() {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ payment.ReadRepository = (*MemoryPaymentReads)(nil)

type MemoryJournalReads struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*journal.ReadModel
}

func NewMemoryJournalReads() *MemoryJournalReads {
	return &MemoryJournalReads{rows: make(map[uuid.UUID]*journal.ReadModel)}
}

func (r *MemoryJournalReads) Upsert(ctx context.Context, m *journal.ReadModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[m.ID]; ok && existing.Version >= m.Version {
		return nil
	}
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}

func (r *MemoryJournalReads) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*journal.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rows[id]
	if !ok || m.TenantID != tenantID {
		return nil, errors.NewNotFoundError("journal entry")
	}
	cp := *m
	return &cp, nil
}

func (r *MemoryJournalReads) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*journal.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.Number == number {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("journal entry")
}

func (r *MemoryJournalReads) ListByPeriod(ctx context.Context, tenantID uuid.UUID, fiscalPeriod string, limit, offset int) ([]*journal.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*journal.ReadModel
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.FiscalPeriod == fiscalPeriod {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MemoryJournalReads) ListByStatus(ctx context.Context, tenantID uuid.UUID, status journal.Status, limit, offset int) ([]*journal.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*journal.ReadModel
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.Status == status.String() {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ journal.ReadRepository = (*MemoryJournalReads)(nil)

type MemoryAccountReads struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]*account.ReadModel
}

func NewMemoryAccountReads() *MemoryAccountReads {
	return &MemoryAccountReads{rows: make(map[uuid.UUID]*account.ReadModel)}
}

func (r *MemoryAccountReads) Upsert(ctx context.Context, m *account.ReadModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rows[m.ID]; ok && existing.Version >= m.Version {
		return nil
	}
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}

func (r *MemoryAccountReads) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*account.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.rows[id]
	if !ok || m.TenantID != tenantID {
		return nil, errors.NewNotFoundError("account")
	}
	cp := *m
	return &cp, nil
}

func (r *MemoryAccountReads) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*account.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.Code == code {
			cp := *m
			return &cp, nil
		}
	}
	return nil, errors.NewNotFoundError("account")
}

func (r *MemoryAccountReads) ListByType(ctx context.Context, tenantID uuid.UUID, accType account.Type) ([]*account.ReadModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*account.ReadModel
	for _, m := range r.rows {
		if m.TenantID == tenantID && m.Type == accType.String() {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

var _ account.ReadRepository = (*MemoryAccountReads)(nil)
