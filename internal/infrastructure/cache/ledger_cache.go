package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hisabkhata/ledger-backend/internal/domain/account"
	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
	"github.com/hisabkhata/ledger-backend/internal/domain/journal"
	"github.com/hisabkhata/ledger-backend/internal/domain/payment"
)

// LedgerCache caches read models in Redis. A miss returns (nil, nil) so
// callers fall through to the database; lookup keys map business numbers
// and account codes to primary ids.
type LedgerCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLedgerCache(client *redis.Client, ttl time.Duration) *LedgerCache {
	return &LedgerCache{client: client, ttl: ttl}
}

// Invoices

func (c *LedgerCache) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*invoice.ReadModel, error) {
	var m invoice.ReadModel
	found, err := c.get(ctx, invoiceKey(tenantID, id), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (c *LedgerCache) GetInvoiceIDByNumber(ctx context.Context, tenantID uuid.UUID, number string) (uuid.UUID, bool) {
	return c.lookupID(ctx, invoiceNumberKey(tenantID, number))
}

func (c *LedgerCache) SetInvoice(ctx context.Context, m *invoice.ReadModel) error {
	if err := c.set(ctx, invoiceKey(m.TenantID, m.ID), m); err != nil {
		return err
	}
	return c.client.Set(ctx, invoiceNumberKey(m.TenantID, m.Number), m.ID.String(), c.ttl).Err()
}

func (c *LedgerCache) InvalidateInvoice(ctx context.Context, tenantID, id uuid.UUID) error {
	m, err := c.GetInvoice(ctx, tenantID, id)
	if err == nil && m != nil {
		c.client.Del(ctx, invoiceNumberKey(tenantID, m.Number))
	}
	return c.del(ctx, invoiceKey(tenantID, id))
}

// Payments

func (c *LedgerCache) GetPayment(ctx context.Context, tenantID, id uuid.UUID) (*payment.ReadModel, error) {
	var m payment.ReadModel
	found, err := c.get(ctx, paymentKey(tenantID, id), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (c *LedgerCache) SetPayment(ctx context.Context, m *payment.ReadModel) error {
	return c.set(ctx, paymentKey(m.TenantID, m.ID), m)
}

func (c *LedgerCache) InvalidatePayment(ctx context.Context, tenantID, id uuid.UUID) error {
	return c.del(ctx, paymentKey(tenantID, id))
}

// Journal entries

func (c *LedgerCache) GetJournalEntry(ctx context.Context, tenantID, id uuid.UUID) (*journal.ReadModel, error) {
	var m journal.ReadModel
	found, err := c.get(ctx, journalKey(tenantID, id), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (c *LedgerCache) GetJournalEntryIDByNumber(ctx context.Context, tenantID uuid.UUID, number string) (uuid.UUID, bool) {
	return c.lookupID(ctx, journalNumberKey(tenantID, number))
}

func (c *LedgerCache) SetJournalEntry(ctx context.Context, m *journal.ReadModel) error {
	if err := c.set(ctx, journalKey(m.TenantID, m.ID), m); err != nil {
		return err
	}
	return c.client.Set(ctx, journalNumberKey(m.TenantID, m.Number), m.ID.String(), c.ttl).Err()
}

func (c *LedgerCache) InvalidateJournalEntry(ctx context.Context, tenantID, id uuid.UUID) error {
	m, err := c.GetJournalEntry(ctx, tenantID, id)
	if err == nil && m != nil {
		c.client.Del(ctx, journalNumberKey(tenantID, m.Number))
	}
	return c.del(ctx, journalKey(tenantID, id))
}

// Accounts

func (c *LedgerCache) GetAccount(ctx context.Context, tenantID, id uuid.UUID) (*account.ReadModel, error) {
	var m account.ReadModel
	found, err := c.get(ctx, accountKey(tenantID, id), &m)
	if err != nil || !found {
		return nil, err
	}
	return &m, nil
}

func (c *LedgerCache) GetAccountIDByCode(ctx context.Context, tenantID uuid.UUID, code string) (uuid.UUID, bool) {
	return c.lookupID(ctx, accountCodeKey(tenantID, code))
}

func (c *LedgerCache) SetAccount(ctx context.Context, m *account.ReadModel) error {
	if err := c.set(ctx, accountKey(m.TenantID, m.ID), m); err != nil {
		return err
	}
	return c.client.Set(ctx, accountCodeKey(m.TenantID, m.Code), m.ID.String(), c.ttl).Err()
}

func (c *LedgerCache) InvalidateAccount(ctx context.Context, tenantID, id uuid.UUID) error {
	m, err := c.GetAccount(ctx, tenantID, id)
	if err == nil && m != nil {
		c.client.Del(ctx, accountCodeKey(tenantID, m.Code))
	}
	return c.del(ctx, accountKey(tenantID, id))
}

// Plumbing

func (c *LedgerCache) get(ctx context.Context, key string, out any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, errors.NewInternalError("failed to get from cache").WithCause(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, errors.NewInternalError("failed to unmarshal cached value").WithCause(err)
	}
	return true, nil
}

func (c *LedgerCache) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.NewInternalError("failed to marshal cache value").WithCause(err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return errors.NewInternalError("failed to set cache").WithCause(err)
	}
	return nil
}

func (c *LedgerCache) del(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return errors.NewInternalError("failed to delete from cache").WithCause(err)
	}
	return nil
}

func (c *LedgerCache) lookupID(ctx context.Context, key string) (uuid.UUID, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Key generation helpers

func invoiceKey(tenantID, id uuid.UUID) string {
	return fmt.Sprintf("invoice:%s:%s", tenantID, id)
}

func invoiceNumberKey(tenantID uuid.UUID, number string) string {
	return fmt.Sprintf("invoice:number:%s:%s", tenantID, number)
}

func paymentKey(tenantID, id uuid.UUID) string {
	return fmt.Sprintf("payment:%s:%s", tenantID, id)
}

func journalKey(tenantID, id uuid.UUID) string {
	return fmt.Sprintf("journal:%s:%s", tenantID, id)
}

func journalNumberKey(tenantID uuid.UUID, number string) string {
	return fmt.Sprintf("journal:number:%s:%s", tenantID, number)
}

func accountKey(tenantID, id uuid.UUID) string {
	return fmt.Sprintf("account:%s:%s", tenantID, id)
}

func accountCodeKey(tenantID uuid.UUID, code string) string {
	return fmt.Sprintf("account:code:%s:%s", tenantID, code)
}
