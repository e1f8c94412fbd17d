package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/invoice"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
	"github.com/hisabkhata/ledger-backend/internal/testutil"
)

func newTestInvoice(t *testing.T, tenantID uuid.UUID) *invoice.Invoice {
	t.Helper()

	issueDate := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)
	number, err := values.GenerateInvoiceNumber(issueDate, 1)
	require.NoError(t, err)

	inv, err := invoice.New(tenantID, number, uuid.New(), uuid.New(),
		issueDate, issueDate.AddDate(0, 1, 0), values.BDT,
		[]invoice.LineItemInput{
			{
				Description: "Consulting services",
				Quantity:    decimal.NewFromInt(10),
				UnitPrice:   values.MustNewMoney(decimal.NewFromInt(250), values.BDT),
				TaxCategory: invoice.TaxStandard,
			},
		}, decimal.NewFromFloat(0.15))
	require.NoError(t, err)
	return inv
}

func TestInvoiceRepositorySaveAndLoad(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	store := testutil.NewMemoryEventStore()
	repo := NewInvoiceEventRepository(store, events.NewInProcessPublisher(zap.NewNop()))

	inv := newTestInvoice(t, tenantID)
	require.NoError(t, inv.Approve(uuid.New(), "MUSHAK-6.3-2025-000123"))

	require.NoError(t, repo.Save(ctx, inv))
	assert.Empty(t, inv.UncommittedEvents())
	assert.Equal(t, 2, store.StreamLength(inv.ID()))

	loaded, err := repo.FindByID(ctx, tenantID, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, inv.ID(), loaded.ID())
	assert.Equal(t, inv.Status(), loaded.Status())
	assert.Equal(t, inv.Version(), loaded.Version())
	assert.True(t, inv.GrandTotal().Equal(loaded.GrandTotal()))
	assert.Len(t, loaded.Lines(), 1)
}

func TestInvoiceRepositoryPublishesPersistedSequences(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	store := testutil.NewMemoryEventStore()
	pub := events.NewInProcessPublisher(zap.NewNop())
	repo := NewInvoiceEventRepository(store, pub)

	var delivered []events.StoredEvent
	for _, eventType := range []string{invoice.EventTypeCreated, invoice.EventTypeApproved} {
		pub.Subscribe(eventType, func(ctx context.Context, e events.StoredEvent) error {
			delivered = append(delivered, e)
			return nil
		})
	}

	inv := newTestInvoice(t, tenantID)
	require.NoError(t, repo.Save(ctx, inv))

	loaded, err := repo.FindByID(ctx, tenantID, inv.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Approve(uuid.New(), "MUSHAK-6.3-2025-000126"))
	require.NoError(t, repo.Save(ctx, loaded))

	// subscribers see the envelopes exactly as persisted
	require.Len(t, delivered, 2)
	for i, e := range delivered {
		assert.Equal(t, i+1, e.Sequence)
		assert.Equal(t, inv.ID(), e.StreamID)
		assert.Equal(t, tenantID, e.TenantID)
	}
}

func TestInvoiceRepositorySaveIsIncremental(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	store := testutil.NewMemoryEventStore()
	repo := NewInvoiceEventRepository(store, nil)

	inv := newTestInvoice(t, tenantID)
	require.NoError(t, repo.Save(ctx, inv))

	loaded, err := repo.FindByID(ctx, tenantID, inv.ID())
	require.NoError(t, err)
	require.NoError(t, loaded.Approve(uuid.New(), "MUSHAK-6.3-2025-000124"))
	require.NoError(t, repo.Save(ctx, loaded))

	assert.Equal(t, 2, store.StreamLength(inv.ID()))

	again, err := repo.FindByID(ctx, tenantID, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, 2, again.Version())
}

func TestInvoiceRepositoryConcurrentSaveConflicts(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	store := testutil.NewMemoryEventStore()
	repo := NewInvoiceEventRepository(store, nil)

	inv := newTestInvoice(t, tenantID)
	require.NoError(t, repo.Save(ctx, inv))

	// two sessions load the same revision
	first, err := repo.FindByID(ctx, tenantID, inv.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, tenantID, inv.ID())
	require.NoError(t, err)

	require.NoError(t, first.Approve(uuid.New(), "MUSHAK-6.3-2025-000125"))
	require.NoError(t, second.Cancel("entered against the wrong customer", uuid.New()))

	require.NoError(t, repo.Save(ctx, first))

	err = repo.Save(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.IsConcurrencyConflict(err))
	assert.True(t, errors.IsRetryable(err))
}

func TestInvoiceRepositoryTenantIsolation(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	store := testutil.NewMemoryEventStore()
	repo := NewInvoiceEventRepository(store, nil)

	inv := newTestInvoice(t, tenantID)
	require.NoError(t, repo.Save(ctx, inv))

	_, err := repo.FindByID(ctx, uuid.New(), inv.ID())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestInvoiceRepositoryFindMissing(t *testing.T) {
	repo := NewInvoiceEventRepository(testutil.NewMemoryEventStore(), nil)

	_, err := repo.FindByID(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
