package invoicing_test

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
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/database"
	"github.com/hisabkhata/ledger-backend/internal/infrastructure/events"
	"github.com/hisabkhata/ledger-backend/internal/service/invoicing"
	"github.com/hisabkhata/ledger-backend/internal/service/projections"
	"github.com/hisabkhata/ledger-backend/internal/testutil"
)

type fixture struct {
	svc   *invoicing.Service
	repo  invoice.Repository
	reads *testutil.MemoryInvoiceReads
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop()
	store := testutil.NewMemoryEventStore()
	pub := events.NewInProcessPublisher(logger)
	repo := database.NewInvoiceEventRepository(store, pub)
	reads := testutil.NewMemoryInvoiceReads()

	projector := projections.NewInvoiceProjector(repo, reads, nil, logger)
	for _, eventType := range []string{
		invoice.EventTypeCreated,
		invoice.EventTypeApproved,
		invoice.EventTypePaymentRecorded,
		invoice.EventTypeFullyPaid,
		invoice.EventTypeCancelled,
	} {
		pub.Subscribe(eventType, projector.Handle)
	}

	return &fixture{
		svc:   invoicing.NewService(repo, reads, decimal.NewFromFloat(0.15), logger),
		repo:  repo,
		reads: reads,
	}
}

func createRequest(tenantID uuid.UUID, sequence int) invoicing.CreateInvoiceRequest {
	issueDate := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)
	return invoicing.CreateInvoiceRequest{
		TenantID:   tenantID,
		VendorID:   uuid.New(),
		CustomerID: uuid.New(),
		IssueDate:  issueDate,
		DueDate:    issueDate.AddDate(0, 1, 0),
		Currency:   "BDT",
		Sequence:   sequence,
		Lines: []invoicing.LineItemRequest{
			{Description: "Implementation services", Quantity: "8", UnitPrice: "250.00", TaxCategory: "standard"},
			{Description: "Export documentation", Quantity: "2", UnitPrice: "250.00", TaxCategory: "zero_rated"},
		},
	}
}

func TestCreateInvoiceComputesTotalsAndProjects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tenantID := uuid.New()

	inv, err := f.svc.CreateInvoice(ctx, createRequest(tenantID, 1))
	require.NoError(t, err)

	// 15% VAT applies to the standard line only
	assert.Equal(t, "2500.00 BDT", inv.Subtotal().String())
	assert.Equal(t, "300.00 BDT", inv.Tax().String())
	assert.Equal(t, "2800.00 BDT", inv.GrandTotal().String())

	m, err := f.reads.GetByID(ctx, tenantID, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-10-14-000001", m.Number)
	assert.Equal(t, "draft", m.Status)
	assert.Equal(t, 1, m.Version)
}

func TestCreateInvoiceRejectsDuplicateNumber(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tenantID := uuid.New()

	_, err := f.svc.CreateInvoice(ctx, createRequest(tenantID, 7))
	require.NoError(t, err)

	_, err = f.svc.CreateInvoice(ctx, createRequest(tenantID, 7))
	require.Error(t, err)
	assert.True(t, errors.IsDuplicate(err))

	// same number under a different tenant is fine
	_, err = f.svc.CreateInvoice(ctx, createRequest(uuid.New(), 7))
	assert.NoError(t, err)
}

func TestCreateInvoiceValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	req := createRequest(uuid.New(), 1)
	req.Lines = nil
	_, err := f.svc.CreateInvoice(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	req = createRequest(uuid.New(), 1)
	req.Lines[0].Quantity = "eight"
	_, err = f.svc.CreateInvoice(ctx, req)
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestApproveInvoiceUpdatesReadModel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tenantID := uuid.New()

	inv, err := f.svc.CreateInvoice(ctx, createRequest(tenantID, 2))
	require.NoError(t, err)

	err = f.svc.ApproveInvoice(ctx, invoicing.ApproveInvoiceRequest{
		TenantID:        tenantID,
		InvoiceID:       inv.ID(),
		ApprovedBy:      uuid.New(),
		MushakReference: "MUSHAK-6.3-2025-000042",
	})
	require.NoError(t, err)

	m, err := f.reads.GetByID(ctx, tenantID, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, "approved", m.Status)
	assert.Equal(t, "MUSHAK-6.3-2025-000042", m.MushakReference)
	assert.Equal(t, 2, m.Version)
}

func TestApproveInvoiceMissing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	err := f.svc.ApproveInvoice(ctx, invoicing.ApproveInvoiceRequest{
		TenantID:        uuid.New(),
		InvoiceID:       uuid.New(),
		ApprovedBy:      uuid.New(),
		MushakReference: "MUSHAK-6.3-2025-000001",
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCancelInvoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tenantID := uuid.New()

	inv, err := f.svc.CreateInvoice(ctx, createRequest(tenantID, 3))
	require.NoError(t, err)

	err = f.svc.CancelInvoice(ctx, invoicing.CancelInvoiceRequest{
		TenantID:    tenantID,
		InvoiceID:   inv.ID(),
		CancelledBy: uuid.New(),
		Reason:      "customer withdrew the order",
	})
	require.NoError(t, err)

	m, err := f.reads.GetByID(ctx, tenantID, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, "cancelled", m.Status)
	assert.Equal(t, "customer withdrew the order", m.CancelReason)
}
