package payments_test

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
	"github.com/hisabkhata/ledger-backend/internal/service/payments"
	"github.com/hisabkhata/ledger-backend/internal/testutil"
)

type fixture struct {
	invoices    invoice.Repository
	invoicing   *invoicing.Service
	payments    *payments.Service
	invoiceRead *testutil.MemoryInvoiceReads
	tenantID    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zap.NewNop()
	store := testutil.NewMemoryEventStore()
	pub := events.NewInProcessPublisher(logger)

	invoiceRepo := database.NewInvoiceEventRepository(store, pub)
	paymentRepo := database.NewPaymentEventRepository(store, pub)
	invoiceReads := testutil.NewMemoryInvoiceReads()

	invoicingSvc := invoicing.NewService(invoiceRepo, invoiceReads, decimal.NewFromFloat(0.15), logger)
	paymentsSvc := payments.NewService(paymentRepo, invoiceRepo, invoicingSvc, logger)

	return &fixture{
		invoices:    invoiceRepo,
		invoicing:   invoicingSvc,
		payments:    paymentsSvc,
		invoiceRead: invoiceReads,
		tenantID:    uuid.New(),
	}
}

// approvedInvoice creates and approves a 2800.00 BDT invoice.
func (f *fixture) approvedInvoice(t *testing.T, sequence int) *invoice.Invoice {
	t.Helper()
	ctx := context.Background()

	issueDate := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)
	inv, err := f.invoicing.CreateInvoice(ctx, invoicing.CreateInvoiceRequest{
		TenantID:   f.tenantID,
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
	})
	require.NoError(t, err)

	require.NoError(t, f.invoicing.ApproveInvoice(ctx, invoicing.ApproveInvoiceRequest{
		TenantID:        f.tenantID,
		InvoiceID:       inv.ID(),
		ApprovedBy:      uuid.New(),
		MushakReference: "MUSHAK-6.3-2025-000042",
	}))
	return inv
}

func TestMobileWalletPaymentLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.approvedInvoice(t, 1)

	p, err := f.payments.CreatePayment(ctx, payments.CreatePaymentRequest{
		TenantID:         f.tenantID,
		InvoiceID:        inv.ID(),
		Amount:           "2800.00",
		Currency:         "BDT",
		Method:           "mobile_wallet",
		WalletProvider:   "bKash",
		SubscriberNumber: "01712345678",
	})
	require.NoError(t, err)

	require.NoError(t, f.payments.StartProcessing(ctx, f.tenantID, p.ID()))

	require.NoError(t, f.payments.CompletePayment(ctx, payments.CompletePaymentRequest{
		TenantID:             f.tenantID,
		PaymentID:            p.ID(),
		TransactionReference: "BKA-9F27-2025",
	}))

	// the invoice absorbed the full amount and flipped to PAID
	loaded, err := f.invoices.FindByID(ctx, f.tenantID, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPaid, loaded.Status())
	assert.Equal(t, "2800.00 BDT", loaded.PaidToDate().String())
}

func TestCompletePaymentRejectsOverpayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.approvedInvoice(t, 2)

	makePayment := func(amount string) uuid.UUID {
		p, err := f.payments.CreatePayment(ctx, payments.CreatePaymentRequest{
			TenantID:  f.tenantID,
			InvoiceID: inv.ID(),
			Amount:    amount,
			Currency:  "BDT",
			Method:    "cash",
		})
		require.NoError(t, err)
		return p.ID()
	}

	first := makePayment("2000.00")
	require.NoError(t, f.payments.CompletePayment(ctx, payments.CompletePaymentRequest{
		TenantID: f.tenantID, PaymentID: first, TransactionReference: "CASH-0001",
	}))

	second := makePayment("1000.00")
	err := f.payments.CompletePayment(ctx, payments.CompletePaymentRequest{
		TenantID: f.tenantID, PaymentID: second, TransactionReference: "CASH-0002",
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))

	// the invoice still carries only the first payment
	loaded, err := f.invoices.FindByID(ctx, f.tenantID, inv.ID())
	require.NoError(t, err)
	assert.Equal(t, "2000.00 BDT", loaded.PaidToDate().String())
	assert.Equal(t, invoice.StatusApproved, loaded.Status())
}

func TestCreatePaymentRequiresExistingInvoice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.payments.CreatePayment(ctx, payments.CreatePaymentRequest{
		TenantID:  f.tenantID,
		InvoiceID: uuid.New(),
		Amount:    "100.00",
		Currency:  "BDT",
		Method:    "cash",
	})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestCreatePaymentValidatesMethodDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.approvedInvoice(t, 3)

	// mobile wallet without a subscriber number
	_, err := f.payments.CreatePayment(ctx, payments.CreatePaymentRequest{
		TenantID:       f.tenantID,
		InvoiceID:      inv.ID(),
		Amount:         "100.00",
		Currency:       "BDT",
		Method:         "mobile_wallet",
		WalletProvider: "Nagad",
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	// cash with stray bank details
	_, err = f.payments.CreatePayment(ctx, payments.CreatePaymentRequest{
		TenantID:      f.tenantID,
		InvoiceID:     inv.ID(),
		Amount:        "100.00",
		Currency:      "BDT",
		Method:        "cash",
		BankAccountID: "BDT-001-223344",
	})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestFailAndReversePayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	inv := f.approvedInvoice(t, 4)

	p, err := f.payments.CreatePayment(ctx, payments.CreatePaymentRequest{
		TenantID:  f.tenantID,
		InvoiceID: inv.ID(),
		Amount:    "500.00",
		Currency:  "BDT",
		Method:    "cash",
	})
	require.NoError(t, err)

	require.NoError(t, f.payments.FailPayment(ctx, payments.FailPaymentRequest{
		TenantID:  f.tenantID,
		PaymentID: p.ID(),
		Reason:    "teller rejected the tender",
	}))

	// failed is terminal
	err = f.payments.CompletePayment(ctx, payments.CompletePaymentRequest{
		TenantID: f.tenantID, PaymentID: p.ID(), TransactionReference: "CASH-0003",
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))

	p2, err := f.payments.CreatePayment(ctx, payments.CreatePaymentRequest{
		TenantID:  f.tenantID,
		InvoiceID: inv.ID(),
		Amount:    "500.00",
		Currency:  "BDT",
		Method:    "cash",
	})
	require.NoError(t, err)
	require.NoError(t, f.payments.CompletePayment(ctx, payments.CompletePaymentRequest{
		TenantID: f.tenantID, PaymentID: p2.ID(), TransactionReference: "CASH-0004",
	}))

	require.NoError(t, f.payments.ReversePayment(ctx, payments.ReversePaymentRequest{
		TenantID:  f.tenantID,
		PaymentID: p2.ID(),
		Reason:    "duplicate collection at the counter",
	}))
}
