package invoice

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

var vatRate = decimal.NewFromFloat(0.15)

func newTestInvoice(t *testing.T) *Invoice {
	t.Helper()

	issue := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)
	number, err := values.GenerateInvoiceNumber(issue, 1)
	require.NoError(t, err)

	inv, err := New(uuid.New(), number, uuid.New(), uuid.New(),
		issue, issue.AddDate(0, 1, 0), values.BDT,
		[]LineItemInput{
			{
				Description: "Industrial sewing machine",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   values.MustNewMoney(decimal.NewFromInt(1000), values.BDT),
				TaxCategory: TaxStandard,
			},
			{
				Description: "Delivery charge",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   values.MustNewMoney(decimal.NewFromInt(500), values.BDT),
				TaxCategory: TaxExempt,
			},
		}, vatRate)
	require.NoError(t, err)
	return inv
}

func TestNewInvoiceTotals(t *testing.T) {
	inv := newTestInvoice(t)

	// qty 2 @ 1000 + qty 1 @ 500, 15% VAT on the first line only
	assert.Equal(t, "2500.00 BDT", inv.Subtotal().String())
	assert.Equal(t, "300.00 BDT", inv.Tax().String())
	assert.Equal(t, "2800.00 BDT", inv.GrandTotal().String())
	assert.Equal(t, StatusDraft, inv.Status())
	assert.Len(t, inv.Lines(), 2)
	assert.Equal(t, "2000.00 BDT", inv.Lines()[0].Amount.String())

	require.Len(t, inv.UncommittedEvents(), 1)
	assert.Equal(t, EventTypeCreated, inv.UncommittedEvents()[0].EventType())
}

func TestNewInvoiceValidation(t *testing.T) {
	issue := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)
	number, err := values.GenerateInvoiceNumber(issue, 1)
	require.NoError(t, err)

	line := LineItemInput{
		Description: "Item",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   values.MustNewMoney(decimal.NewFromInt(10), values.BDT),
		TaxCategory: TaxStandard,
	}

	tests := []struct {
		name string
		run  func() error
	}{
		{
			name: "no lines",
			run: func() error {
				_, err := New(uuid.New(), number, uuid.New(), uuid.New(), issue, issue, values.BDT, nil, vatRate)
				return err
			},
		},
		{
			name: "due before issue",
			run: func() error {
				_, err := New(uuid.New(), number, uuid.New(), uuid.New(), issue, issue.AddDate(0, 0, -1), values.BDT,
					[]LineItemInput{line}, vatRate)
				return err
			},
		},
		{
			name: "zero quantity",
			run: func() error {
				bad := line
				bad.Quantity = decimal.Zero
				_, err := New(uuid.New(), number, uuid.New(), uuid.New(), issue, issue, values.BDT,
					[]LineItemInput{bad}, vatRate)
				return err
			},
		},
		{
			name: "currency mismatch on line",
			run: func() error {
				bad := line
				bad.UnitPrice = values.MustNewMoney(decimal.NewFromInt(10), values.USD)
				_, err := New(uuid.New(), number, uuid.New(), uuid.New(), issue, issue, values.BDT,
					[]LineItemInput{bad}, vatRate)
				return err
			},
		},
		{
			name: "nil tenant",
			run: func() error {
				_, err := New(uuid.Nil, number, uuid.New(), uuid.New(), issue, issue, values.BDT,
					[]LineItemInput{line}, vatRate)
				return err
			},
		},
		{
			name: "unsupported currency",
			run: func() error {
				_, err := New(uuid.New(), number, uuid.New(), uuid.New(), issue, issue, "XTZ",
					[]LineItemInput{line}, vatRate)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestApprove(t *testing.T) {
	inv := newTestInvoice(t)
	approver := uuid.New()

	require.NoError(t, inv.Approve(approver, "MUSHAK-6.3-2025-000123"))
	assert.Equal(t, StatusApproved, inv.Status())
	assert.Equal(t, approver, inv.ApprovedBy())
	assert.Equal(t, "MUSHAK-6.3-2025-000123", inv.MushakReference())

	// second approval is an invariant violation, not a validation error
	err := inv.Approve(approver, "MUSHAK-6.3-2025-000124")
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestApproveRequiresMushakReference(t *testing.T) {
	inv := newTestInvoice(t)

	err := inv.Approve(uuid.New(), "   ")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, StatusDraft, inv.Status())
}

func TestRecordPaymentToFullyPaid(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.Approve(uuid.New(), "MUSHAK-6.3-2025-000123"))

	require.NoError(t, inv.RecordPayment(uuid.New(), values.MustNewMoney(decimal.NewFromInt(2800), values.BDT)))

	assert.Equal(t, "2800.00 BDT", inv.PaidToDate().String())
	assert.Equal(t, StatusPaid, inv.Status())

	types := make([]string, 0)
	for _, e := range inv.UncommittedEvents() {
		types = append(types, e.EventType())
	}
	assert.Contains(t, types, EventTypePaymentRecorded)
	assert.Contains(t, types, EventTypeFullyPaid)
}

func TestRecordPartialPayments(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.Approve(uuid.New(), "MUSHAK-6.3-2025-000123"))

	require.NoError(t, inv.RecordPayment(uuid.New(), values.MustNewMoney(decimal.NewFromInt(1000), values.BDT)))
	assert.Equal(t, StatusApproved, inv.Status())
	assert.Equal(t, "1000.00 BDT", inv.PaidToDate().String())

	// overpayment rejected: 1000 + 2000 > 2800
	err := inv.RecordPayment(uuid.New(), values.MustNewMoney(decimal.NewFromInt(2000), values.BDT))
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
	assert.Equal(t, "1000.00 BDT", inv.PaidToDate().String())

	require.NoError(t, inv.RecordPayment(uuid.New(), values.MustNewMoney(decimal.NewFromInt(1800), values.BDT)))
	assert.Equal(t, StatusPaid, inv.Status())
}

func TestRecordPaymentOnDraftFails(t *testing.T) {
	inv := newTestInvoice(t)

	err := inv.RecordPayment(uuid.New(), values.MustNewMoney(decimal.NewFromInt(100), values.BDT))
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestCancel(t *testing.T) {
	inv := newTestInvoice(t)

	// whitespace-only reason is rejected
	err := inv.Cancel("   ", uuid.New())
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.Equal(t, StatusDraft, inv.Status())

	require.NoError(t, inv.Cancel("  customer withdrew the order  ", uuid.New()))
	assert.Equal(t, StatusCancelled, inv.Status())
	assert.Equal(t, "customer withdrew the order", inv.CancelReason())

	// terminal: any further mutation fails
	err = inv.Approve(uuid.New(), "MUSHAK-6.3-2025-000123")
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))

	err = inv.Cancel("again", uuid.New())
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestReplayRoundTrip(t *testing.T) {
	inv := newTestInvoice(t)
	require.NoError(t, inv.Approve(uuid.New(), "MUSHAK-6.3-2025-000123"))
	require.NoError(t, inv.RecordPayment(uuid.New(), values.MustNewMoney(decimal.NewFromInt(2800), values.BDT)))

	replayed, err := Replay(inv.UncommittedEvents())
	require.NoError(t, err)

	assert.Equal(t, inv.ID(), replayed.ID())
	assert.Equal(t, inv.TenantID(), replayed.TenantID())
	assert.Equal(t, inv.Status(), replayed.Status())
	assert.Equal(t, inv.Version(), replayed.Version())
	assert.True(t, inv.GrandTotal().Equal(replayed.GrandTotal()))
	assert.True(t, inv.PaidToDate().Equal(replayed.PaidToDate()))
	assert.Equal(t, inv.Number().String(), replayed.Number().String())
	assert.Len(t, replayed.Lines(), len(inv.Lines()))

	// replay never re-emits
	assert.Empty(t, replayed.UncommittedEvents())
}

func TestReplayEmptyStream(t *testing.T) {
	_, err := Replay(nil)
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
