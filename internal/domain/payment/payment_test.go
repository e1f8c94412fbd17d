package payment

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

func amountBDT(t *testing.T, v int64) values.Money {
	t.Helper()
	return values.MustNewMoney(decimal.NewFromInt(v), values.BDT)
}

func newWalletPayment(t *testing.T) *Payment {
	t.Helper()
	p, err := New(uuid.New(), uuid.New(), amountBDT(t, 2800), MethodMobileWallet, MethodDetails{
		WalletProvider:   "bkash",
		SubscriberNumber: "01712345678",
	})
	require.NoError(t, err)
	return p
}

func TestNewPaymentMethodFieldCombinations(t *testing.T) {
	tenant, inv := uuid.New(), uuid.New()

	tests := []struct {
		name    string
		method  Method
		details MethodDetails
		wantErr bool
	}{
		{name: "cash needs nothing", method: MethodCash},
		{name: "card needs nothing", method: MethodCard},
		{name: "bank transfer with account", method: MethodBankTransfer, details: MethodDetails{BankAccountID: "AC-001"}},
		{name: "bank transfer without account", method: MethodBankTransfer, wantErr: true},
		{name: "online banking without account", method: MethodOnlineBanking, wantErr: true},
		{name: "check with number", method: MethodCheck, details: MethodDetails{CheckNumber: "CHK-7781"}},
		{name: "check without number", method: MethodCheck, wantErr: true},
		{
			name:   "wallet with provider and subscriber",
			method: MethodMobileWallet,
			details: MethodDetails{
				WalletProvider:   "nagad",
				SubscriberNumber: "01812345678",
			},
		},
		{name: "wallet without provider", method: MethodMobileWallet, details: MethodDetails{SubscriberNumber: "01812345678"}, wantErr: true},
		{name: "wallet fields on cash payment", method: MethodCash, details: MethodDetails{WalletProvider: "bkash"}, wantErr: true},
		{name: "check number on card payment", method: MethodCard, details: MethodDetails{CheckNumber: "CHK-1"}, wantErr: true},
		{name: "unknown method", method: Method("crypto"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tenant, inv, amountBDT(t, 100), tt.method, tt.details)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidation(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, StatusPending, p.Status())
		})
	}
}

func TestWalletFlowThroughProcessing(t *testing.T) {
	p := newWalletPayment(t)

	require.NoError(t, p.StartProcessing())
	assert.Equal(t, StatusProcessing, p.Status())

	require.NoError(t, p.Complete("TXN-BKASH-99812"))
	assert.Equal(t, StatusCompleted, p.Status())
	assert.Equal(t, "TXN-BKASH-99812", p.TransactionReference())

	require.NoError(t, p.Reconcile("STMT-2025-10-0042", uuid.New()))
	assert.Equal(t, StatusReconciled, p.Status())
	assert.Equal(t, "STMT-2025-10-0042", p.BankStatementTxnID())
}

func TestProcessingOnlyForMobileWallet(t *testing.T) {
	p, err := New(uuid.New(), uuid.New(), amountBDT(t, 100), MethodCash, MethodDetails{})
	require.NoError(t, err)

	err = p.StartProcessing()
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestCompleteValidatesReference(t *testing.T) {
	p := newWalletPayment(t)

	err := p.Complete("abc")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	err = p.Complete(strings.Repeat("x", 256))
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, p.Complete("TXN-12345"))
}

func TestFailRequiresBoundedReason(t *testing.T) {
	p := newWalletPayment(t)

	err := p.Fail("too short")
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))

	require.NoError(t, p.Fail("wallet provider rejected the charge"))
	assert.Equal(t, StatusFailed, p.Status())

	// terminal
	err = p.Complete("TXN-12345")
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestReverseOnlySettledPayments(t *testing.T) {
	p := newWalletPayment(t)

	err := p.Reverse("duplicate payment detected by finance")
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))

	require.NoError(t, p.Complete("TXN-12345"))
	require.NoError(t, p.Reverse("duplicate payment detected by finance"))
	assert.Equal(t, StatusReversed, p.Status())

	// terminal states are immutable
	err = p.Reconcile("STMT-1", uuid.New())
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestPaymentReplayRoundTrip(t *testing.T) {
	p := newWalletPayment(t)
	require.NoError(t, p.StartProcessing())
	require.NoError(t, p.Complete("TXN-BKASH-99812"))
	require.NoError(t, p.Reconcile("STMT-2025-10-0042", uuid.New()))

	replayed, err := Replay(p.UncommittedEvents())
	require.NoError(t, err)

	assert.Equal(t, p.ID(), replayed.ID())
	assert.Equal(t, p.Status(), replayed.Status())
	assert.Equal(t, p.Version(), replayed.Version())
	assert.Equal(t, p.TransactionReference(), replayed.TransactionReference())
	assert.Equal(t, p.BankStatementTxnID(), replayed.BankStatementTxnID())
	assert.True(t, p.Amount().Equal(replayed.Amount()))
	assert.Empty(t, replayed.UncommittedEvents())
}
