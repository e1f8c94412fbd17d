package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// Status represents the payment lifecycle state
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusReconciled Status = "reconciled"
	StatusFailed     Status = "failed"
	StatusReversed   Status = "reversed"
)

func (s Status) String() string {
	return string(s)
}

// Method enumerates the supported payment methods
type Method string

const (
	MethodCash          Method = "cash"
	MethodBankTransfer  Method = "bank_transfer"
	MethodCheck         Method = "check"
	MethodMobileWallet  Method = "mobile_wallet"
	MethodCard          Method = "card"
	MethodOnlineBanking Method = "online_banking"
)

func (m Method) String() string {
	return string(m)
}

// ParseMethod parses a string tag into a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCash, MethodBankTransfer, MethodCheck, MethodMobileWallet, MethodCard, MethodOnlineBanking:
		return Method(s), nil
	default:
		return "", errors.NewValidationError("INVALID_METHOD", fmt.Sprintf("invalid payment method: %s", s))
	}
}

// MethodDetails carries the method-specific optional fields on the single
// payment shape. The factory validates which combinations are legal for the
// chosen method.
type MethodDetails struct {
	BankAccountID    string `json:"bank_account_id,omitempty"`
	CheckNumber      string `json:"check_number,omitempty"`
	WalletProvider   string `json:"wallet_provider,omitempty"`
	SubscriberNumber string `json:"subscriber_number,omitempty"`
	ProviderTxnID    string `json:"provider_txn_id,omitempty"`
}

// Reason length bounds shared by Fail and Reverse.
const (
	minReasonLen = 10
	maxReasonLen = 500
)

// Transaction reference bounds for Complete.
const (
	minTxnRefLen = 5
	maxTxnRefLen = 255
)

// Payment is the aggregate root for invoice payments. The invoice is
// referenced by id only; applying the payment to the invoice's paid-to-date
// is a separate aggregate save.
type Payment struct {
	id        uuid.UUID
	tenantID  uuid.UUID
	invoiceID uuid.UUID
	amount    values.Money
	method    Method
	details   MethodDetails
	status    Status

	transactionReference string
	bankStatementTxnID   string
	reconciledBy         uuid.UUID
	reconciledAt         time.Time
	failureReason        string
	reversalReason       string

	version     int
	uncommitted []Event
}

// New creates a payment in PENDING, validating the method-specific field
// combination so illegal combinations fail at construction.
func New(tenantID, invoiceID uuid.UUID, amount values.Money, method Method, details MethodDetails) (*Payment, error) {
	if tenantID == uuid.Nil {
		return nil, errors.NewValidationError("INVALID_TENANT", "tenant ID is required")
	}
	if invoiceID == uuid.Nil {
		return nil, errors.NewValidationError("INVALID_INVOICE", "invoice ID is required")
	}
	if !amount.IsPositive() {
		return nil, errors.NewValidationError("INVALID_AMOUNT", "payment amount must be positive")
	}
	if _, err := ParseMethod(method.String()); err != nil {
		return nil, err
	}
	if err := validateDetails(method, details); err != nil {
		return nil, err
	}

	p := &Payment{}
	p.raise(Created{
		PaymentID: uuid.New(),
		Tenant:    tenantID,
		InvoiceID: invoiceID,
		Amount:    amount,
		Method:    method,
		Details:   details,
		At:        time.Now().UTC(),
	})
	return p, nil
}

// Replay reconstructs a payment from its full ordered event stream.
func Replay(events []Event) (*Payment, error) {
	if len(events) == 0 {
		return nil, errors.NewNotFoundError("payment")
	}

	p := &Payment{}
	for _, e := range events {
		if err := p.apply(e); err != nil {
			return nil, err
		}
		p.version++
	}
	return p, nil
}

// StartProcessing moves a PENDING mobile-wallet payment to PROCESSING.
// Other methods settle directly from PENDING.
func (p *Payment) StartProcessing() error {
	if p.status != StatusPending {
		return errors.NewInvariantViolation("NOT_PENDING", "Only PENDING payments can start processing")
	}
	if p.method != MethodMobileWallet {
		return errors.NewInvariantViolation("NOT_MOBILE_WALLET", "Only mobile wallet payments go through PROCESSING")
	}

	p.raise(ProcessingStarted{
		PaymentID: p.id,
		Tenant:    p.tenantID,
		At:        time.Now().UTC(),
	})
	return nil
}

// Complete settles the payment with a transaction reference (5-255 chars).
func (p *Payment) Complete(transactionReference string) error {
	if p.status != StatusPending && p.status != StatusProcessing {
		return errors.NewInvariantViolation("NOT_SETTLEABLE",
			fmt.Sprintf("Only PENDING or PROCESSING payments can be completed, payment is %s", p.status))
	}
	ref := strings.TrimSpace(transactionReference)
	if len(ref) < minTxnRefLen || len(ref) > maxTxnRefLen {
		return errors.NewValidationError("INVALID_TXN_REFERENCE",
			fmt.Sprintf("transaction reference must be %d-%d characters", minTxnRefLen, maxTxnRefLen))
	}

	p.raise(Completed{
		PaymentID:            p.id,
		Tenant:               p.tenantID,
		InvoiceID:            p.invoiceID,
		TransactionReference: ref,
		At:                   time.Now().UTC(),
	})
	return nil
}

// Reconcile matches a COMPLETED payment to a bank statement transaction.
func (p *Payment) Reconcile(bankStatementTxnID string, reconciledBy uuid.UUID) error {
	if p.status != StatusCompleted {
		return errors.NewInvariantViolation("NOT_COMPLETED", "Only COMPLETED payments can be reconciled")
	}
	if strings.TrimSpace(bankStatementTxnID) == "" {
		return errors.NewValidationError("EMPTY_STATEMENT_TXN", "bank statement transaction id is required")
	}

	p.raise(Reconciled{
		PaymentID:          p.id,
		Tenant:             p.tenantID,
		BankStatementTxnID: strings.TrimSpace(bankStatementTxnID),
		ReconciledBy:       reconciledBy,
		At:                 time.Now().UTC(),
	})
	return nil
}

// Fail marks a PENDING or PROCESSING payment as failed. Terminal.
func (p *Payment) Fail(reason string) error {
	if p.status != StatusPending && p.status != StatusProcessing {
		return errors.NewInvariantViolation("NOT_FAILABLE",
			fmt.Sprintf("Only PENDING or PROCESSING payments can fail, payment is %s", p.status))
	}
	if err := validateReason(reason); err != nil {
		return err
	}

	p.raise(Failed{
		PaymentID: p.id,
		Tenant:    p.tenantID,
		Reason:    strings.TrimSpace(reason),
		At:        time.Now().UTC(),
	})
	return nil
}

// Reverse undoes a COMPLETED or RECONCILED payment. Terminal.
func (p *Payment) Reverse(reason string) error {
	if p.status != StatusCompleted && p.status != StatusReconciled {
		return errors.NewInvariantViolation("NOT_REVERSIBLE",
			fmt.Sprintf("Only COMPLETED or RECONCILED payments can be reversed, payment is %s", p.status))
	}
	if err := validateReason(reason); err != nil {
		return err
	}

	p.raise(Reversed{
		PaymentID: p.id,
		Tenant:    p.tenantID,
		InvoiceID: p.invoiceID,
		Reason:    strings.TrimSpace(reason),
		At:        time.Now().UTC(),
	})
	return nil
}

func (p *Payment) raise(e Event) {
	if err := p.apply(e); err != nil {
		panic(err)
	}
	p.version++
	p.uncommitted = append(p.uncommitted, e)
}

func (p *Payment) apply(event Event) error {
	switch e := event.(type) {
	case Created:
		p.id = e.PaymentID
		p.tenantID = e.Tenant
		p.invoiceID = e.InvoiceID
		p.amount = e.Amount
		p.method = e.Method
		p.details = e.Details
		p.status = StatusPending

	case ProcessingStarted:
		p.status = StatusProcessing

	case Completed:
		p.status = StatusCompleted
		p.transactionReference = e.TransactionReference

	case Reconciled:
		p.status = StatusReconciled
		p.bankStatementTxnID = e.BankStatementTxnID
		p.reconciledBy = e.ReconciledBy
		p.reconciledAt = e.At

	case Failed:
		p.status = StatusFailed
		p.failureReason = e.Reason

	case Reversed:
		p.status = StatusReversed
		p.reversalReason = e.Reason

	default:
		return errors.NewInternalError(fmt.Sprintf("unknown payment event type %T", event))
	}
	return nil
}

// UncommittedEvents returns events emitted since the last save.
func (p *Payment) UncommittedEvents() []Event {
	return p.uncommitted
}

// ClearUncommitted empties the event buffer after a successful save.
func (p *Payment) ClearUncommitted() {
	p.uncommitted = nil
}

// Version is the count of events applied to this instance.
func (p *Payment) Version() int { return p.version }

// Accessors

func (p *Payment) ID() uuid.UUID                { return p.id }
func (p *Payment) TenantID() uuid.UUID          { return p.tenantID }
func (p *Payment) InvoiceID() uuid.UUID         { return p.invoiceID }
func (p *Payment) Amount() values.Money         { return p.amount }
func (p *Payment) Method() Method               { return p.method }
func (p *Payment) Details() MethodDetails       { return p.details }
func (p *Payment) Status() Status               { return p.status }
func (p *Payment) TransactionReference() string { return p.transactionReference }
func (p *Payment) BankStatementTxnID() string   { return p.bankStatementTxnID }
func (p *Payment) ReconciledBy() uuid.UUID      { return p.reconciledBy }
func (p *Payment) FailureReason() string        { return p.failureReason }
func (p *Payment) ReversalReason() string       { return p.reversalReason }

func validateDetails(method Method, d MethodDetails) error {
	switch method {
	case MethodMobileWallet:
		if strings.TrimSpace(d.WalletProvider) == "" {
			return errors.NewValidationError("MISSING_WALLET_PROVIDER", "mobile wallet payments require a wallet provider")
		}
		if strings.TrimSpace(d.SubscriberNumber) == "" {
			return errors.NewValidationError("MISSING_SUBSCRIBER_NUMBER", "mobile wallet payments require a subscriber number")
		}
	case MethodBankTransfer, MethodOnlineBanking:
		if strings.TrimSpace(d.BankAccountID) == "" {
			return errors.NewValidationError("MISSING_BANK_ACCOUNT", fmt.Sprintf("%s payments require a bank account id", method))
		}
	case MethodCheck:
		if strings.TrimSpace(d.CheckNumber) == "" {
			return errors.NewValidationError("MISSING_CHECK_NUMBER", "check payments require a check number")
		}
	case MethodCash, MethodCard:
		// no method-specific fields
	}

	if method != MethodMobileWallet && (d.WalletProvider != "" || d.SubscriberNumber != "" || d.ProviderTxnID != "") {
		return errors.NewValidationError("UNEXPECTED_WALLET_FIELDS",
			fmt.Sprintf("wallet fields are not valid for %s payments", method))
	}
	if method != MethodCheck && d.CheckNumber != "" {
		return errors.NewValidationError("UNEXPECTED_CHECK_NUMBER",
			fmt.Sprintf("check number is not valid for %s payments", method))
	}
	return nil
}

func validateReason(reason string) error {
	trimmed := strings.TrimSpace(reason)
	if len(trimmed) < minReasonLen || len(trimmed) > maxReasonLen {
		return errors.NewValidationError("INVALID_REASON",
			fmt.Sprintf("reason must be %d-%d characters", minReasonLen, maxReasonLen))
	}
	return nil
}
