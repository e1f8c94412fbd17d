package payment

import (
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// Event type tags (past tense, stable wire names)
const (
	EventTypeCreated           = "payment.created"
	EventTypeProcessingStarted = "payment.processing_started"
	EventTypeCompleted         = "payment.completed"
	EventTypeReconciled        = "payment.reconciled"
	EventTypeFailed            = "payment.failed"
	EventTypeReversed          = "payment.reversed"
)

// Event is the sealed union of payment domain events.
type Event interface {
	EventType() string
	AggregateID() uuid.UUID
	TenantID() uuid.UUID
	OccurredAt() time.Time
	isPaymentEvent()
}

// Created is emitted when a payment is initiated in PENDING.
type Created struct {
	PaymentID uuid.UUID     `json:"payment_id"`
	Tenant    uuid.UUID     `json:"tenant_id"`
	InvoiceID uuid.UUID     `json:"invoice_id"`
	Amount    values.Money  `json:"amount"`
	Method    Method        `json:"method"`
	Details   MethodDetails `json:"details"`
	At        time.Time     `json:"occurred_at"`
}

func (e Created) EventType() string      { return EventTypeCreated }
func (e Created) AggregateID() uuid.UUID { return e.PaymentID }
func (e Created) TenantID() uuid.UUID    { return e.Tenant }
func (e Created) OccurredAt() time.Time  { return e.At }
func (e Created) isPaymentEvent()        {}

// ProcessingStarted is emitted when a mobile-wallet payment enters PROCESSING.
type ProcessingStarted struct {
	PaymentID uuid.UUID `json:"payment_id"`
	Tenant    uuid.UUID `json:"tenant_id"`
	At        time.Time `json:"occurred_at"`
}

func (e ProcessingStarted) EventType() string      { return EventTypeProcessingStarted }
func (e ProcessingStarted) AggregateID() uuid.UUID { return e.PaymentID }
func (e ProcessingStarted) TenantID() uuid.UUID    { return e.Tenant }
func (e ProcessingStarted) OccurredAt() time.Time  { return e.At }
func (e ProcessingStarted) isPaymentEvent()        {}

// Completed is emitted when the payment settles with a transaction reference.
type Completed struct {
	PaymentID            uuid.UUID `json:"payment_id"`
	Tenant               uuid.UUID `json:"tenant_id"`
	InvoiceID            uuid.UUID `json:"invoice_id"`
	TransactionReference string    `json:"transaction_reference"`
	At                   time.Time `json:"occurred_at"`
}

func (e Completed) EventType() string      { return EventTypeCompleted }
func (e Completed) AggregateID() uuid.UUID { return e.PaymentID }
func (e Completed) TenantID() uuid.UUID    { return e.Tenant }
func (e Completed) OccurredAt() time.Time  { return e.At }
func (e Completed) isPaymentEvent()        {}

// Reconciled is emitted when the payment is matched to a bank statement line.
type Reconciled struct {
	PaymentID          uuid.UUID `json:"payment_id"`
	Tenant             uuid.UUID `json:"tenant_id"`
	BankStatementTxnID string    `json:"bank_statement_txn_id"`
	ReconciledBy       uuid.UUID `json:"reconciled_by"`
	At                 time.Time `json:"occurred_at"`
}

func (e Reconciled) EventType() string      { return EventTypeReconciled }
func (e Reconciled) AggregateID() uuid.UUID { return e.PaymentID }
func (e Reconciled) TenantID() uuid.UUID    { return e.Tenant }
func (e Reconciled) OccurredAt() time.Time  { return e.At }
func (e Reconciled) isPaymentEvent()        {}

// Failed is emitted when a pending or processing payment fails. Terminal.
type Failed struct {
	PaymentID uuid.UUID `json:"payment_id"`
	Tenant    uuid.UUID `json:"tenant_id"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"occurred_at"`
}

func (e Failed) EventType() string      { return EventTypeFailed }
func (e Failed) AggregateID() uuid.UUID { return e.PaymentID }
func (e Failed) TenantID() uuid.UUID    { return e.Tenant }
func (e Failed) OccurredAt() time.Time  { return e.At }
func (e Failed) isPaymentEvent()        {}

// Reversed is emitted when a settled payment is reversed. Terminal.
type Reversed struct {
	PaymentID uuid.UUID `json:"payment_id"`
	Tenant    uuid.UUID `json:"tenant_id"`
	InvoiceID uuid.UUID `json:"invoice_id"`
	Reason    string    `json:"reason"`
	At        time.Time `json:"occurred_at"`
}

func (e Reversed) EventType() string      { return EventTypeReversed }
func (e Reversed) AggregateID() uuid.UUID { return e.PaymentID }
func (e Reversed) TenantID() uuid.UUID    { return e.Tenant }
func (e Reversed) OccurredAt() time.Time  { return e.At }
func (e Reversed) isPaymentEvent()        {}
