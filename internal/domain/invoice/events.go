package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// Event type tags (past tense, stable wire names)
const (
	EventTypeCreated         = "invoice.created"
	EventTypeApproved        = "invoice.approved"
	EventTypePaymentRecorded = "invoice.payment_recorded"
	EventTypeFullyPaid       = "invoice.fully_paid"
	EventTypeCancelled       = "invoice.cancelled"
)

// Event is the sealed union of invoice domain events. The unexported marker
// keeps the set closed so apply can switch exhaustively over it.
type Event interface {
	EventType() string
	AggregateID() uuid.UUID
	TenantID() uuid.UUID
	OccurredAt() time.Time
	isInvoiceEvent()
}

// LineItemData is the event-payload shape of an invoice line.
type LineItemData struct {
	LineID      uuid.UUID       `json:"line_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   values.Money    `json:"unit_price"`
	TaxCategory TaxCategory     `json:"tax_category"`
	Amount      values.Money    `json:"amount"`
}

// Created is emitted when a new invoice is created in DRAFT.
type Created struct {
	InvoiceID  uuid.UUID      `json:"invoice_id"`
	Tenant     uuid.UUID      `json:"tenant_id"`
	Number     string         `json:"number"`
	VendorID   uuid.UUID      `json:"vendor_id"`
	CustomerID uuid.UUID      `json:"customer_id"`
	IssueDate  time.Time      `json:"issue_date"`
	DueDate    time.Time      `json:"due_date"`
	Currency   string         `json:"currency"`
	Lines      []LineItemData `json:"lines"`
	Subtotal   values.Money   `json:"subtotal"`
	Tax        values.Money   `json:"tax"`
	GrandTotal values.Money   `json:"grand_total"`
	At         time.Time      `json:"occurred_at"`
}

func (e Created) EventType() string      { return EventTypeCreated }
func (e Created) AggregateID() uuid.UUID { return e.InvoiceID }
func (e Created) TenantID() uuid.UUID    { return e.Tenant }
func (e Created) OccurredAt() time.Time  { return e.At }
func (e Created) isInvoiceEvent()        {}

// Approved is emitted when a DRAFT invoice is approved, recording the
// approver and the Mushak-6.3 challan reference.
type Approved struct {
	InvoiceID       uuid.UUID `json:"invoice_id"`
	Tenant          uuid.UUID `json:"tenant_id"`
	ApprovedBy      uuid.UUID `json:"approved_by"`
	MushakReference string    `json:"mushak_reference"`
	At              time.Time `json:"occurred_at"`
}

func (e Approved) EventType() string      { return EventTypeApproved }
func (e Approved) AggregateID() uuid.UUID { return e.InvoiceID }
func (e Approved) TenantID() uuid.UUID    { return e.Tenant }
func (e Approved) OccurredAt() time.Time  { return e.At }
func (e Approved) isInvoiceEvent()        {}

// PaymentRecorded is emitted each time a payment is applied to the invoice.
type PaymentRecorded struct {
	InvoiceID  uuid.UUID    `json:"invoice_id"`
	Tenant     uuid.UUID    `json:"tenant_id"`
	PaymentID  uuid.UUID    `json:"payment_id"`
	Amount     values.Money `json:"amount"`
	PaidToDate values.Money `json:"paid_to_date"`
	At         time.Time    `json:"occurred_at"`
}

func (e PaymentRecorded) EventType() string      { return EventTypePaymentRecorded }
func (e PaymentRecorded) AggregateID() uuid.UUID { return e.InvoiceID }
func (e PaymentRecorded) TenantID() uuid.UUID    { return e.Tenant }
func (e PaymentRecorded) OccurredAt() time.Time  { return e.At }
func (e PaymentRecorded) isInvoiceEvent()        {}

// FullyPaid is emitted once paid-to-date reaches the grand total.
type FullyPaid struct {
	InvoiceID uuid.UUID `json:"invoice_id"`
	Tenant    uuid.UUID `json:"tenant_id"`
	At        time.Time `json:"occurred_at"`
}

func (e FullyPaid) EventType() string      { return EventTypeFullyPaid }
func (e FullyPaid) AggregateID() uuid.UUID { return e.InvoiceID }
func (e FullyPaid) TenantID() uuid.UUID    { return e.Tenant }
func (e FullyPaid) OccurredAt() time.Time  { return e.At }
func (e FullyPaid) isInvoiceEvent()        {}

// Cancelled is emitted when a DRAFT or APPROVED invoice is cancelled. Terminal.
type Cancelled struct {
	InvoiceID   uuid.UUID `json:"invoice_id"`
	Tenant      uuid.UUID `json:"tenant_id"`
	Reason      string    `json:"reason"`
	CancelledBy uuid.UUID `json:"cancelled_by"`
	At          time.Time `json:"occurred_at"`
}

func (e Cancelled) EventType() string      { return EventTypeCancelled }
func (e Cancelled) AggregateID() uuid.UUID { return e.InvoiceID }
func (e Cancelled) TenantID() uuid.UUID    { return e.Tenant }
func (e Cancelled) OccurredAt() time.Time  { return e.At }
func (e Cancelled) isInvoiceEvent()        {}
