package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// Status represents the invoice lifecycle state
type Status string

const (
	StatusDraft     Status = "draft"
	StatusApproved  Status = "approved"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// TaxCategory classifies a line for VAT purposes
type TaxCategory string

const (
	TaxStandard  TaxCategory = "standard"
	TaxZeroRated TaxCategory = "zero_rated"
	TaxExempt    TaxCategory = "exempt"
)

// LineItem is an invoice line owned exclusively by its invoice.
type LineItem struct {
	ID          uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   values.Money
	TaxCategory TaxCategory
	Amount      values.Money
}

// LineItemInput is the raw shape accepted by the factory.
type LineItemInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   values.Money
	TaxCategory TaxCategory
}

// Invoice is the aggregate root for customer invoices. State changes only
// through business methods that emit events; current state is always
// reproducible by replaying the event stream.
type Invoice struct {
	id         uuid.UUID
	tenantID   uuid.UUID
	number     values.InvoiceNumber
	status     Status
	vendorID   uuid.UUID
	customerID uuid.UUID
	issueDate  time.Time
	dueDate    time.Time
	currency   string
	lines      []LineItem
	subtotal   values.Money
	tax        values.Money
	grandTotal values.Money
	paidToDate values.Money

	approvedBy      uuid.UUID
	approvedAt      time.Time
	mushakReference string
	cancelReason    string

	version     int
	uncommitted []Event
}

// New creates an invoice in DRAFT, computing line amounts and totals and
// emitting the creation event. vatRate is the jurisdiction's standard VAT
// rate (e.g. 0.15) applied to standard-rated lines.
func New(tenantID uuid.UUID, number values.InvoiceNumber, vendorID, customerID uuid.UUID,
	issueDate, dueDate time.Time, currency string, inputs []LineItemInput, vatRate decimal.Decimal) (*Invoice, error) {

	if tenantID == uuid.Nil {
		return nil, errors.NewValidationError("INVALID_TENANT", "tenant ID is required")
	}
	if number.IsZero() {
		return nil, errors.NewValidationError("INVALID_NUMBER", "invoice number is required")
	}
	if customerID == uuid.Nil {
		return nil, errors.NewValidationError("INVALID_CUSTOMER", "customer ID is required")
	}
	if len(inputs) == 0 {
		return nil, errors.NewValidationError("NO_LINE_ITEMS", "at least one line item is required")
	}
	if dueDate.Before(issueDate) {
		return nil, errors.NewValidationError("INVALID_DUE_DATE", "Due date cannot be before invoice date")
	}
	if vatRate.IsNegative() {
		return nil, errors.NewValidationError("INVALID_VAT_RATE", "VAT rate cannot be negative")
	}
	if err := values.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	subtotal := values.ZeroMoney(currency)
	tax := values.ZeroMoney(currency)
	lineData := make([]LineItemData, 0, len(inputs))

	for i, in := range inputs {
		if strings.TrimSpace(in.Description) == "" {
			return nil, errors.NewValidationError("EMPTY_DESCRIPTION", fmt.Sprintf("line %d has no description", i+1))
		}
		if !in.Quantity.IsPositive() {
			return nil, errors.NewValidationError("INVALID_QUANTITY", fmt.Sprintf("line %d quantity must be positive", i+1))
		}
		if in.UnitPrice.Currency() != strings.ToUpper(currency) {
			return nil, errors.NewValidationError("CURRENCY_MISMATCH",
				fmt.Sprintf("line %d unit price is %s, invoice is %s", i+1, in.UnitPrice.Currency(), currency))
		}
		switch in.TaxCategory {
		case TaxStandard, TaxZeroRated, TaxExempt:
		default:
			return nil, errors.NewValidationError("INVALID_TAX_CATEGORY", fmt.Sprintf("line %d has unknown tax category %q", i+1, in.TaxCategory))
		}

		amount := in.UnitPrice.Mul(in.Quantity)

		var err error
		subtotal, err = subtotal.Add(amount)
		if err != nil {
			return nil, err
		}
		if in.TaxCategory == TaxStandard {
			tax, err = tax.Add(amount.Mul(vatRate))
			if err != nil {
				return nil, err
			}
		}

		lineData = append(lineData, LineItemData{
			LineID:      uuid.New(),
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxCategory: in.TaxCategory,
			Amount:      amount,
		})
	}

	grandTotal, err := subtotal.Add(tax)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{}
	inv.raise(Created{
		InvoiceID:  uuid.New(),
		Tenant:     tenantID,
		Number:     number.String(),
		VendorID:   vendorID,
		CustomerID: customerID,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Currency:   strings.ToUpper(currency),
		Lines:      lineData,
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: grandTotal,
		At:         time.Now().UTC(),
	})

	return inv, nil
}

// Replay reconstructs an invoice from its full ordered event stream. Replay
// never re-emits events.
func Replay(events []Event) (*Invoice, error) {
	if len(events) == 0 {
		return nil, errors.NewNotFoundError("invoice")
	}

	inv := &Invoice{}
	for _, e := range events {
		if err := inv.apply(e); err != nil {
			return nil, err
		}
		inv.version++
	}
	return inv, nil
}

// Approve moves a DRAFT invoice to APPROVED, recording the approver and the
// Mushak-6.3 document reference.
func (inv *Invoice) Approve(approvedBy uuid.UUID, mushakReference string) error {
	if inv.status != StatusDraft {
		return errors.NewInvariantViolation("NOT_DRAFT", "Only DRAFT invoices can be approved")
	}
	if len(inv.lines) == 0 {
		return errors.NewInvariantViolation("NO_LINE_ITEMS", "invoice must have at least one line item to be approved")
	}
	if approvedBy == uuid.Nil {
		return errors.NewValidationError("INVALID_APPROVER", "approver ID is required")
	}
	if strings.TrimSpace(mushakReference) == "" {
		return errors.NewValidationError("EMPTY_MUSHAK_REFERENCE", "Mushak-6.3 reference is required")
	}

	inv.raise(Approved{
		InvoiceID:       inv.id,
		Tenant:          inv.tenantID,
		ApprovedBy:      approvedBy,
		MushakReference: strings.TrimSpace(mushakReference),
		At:              time.Now().UTC(),
	})
	return nil
}

// RecordPayment applies a payment amount to the invoice. When paid-to-date
// reaches the grand total the invoice transitions to PAID and a distinct
// fully-paid event is emitted.
func (inv *Invoice) RecordPayment(paymentID uuid.UUID, amount values.Money) error {
	if inv.status != StatusApproved {
		return errors.NewInvariantViolation("NOT_APPROVED", "Only APPROVED invoices can receive payments")
	}
	if paymentID == uuid.Nil {
		return errors.NewValidationError("INVALID_PAYMENT", "payment ID is required")
	}
	if !amount.IsPositive() {
		return errors.NewValidationError("INVALID_AMOUNT", "payment amount must be positive")
	}

	newPaid, err := inv.paidToDate.Add(amount)
	if err != nil {
		return err
	}
	over, err := newPaid.GreaterThan(inv.grandTotal)
	if err != nil {
		return err
	}
	if over {
		return errors.NewInvariantViolation("OVERPAYMENT",
			fmt.Sprintf("payment of %s would exceed invoice total %s (paid to date %s)",
				amount, inv.grandTotal, inv.paidToDate))
	}

	now := time.Now().UTC()
	inv.raise(PaymentRecorded{
		InvoiceID:  inv.id,
		Tenant:     inv.tenantID,
		PaymentID:  paymentID,
		Amount:     amount,
		PaidToDate: newPaid,
		At:         now,
	})

	if newPaid.Equal(inv.grandTotal) {
		inv.raise(FullyPaid{
			InvoiceID: inv.id,
			Tenant:    inv.tenantID,
			At:        now,
		})
	}
	return nil
}

// Cancel moves a DRAFT or APPROVED invoice to CANCELLED. Terminal; the reason
// is trimmed and must be non-blank.
func (inv *Invoice) Cancel(reason string, cancelledBy uuid.UUID) error {
	if inv.status != StatusDraft && inv.status != StatusApproved {
		return errors.NewInvariantViolation("NOT_CANCELLABLE",
			fmt.Sprintf("Only DRAFT or APPROVED invoices can be cancelled, invoice is %s", inv.status))
	}
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return errors.NewValidationError("EMPTY_REASON", "cancellation reason cannot be blank")
	}

	inv.raise(Cancelled{
		InvoiceID:   inv.id,
		Tenant:      inv.tenantID,
		Reason:      trimmed,
		CancelledBy: cancelledBy,
		At:          time.Now().UTC(),
	})
	return nil
}

// raise applies an event to current state and buffers it for persistence.
func (inv *Invoice) raise(e Event) {
	if err := inv.apply(e); err != nil {
		// apply only fails on unknown event types, which raise never produces
		panic(err)
	}
	inv.version++
	inv.uncommitted = append(inv.uncommitted, e)
}

// apply is the single state-transition table over the sealed event union.
func (inv *Invoice) apply(event Event) error {
	switch e := event.(type) {
	case Created:
		inv.id = e.InvoiceID
		inv.tenantID = e.Tenant
		number, err := values.ParseInvoiceNumber(e.Number)
		if err != nil {
			return err
		}
		inv.number = number
		inv.status = StatusDraft
		inv.vendorID = e.VendorID
		inv.customerID = e.CustomerID
		inv.issueDate = e.IssueDate
		inv.dueDate = e.DueDate
		inv.currency = e.Currency
		inv.lines = make([]LineItem, len(e.Lines))
		for i, l := range e.Lines {
			inv.lines[i] = LineItem{
				ID:          l.LineID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				TaxCategory: l.TaxCategory,
				Amount:      l.Amount,
			}
		}
		inv.subtotal = e.Subtotal
		inv.tax = e.Tax
		inv.grandTotal = e.GrandTotal
		inv.paidToDate = values.ZeroMoney(e.Currency)

	case Approved:
		inv.status = StatusApproved
		inv.approvedBy = e.ApprovedBy
		inv.approvedAt = e.At
		inv.mushakReference = e.MushakReference

	case PaymentRecorded:
		inv.paidToDate = e.PaidToDate

	case FullyPaid:
		inv.status = StatusPaid

	case Cancelled:
		inv.status = StatusCancelled
		inv.cancelReason = e.Reason

	default:
		return errors.NewInternalError(fmt.Sprintf("unknown invoice event type %T", event))
	}
	return nil
}

// UncommittedEvents returns events emitted since the last save.
func (inv *Invoice) UncommittedEvents() []Event {
	return inv.uncommitted
}

// ClearUncommitted empties the event buffer after a successful save.
func (inv *Invoice) ClearUncommitted() {
	inv.uncommitted = nil
}

// Version is the count of events applied to this instance.
func (inv *Invoice) Version() int { return inv.version }

// Accessors

func (inv *Invoice) ID() uuid.UUID                { return inv.id }
func (inv *Invoice) TenantID() uuid.UUID          { return inv.tenantID }
func (inv *Invoice) Number() values.InvoiceNumber { return inv.number }
func (inv *Invoice) Status() Status               { return inv.status }
func (inv *Invoice) VendorID() uuid.UUID          { return inv.vendorID }
func (inv *Invoice) CustomerID() uuid.UUID        { return inv.customerID }
func (inv *Invoice) IssueDate() time.Time         { return inv.issueDate }
func (inv *Invoice) DueDate() time.Time           { return inv.dueDate }
func (inv *Invoice) Currency() string             { return inv.currency }
func (inv *Invoice) Subtotal() values.Money       { return inv.subtotal }
func (inv *Invoice) Tax() values.Money            { return inv.tax }
func (inv *Invoice) GrandTotal() values.Money     { return inv.grandTotal }
func (inv *Invoice) PaidToDate() values.Money     { return inv.paidToDate }
func (inv *Invoice) ApprovedBy() uuid.UUID        { return inv.approvedBy }
func (inv *Invoice) MushakReference() string      { return inv.mushakReference }
func (inv *Invoice) CancelReason() string         { return inv.cancelReason }

// Lines returns a copy of the invoice lines; callers cannot mutate the
// aggregate's children.
func (inv *Invoice) Lines() []LineItem {
	out := make([]LineItem, len(inv.lines))
	copy(out, inv.lines)
	return out
}
