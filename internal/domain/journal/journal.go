package journal

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// Status represents the journal entry lifecycle state
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPosted    Status = "posted"
	StatusReversed  Status = "reversed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

// Type enumerates the nine journal kinds
type Type string

const (
	TypeGeneral     Type = "general"
	TypeSales       Type = "sales"
	TypePurchase    Type = "purchase"
	TypeCashReceipt Type = "cash_receipt"
	TypeCashPayment Type = "cash_payment"
	TypePayroll     Type = "payroll"
	TypeAdjusting   Type = "adjusting"
	TypeClosing     Type = "closing"
	TypeOpening     Type = "opening"
)

func (t Type) String() string {
	return string(t)
}

// ParseType parses a string tag into a journal Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeGeneral, TypeSales, TypePurchase, TypeCashReceipt, TypeCashPayment,
		TypePayroll, TypeAdjusting, TypeClosing, TypeOpening:
		return Type(s), nil
	default:
		return "", errors.NewValidationError("INVALID_JOURNAL_TYPE", fmt.Sprintf("invalid journal type: %s", s))
	}
}

// Line is a journal line owned exclusively by its entry. Exactly one of
// Debit/Credit carries a positive amount; the account is referenced by id.
type Line struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	Debit      values.Money
	Credit     values.Money
	CostCenter string
	ProjectID  string
	TaxCode    string
}

// LineInput is the raw line shape accepted by the factory and ReplaceLines.
type LineInput struct {
	AccountID  uuid.UUID
	Debit      values.Money
	Credit     values.Money
	CostCenter string
	ProjectID  string
	TaxCode    string
}

// Entry is the aggregate root for journal entries. The balance invariant is
// checked before any event is emitted; an unbalanced entry is never persisted.
type Entry struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	number       values.JournalNumber
	entryDate    time.Time
	entryType    Type
	description  string
	currency     string
	lines        []Line
	fiscalPeriod values.FiscalPeriod
	status       Status

	postedBy         uuid.UUID
	postedAt         time.Time
	reversingEntryID uuid.UUID
	cancelReason     string

	version     int
	uncommitted []Event
}

// New creates a balanced journal entry in DRAFT. The fiscal period is derived
// deterministically from the entry date.
func New(tenantID uuid.UUID, number values.JournalNumber, entryDate time.Time, entryType Type,
	description string, inputs []LineInput) (*Entry, error) {

	if tenantID == uuid.Nil {
		return nil, errors.NewValidationError("INVALID_TENANT", "tenant ID is required")
	}
	if number.IsZero() {
		return nil, errors.NewValidationError("INVALID_NUMBER", "journal number is required")
	}
	if entryDate.IsZero() {
		return nil, errors.NewValidationError("INVALID_DATE", "entry date is required")
	}
	if _, err := ParseType(entryType.String()); err != nil {
		return nil, err
	}

	currency, lineData, err := validateLines(inputs)
	if err != nil {
		return nil, err
	}

	e := &Entry{}
	e.raise(Created{
		EntryID:      uuid.New(),
		Tenant:       tenantID,
		Number:       number.String(),
		EntryDate:    entryDate,
		Type:         entryType,
		Description:  strings.TrimSpace(description),
		Currency:     currency,
		Lines:        lineData,
		FiscalPeriod: values.FiscalPeriodOf(entryDate).String(),
		At:           time.Now().UTC(),
	})
	return e, nil
}

// Replay reconstructs an entry from its full ordered event stream.
func Replay(events []Event) (*Entry, error) {
	if len(events) == 0 {
		return nil, errors.NewNotFoundError("journal entry")
	}

	e := &Entry{}
	for _, ev := range events {
		if err := e.apply(ev); err != nil {
			return nil, err
		}
		e.version++
	}
	return e, nil
}

// ReplaceLines swaps the line set of a DRAFT entry wholesale. The replacement
// is re-validated against the balance invariant before any event is emitted.
func (e *Entry) ReplaceLines(inputs []LineInput) error {
	if e.status != StatusDraft {
		return errors.NewInvariantViolation("NOT_DRAFT", "Only DRAFT journal entries can be edited")
	}

	currency, lineData, err := validateLines(inputs)
	if err != nil {
		return err
	}
	if currency != e.currency {
		return errors.NewValidationError("CURRENCY_MISMATCH",
			fmt.Sprintf("replacement lines are %s, entry is %s", currency, e.currency))
	}

	e.raise(LinesReplaced{
		EntryID: e.id,
		Tenant:  e.tenantID,
		Lines:   lineData,
		At:      time.Now().UTC(),
	})
	return nil
}

// Post makes a DRAFT entry immutable, recording poster and timestamp.
func (e *Entry) Post(postedBy uuid.UUID) error {
	if e.status != StatusDraft {
		return errors.NewInvariantViolation("NOT_DRAFT", "Only DRAFT journal entries can be posted")
	}
	if postedBy == uuid.Nil {
		return errors.NewValidationError("INVALID_POSTER", "poster ID is required")
	}

	e.raise(Posted{
		EntryID:      e.id,
		Tenant:       e.tenantID,
		PostedBy:     postedBy,
		FiscalPeriod: e.fiscalPeriod.String(),
		Lines:        linesToData(e.lines),
		At:           time.Now().UTC(),
	})
	return nil
}

// MarkReversed links a POSTED entry to its reversing entry. The original is
// otherwise untouched; creating the reversing entry is the caller's job.
func (e *Entry) MarkReversed(reversingEntryID uuid.UUID, reason string) error {
	if e.status != StatusPosted {
		return errors.NewInvariantViolation("NOT_POSTED", "Only POSTED journal entries can be reversed")
	}
	if reversingEntryID == uuid.Nil {
		return errors.NewValidationError("INVALID_REVERSING_ENTRY", "reversing entry ID is required")
	}
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return errors.NewValidationError("EMPTY_REASON", "reversal reason cannot be blank")
	}

	e.raise(Reversed{
		EntryID:          e.id,
		Tenant:           e.tenantID,
		ReversingEntryID: reversingEntryID,
		Reason:           trimmed,
		At:               time.Now().UTC(),
	})
	return nil
}

// ReversingLines derives the line set of the entry that undoes this one:
// every debit becomes a credit of the same amount and vice versa.
func (e *Entry) ReversingLines() []LineInput {
	out := make([]LineInput, len(e.lines))
	for i, l := range e.lines {
		out[i] = LineInput{
			AccountID:  l.AccountID,
			Debit:      l.Credit,
			Credit:     l.Debit,
			CostCenter: l.CostCenter,
			ProjectID:  l.ProjectID,
			TaxCode:    l.TaxCode,
		}
	}
	return out
}

// Cancel discards a DRAFT entry. Terminal.
func (e *Entry) Cancel(reason string) error {
	if e.status != StatusDraft {
		return errors.NewInvariantViolation("NOT_DRAFT", "Only DRAFT journal entries can be cancelled")
	}
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return errors.NewValidationError("EMPTY_REASON", "cancellation reason cannot be blank")
	}

	e.raise(Cancelled{
		EntryID: e.id,
		Tenant:  e.tenantID,
		Reason:  trimmed,
		At:      time.Now().UTC(),
	})
	return nil
}

func (e *Entry) raise(ev Event) {
	if err := e.apply(ev); err != nil {
		panic(err)
	}
	e.version++
	e.uncommitted = append(e.uncommitted, ev)
}

func (e *Entry) apply(event Event) error {
	switch ev := event.(type) {
	case Created:
		e.id = ev.EntryID
		e.tenantID = ev.Tenant
		number, err := values.ParseJournalNumber(ev.Number)
		if err != nil {
			return err
		}
		e.number = number
		e.entryDate = ev.EntryDate
		e.entryType = ev.Type
		e.description = ev.Description
		e.currency = ev.Currency
		e.lines = dataToLines(ev.Lines)
		e.fiscalPeriod = values.FiscalPeriodOf(ev.EntryDate)
		e.status = StatusDraft

	case LinesReplaced:
		e.lines = dataToLines(ev.Lines)

	case Posted:
		e.status = StatusPosted
		e.postedBy = ev.PostedBy
		e.postedAt = ev.At

	case Reversed:
		e.status = StatusReversed
		e.reversingEntryID = ev.ReversingEntryID

	case Cancelled:
		e.status = StatusCancelled
		e.cancelReason = ev.Reason

	default:
		return errors.NewInternalError(fmt.Sprintf("unknown journal event type %T", event))
	}
	return nil
}

// UncommittedEvents returns events emitted since the last save.
func (e *Entry) UncommittedEvents() []Event {
	return e.uncommitted
}

// ClearUncommitted empties the event buffer after a successful save.
func (e *Entry) ClearUncommitted() {
	e.uncommitted = nil
}

// Version is the count of events applied to this instance.
func (e *Entry) Version() int { return e.version }

// Accessors

func (e *Entry) ID() uuid.UUID                     { return e.id }
func (e *Entry) TenantID() uuid.UUID               { return e.tenantID }
func (e *Entry) Number() values.JournalNumber      { return e.number }
func (e *Entry) EntryDate() time.Time              { return e.entryDate }
func (e *Entry) Type() Type                        { return e.entryType }
func (e *Entry) Description() string               { return e.description }
func (e *Entry) Currency() string                  { return e.currency }
func (e *Entry) FiscalPeriod() values.FiscalPeriod { return e.fiscalPeriod }
func (e *Entry) Status() Status                    { return e.status }
func (e *Entry) PostedBy() uuid.UUID               { return e.postedBy }
func (e *Entry) PostedAt() time.Time               { return e.postedAt }
func (e *Entry) ReversingEntryID() uuid.UUID       { return e.reversingEntryID }

// Lines returns a copy of the entry lines.
func (e *Entry) Lines() []Line {
	out := make([]Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// TotalDebit sums the debit side of all lines.
func (e *Entry) TotalDebit() values.Money {
	total := values.ZeroMoney(e.currency)
	for _, l := range e.lines {
		if l.Debit.IsPositive() {
			total, _ = total.Add(l.Debit)
		}
	}
	return total
}

// TotalCredit sums the credit side of all lines.
func (e *Entry) TotalCredit() values.Money {
	total := values.ZeroMoney(e.currency)
	for _, l := range e.lines {
		if l.Credit.IsPositive() {
			total, _ = total.Add(l.Credit)
		}
	}
	return total
}

// validateLines enforces the double-entry invariant on a candidate line set:
// at least two lines, each with exactly one positive side, all in one
// currency, and total debits exactly equal to total credits.
func validateLines(inputs []LineInput) (string, []LineData, error) {
	if len(inputs) < 2 {
		return "", nil, errors.NewInvariantViolation("TOO_FEW_LINES", "journal entry requires at least 2 lines")
	}

	var currency string
	for i, in := range inputs {
		if in.AccountID == uuid.Nil {
			return "", nil, errors.NewValidationError("INVALID_ACCOUNT", fmt.Sprintf("line %d has no account reference", i+1))
		}

		hasDebit := in.Debit.IsPositive()
		hasCredit := in.Credit.IsPositive()
		if in.Debit.IsNegative() || in.Credit.IsNegative() {
			return "", nil, errors.NewValidationError("NEGATIVE_LINE", fmt.Sprintf("line %d has a negative amount", i+1))
		}
		if hasDebit == hasCredit {
			return "", nil, errors.NewInvariantViolation("ONE_SIDED_LINE",
				fmt.Sprintf("line %d must have exactly one of debit or credit", i+1))
		}

		side := in.Debit
		if hasCredit {
			side = in.Credit
		}
		if currency == "" {
			currency = side.Currency()
		} else if side.Currency() != currency {
			return "", nil, errors.NewValidationError("CURRENCY_MISMATCH",
				fmt.Sprintf("line %d is %s, entry is %s", i+1, side.Currency(), currency))
		}
	}

	totalDebit := values.ZeroMoney(currency)
	totalCredit := values.ZeroMoney(currency)
	lineData := make([]LineData, 0, len(inputs))
	for _, in := range inputs {
		var err error
		if in.Debit.IsPositive() {
			totalDebit, err = totalDebit.Add(in.Debit)
		} else {
			totalCredit, err = totalCredit.Add(in.Credit)
		}
		if err != nil {
			return "", nil, err
		}

		lineData = append(lineData, LineData{
			LineID:     uuid.New(),
			AccountID:  in.AccountID,
			Debit:      in.Debit,
			Credit:     in.Credit,
			CostCenter: in.CostCenter,
			ProjectID:  in.ProjectID,
			TaxCode:    in.TaxCode,
		})
	}

	if !totalDebit.Equal(totalCredit) {
		return "", nil, errors.NewInvariantViolation("UNBALANCED_ENTRY",
			fmt.Sprintf("total debit %s does not equal total credit %s", totalDebit, totalCredit))
	}

	return currency, lineData, nil
}

func linesToData(lines []Line) []LineData {
	out := make([]LineData, len(lines))
	for i, l := range lines {
		out[i] = LineData{
			LineID:     l.ID,
			AccountID:  l.AccountID,
			Debit:      l.Debit,
			Credit:     l.Credit,
			CostCenter: l.CostCenter,
			ProjectID:  l.ProjectID,
			TaxCode:    l.TaxCode,
		}
	}
	return out
}

func dataToLines(data []LineData) []Line {
	out := make([]Line, len(data))
	for i, d := range data {
		out[i] = Line{
			ID:         d.LineID,
			AccountID:  d.AccountID,
			Debit:      d.Debit,
			Credit:     d.Credit,
			CostCenter: d.CostCenter,
			ProjectID:  d.ProjectID,
			TaxCode:    d.TaxCode,
		}
	}
	return out
}
