package journal

import (
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// Event type tags (past tense, stable wire names)
const (
	EventTypeCreated       = "journal.created"
	EventTypeLinesReplaced = "journal.lines_replaced"
	EventTypePosted        = "journal.posted"
	EventTypeReversed      = "journal.reversed"
	EventTypeCancelled     = "journal.cancelled"
)

// Event is the sealed union of journal domain events.
type Event interface {
	EventType() string
	AggregateID() uuid.UUID
	TenantID() uuid.UUID
	OccurredAt() time.Time
	isJournalEvent()
}

// LineData is the event-payload shape of a journal line.
type LineData struct {
	LineID     uuid.UUID    `json:"line_id"`
	AccountID  uuid.UUID    `json:"account_id"`
	Debit      values.Money `json:"debit,omitempty"`
	Credit     values.Money `json:"credit,omitempty"`
	CostCenter string       `json:"cost_center,omitempty"`
	ProjectID  string       `json:"project_id,omitempty"`
	TaxCode    string       `json:"tax_code,omitempty"`
}

// Created is emitted when a balanced journal entry is created in DRAFT.
type Created struct {
	EntryID      uuid.UUID  `json:"entry_id"`
	Tenant       uuid.UUID  `json:"tenant_id"`
	Number       string     `json:"number"`
	EntryDate    time.Time  `json:"entry_date"`
	Type         Type       `json:"type"`
	Description  string     `json:"description"`
	Currency     string     `json:"currency"`
	Lines        []LineData `json:"lines"`
	FiscalPeriod string     `json:"fiscal_period"`
	At           time.Time  `json:"occurred_at"`
}

func (e Created) EventType() string      { return EventTypeCreated }
func (e Created) AggregateID() uuid.UUID { return e.EntryID }
func (e Created) TenantID() uuid.UUID    { return e.Tenant }
func (e Created) OccurredAt() time.Time  { return e.At }
func (e Created) isJournalEvent()        {}

// LinesReplaced is emitted when a DRAFT entry's lines are replaced wholesale.
// The replacement set has already passed the balance check.
type LinesReplaced struct {
	EntryID uuid.UUID  `json:"entry_id"`
	Tenant  uuid.UUID  `json:"tenant_id"`
	Lines   []LineData `json:"lines"`
	At      time.Time  `json:"occurred_at"`
}

func (e LinesReplaced) EventType() string      { return EventTypeLinesReplaced }
func (e LinesReplaced) AggregateID() uuid.UUID { return e.EntryID }
func (e LinesReplaced) TenantID() uuid.UUID    { return e.Tenant }
func (e LinesReplaced) OccurredAt() time.Time  { return e.At }
func (e LinesReplaced) isJournalEvent()        {}

// Posted is emitted when a DRAFT entry becomes immutable, carrying the
// per-line deltas projections need to maintain account balances.
type Posted struct {
	EntryID      uuid.UUID  `json:"entry_id"`
	Tenant       uuid.UUID  `json:"tenant_id"`
	PostedBy     uuid.UUID  `json:"posted_by"`
	FiscalPeriod string     `json:"fiscal_period"`
	Lines        []LineData `json:"lines"`
	At           time.Time  `json:"occurred_at"`
}

func (e Posted) EventType() string      { return EventTypePosted }
func (e Posted) AggregateID() uuid.UUID { return e.EntryID }
func (e Posted) TenantID() uuid.UUID    { return e.Tenant }
func (e Posted) OccurredAt() time.Time  { return e.At }
func (e Posted) isJournalEvent()        {}

// Reversed is emitted when a POSTED entry is reversed by a linked reversing
// entry. The original entry is otherwise untouched.
type Reversed struct {
	EntryID          uuid.UUID `json:"entry_id"`
	Tenant           uuid.UUID `json:"tenant_id"`
	ReversingEntryID uuid.UUID `json:"reversing_entry_id"`
	Reason           string    `json:"reason"`
	At               time.Time `json:"occurred_at"`
}

func (e Reversed) EventType() string      { return EventTypeReversed }
func (e Reversed) AggregateID() uuid.UUID { return e.EntryID }
func (e Reversed) TenantID() uuid.UUID    { return e.Tenant }
func (e Reversed) OccurredAt() time.Time  { return e.At }
func (e Reversed) isJournalEvent()        {}

// Cancelled is emitted when a DRAFT entry is cancelled. Terminal.
type Cancelled struct {
	EntryID uuid.UUID `json:"entry_id"`
	Tenant  uuid.UUID `json:"tenant_id"`
	Reason  string    `json:"reason"`
	At      time.Time `json:"occurred_at"`
}

func (e Cancelled) EventType() string      { return EventTypeCancelled }
func (e Cancelled) AggregateID() uuid.UUID { return e.EntryID }
func (e Cancelled) TenantID() uuid.UUID    { return e.Tenant }
func (e Cancelled) OccurredAt() time.Time  { return e.At }
func (e Cancelled) isJournalEvent()        {}
