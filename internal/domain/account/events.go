package account

import (
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// Event type tags (past tense, stable wire names)
const (
	EventTypeCreated     = "account.created"
	EventTypePosted      = "account.posted"
	EventTypeRenamed     = "account.renamed"
	EventTypeDeactivated = "account.deactivated"
	EventTypeReactivated = "account.reactivated"
)

// Event is the sealed union of chart-of-account domain events.
type Event interface {
	EventType() string
	AggregateID() uuid.UUID
	TenantID() uuid.UUID
	OccurredAt() time.Time
	isAccountEvent()
}

// Created is emitted when a new account joins the chart. Code, type and
// currency are fixed from this point on.
type Created struct {
	AccountID uuid.UUID    `json:"account_id"`
	Tenant    uuid.UUID    `json:"tenant_id"`
	Code      string       `json:"code"`
	Name      string       `json:"name"`
	Type      Type         `json:"type"`
	ParentID  uuid.UUID    `json:"parent_id,omitempty"`
	Currency  string       `json:"currency"`
	Balance   values.Money `json:"balance"`
	At        time.Time    `json:"occurred_at"`
}

func (e Created) EventType() string      { return EventTypeCreated }
func (e Created) AggregateID() uuid.UUID { return e.AccountID }
func (e Created) TenantID() uuid.UUID    { return e.Tenant }
func (e Created) OccurredAt() time.Time  { return e.At }
func (e Created) isAccountEvent()        {}

// Posted is emitted when a journal posting moves the running balance.
type Posted struct {
	AccountID      uuid.UUID    `json:"account_id"`
	Tenant         uuid.UUID    `json:"tenant_id"`
	JournalEntryID uuid.UUID    `json:"journal_entry_id"`
	JournalLineID  uuid.UUID    `json:"journal_line_id"`
	Debit          values.Money `json:"debit,omitempty"`
	Credit         values.Money `json:"credit,omitempty"`
	Balance        values.Money `json:"balance"`
	At             time.Time    `json:"occurred_at"`
}

func (e Posted) EventType() string      { return EventTypePosted }
func (e Posted) AggregateID() uuid.UUID { return e.AccountID }
func (e Posted) TenantID() uuid.UUID    { return e.Tenant }
func (e Posted) OccurredAt() time.Time  { return e.At }
func (e Posted) isAccountEvent()        {}

// Renamed is emitted when the display name changes.
type Renamed struct {
	AccountID uuid.UUID `json:"account_id"`
	Tenant    uuid.UUID `json:"tenant_id"`
	OldName   string    `json:"old_name"`
	NewName   string    `json:"new_name"`
	At        time.Time `json:"occurred_at"`
}

func (e Renamed) EventType() string      { return EventTypeRenamed }
func (e Renamed) AggregateID() uuid.UUID { return e.AccountID }
func (e Renamed) TenantID() uuid.UUID    { return e.Tenant }
func (e Renamed) OccurredAt() time.Time  { return e.At }
func (e Renamed) isAccountEvent()        {}

// Deactivated is emitted when the account stops accepting postings,
// recording reason and actor for the audit trail.
type Deactivated struct {
	AccountID     uuid.UUID `json:"account_id"`
	Tenant        uuid.UUID `json:"tenant_id"`
	Reason        string    `json:"reason"`
	DeactivatedBy uuid.UUID `json:"deactivated_by"`
	At            time.Time `json:"occurred_at"`
}

func (e Deactivated) EventType() string      { return EventTypeDeactivated }
func (e Deactivated) AggregateID() uuid.UUID { return e.AccountID }
func (e Deactivated) TenantID() uuid.UUID    { return e.Tenant }
func (e Deactivated) OccurredAt() time.Time  { return e.At }
func (e Deactivated) isAccountEvent()        {}

// Reactivated is emitted when an INACTIVE account is reopened for postings.
type Reactivated struct {
	AccountID     uuid.UUID `json:"account_id"`
	Tenant        uuid.UUID `json:"tenant_id"`
	ReactivatedBy uuid.UUID `json:"reactivated_by"`
	At            time.Time `json:"occurred_at"`
}

func (e Reactivated) EventType() string      { return EventTypeReactivated }
func (e Reactivated) AggregateID() uuid.UUID { return e.AccountID }
func (e Reactivated) TenantID() uuid.UUID    { return e.Tenant }
func (e Reactivated) OccurredAt() time.Time  { return e.At }
func (e Reactivated) isAccountEvent()        {}
