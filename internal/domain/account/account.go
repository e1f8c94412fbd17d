package account

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

// Status represents whether the account accepts postings
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) String() string {
	return string(s)
}

// Type classifies an account within the chart
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

func (t Type) String() string {
	return string(t)
}

// ParseType parses a string tag into an account Type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return Type(s), nil
	default:
		return "", errors.NewValidationError("INVALID_ACCOUNT_TYPE", fmt.Sprintf("invalid account type: %s", s))
	}
}

// IsDebitNormal reports whether debits increase the balance for this type.
func (t Type) IsDebitNormal() bool {
	return t == TypeAsset || t == TypeExpense
}

// hierarchical code such as 1010 or 1010-01
var codePattern = regexp.MustCompile(`^\d{4}(-\d{2})*$`)

// Account is the aggregate root for chart-of-accounts entries. Code, type and
// currency are immutable after creation; changing them would break historical
// reporting. The parent is referenced by id only.
type Account struct {
	id       uuid.UUID
	tenantID uuid.UUID
	code     string
	name     string
	accType  Type
	parentID uuid.UUID
	currency string
	balance  values.Money
	status   Status

	deactivateReason string
	deactivatedBy    uuid.UUID
	deactivatedAt    time.Time

	version     int
	uncommitted []Event
}

// New creates an ACTIVE account with a zero running balance.
func New(tenantID uuid.UUID, code, name string, accType Type, parentID uuid.UUID, currency string) (*Account, error) {
	if tenantID == uuid.Nil {
		return nil, errors.NewValidationError("INVALID_TENANT", "tenant ID is required")
	}
	code = strings.TrimSpace(code)
	if !codePattern.MatchString(code) {
		return nil, errors.NewValidationError("INVALID_CODE",
			fmt.Sprintf("account code %q must be hierarchical digits like 1010 or 1010-01", code))
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewValidationError("EMPTY_NAME", "account name is required")
	}
	if _, err := ParseType(accType.String()); err != nil {
		return nil, err
	}
	if err := values.ValidateCurrency(currency); err != nil {
		return nil, err
	}

	balance := values.ZeroMoney(currency)

	a := &Account{}
	a.raise(Created{
		AccountID: uuid.New(),
		Tenant:    tenantID,
		Code:      code,
		Name:      strings.TrimSpace(name),
		Type:      accType,
		ParentID:  parentID,
		Currency:  balance.Currency(),
		Balance:   balance,
		At:        time.Now().UTC(),
	})
	return a, nil
}

// Replay reconstructs an account from its full ordered event stream.
func Replay(events []Event) (*Account, error) {
	if len(events) == 0 {
		return nil, errors.NewNotFoundError("account")
	}

	a := &Account{}
	for _, e := range events {
		if err := a.apply(e); err != nil {
			return nil, err
		}
		a.version++
	}
	return a, nil
}

// ApplyPosting moves the running balance for one journal line. Exactly one of
// debit/credit must be positive, and only ACTIVE accounts accept postings.
func (a *Account) ApplyPosting(journalEntryID, journalLineID uuid.UUID, debit, credit values.Money) error {
	if a.status != StatusActive {
		return errors.NewInvariantViolation("ACCOUNT_INACTIVE", "Only ACTIVE accounts accept postings")
	}

	hasDebit := debit.IsPositive()
	hasCredit := credit.IsPositive()
	if hasDebit == hasCredit {
		return errors.NewValidationError("INVALID_POSTING", "posting must carry exactly one of debit or credit")
	}

	amount := debit
	if hasCredit {
		amount = credit
	}
	if amount.Currency() != a.currency {
		return errors.NewValidationError("CURRENCY_MISMATCH",
			fmt.Sprintf("posting is %s, account is %s", amount.Currency(), a.currency))
	}

	increases := hasDebit == a.accType.IsDebitNormal()
	var newBalance values.Money
	var err error
	if increases {
		newBalance, err = a.balance.Add(amount)
	} else {
		newBalance, err = a.balance.Sub(amount)
	}
	if err != nil {
		return err
	}

	a.raise(Posted{
		AccountID:      a.id,
		Tenant:         a.tenantID,
		JournalEntryID: journalEntryID,
		JournalLineID:  journalLineID,
		Debit:          debit,
		Credit:         credit,
		Balance:        newBalance,
		At:             time.Now().UTC(),
	})
	return nil
}

// Rename changes the display name. Code, type and currency stay fixed.
func (a *Account) Rename(newName string) error {
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return errors.NewValidationError("EMPTY_NAME", "account name is required")
	}
	if trimmed == a.name {
		return nil
	}

	a.raise(Renamed{
		AccountID: a.id,
		Tenant:    a.tenantID,
		OldName:   a.name,
		NewName:   trimmed,
		At:        time.Now().UTC(),
	})
	return nil
}

// Deactivate stops the account from accepting postings, recording reason and actor.
func (a *Account) Deactivate(reason string, deactivatedBy uuid.UUID) error {
	if a.status != StatusActive {
		return errors.NewInvariantViolation("NOT_ACTIVE", "Only ACTIVE accounts can be deactivated")
	}
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return errors.NewValidationError("EMPTY_REASON", "deactivation reason cannot be blank")
	}
	if deactivatedBy == uuid.Nil {
		return errors.NewValidationError("INVALID_ACTOR", "deactivating actor is required")
	}

	a.raise(Deactivated{
		AccountID:     a.id,
		Tenant:        a.tenantID,
		Reason:        trimmed,
		DeactivatedBy: deactivatedBy,
		At:            time.Now().UTC(),
	})
	return nil
}

// Reactivate reopens an INACTIVE account for postings.
func (a *Account) Reactivate(reactivatedBy uuid.UUID) error {
	if a.status != StatusInactive {
		return errors.NewInvariantViolation("NOT_INACTIVE", "Only INACTIVE accounts can be reactivated")
	}

	a.raise(Reactivated{
		AccountID:     a.id,
		Tenant:        a.tenantID,
		ReactivatedBy: reactivatedBy,
		At:            time.Now().UTC(),
	})
	return nil
}

func (a *Account) raise(e Event) {
	if err := a.apply(e); err != nil {
		panic(err)
	}
	a.version++
	a.uncommitted = append(a.uncommitted, e)
}

func (a *Account) apply(event Event) error {
	switch e := event.(type) {
	case Created:
		a.id = e.AccountID
		a.tenantID = e.Tenant
		a.code = e.Code
		a.name = e.Name
		a.accType = e.Type
		a.parentID = e.ParentID
		a.currency = e.Currency
		a.balance = e.Balance
		a.status = StatusActive

	case Posted:
		a.balance = e.Balance

	case Renamed:
		a.name = e.NewName

	case Deactivated:
		a.status = StatusInactive
		a.deactivateReason = e.Reason
		a.deactivatedBy = e.DeactivatedBy
		a.deactivatedAt = e.At

	case Reactivated:
		a.status = StatusActive
		a.deactivateReason = ""
		a.deactivatedBy = uuid.Nil
		a.deactivatedAt = time.Time{}

	default:
		return errors.NewInternalError(fmt.Sprintf("unknown account event type %T", event))
	}
	return nil
}

// UncommittedEvents returns events emitted since the last save.
func (a *Account) UncommittedEvents() []Event {
	return a.uncommitted
}

// ClearUncommitted empties the event buffer after a successful save.
func (a *Account) ClearUncommitted() {
	a.uncommitted = nil
}

// Version is the count of events applied to this instance.
func (a *Account) Version() int { return a.version }

// Accessors

func (a *Account) ID() uuid.UUID            { return a.id }
func (a *Account) TenantID() uuid.UUID      { return a.tenantID }
func (a *Account) Code() string             { return a.code }
func (a *Account) Name() string             { return a.name }
func (a *Account) AccountType() Type        { return a.accType }
func (a *Account) ParentID() uuid.UUID      { return a.parentID }
func (a *Account) Currency() string         { return a.currency }
func (a *Account) Balance() values.Money    { return a.balance }
func (a *Account) Status() Status           { return a.status }
func (a *Account) IsActive() bool           { return a.status == StatusActive }
func (a *Account) DeactivateReason() string { return a.deactivateReason }
