package values

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
)

// Money represents a monetary value with currency and fixed 2-decimal precision.
// All stored financial figures are Money, never floating point.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// Common currency codes (ISO 4217)
const (
	BDT = "BDT"
	USD = "USD"
	EUR = "EUR"
	GBP = "GBP"
)

var validCurrencies = map[string]bool{
	BDT: true, USD: true, EUR: true, GBP: true,
}

// NewMoney creates a new Money value object. The amount is rounded half-up to
// two decimal places at construction so all stored figures are fixed-point.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if err := validateCurrency(currency); err != nil {
		return Money{}, err
	}

	return Money{
		amount:   amount.Round(2),
		currency: strings.ToUpper(currency),
	}, nil
}

// NewMoneyFromString creates Money from string amount and currency
func NewMoneyFromString(amount, currency string) (Money, error) {
	dec, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errors.NewValidationError("INVALID_AMOUNT", fmt.Sprintf("amount %q is not a valid decimal", amount)).WithCause(err)
	}

	return NewMoney(dec, currency)
}

// NewMoneyFromMinorUnits creates Money from integer poisha/cents (smallest unit)
func NewMoneyFromMinorUnits(units int64, currency string) (Money, error) {
	dec := decimal.NewFromInt(units).Div(decimal.NewFromInt(100))
	return NewMoney(dec, currency)
}

// MustNewMoney creates Money and panics on error (for constants/tests)
func MustNewMoney(amount decimal.Decimal, currency string) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero Money value in the given currency. The currency
// must already be validated; use ValidateCurrency on untrusted input first.
func ZeroMoney(currency string) Money {
	return MustNewMoney(decimal.Zero, currency)
}

// ValidateCurrency checks that a currency code is supported.
func ValidateCurrency(currency string) error {
	return validateCurrency(currency)
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency code
func (m Money) Currency() string {
	return m.currency
}

// String returns the amount with currency code (e.g., "2800.00 BDT")
func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

// IsZero checks if the amount is zero
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive checks if the amount is positive
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative checks if the amount is negative
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// Equal checks if two Money values are equal (same amount and currency)
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount) && m.currency == other.currency
}

// Compare returns -1, 0, or 1. Currencies must match.
func (m Money) Compare(other Money) (int, error) {
	if m.currency != other.currency {
		return 0, currencyMismatch("compare", m.currency, other.currency)
	}
	return m.amount.Cmp(other.amount), nil
}

// GreaterThan reports whether m exceeds other. Currencies must match.
func (m Money) GreaterThan(other Money) (bool, error) {
	cmp, err := m.Compare(other)
	if err != nil {
		return false, err
	}
	return cmp > 0, nil
}

// Add adds two Money values. Mismatched currencies fail rather than convert.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, currencyMismatch("add", m.currency, other.currency)
	}

	return Money{
		amount:   m.amount.Add(other.amount).Round(2),
		currency: m.currency,
	}, nil
}

// Sub subtracts other Money from this Money. Mismatched currencies fail.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, currencyMismatch("subtract", m.currency, other.currency)
	}

	return Money{
		amount:   m.amount.Sub(other.amount).Round(2),
		currency: m.currency,
	}, nil
}

// Mul multiplies Money by a decimal factor, rounding half-up to 2 decimals.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{
		amount:   m.amount.Mul(factor).Round(2),
		currency: m.currency,
	}
}

// MarshalJSON encodes Money as {"amount":"...","currency":"..."}
func (m Money) MarshalJSON() ([]byte, error) {
	data := struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}{
		Amount:   m.amount.StringFixed(2),
		Currency: m.currency,
	}
	return json.Marshal(data)
}

// UnmarshalJSON decodes Money from its JSON shape
func (m *Money) UnmarshalJSON(data []byte) error {
	var temp struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}

	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}

	money, err := NewMoneyFromString(temp.Amount, temp.Currency)
	if err != nil {
		return err
	}

	*m = money
	return nil
}

// Scan implements sql.Scanner
func (m *Money) Scan(value interface{}) error {
	if value == nil {
		*m = Money{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return m.UnmarshalJSON(v)
	case string:
		return m.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into Money", value)
	}
}

// Value implements driver.Valuer; stored as JSONB
func (m Money) Value() (driver.Value, error) {
	if m.currency == "" {
		return nil, nil
	}
	return m.MarshalJSON()
}

func validateCurrency(currency string) error {
	if currency == "" {
		return errors.NewValidationError("EMPTY_CURRENCY", "currency cannot be empty")
	}

	currency = strings.ToUpper(currency)
	if len(currency) != 3 {
		return errors.NewValidationError("INVALID_CURRENCY", "currency code must be 3 characters")
	}

	if !validCurrencies[currency] {
		return errors.NewValidationError("UNSUPPORTED_CURRENCY", fmt.Sprintf("unsupported currency: %s", currency))
	}

	return nil
}

func currencyMismatch(op, a, b string) error {
	return errors.NewValidationError("CURRENCY_MISMATCH", fmt.Sprintf("cannot %s different currencies: %s and %s", op, a, b))
}
