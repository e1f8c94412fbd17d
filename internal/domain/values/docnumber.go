package values

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
)

// Document number prefixes.
const (
	InvoicePrefix = "INV"
	JournalPrefix = "JRN"
)

// MaxDocumentSequence is the largest per-day sequence a document number can carry.
const MaxDocumentSequence = 999999

// DocumentNumber encodes a calendar date and a zero-padded sequence, e.g.
// INV-2025-10-14-000001. Generation and parsing are pure and mutually inverse
// for all valid inputs.
type DocumentNumber struct {
	prefix   string
	date     time.Time
	sequence int
}

// InvoiceNumber identifies an invoice document.
type InvoiceNumber struct {
	DocumentNumber
}

// JournalNumber identifies a journal entry document.
type JournalNumber struct {
	DocumentNumber
}

// GenerateInvoiceNumber derives the canonical invoice number for a date and sequence.
func GenerateInvoiceNumber(date time.Time, sequence int) (InvoiceNumber, error) {
	dn, err := newDocumentNumber(InvoicePrefix, date, sequence)
	if err != nil {
		return InvoiceNumber{}, err
	}
	return InvoiceNumber{dn}, nil
}

// ParseInvoiceNumber validates and parses a raw invoice number string.
func ParseInvoiceNumber(raw string) (InvoiceNumber, error) {
	dn, err := parseDocumentNumber(InvoicePrefix, raw)
	if err != nil {
		return InvoiceNumber{}, err
	}
	return InvoiceNumber{dn}, nil
}

// GenerateJournalNumber derives the canonical journal number for a date and sequence.
func GenerateJournalNumber(date time.Time, sequence int) (JournalNumber, error) {
	dn, err := newDocumentNumber(JournalPrefix, date, sequence)
	if err != nil {
		return JournalNumber{}, err
	}
	return JournalNumber{dn}, nil
}

// ParseJournalNumber validates and parses a raw journal number string.
func ParseJournalNumber(raw string) (JournalNumber, error) {
	dn, err := parseDocumentNumber(JournalPrefix, raw)
	if err != nil {
		return JournalNumber{}, err
	}
	return JournalNumber{dn}, nil
}

// Date returns the calendar date component, truncated to midnight UTC.
func (d DocumentNumber) Date() time.Time {
	return d.date
}

// Sequence returns the sequence component.
func (d DocumentNumber) Sequence() int {
	return d.sequence
}

// String returns the canonical form, e.g. INV-2025-10-14-000001.
func (d DocumentNumber) String() string {
	return fmt.Sprintf("%s-%s-%06d", d.prefix, d.date.Format("2006-01-02"), d.sequence)
}

// Equal checks structural equality.
func (d DocumentNumber) Equal(other DocumentNumber) bool {
	return d.prefix == other.prefix && d.date.Equal(other.date) && d.sequence == other.sequence
}

// IsZero reports whether the number is the zero value.
func (d DocumentNumber) IsZero() bool {
	return d.prefix == ""
}

func newDocumentNumber(prefix string, date time.Time, sequence int) (DocumentNumber, error) {
	if date.IsZero() {
		return DocumentNumber{}, errors.NewValidationError("EMPTY_DATE", "document date is required")
	}
	if sequence < 0 || sequence > MaxDocumentSequence {
		return DocumentNumber{}, errors.NewValidationError("SEQUENCE_OUT_OF_RANGE",
			fmt.Sprintf("document sequence must be between 0 and %d, got %d", MaxDocumentSequence, sequence))
	}

	y, m, day := date.Date()
	return DocumentNumber{
		prefix:   prefix,
		date:     time.Date(y, m, day, 0, 0, 0, 0, time.UTC),
		sequence: sequence,
	}, nil
}

func parseDocumentNumber(prefix, raw string) (DocumentNumber, error) {
	// PREFIX-YYYY-MM-DD-NNNNNN
	parts := strings.Split(raw, "-")
	if len(parts) != 5 {
		return DocumentNumber{}, errors.NewValidationError("MALFORMED_NUMBER",
			fmt.Sprintf("document number %q does not match %s-YYYY-MM-DD-NNNNNN", raw, prefix))
	}
	if parts[0] != prefix {
		return DocumentNumber{}, errors.NewValidationError("WRONG_PREFIX",
			fmt.Sprintf("document number %q must start with %s", raw, prefix))
	}

	// time.Parse rejects impossible dates such as 2025-02-30, including
	// non-leap February 29ths. It tolerates unpadded components, so the
	// parsed date is re-formatted and compared to keep parsing canonical.
	dateStr := parts[1] + "-" + parts[2] + "-" + parts[3]
	date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
	if err != nil || date.Format("2006-01-02") != dateStr {
		return DocumentNumber{}, errors.NewValidationError("INVALID_DATE",
			fmt.Sprintf("document number %q has an invalid date component %q", raw, dateStr))
	}

	// isNumeric keeps out signed forms like +12345 that Atoi would accept
	if len(parts[4]) != 6 || !isNumeric(parts[4]) {
		return DocumentNumber{}, errors.NewValidationError("INVALID_SEQUENCE",
			fmt.Sprintf("document sequence %q must be 6 digits", parts[4]))
	}
	sequence, err := strconv.Atoi(parts[4])
	if err != nil {
		return DocumentNumber{}, errors.NewValidationError("INVALID_SEQUENCE",
			fmt.Sprintf("document sequence %q is not numeric", parts[4]))
	}

	return newDocumentNumber(prefix, date, sequence)
}
