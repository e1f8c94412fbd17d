package journal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisabkhata/ledger-backend/internal/domain/errors"
	"github.com/hisabkhata/ledger-backend/internal/domain/values"
)

func bdt(v int64) values.Money {
	return values.MustNewMoney(decimal.NewFromInt(v), values.BDT)
}

func balancedLines(accountA, accountB uuid.UUID) []LineInput {
	return []LineInput{
		{AccountID: accountA, Debit: bdt(1000)},
		{AccountID: accountB, Credit: bdt(1000)},
	}
}

func newTestEntry(t *testing.T) *Entry {
	t.Helper()

	date := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)
	number, err := values.GenerateJournalNumber(date, 1)
	require.NoError(t, err)

	e, err := New(uuid.New(), number, date, TypeGeneral, "Office rent for October",
		balancedLines(uuid.New(), uuid.New()))
	require.NoError(t, err)
	return e
}

func TestNewEntryBalanced(t *testing.T) {
	e := newTestEntry(t)

	assert.Equal(t, StatusDraft, e.Status())
	assert.Equal(t, "FY2025-2026-P04", e.FiscalPeriod().String())
	assert.True(t, e.TotalDebit().Equal(e.TotalCredit()))
	assert.Equal(t, "1000.00 BDT", e.TotalDebit().String())
	require.Len(t, e.UncommittedEvents(), 1)
	assert.Equal(t, EventTypeCreated, e.UncommittedEvents()[0].EventType())
}

func TestNewEntryRejectsUnbalanced(t *testing.T) {
	date := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)
	number, err := values.GenerateJournalNumber(date, 2)
	require.NoError(t, err)

	_, err = New(uuid.New(), number, date, TypeGeneral, "off by one hundred", []LineInput{
		{AccountID: uuid.New(), Debit: bdt(1000)},
		{AccountID: uuid.New(), Credit: bdt(900)},
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestNewEntryLineRules(t *testing.T) {
	date := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)
	number, err := values.GenerateJournalNumber(date, 3)
	require.NoError(t, err)

	tests := []struct {
		name  string
		lines []LineInput
	}{
		{
			name:  "fewer than two lines",
			lines: []LineInput{{AccountID: uuid.New(), Debit: bdt(100)}},
		},
		{
			name: "line with both sides",
			lines: []LineInput{
				{AccountID: uuid.New(), Debit: bdt(100), Credit: bdt(100)},
				{AccountID: uuid.New(), Credit: bdt(100)},
			},
		},
		{
			name: "line with neither side",
			lines: []LineInput{
				{AccountID: uuid.New()},
				{AccountID: uuid.New(), Credit: bdt(100)},
			},
		},
		{
			name: "mixed currencies",
			lines: []LineInput{
				{AccountID: uuid.New(), Debit: bdt(100)},
				{AccountID: uuid.New(), Credit: values.MustNewMoney(decimal.NewFromInt(100), values.USD)},
			},
		},
		{
			name: "missing account reference",
			lines: []LineInput{
				{Debit: bdt(100)},
				{AccountID: uuid.New(), Credit: bdt(100)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(uuid.New(), number, date, TypeGeneral, "x", tt.lines)
			assert.Error(t, err)
		})
	}
}

func TestReplaceLinesRevalidatesBalance(t *testing.T) {
	e := newTestEntry(t)

	err := e.ReplaceLines([]LineInput{
		{AccountID: uuid.New(), Debit: bdt(500)},
		{AccountID: uuid.New(), Credit: bdt(400)},
	})
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
	// failed replacement emitted nothing
	assert.Len(t, e.UncommittedEvents(), 1)

	require.NoError(t, e.ReplaceLines([]LineInput{
		{AccountID: uuid.New(), Debit: bdt(250)},
		{AccountID: uuid.New(), Debit: bdt(250)},
		{AccountID: uuid.New(), Credit: bdt(500)},
	}))
	assert.Len(t, e.Lines(), 3)
	assert.Equal(t, "500.00 BDT", e.TotalDebit().String())
}

func TestPostMakesEntryImmutable(t *testing.T) {
	e := newTestEntry(t)
	poster := uuid.New()

	require.NoError(t, e.Post(poster))
	assert.Equal(t, StatusPosted, e.Status())
	assert.Equal(t, poster, e.PostedBy())
	assert.False(t, e.PostedAt().IsZero())

	err := e.ReplaceLines(balancedLines(uuid.New(), uuid.New()))
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))

	err = e.Post(poster)
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestMarkReversedLinksReversingEntry(t *testing.T) {
	e := newTestEntry(t)
	require.NoError(t, e.Post(uuid.New()))

	reversing := uuid.New()
	require.NoError(t, e.MarkReversed(reversing, "posted against the wrong cost center"))
	assert.Equal(t, StatusReversed, e.Status())
	assert.Equal(t, reversing, e.ReversingEntryID())

	// reversal lines swap sides
	lines := e.ReversingLines()
	require.Len(t, lines, 2)
	assert.True(t, lines[0].Credit.IsPositive())
	assert.True(t, lines[1].Debit.IsPositive())
}

func TestCancelDraftOnly(t *testing.T) {
	e := newTestEntry(t)
	require.NoError(t, e.Post(uuid.New()))

	err := e.Cancel("no longer needed")
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))

	e2 := newTestEntry(t)
	require.NoError(t, e2.Cancel("duplicate of JRN-2025-10-14-000001"))
	assert.Equal(t, StatusCancelled, e2.Status())
}

func TestJournalReplayRoundTrip(t *testing.T) {
	e := newTestEntry(t)
	require.NoError(t, e.ReplaceLines([]LineInput{
		{AccountID: uuid.New(), Debit: bdt(750)},
		{AccountID: uuid.New(), Credit: bdt(750)},
	}))
	require.NoError(t, e.Post(uuid.New()))

	replayed, err := Replay(e.UncommittedEvents())
	require.NoError(t, err)

	assert.Equal(t, e.ID(), replayed.ID())
	assert.Equal(t, e.Status(), replayed.Status())
	assert.Equal(t, e.Version(), replayed.Version())
	assert.Equal(t, e.FiscalPeriod().String(), replayed.FiscalPeriod().String())
	assert.True(t, e.TotalDebit().Equal(replayed.TotalDebit()))
	assert.Len(t, replayed.Lines(), 2)
	assert.Empty(t, replayed.UncommittedEvents())
}
