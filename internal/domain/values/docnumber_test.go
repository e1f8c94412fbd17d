package values

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvoiceNumber(t *testing.T) {
	date := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)

	num, err := GenerateInvoiceNumber(date, 1)
	require.NoError(t, err)
	assert.Equal(t, "INV-2025-10-14-000001", num.String())
}

func TestParseInvoiceNumber(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantDate time.Time
		wantSeq  int
		wantErr  bool
	}{
		{
			name:     "canonical form",
			raw:      "INV-2025-10-14-000001",
			wantDate: time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC),
			wantSeq:  1,
		},
		{
			name:     "leap day valid in leap year",
			raw:      "INV-2024-02-29-000042",
			wantDate: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			wantSeq:  42,
		},
		{
			name:     "max sequence",
			raw:      "INV-2025-01-01-999999",
			wantDate: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantSeq:  999999,
		},
		{name: "impossible date", raw: "INV-2025-02-30-000001", wantErr: true},
		{name: "leap day in non-leap year", raw: "INV-2025-02-29-000001", wantErr: true},
		{name: "wrong prefix", raw: "JRN-2025-10-14-000001", wantErr: true},
		{name: "short sequence", raw: "INV-2025-10-14-001", wantErr: true},
		{name: "non numeric sequence", raw: "INV-2025-10-14-ABCDEF", wantErr: true},
		{name: "signed sequence", raw: "INV-2025-10-14-+12345", wantErr: true},
		{name: "unpadded month", raw: "INV-2025-1-14-000001", wantErr: true},
		{name: "unpadded day", raw: "INV-2025-10-4-000001", wantErr: true},
		{name: "missing parts", raw: "INV-2025-10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			num, err := ParseInvoiceNumber(tt.raw)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, num.Date().Equal(tt.wantDate))
			assert.Equal(t, tt.wantSeq, num.Sequence())
		})
	}
}

func TestDocumentNumberRoundTrip(t *testing.T) {
	dates := []time.Time{
		time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
	sequences := []int{0, 1, 999, 999999}

	for _, d := range dates {
		for _, s := range sequences {
			generated, err := GenerateJournalNumber(d, s)
			require.NoError(t, err)

			parsed, err := ParseJournalNumber(generated.String())
			require.NoError(t, err)

			assert.True(t, parsed.Date().Equal(d), "date round-trip for %s", generated)
			assert.Equal(t, s, parsed.Sequence(), "sequence round-trip for %s", generated)
		}
	}
}

func TestGenerateSequenceOutOfRange(t *testing.T) {
	date := time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC)

	_, err := GenerateInvoiceNumber(date, -1)
	assert.Error(t, err)

	_, err = GenerateInvoiceNumber(date, 1000000)
	assert.Error(t, err)
}
