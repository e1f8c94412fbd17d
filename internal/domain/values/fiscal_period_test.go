package values

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiscalPeriodOf(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC), "FY2025-2026-P01"},
		{time.Date(2025, time.October, 14, 0, 0, 0, 0, time.UTC), "FY2025-2026-P04"},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), "FY2025-2026-P06"},
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), "FY2025-2026-P07"},
		{time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), "FY2025-2026-P12"},
		{time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC), "FY2026-2027-P01"},
		{time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), "FY2024-2025-P08"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FiscalPeriodOf(tt.date).String())
		})
	}
}

func TestFiscalPeriodCoversEveryMonth(t *testing.T) {
	// every journal entry date maps to exactly one period in 1..12
	seen := map[int]bool{}
	for m := time.January; m <= time.December; m++ {
		p := FiscalPeriodOf(time.Date(2025, m, 15, 0, 0, 0, 0, time.UTC))
		assert.GreaterOrEqual(t, p.Period(), 1)
		assert.LessOrEqual(t, p.Period(), 12)
		seen[p.Period()] = true
	}
	assert.Len(t, seen, 12)
}
