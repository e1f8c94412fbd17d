package values

import (
	"fmt"
	"time"
)

// FiscalPeriod is a derived value: the accounting year runs July 1 to June 30,
// period 1 = July through period 12 = June of the following calendar year.
// Every date maps to exactly one period.
type FiscalPeriod struct {
	startYear int // calendar year the fiscal year starts in (July)
	period    int // 1..12
}

// FiscalPeriodOf derives the fiscal period containing the given date.
func FiscalPeriodOf(date time.Time) FiscalPeriod {
	year := date.Year()
	month := int(date.Month())

	if month >= int(time.July) {
		return FiscalPeriod{startYear: year, period: month - int(time.June)}
	}
	return FiscalPeriod{startYear: year - 1, period: month + 6}
}

// StartYear returns the calendar year in which the fiscal year begins.
func (p FiscalPeriod) StartYear() int {
	return p.startYear
}

// Period returns the 1-based period number within the fiscal year.
func (p FiscalPeriod) Period() int {
	return p.period
}

// String returns the canonical form, e.g. FY2025-2026-P04 for October 2025.
func (p FiscalPeriod) String() string {
	return fmt.Sprintf("FY%d-%d-P%02d", p.startYear, p.startYear+1, p.period)
}

// Equal checks structural equality.
func (p FiscalPeriod) Equal(other FiscalPeriod) bool {
	return p.startYear == other.startYear && p.period == other.period
}
