package models

import (
	"errors"
	"fmt"
	"time"
)

// MonthLayout is the text form of a Month in every table.
const MonthLayout = "2006-01"

// ErrInvalidMonth is returned when a month string does not parse.
var ErrInvalidMonth = errors.New("invalid month")

// Month identifies a calendar month. The zero value means "no month".
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the calendar month containing t, read in t's location.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses the "YYYY-MM" form written by String.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w %q: %v", ErrInvalidMonth, s, err)
	}
	return MonthOf(t), nil
}

// Previous steps back one calendar month, so January rolls to December of
// the prior year.
func (m Month) Previous() Month {
	return m.AddMonths(-1)
}

// AddMonths moves m by n calendar months.
func (m Month) AddMonths(n int) Month {
	return MonthOf(m.Start().AddDate(0, n, 0))
}

// Start is midnight UTC on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) String() string {
	if m.IsZero() {
		return ""
	}
	return m.Start().Format(MonthLayout)
}

// Before reports whether m is earlier than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}
