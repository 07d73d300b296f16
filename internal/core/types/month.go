package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for record dates ("YYYY-MM-DD").
const DateLayout = "2006-01-02"

// ParseDate parses a record date string.
// Returns false when the string is not a well-formed date; callers decide
// whether that means rejection (data entry) or silent exclusion (aggregation).
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Month identifies a calendar month used for profit snapshots.
type Month struct {
	Year  int
	Month time.Month
}

// CurrentMonth returns the month containing now.
func CurrentMonth() Month {
	return MonthOf(time.Now())
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses a "YYYY-M" snapshot key (month is not zero-padded).
func ParseMonthKey(s string) (Month, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return Month{}, fmt.Errorf("invalid month key %q", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Month{}, fmt.Errorf("invalid year in month key %q", s)
	}
	mon, err := strconv.Atoi(parts[1])
	if err != nil || mon < 1 || mon > 12 {
		return Month{}, fmt.Errorf("invalid month in month key %q", s)
	}
	return Month{Year: year, Month: time.Month(mon)}, nil
}

// Key returns the snapshot document key, e.g. "2024-6".
func (m Month) Key() string {
	return fmt.Sprintf("%d-%d", m.Year, int(m.Month))
}

// Label returns the display label, e.g. "June 2024".
func (m Month) Label() string {
	return fmt.Sprintf("%s %d", m.Month.String(), m.Year)
}

// Window returns the inclusive first and last day of the month.
func (m Month) Window() (time.Time, time.Time) {
	first := time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// Contains reports whether t falls in this month.
// Both month and year must match; a sale dated in another year with the
// same month number is excluded by construction.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// IsZero reports whether the month is unset.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) String() string {
	return m.Key()
}
