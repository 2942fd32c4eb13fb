// Package calendar holds the pure date and month-grid arithmetic used by the
// journal. Nothing here performs I/O or keeps state.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daybook/internal/constants"
)

var (
	// ErrInvalidDate is returned when a date string cannot be parsed or names a day that does not exist
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidMonth is returned for month numbers outside 1-12
	ErrInvalidMonth = errors.New("invalid month")
)

// Storable years. Dates are keyed as fixed-width YYYY-MM-DD strings, which
// only sort and parse correctly for four-digit years.
const (
	MinYear = 1
	MaxYear = 9999
)

// Date is a naive calendar date. It carries no time of day and no location.
type Date struct {
	Year  int
	Month int
	Day   int
}

// NewDate returns the date for year/month/day, rejecting impossible dates such as
// February 30th instead of normalising them, and years outside MinYear-MaxYear.
func NewDate(year, month, day int) (Date, error) {
	if year < MinYear || year > MaxYear {
		return Date{}, fmt.Errorf("%w: year %d out of range %d-%d", ErrInvalidDate, year, MinYear, MaxYear)
	}
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: month %d out of range 1-12", ErrInvalidDate, month)
	}
	if last := DaysInMonth(month, year); day < 1 || day > last {
		return Date{}, fmt.Errorf("%w: day %d out of range 1-%d for %04d-%02d", ErrInvalidDate, day, last, year, month)
	}
	return Date{Year: year, Month: month, Day: day}, nil
}

// ParseDate parses an ISO 8601 calendar date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q: %v", ErrInvalidDate, s, err)
	}
	d := FromTime(t)
	return NewDate(d.Year, d.Month, d.Day)
}

// FromTime drops the clock and location from t, keeping the wall-clock date.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: int(m), Day: d}
}

// Today returns the local calendar date.
func Today() Date {
	return FromTime(time.Now())
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// Valid reports whether d names a real calendar day in a storable year.
func (d Date) Valid() bool {
	_, err := NewDate(d.Year, d.Month, d.Day)
	return err == nil
}

// String returns the canonical YYYY-MM-DD form used as the storage key.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// MarshalText encodes d as YYYY-MM-DD, the same form used as the storage key.
func (d Date) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Label renders d for display, e.g. "March 5, 2025".
func (d Date) Label() string {
	return fmt.Sprintf("%s %d, %d", MonthName(d.Month), d.Day, d.Year)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(d.Month, o.Month)
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// InMonth reports whether d falls in the given month of the given year.
func (d Date) InMonth(month, year int) bool {
	return d.Month == month && d.Year == year
}

// MonthName returns the English name of month, or "" if it is out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
