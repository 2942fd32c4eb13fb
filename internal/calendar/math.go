package calendar

import (
	"fmt"
	"time"
)

const (
	// WeeksPerGrid is fixed so every month renders with the same height.
	WeeksPerGrid = 6
	// DaysPerWeek columns, Monday first.
	DaysPerWeek = 7
)

// Slot is one cell of a month grid. Padding cells before the 1st and after the
// last day of the month are empty and never carry a date from a neighbouring month.
type Slot struct {
	date  Date
	valid bool
}

// Date returns the slot's date and whether the slot belongs to the month.
func (s Slot) Date() (Date, bool) {
	return s.date, s.valid
}

// Empty reports whether the slot is padding.
func (s Slot) Empty() bool {
	return !s.valid
}

// Weeks is a month laid out as six Monday-first rows.
type Weeks [WeeksPerGrid][DaysPerWeek]Slot

// ValidateMonth checks that month is in 1-12.
func ValidateMonth(month int) error {
	if month < 1 || month > 12 {
		return fmt.Errorf("%w: %d (want 1-12)", ErrInvalidMonth, month)
	}
	return nil
}

// IsLeap reports whether year is a Gregorian leap year.
func IsLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in month of year, or 0 if month is out of range.
func DaysInMonth(month, year int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeap(year) {
			return 29
		}
		return 28
	}
	return 0
}

// FirstWeekday returns the weekday of the 1st of the month as 0 (Monday) to 6 (Sunday).
func FirstWeekday(month, year int) int {
	wd := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday()
	return (int(wd) + 6) % 7
}

// BuildWeeks lays out month of year as a 6x7 Monday-first grid. Rows the month
// does not naturally need are left empty.
func BuildWeeks(month, year int) (Weeks, error) {
	var weeks Weeks
	if err := ValidateMonth(month); err != nil {
		return weeks, err
	}

	first := FirstWeekday(month, year)
	days := DaysInMonth(month, year)
	for day := 1; day <= days; day++ {
		row, col := CellIndex(first, day)
		weeks[row][col] = Slot{date: Date{Year: year, Month: month, Day: day}, valid: true}
	}
	return weeks, nil
}

// CellIndex maps a day of month to its (row, col) given the month's first weekday.
func CellIndex(firstWeekday, day int) (row, col int) {
	idx := firstWeekday + day - 1
	return idx / DaysPerWeek, idx % DaysPerWeek
}

// AddMonths shifts (month, year) by delta months. The result month is always
// in 1-12 and the year moves by floor((month-1+delta)/12), for negative deltas too.
func AddMonths(month, year, delta int) (int, int) {
	idx := year*12 + (month - 1) + delta
	y := floorDiv(idx, 12)
	return idx - y*12 + 1, y
}

// MonthRange returns the first and last date of month in year.
func MonthRange(month, year int) (Date, Date) {
	return Date{Year: year, Month: month, Day: 1},
		Date{Year: year, Month: month, Day: DaysInMonth(month, year)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
