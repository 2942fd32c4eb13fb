package models

import (
	"errors"
	"fmt"

	"github.com/julianstephens/daybook/internal/calendar"
)

var (
	// ErrInvalidDay matches any InvalidDayError
	ErrInvalidDay = errors.New("day of month out of range")
	// ErrMonthBoundary matches any MonthBoundaryError
	ErrMonthBoundary = errors.New("entry date outside month")
	// ErrEmptyCell is returned when a padding cell is asked for its day
	ErrEmptyCell = errors.New("calendar cell is empty")
)

// InvalidDayError reports a day-of-month lookup outside [1, DaysInMonth].
type InvalidDayError struct {
	Day         int
	DaysInMonth int
	Month       int
	Year        int
}

func (e *InvalidDayError) Error() string {
	return fmt.Sprintf("day %d out of range 1-%d for %s %d", e.Day, e.DaysInMonth, calendar.MonthName(e.Month), e.Year)
}

func (e *InvalidDayError) Is(target error) bool {
	return target == ErrInvalidDay
}

// MonthBoundaryError reports an entry that was handed to the wrong month. It
// points at a bad range query by the caller, not at the store.
type MonthBoundaryError struct {
	Date  calendar.Date
	Month int
	Year  int
}

func (e *MonthBoundaryError) Error() string {
	return fmt.Sprintf("entry dated %s does not belong to %s %d", e.Date, calendar.MonthName(e.Month), e.Year)
}

func (e *MonthBoundaryError) Is(target error) bool {
	return target == ErrMonthBoundary
}
