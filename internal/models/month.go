package models

import (
	"fmt"

	"github.com/julianstephens/daybook/internal/calendar"
)

// Cell is one slot of a month grid: either a Day of the month or padding.
type Cell struct {
	day *Day
}

// Day returns the cell's Day, or false for a padding cell.
func (c Cell) Day() (*Day, bool) {
	return c.day, c.day != nil
}

// Empty reports whether the cell is padding.
func (c Cell) Empty() bool {
	return c.day == nil
}

// Grid is a month as six Monday-first weeks.
type Grid [calendar.WeeksPerGrid][calendar.DaysPerWeek]Cell

// Month owns one Day per date of a single month plus the padding needed to fill
// a 6x7 grid. Navigation never mutates a Month; Shift builds a new one.
type Month struct {
	number       int
	year         int
	grid         Grid
	firstWeekday int
	daysInMonth  int
}

// NewMonth builds the grid for month (1-12) of year with every entry empty.
func NewMonth(month, year int) (*Month, error) {
	weeks, err := calendar.BuildWeeks(month, year)
	if err != nil {
		return nil, err
	}

	m := &Month{
		number:       month,
		year:         year,
		firstWeekday: calendar.FirstWeekday(month, year),
		daysInMonth:  calendar.DaysInMonth(month, year),
	}
	for i, week := range weeks {
		for j, slot := range week {
			if date, ok := slot.Date(); ok {
				m.grid[i][j] = Cell{day: newDay(date)}
			}
		}
	}
	return m, nil
}

// MonthOf builds the Month containing date.
func MonthOf(date calendar.Date) (*Month, error) {
	return NewMonth(date.Month, date.Year)
}

func (m *Month) Number() int       { return m.number }
func (m *Month) Year() int         { return m.year }
func (m *Month) FirstWeekday() int { return m.firstWeekday }
func (m *Month) DaysInMonth() int  { return m.daysInMonth }

// Name is the English month name, e.g. "March".
func (m *Month) Name() string {
	return calendar.MonthName(m.number)
}

// Title is the name and year, e.g. "March 2025".
func (m *Month) Title() string {
	return fmt.Sprintf("%s %d", m.Name(), m.year)
}

// Grid returns the 6x7 cell layout. Cells share their Day with the Month.
func (m *Month) Grid() Grid {
	return m.grid
}

// Cell returns the cell at row, col.
func (m *Month) Cell(row, col int) (Cell, error) {
	if row < 0 || row >= calendar.WeeksPerGrid || col < 0 || col >= calendar.DaysPerWeek {
		return Cell{}, fmt.Errorf("cell (%d, %d) outside %dx%d grid", row, col, calendar.WeeksPerGrid, calendar.DaysPerWeek)
	}
	return m.grid[row][col], nil
}

// Lookup returns the Day for dayOfMonth. Values outside [1, DaysInMonth] are
// rejected with an InvalidDayError, never clamped.
func (m *Month) Lookup(dayOfMonth int) (*Day, error) {
	if dayOfMonth < 1 || dayOfMonth > m.daysInMonth {
		return nil, &InvalidDayError{Day: dayOfMonth, DaysInMonth: m.daysInMonth, Month: m.number, Year: m.year}
	}
	row, col := calendar.CellIndex(m.firstWeekday, dayOfMonth)
	return m.grid[row][col].day, nil
}

// Days returns the month's days in date order.
func (m *Month) Days() []*Day {
	days := make([]*Day, 0, m.daysInMonth)
	for dom := 1; dom <= m.daysInMonth; dom++ {
		row, col := calendar.CellIndex(m.firstWeekday, dom)
		days = append(days, m.grid[row][col].day)
	}
	return days
}

// Contains reports whether date falls in this month.
func (m *Month) Contains(date calendar.Date) bool {
	return date.InMonth(m.number, m.year) && date.Day >= 1 && date.Day <= m.daysInMonth
}

// DateRange returns the first and last date of the month, the bounds for an
// entry store range query.
func (m *Month) DateRange() (calendar.Date, calendar.Date) {
	return calendar.MonthRange(m.number, m.year)
}

// Populate copies entry text onto the matching days. The batch is checked
// first: if any entry falls outside the month a MonthBoundaryError is returned
// and no day is modified.
func (m *Month) Populate(entries []Entry) error {
	for _, e := range entries {
		if !m.Contains(e.Date) {
			return &MonthBoundaryError{Date: e.Date, Month: m.number, Year: m.year}
		}
	}
	for _, e := range entries {
		day, err := m.Lookup(e.Date.Day)
		if err != nil {
			return err
		}
		day.SetEntry(e.Text)
	}
	return nil
}

// Shift returns a new, empty Month delta months away. Entries are not carried
// over; the caller populates the new month from its own range query.
func (m *Month) Shift(delta int) (*Month, error) {
	month, year := calendar.AddMonths(m.number, m.year, delta)
	return NewMonth(month, year)
}
