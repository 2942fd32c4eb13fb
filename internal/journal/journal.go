// Package journal owns the focus month and focus day and keeps them in step
// with the entry store.
package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
)

// ErrNotOpen is returned by operations that need a focus before Open is called.
var ErrNotOpen = errors.New("journal not open")

type Journal struct {
	store  storage.Provider
	logger *log.Logger
	today  calendar.Date

	month *models.Month
	focus *models.Day
}

// New returns a Journal over an already loaded store. today is the date Open
// focuses on.
func New(store storage.Provider, l *log.Logger, today calendar.Date) *Journal {
	return &Journal{
		store:  store,
		logger: logger.OrDiscard(l),
		today:  today,
	}
}

// Open builds and populates the month containing today and focuses today.
func (j *Journal) Open(ctx context.Context) error {
	return j.setFocus(ctx, j.today, true)
}

// GetMonth builds the month and fills it from the store.
func (j *Journal) GetMonth(ctx context.Context, month, year int) (*models.Month, error) {
	m, err := models.NewMonth(month, year)
	if err != nil {
		return nil, err
	}

	start, end := m.DateRange()
	entries, err := j.store.FetchRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if err := m.Populate(entries); err != nil {
		j.logger.Error("store returned entry outside requested month", "month", m.Title(), "error", err)
		return nil, err
	}
	return m, nil
}

// setFocus is the only place focus changes. The focus day is always taken
// from the month it belongs to; the month is rebuilt when reload is set or
// date lies outside the current one. On error the previous focus is kept.
func (j *Journal) setFocus(ctx context.Context, date calendar.Date, reload bool) error {
	if !date.Valid() {
		return fmt.Errorf("%w: %s", calendar.ErrInvalidDate, date)
	}

	month := j.month
	if reload || month == nil || !month.Contains(date) {
		m, err := j.GetMonth(ctx, date.Month, date.Year)
		if err != nil {
			return err
		}
		month = m
	}

	day, err := month.Lookup(date.Day)
	if err != nil {
		return err
	}
	j.month = month
	j.focus = day
	j.logger.Debug("focus changed", "date", date)
	return nil
}

// Shift moves the focus delta months. The focus keeps its day of month,
// clamped to the length of the target month (Jan 31 + 1 -> Feb 28/29).
func (j *Journal) Shift(ctx context.Context, delta int) error {
	if j.focus == nil {
		return ErrNotOpen
	}
	cur := j.focus.Date()
	month, year := calendar.AddMonths(cur.Month, cur.Year, delta)
	day := min(cur.Day, calendar.DaysInMonth(month, year))
	return j.setFocus(ctx, calendar.Date{Year: year, Month: month, Day: day}, true)
}

// Select focuses the day shown at row, col of the focus month's grid.
func (j *Journal) Select(ctx context.Context, row, col int) error {
	if j.month == nil {
		return ErrNotOpen
	}
	cell, err := j.month.Cell(row, col)
	if err != nil {
		return err
	}
	day, ok := cell.Day()
	if !ok {
		return models.ErrEmptyCell
	}
	return j.setFocus(ctx, day.Date(), false)
}

// SelectDate focuses date, loading its month if needed.
func (j *Journal) SelectDate(ctx context.Context, date calendar.Date) error {
	return j.setFocus(ctx, date, false)
}

// Save writes text for the focus day. Empty text removes the entry. The model
// is updated only after the store accepts the write.
func (j *Journal) Save(ctx context.Context, text string) error {
	if j.focus == nil {
		return ErrNotOpen
	}
	if text == "" {
		return j.Clear(ctx)
	}
	if err := j.store.Upsert(ctx, j.focus.Date(), text); err != nil {
		return err
	}
	j.focus.SetEntry(text)
	return nil
}

// Clear deletes the focus day's entry.
func (j *Journal) Clear(ctx context.Context) error {
	if j.focus == nil {
		return ErrNotOpen
	}
	if err := j.store.Delete(ctx, j.focus.Date()); err != nil {
		return err
	}
	j.focus.Clear()
	return nil
}

// Recent returns up to n entries, most recently written first.
func (j *Journal) Recent(ctx context.Context, n int) ([]models.Entry, error) {
	return j.store.FetchRecent(ctx, n)
}

// MonthTitle returns e.g. "March 2025", or "" before Open.
func (j *Journal) MonthTitle() string {
	if j.month == nil {
		return ""
	}
	return j.month.Title()
}

func (j *Journal) Focus() *models.Day   { return j.focus }
func (j *Journal) Month() *models.Month { return j.month }
func (j *Journal) Today() calendar.Date { return j.today }
