package models

import "github.com/julianstephens/daybook/internal/calendar"

// Day is one calendar date of a Month together with its journal text. An empty
// entry and an entry that was never written are the same state.
type Day struct {
	date  calendar.Date
	entry string
}

func newDay(date calendar.Date) *Day {
	return &Day{date: date}
}

// Date returns the day's calendar date.
func (d *Day) Date() calendar.Date {
	return d.date
}

// Entry returns the journal text, "" when nothing has been written.
func (d *Day) Entry() string {
	return d.entry
}

// SetEntry replaces the journal text.
func (d *Day) SetEntry(text string) {
	d.entry = text
}

// HasEntry reports whether any text is present.
func (d *Day) HasEntry() bool {
	return d.entry != ""
}

// Clear empties the journal text.
func (d *Day) Clear() {
	d.entry = ""
}

// Label is the human-readable date, e.g. "March 5, 2025".
func (d *Day) Label() string {
	return d.date.Label()
}
