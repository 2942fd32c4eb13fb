package models

import (
	"fmt"

	"github.com/julianstephens/daybook/internal/calendar"
)

// Entry is the persisted form of a day's text, keyed by date.
type Entry struct {
	Date calendar.Date
	Text string
}

// ParseEntry builds an Entry from its stored string form.
func ParseEntry(date, text string) (Entry, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing entry date: %w", err)
	}
	return Entry{Date: d, Text: text}, nil
}
