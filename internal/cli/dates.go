package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/daybook/internal/calendar"
)

// ParseDateArg accepts YYYY-MM-DD, "today", "yesterday" or "tomorrow".
// An empty string means today.
func ParseDateArg(s string, today calendar.Date) (calendar.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "yesterday":
		return calendar.FromTime(today.Time().AddDate(0, 0, -1)), nil
	case "tomorrow":
		return calendar.FromTime(today.Time().AddDate(0, 0, 1)), nil
	}
	d, err := calendar.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return calendar.Date{}, fmt.Errorf("%w (want YYYY-MM-DD, today or yesterday)", err)
	}
	return d, nil
}
