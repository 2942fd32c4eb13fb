// Package render draws months and entries for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/models"
)

// Weekdays is the grid header, Monday first.
var Weekdays = [calendar.DaysPerWeek]string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

const (
	entryMarker  = "•"
	previewWidth = 60
)

// Month renders the title, weekday header and all six weeks of m. Days with an
// entry carry a marker; the focus day is drawn reversed.
func Month(m *models.Month, focus calendar.Date) string {
	rows := make([]string, 0, calendar.WeeksPerGrid+2)
	rows = append(rows, titleStyle.Render(m.Title()))

	header := make([]string, len(Weekdays))
	for i, wd := range Weekdays {
		header[i] = weekdayStyle.Render(wd)
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, header...))

	grid := m.Grid()
	for _, week := range grid {
		cells := make([]string, len(week))
		for i, cell := range week {
			cells[i] = renderCell(cell, focus)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(cell models.Cell, focus calendar.Date) string {
	day, ok := cell.Day()
	if !ok {
		return strings.Repeat(" ", cellWidth)
	}

	marker := " "
	style := dayStyle
	if day.HasEntry() {
		marker = entryMarker
		style = entryDayStyle
	}
	if day.Date() == focus {
		style = style.Inherit(focusStyle)
	}
	return style.Render(fmt.Sprintf("%2d%s", day.Date().Day, marker))
}

// Entry renders a day's label followed by its text.
func Entry(day *models.Day) string {
	if day == nil {
		return ""
	}
	label := labelStyle.Render(day.Label())
	if !day.HasEntry() {
		return lipgloss.JoinVertical(lipgloss.Left, label, mutedStyle.Render("(no entry)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, entryBoxStyle.Render(day.Entry()))
}

// Recent renders one line per entry: the date and a one-line preview.
func Recent(entries []models.Entry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No entries yet.")
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%s  %s", labelStyle.Render(e.Date.String()), Preview(e.Text, previewWidth))
	}
	return strings.Join(lines, "\n")
}

// Preview returns the first line of text cut to at most width runes.
func Preview(text string, width int) string {
	line, _, more := strings.Cut(strings.TrimSpace(text), "\n")
	r := []rune(line)
	if len(r) > width {
		return string(r[:width-1]) + "…"
	}
	if more {
		return line + " …"
	}
	return line
}
