package entries

import (
	"fmt"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/render"
)

type MonthCmd struct {
	Month int `help:"Month number (1-12). Defaults to the current month." short:"m"`
	Year  int `help:"Four-digit year. Defaults to the current year." short:"y"`
	Shift int `help:"Move this many months from the selected month (negative goes back)." short:"s"`
}

func (c *MonthCmd) Run(ctx *cli.Context) error {
	j, err := ctx.Journal()
	if err != nil {
		return err
	}

	month, year := ctx.Today.Month, ctx.Today.Year
	if c.Month != 0 {
		if err := calendar.ValidateMonth(c.Month); err != nil {
			return err
		}
		month = c.Month
	}
	if c.Year != 0 {
		year = c.Year
	}

	if month != ctx.Today.Month || year != ctx.Today.Year {
		day := min(ctx.Today.Day, calendar.DaysInMonth(month, year))
		if err := j.SelectDate(ctx.Ctx(), calendar.Date{Year: year, Month: month, Day: day}); err != nil {
			return err
		}
	}
	if c.Shift != 0 {
		if err := j.Shift(ctx.Ctx(), c.Shift); err != nil {
			return err
		}
	}

	ctx.Println(render.Month(j.Month(), j.Focus().Date()))

	count := 0
	for _, d := range j.Month().Days() {
		if d.HasEntry() {
			count++
		}
	}
	ctx.Println()
	ctx.Println(entryCount(count))
	return nil
}

func entryCount(n int) string {
	switch n {
	case 0:
		return "No entries this month."
	case 1:
		return "1 entry this month."
	default:
		return fmt.Sprintf("%d entries this month.", n)
	}
}
