package entries

import (
	"fmt"

	"github.com/julianstephens/daybook/internal/cli"
)

type DeleteCmd struct {
	Date string `arg:"" help:"Date whose entry to delete (YYYY-MM-DD, today, yesterday)."`
	Yes  bool   `help:"Skip confirmation." short:"y"`
}

func (c *DeleteCmd) Run(ctx *cli.Context) error {
	date, err := cli.ParseDateArg(c.Date, ctx.Today)
	if err != nil {
		return err
	}

	j, err := ctx.Journal()
	if err != nil {
		return err
	}
	if err := j.SelectDate(ctx.Ctx(), date); err != nil {
		return err
	}
	day := j.Focus()

	if !day.HasEntry() {
		ctx.Printf("No entry for %s\n", day.Label())
		return nil
	}

	if !c.Yes {
		ok, err := ctx.Prompt.Confirm(fmt.Sprintf("Delete the entry for %s?", day.Label()))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	ctx.PerformAutomaticBackup()
	if err := j.Clear(ctx.Ctx()); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted entry for %s\n", day.Label())
	return nil
}
