package entries

import (
	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/render"
)

type ShowCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, today, yesterday). Defaults to today."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
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

	ctx.Println(render.Entry(j.Focus()))
	return nil
}
