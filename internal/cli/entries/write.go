package entries

import (
	"strings"

	"github.com/julianstephens/daybook/internal/cli"
)

type WriteCmd struct {
	Date string   `arg:"" help:"Date to write (YYYY-MM-DD, today, yesterday)."`
	Text []string `arg:"" optional:"" help:"Entry text. Opens an editor when omitted; empty text removes the entry."`
}

func (c *WriteCmd) Run(ctx *cli.Context) error {
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

	var text string
	if len(c.Text) > 0 {
		text = strings.Join(c.Text, " ")
	} else {
		text, err = ctx.Prompt.EditEntry(day.Label(), day.Entry())
		if err != nil {
			return err
		}
	}
	text = strings.TrimRight(text, "\n")

	if text == day.Entry() {
		ctx.Println("No changes.")
		return nil
	}

	ctx.PerformAutomaticBackup()
	if err := j.Save(ctx.Ctx(), text); err != nil {
		return err
	}

	if text == "" {
		ctx.Printf("✓ Removed entry for %s\n", day.Label())
	} else {
		ctx.Printf("✓ Saved entry for %s\n", day.Label())
	}
	return nil
}
