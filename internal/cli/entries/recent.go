package entries

import (
	"fmt"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/render"
)

type RecentCmd struct {
	N int `help:"Number of entries to show." short:"n" default:"${recent_count}"`
}

func (c *RecentCmd) Run(ctx *cli.Context) error {
	if c.N < 0 {
		return fmt.Errorf("-n must not be negative, got %d", c.N)
	}
	entries, err := journal.New(ctx.Store, ctx.Logger, ctx.Today).Recent(ctx.Ctx(), c.N)
	if err != nil {
		return err
	}
	ctx.Println(render.Recent(entries))
	return nil
}
