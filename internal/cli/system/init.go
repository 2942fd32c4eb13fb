package system

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Delete the existing journal before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(ctx.Ctx()); err != nil {
		return err
	}
	ctx.Printf("Initialized daybook journal at: %s\n", ctx.Store.GetConfigPath())
	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*postgres.Store); ok {
		return errors.New("--force is not supported for PostgreSQL; drop the daybook schema manually")
	}

	path := ctx.Store.GetConfigPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to access existing journal: %w", err)
	}

	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close existing journal: %w", err)
	}
	// RemoveAll covers both a SQLite file and a diskv directory
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to delete existing journal: %w", err)
	}
	ctx.Logger.Warn("journal deleted", "path", path)
	ctx.Printf("Deleted existing journal at: %s\n", path)
	return nil
}
