package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/daybook/internal/backup"
	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/keyring"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/internal/storage/sqlite"
)

type DoctorCmd struct{}

type checkStatus int

const (
	statusOK checkStatus = iota
	statusWarn
	statusFail
	statusSkip
)

type check struct {
	name    string
	needsDB bool
	// warnOnly checks never fail the run
	warnOnly bool
	run      func(*cli.Context) error
}

var checks = []check{
	{name: "Journal reachable", run: checkReachable},
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Entries readable", needsDB: true, run: checkEntries},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
	{name: "OS keyring", warnOnly: true, run: checkKeyring},
	{name: "Clock sanity", warnOnly: true, run: checkClock},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	failed := 0
	reachable := false
	for i, c := range checks {
		var err error
		status := statusOK
		switch {
		case c.needsDB && !reachable:
			status = statusSkip
		default:
			err = c.run(ctx)
			if err != nil {
				status = statusFail
				if c.warnOnly {
					status = statusWarn
				}
			}
		}
		if i == 0 {
			reachable = err == nil
		}
		if status == statusFail {
			failed++
		}
		report(ctx, c.name, status, err)
	}

	ctx.Println()
	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	ctx.Println("All checks passed.")
	return nil
}

func report(ctx *cli.Context, name string, status checkStatus, err error) {
	switch status {
	case statusOK:
		ctx.Printf("✓ %s: OK\n", name)
	case statusWarn:
		ctx.Printf("⚠ %s: WARNING\n", name)
		ctx.Printf("   %v\n", err)
	case statusFail:
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
	case statusSkip:
		ctx.Printf("⊘ %s: SKIPPED (journal not reachable)\n", name)
	}
}

func checkReachable(ctx *cli.Context) error {
	return ctx.Store.Load(ctx.Ctx())
}

func checkSchemaVersion(ctx *cli.Context) error {
	m, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := m.SchemaStatus(ctx.Ctx())
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("schema version %d, latest is %d; run '%s migrate'", current, latest, constants.AppName)
	}
	return nil
}

func checkEntries(ctx *cli.Context) error {
	n, err := ctx.Store.Count(ctx.Ctx())
	if err != nil {
		return err
	}
	// a probe read through the same path the calendar uses
	start, end := calendar.MonthRange(ctx.Today.Month, ctx.Today.Year)
	if _, err := ctx.Store.FetchRange(ctx.Ctx(), start, end); err != nil {
		return err
	}
	ctx.Logger.Debug("doctor counted entries", "count", n)
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath(), ctx.Logger).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with '%s backup create'", constants.AppName)
	}
	return nil
}

func checkKeyring(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		return errors.New("OS keyring is not available; use " + constants.EnvDBConnection + " for PostgreSQL credentials")
	}
	return nil
}

func checkClock(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2000 {
		return fmt.Errorf("system clock reports %s", now.Format(time.RFC3339))
	}
	if calendar.FromTime(now) != ctx.Today {
		return fmt.Errorf("journal date %s differs from system date %s", ctx.Today, calendar.FromTime(now))
	}
	return nil
}
