package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/julianstephens/daybook/internal/cli"
	"github.com/julianstephens/daybook/internal/cli/backups"
	"github.com/julianstephens/daybook/internal/cli/entries"
	"github.com/julianstephens/daybook/internal/cli/system"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/errors"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string        `help:"Journal location: a SQLite file path, diskv://<dir>, or a PostgreSQL connection string. PostgreSQL credentials must NOT be embedded; use the OS keyring, ${db_env}, or .pgpass." type:"string" env:"DAYBOOK_CONFIG"`
	Debug   bool          `help:"Log debug output to stderr." env:"DAYBOOK_DEBUG"`
	Timeout time.Duration `help:"Per-operation timeout for PostgreSQL." default:"5s" env:"DAYBOOK_TIMEOUT"`

	Init    system.InitCmd    `cmd:"" help:"Initialize the journal."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Month   entries.MonthCmd  `cmd:"" help:"Show a month calendar." default:"withargs"`
	Show    entries.ShowCmd   `cmd:"" help:"Show the entry for a day."`
	Write   entries.WriteCmd  `cmd:"" help:"Write or replace the entry for a day."`
	Delete  entries.DeleteCmd `cmd:"" help:"Remove the entry for a day."`
	Recent  entries.RecentCmd `cmd:"" help:"List the most recently written entries."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite journal backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report where the connection string comes from."`
	} `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
}

// commands that open the store themselves, or never need it
var skipLoad = map[string]bool{
	"init":    true,
	"migrate": true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("A calendar journal: one entry per day, browsed a month at a time."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":      constants.Version,
			"recent_count": strconv.Itoa(constants.DefaultRecentCount),
			"db_env":       constants.EnvDBConnection,
		},
	)

	configDir, err := cli.ConfigDir(CLI.Config)
	if err != nil {
		errors.Fatal(nil, err)
	}
	l, err := logger.New(logger.Config{Debug: CLI.Debug, ConfigDir: configDir})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file logging disabled: %v\n", err)
		l = logger.Discard()
	}

	store, err := cli.OpenStore(cli.StoreOptions{
		Location: CLI.Config,
		Timeout:  CLI.Timeout,
		Logger:   l,
		Getenv:   os.Getenv,
	})
	if err != nil {
		errors.Fatal(l, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := cli.NewContext(ctx, store, l)
	command := strings.Fields(kctx.Command())
	l.Debug("running command", "command", kctx.Command(), "journal", store.GetConfigPath())

	if len(command) > 0 && !skipLoad[command[0]] {
		if err := loadStore(ctx, store, l); err != nil {
			stop()
			errors.Fatal(l, err)
		}
	}

	err = kctx.Run(appCtx)
	if cerr := store.Close(); cerr != nil {
		l.Warn("failed to close journal", "error", cerr)
	}
	if err != nil {
		stop()
		errors.Fatal(l, err)
	}
}

// loadStore opens an existing journal, releasing it again if that fails.
func loadStore(ctx context.Context, store storage.Provider, l *log.Logger) error {
	if err := store.Load(ctx); err != nil {
		if cerr := store.Close(); cerr != nil {
			l.Warn("failed to close journal", "error", cerr)
		}
		return err
	}
	return nil
}
