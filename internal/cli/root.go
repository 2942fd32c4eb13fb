package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/julianstephens/daybook/internal/backup"
	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/journal"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/internal/storage/sqlite"
)

// Context is handed to every command's Run method.
type Context struct {
	Store  storage.Provider
	Logger *log.Logger
	Out    io.Writer
	Prompt Prompter
	Today  calendar.Date

	ctx context.Context
}

func NewContext(ctx context.Context, store storage.Provider, l *log.Logger) *Context {
	return &Context{
		Store:  store,
		Logger: logger.OrDiscard(l),
		Out:    os.Stdout,
		Prompt: HuhPrompter{},
		Today:  calendar.Today(),
		ctx:    ctx,
	}
}

// Ctx is the context commands pass to blocking store calls.
func (c *Context) Ctx() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.out(), args...)
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// Journal opens a controller focused on Today.
func (c *Context) Journal() (*journal.Journal, error) {
	j := journal.New(c.Store, c.Logger, c.Today)
	if err := j.Open(c.Ctx()); err != nil {
		return nil, err
	}
	return j, nil
}

// PerformAutomaticBackup snapshots a SQLite journal before it is modified, at
// most once per day. Failures are logged and never interrupt the command.
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return
	}

	mgr := backup.NewManager(c.Store.GetConfigPath(), c.Logger)
	backups, err := mgr.List()
	if err != nil {
		c.Logger.Warn("Automatic backup failed", "error", err)
		return
	}
	if len(backups) > 0 && calendar.FromTime(backups[0].Timestamp) == c.Today {
		return
	}
	if _, err := mgr.Create(c.Ctx()); err != nil {
		c.Logger.Warn("Automatic backup failed", "error", err)
	}
}
