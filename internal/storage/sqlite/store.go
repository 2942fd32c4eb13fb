package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/migration"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/migrations"
)

type Store struct {
	path   string
	db     *sql.DB
	logger *log.Logger
}

func NewStore(path string, l *log.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.OrDiscard(l),
	}
}

func (s *Store) Init(ctx context.Context) error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return storage.Wrap(storage.OpInit, fmt.Errorf("failed to create config directory: %w", err))
	}

	if err := s.open(); err != nil {
		return storage.Wrap(storage.OpInit, err)
	}

	if err := s.runMigrations(ctx); err != nil {
		return storage.Wrap(storage.OpInit, fmt.Errorf("failed to run migrations: %w", err))
	}
	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return storage.Wrap(storage.OpLoad, fmt.Errorf("journal not initialized, run '%s init' first", constants.AppName))
	}

	if err := s.open(); err != nil {
		return storage.Wrap(storage.OpLoad, err)
	}

	runner, err := s.runner()
	if err != nil {
		return storage.Wrap(storage.OpLoad, err)
	}
	return storage.Wrap(storage.OpLoad, runner.ValidateVersion(ctx))
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One writer at a time keeps BEGIN from racing into SQLITE_BUSY
	db.SetMaxOpenConns(1)
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

func (s *Store) runner() (*migration.Runner, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverSQLite), nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	runner, err := s.runner()
	if err != nil {
		return err
	}
	_, err = runner.ApplyMigrations(ctx, func(msg string) {
		s.logger.Info(msg)
	})
	return err
}

// Migrate applies pending migrations to an existing database and reports how
// many ran.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	if err := s.open(); err != nil {
		return 0, err
	}
	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(ctx, func(msg string) {
		s.logger.Info(msg)
	})
}

// SchemaStatus returns the applied and latest known schema versions.
func (s *Store) SchemaStatus(ctx context.Context) (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, storage.ErrNotLoaded
	}
	runner, err := s.runner()
	if err != nil {
		return 0, 0, err
	}
	if current, err = runner.GetCurrentVersion(ctx); err != nil {
		return 0, 0, err
	}
	if latest, err = runner.GetLatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

func (s *Store) Upsert(ctx context.Context, date calendar.Date, text string) error {
	if !date.Valid() {
		return storage.Wrap(storage.OpUpsert, calendar.ErrInvalidDate)
	}
	// REPLACE drops the old row, so a rewrite gets a fresh id and moves to
	// the front of FetchRecent.
	err := storage.WithTx(ctx, s.db, storage.OpUpsert, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO entries (date, entry) VALUES (?, ?)",
			date.String(), text)
		return err
	})
	if err == nil {
		s.logger.Info("entry saved", "date", date)
	}
	return err
}

func (s *Store) FetchRange(ctx context.Context, start, end calendar.Date) ([]models.Entry, error) {
	s.logger.Debug("fetching entries", "start", start, "end", end)
	var entries []models.Entry
	err := storage.WithTx(ctx, s.db, storage.OpFetchRange, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			"SELECT date, entry FROM entries WHERE date >= ? AND date <= ?",
			start.String(), end.String())
		if err != nil {
			return err
		}
		entries, err = storage.ScanEntries(rows)
		return err
	})
	return entries, err
}

func (s *Store) Delete(ctx context.Context, date calendar.Date) error {
	err := storage.WithTx(ctx, s.db, storage.OpDelete, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE date = ?", date.String())
		return err
	})
	if err == nil {
		s.logger.Info("entry deleted", "date", date)
	}
	return err
}

func (s *Store) FetchRecent(ctx context.Context, n int) ([]models.Entry, error) {
	if n <= 0 {
		return []models.Entry{}, nil
	}
	var entries []models.Entry
	err := storage.WithTx(ctx, s.db, storage.OpFetchRecent, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			"SELECT date, entry FROM entries ORDER BY id DESC LIMIT ?", n)
		if err != nil {
			return err
		}
		entries, err = storage.ScanEntries(rows)
		return err
	})
	return entries, err
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := storage.WithTx(ctx, s.db, storage.OpCount, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n)
	})
	return n, err
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
