package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	pq "github.com/lib/pq"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/migration"
	"github.com/julianstephens/daybook/internal/models"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/migrations"
)

type Store struct {
	connStr string
	timeout time.Duration
	db      *sql.DB
	logger  *log.Logger
}

var (
	ErrInvalidConnectionString = errors.New("invalid PostgreSQL connection string")
	ErrEmbeddedCredentials     = errors.New("connection string must not contain a password")
)

// New returns a store for connStr. Every operation is bounded by timeout;
// a non-positive timeout falls back to constants.DefaultStoreTimeout.
func New(connStr string, timeout time.Duration, l *log.Logger) *Store {
	if timeout <= 0 {
		timeout = constants.DefaultStoreTimeout
	}
	s := &Store{
		connStr: connStr,
		timeout: timeout,
		logger:  logger.OrDiscard(l),
	}
	s.ensureSearchPath()
	return s
}

func (s *Store) ensureSearchPath() {
	if strings.HasPrefix(s.connStr, constants.PostgresURLPrefix) || strings.HasPrefix(s.connStr, constants.PostgresqlURLPrefix) {
		u, err := url.Parse(s.connStr)
		if err != nil {
			s.logger.Warn("Failed to parse Postgres connection string", "error", err)
			return
		}
		q := u.Query()
		if q.Get("search_path") == "" {
			q.Set("search_path", constants.AppName)
			u.RawQuery = q.Encode()
			s.connStr = u.String()
		}
	} else if !hasParam(s.connStr, "search_path") {
		s.connStr = strings.TrimSpace(s.connStr) + " search_path=" + constants.AppName
	}
}

// hasParam reports whether a DSN-style connection string carries key
// (case-insensitive).
func hasParam(connStr, key string) bool {
	for _, part := range strings.Fields(connStr) {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 2 && strings.EqualFold(kv[0], key) {
			return true
		}
	}
	return false
}

// hasSSLMode checks both URL-style and DSN-style connection strings for an
// sslmode parameter.
func hasSSLMode(connStr string) bool {
	if u, err := url.Parse(connStr); err == nil && u.Scheme != "" {
		for key := range u.Query() {
			if strings.EqualFold(key, "sslmode") {
				return true
			}
		}
	}
	return hasParam(connStr, "sslmode")
}

// ValidateConnString checks that connStr is a PostgreSQL URI or DSN and that
// it carries no password. Passwords belong in the keyring or ~/.pgpass.
func ValidateConnString(connStr string) (bool, error) {
	if strings.TrimSpace(connStr) == "" {
		return false, fmt.Errorf("%w: connection string cannot be empty", ErrInvalidConnectionString)
	}

	if _, err := pq.NewConnector(connStr); err != nil {
		return false, fmt.Errorf("%w: invalid connection string format: %v", ErrInvalidConnectionString, err)
	}

	if strings.HasPrefix(connStr, constants.PostgresURLPrefix) || strings.HasPrefix(connStr, constants.PostgresqlURLPrefix) {
		parsedURL, err := url.Parse(connStr)
		if err != nil {
			return false, fmt.Errorf("%w: failed to parse connection URL: %v", ErrInvalidConnectionString, err)
		}
		if _, isSet := parsedURL.User.Password(); isSet {
			return false, ErrEmbeddedCredentials
		}
		if parsedURL.Host == "" && parsedURL.User == nil && (parsedURL.Path == "" || parsedURL.Path == "/") {
			return false, fmt.Errorf("%w: connection URL is incomplete", ErrInvalidConnectionString)
		}
	} else if hasParam(connStr, "password") {
		return false, ErrEmbeddedCredentials
	}

	return true, nil
}

func (s *Store) open(ctx context.Context) error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasSSLMode(s.connStr) {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db
	return nil
}

func (s *Store) Init(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.db == nil {
		if err := s.open(ctx); err != nil {
			return storage.Wrap(storage.OpInit, err)
		}
	}

	if _, err := s.db.ExecContext(ctx, "CREATE SCHEMA IF NOT EXISTS "+pq.QuoteIdentifier(constants.AppName)); err != nil {
		return storage.Wrap(storage.OpInit, fmt.Errorf("failed to create schema: %w", err))
	}

	runner, err := s.runner()
	if err != nil {
		return storage.Wrap(storage.OpInit, err)
	}
	if _, err := runner.ApplyMigrations(ctx, func(msg string) { s.logger.Info(msg) }); err != nil {
		return storage.Wrap(storage.OpInit, fmt.Errorf("failed to run migrations: %w", err))
	}
	return nil
}

func (s *Store) Load(ctx context.Context) error {
	if s.db != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.open(ctx); err != nil {
		return storage.Wrap(storage.OpLoad, err)
	}

	runner, err := s.runner()
	if err != nil {
		return storage.Wrap(storage.OpLoad, err)
	}
	return storage.Wrap(storage.OpLoad, runner.ValidateVersion(ctx))
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
	subFS, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		return nil, fmt.Errorf("failed to access postgres migrations: %w", err)
	}
	return migration.NewRunner(s.db, subFS, migration.DriverPostgres), nil
}

// Migrate applies pending migrations and reports how many ran.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	if err := s.Load(ctx); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	runner, err := s.runner()
	if err != nil {
		return 0, err
	}
	return runner.ApplyMigrations(ctx, func(msg string) { s.logger.Info(msg) })
}

// SchemaStatus returns the applied and latest known schema versions.
func (s *Store) SchemaStatus(ctx context.Context) (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, storage.ErrNotLoaded
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

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

// withTx bounds a single-transaction operation by the store timeout.
func (s *Store) withTx(ctx context.Context, op string, fn func(context.Context, *sql.Tx) error) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return storage.WithTx(ctx, s.db, op, func(tx *sql.Tx) error {
		return fn(ctx, tx)
	})
}

func (s *Store) Upsert(ctx context.Context, date calendar.Date, text string) error {
	if !date.Valid() {
		return storage.Wrap(storage.OpUpsert, calendar.ErrInvalidDate)
	}
	// Delete then insert so a rewrite takes a fresh id, matching the
	// write-order semantics of FetchRecent.
	err := s.withTx(ctx, storage.OpUpsert, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE date = $1", date.String()); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, "INSERT INTO entries (date, entry) VALUES ($1, $2)", date.String(), text)
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
	err := s.withTx(ctx, storage.OpFetchRange, func(ctx context.Context, tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			"SELECT date, entry FROM entries WHERE date >= $1 AND date <= $2",
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
	err := s.withTx(ctx, storage.OpDelete, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE date = $1", date.String())
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
	err := s.withTx(ctx, storage.OpFetchRecent, func(ctx context.Context, tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, "SELECT date, entry FROM entries ORDER BY id DESC LIMIT $1", n)
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
	err := s.withTx(ctx, storage.OpCount, func(ctx context.Context, tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n)
	})
	return n, err
}

func (s *Store) GetConfigPath() string {
	// Non-sensitive identifier instead of the connection string
	return "postgresql"
}
