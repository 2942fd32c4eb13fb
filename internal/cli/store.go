package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"

	"github.com/julianstephens/daybook/internal/constants"
	"github.com/julianstephens/daybook/internal/keyring"
	"github.com/julianstephens/daybook/internal/logger"
	"github.com/julianstephens/daybook/internal/storage"
	"github.com/julianstephens/daybook/internal/storage/diskv"
	"github.com/julianstephens/daybook/internal/storage/postgres"
	"github.com/julianstephens/daybook/internal/storage/sqlite"
)

// StoreOptions selects and configures the journal backend.
type StoreOptions struct {
	// Location is the --config value. Empty means: a connection string from
	// the environment or keyring if one is set, else the default SQLite file.
	Location string
	Timeout  time.Duration
	Logger   *log.Logger
	Getenv   func(string) string
}

// IsPostgres reports whether location is a PostgreSQL URL.
func IsPostgres(location string) bool {
	return strings.HasPrefix(location, constants.PostgresURLPrefix) ||
		strings.HasPrefix(location, constants.PostgresqlURLPrefix)
}

// OpenStore builds the Provider for opts. It does not Init or Load it.
func OpenStore(opts StoreOptions) (storage.Provider, error) {
	l := logger.OrDiscard(opts.Logger)
	location := strings.TrimSpace(opts.Location)

	if location == "" && opts.Getenv != nil {
		connStr, src, err := keyring.ResolveConnectionString(opts.Getenv)
		if err != nil {
			l.Debug("keyring lookup failed, using default journal", "error", err)
		}
		if connStr != "" {
			l.Debug("using stored connection string", "source", src)
			return postgres.New(connStr, opts.Timeout, l), nil
		}
	}
	if location == "" {
		location = constants.DefaultConfigPath
	}

	switch {
	case IsPostgres(location):
		if _, err := postgres.ValidateConnString(location); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed in --config; "+
					"store it with '%s keyring set', export %s, or use ~/.pgpass", constants.AppName, constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(location, opts.Timeout, l), nil

	case strings.HasPrefix(location, constants.DiskvURLPrefix):
		path, err := diskv.PathFromURL(location)
		if err != nil {
			return nil, err
		}
		if path, err = homedir.Expand(path); err != nil {
			return nil, fmt.Errorf("expanding %s: %w", location, err)
		}
		return diskv.NewStore(path, l), nil

	default:
		path, err := homedir.Expand(location)
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", location, err)
		}
		return sqlite.NewStore(path, l), nil
	}
}

// ConfigDir is where logs and backups go for location: the directory of a
// file-backed journal, or the default config directory for Postgres.
func ConfigDir(location string) (string, error) {
	if location == "" || IsPostgres(location) {
		location = constants.DefaultConfigPath
	}
	location = strings.TrimPrefix(location, constants.DiskvURLPrefix)
	path, err := homedir.Expand(location)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}
