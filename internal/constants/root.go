package constants

import "time"

const (
	AppName            = "daybook"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/daybook/journal.db"
	Version            = "v0.1.0"

	// DateFormat is the canonical storage format for entry dates (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayFormat renders a date for people, e.g. "March 5, 2025"
	DisplayFormat = "January 2, 2006"

	// Store selection prefixes for the --config value
	PostgresURLPrefix   = "postgres://"
	PostgresqlURLPrefix = "postgresql://"
	DiskvURLPrefix      = "diskv://"

	// EnvDBConnection holds a full connection string (may carry a password)
	EnvDBConnection = "DAYBOOK_DB_CONNECTION"

	// DefaultStoreTimeout bounds a single Postgres operation
	DefaultStoreTimeout = 5 * time.Second

	// DefaultRecentCount is used by `daybook recent` when -n is not given
	DefaultRecentCount = 10

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "daybook-"
	BackupFileSuffix = ".db"
)
