package storage

import (
	"context"

	"github.com/julianstephens/daybook/internal/calendar"
	"github.com/julianstephens/daybook/internal/models"
)

// Provider is the durable, sparse date -> entry text mapping. Every method
// that touches data runs as exactly one short transaction and returns any
// failure as a *StorageError.
type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// Upsert inserts or replaces the entry for date. Calling it twice with the
	// same arguments leaves the same state as calling it once.
	Upsert(ctx context.Context, date calendar.Date, text string) error
	// FetchRange returns entries with start <= date <= end, in no particular order.
	FetchRange(ctx context.Context, start, end calendar.Date) ([]models.Entry, error)
	// Delete removes the entry for date. Deleting an absent date is not an error.
	Delete(ctx context.Context, date calendar.Date) error
	// FetchRecent returns up to n entries, most recently written first.
	FetchRecent(ctx context.Context, n int) ([]models.Entry, error)
	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by the SQL backends, which carry a versioned schema.
type Migrator interface {
	// Migrate applies pending migrations and reports how many ran
	Migrate(ctx context.Context) (int, error)
	// SchemaStatus returns the applied and latest known schema versions
	SchemaStatus(ctx context.Context) (current, latest int, err error)
}
