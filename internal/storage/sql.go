package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/julianstephens/daybook/internal/models"
)

// Operation names used in StorageError.Op
const (
	OpInit        = "init"
	OpLoad        = "load"
	OpUpsert      = "upsert"
	OpFetchRange  = "fetch_range"
	OpDelete      = "delete"
	OpFetchRecent = "fetch_recent"
	OpCount       = "count"
)

// WithTx runs fn inside a single transaction on db, committing on success and
// rolling back otherwise. Errors come back wrapped as *StorageError for op.
func WithTx(ctx context.Context, db *sql.DB, op string, fn func(*sql.Tx) error) error {
	if db == nil {
		return Wrap(op, ErrNotLoaded)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Wrap(op, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return Wrap(op, err)
	}
	if err := tx.Commit(); err != nil {
		return Wrap(op, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// ScanEntries reads (date, entry) rows into Entries.
func ScanEntries(rows *sql.Rows) ([]models.Entry, error) {
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var date, text string
		if err := rows.Scan(&date, &text); err != nil {
			return nil, err
		}
		e, err := models.ParseEntry(date, text)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
