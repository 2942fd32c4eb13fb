package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrStorage matches every *StorageError
	ErrStorage = errors.New("storage error")
	// ErrNotLoaded is returned when a data operation runs before Init or Load
	ErrNotLoaded = errors.New("storage not loaded")
)

// StorageError wraps a failure from the underlying engine. Op names the
// Provider operation ("upsert", "fetch_range", ...).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// Wrap returns err as a *StorageError for op, or nil when err is nil. An error
// that already is a *StorageError is returned as is.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}
