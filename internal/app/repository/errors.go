package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrLinkNotFound signals that no link record exists for the requested id.
	ErrLinkNotFound = errors.New("link not found")
)

// StorageReadError wraps an infrastructure failure while reading from the
// store, keeping it distinguishable from a legitimately missing record.
type StorageReadError struct {
	Table string
	Err   error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("storage read %s: %v", e.Table, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

// StorageWriteError wraps an infrastructure failure while writing to the
// store.
type StorageWriteError struct {
	Table string
	Err   error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("storage write %s: %v", e.Table, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }
