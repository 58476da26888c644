package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStorageReadError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("get link: %w", &StorageReadError{Table: "links", Err: cause})

	var readErr *StorageReadError
	if !errors.As(err, &readErr) {
		t.Fatal("expected StorageReadError in chain")
	}
	if readErr.Table != "links" {
		t.Fatalf("unexpected table: %q", readErr.Table)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected cause to stay reachable through Unwrap")
	}
	if !strings.Contains(readErr.Error(), "links") {
		t.Fatalf("error string should name the table: %q", readErr.Error())
	}
}

func TestStorageWriteError(t *testing.T) {
	cause := errors.New("disk full")
	err := &StorageWriteError{Table: "scans", Err: cause}

	if !errors.Is(err, cause) {
		t.Fatal("expected cause to stay reachable through Unwrap")
	}
	if !strings.Contains(err.Error(), "scans") {
		t.Fatalf("error string should name the table: %q", err.Error())
	}

	// Storage failures must never be mistaken for a missing record.
	if errors.Is(err, ErrLinkNotFound) {
		t.Fatal("StorageWriteError must not match ErrLinkNotFound")
	}
}
