// Package prefs persists dashboard preferences in a small key-value store.
package prefs

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrUnknownBackend is returned by Open for unrecognised backend names.
var ErrUnknownBackend = errors.New("prefs: unknown backend")

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Store is a string key-value store.
type Store interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	Close() error
}

// Open returns the store for backend rooted in dir. The file backend writes
// preferences.json and the sqlite backend writes preferences.db.
func Open(backend, dir string) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(filepath.Join(dir, "preferences.json")), nil
	case BackendSQLite:
		s, err := NewSQLiteStore(filepath.Join(dir, "preferences.db"))
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite preferences: %w", err)
		}
		return s, nil
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
}
