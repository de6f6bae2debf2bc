// Package storage persists a task.Store. Two backends exist: a JSON file in
// the same shape the store marshals to, and a SQLite database.
package storage

import (
	"errors"
	"fmt"

	"keep/internal/task"
)

// ErrCorrupt marks stored state that exists but could not be decoded.
var ErrCorrupt = errors.New("stored state is corrupt")

type Backend interface {
	// Load returns the saved store. It always returns a usable store, empty
	// when nothing was saved, even when it also returns an error.
	Load() (*task.Store, error)
	Save(s *task.Store) error
	Close() error
}

// Open returns the backend named kind ("json" or "sqlite") at path.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case "", "json":
		return NewJSONFile(path)
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
