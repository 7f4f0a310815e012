// Package store persists the tracker's three pieces of state, each under its
// own key, on a pluggable key-value backend.
package store

import (
	"errors"
	"fmt"
	"path/filepath"
)

// Keys under which each piece of state is stored.
const (
	KeyTransactions  = "spendwise_transactions"
	KeySubscriptions = "spendwise_subscriptions"
	KeyBudget        = "spendwise_budget"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// DatabaseFile is the SQLite database name inside the data directory.
const DatabaseFile = "spendwise.db"

// ErrNotFound is returned by KV.Get for a key that was never written.
var ErrNotFound = errors.New("key not found")

// KV is a minimal byte store. Put replaces the whole value.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Close() error
}

// Open returns the backend named by backend rooted at dir. An empty name
// selects the file backend.
func Open(backend, dir string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return NewFileKV(dir)
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(dir, DatabaseFile))
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
