// Package storage persists spendwise state as keyed JSON documents in a
// local key-value backend.
package storage

import (
	"context"
	"errors"
)

// Keys of the two persisted documents.
const (
	TransactionsKey = "finance-tracker:data"
	SettingsKey     = "finance-tracker:settings"
)

// ErrQuotaExceeded is returned by backends that enforce a size limit.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Backend defines the key-value operations the adapter needs.
// This abstraction allows swapping storage backends (SQLite, files, memory)
// without changing the ledger.
type Backend interface {
	// Get returns the value stored under key. A missing key is reported with
	// ok=false and a nil error.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Close releases any resources held by the backend.
	Close() error
}
