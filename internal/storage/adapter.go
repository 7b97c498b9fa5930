package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jask/spendwise/internal/model"
)

// ErrAbsent reports that a document has never been written.
var ErrAbsent = errors.New("document absent")

// CorruptError reports a persisted document that could not be decoded.
type CorruptError struct {
	Key string
	Err error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("corrupt document %q: %v", e.Key, e.Err)
}

func (e *CorruptError) Unwrap() error { return e.Err }

// Adapter reads and writes the transactions and settings documents.
// Write failures are logged and reported as false; they never abort the
// caller.
type Adapter struct {
	backend Backend
	log     *slog.Logger
}

// NewAdapter wraps backend. A nil logger falls back to slog.Default().
func NewAdapter(backend Backend, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{backend: backend, log: log}
}

// LoadTransactions returns the persisted transactions. It returns ErrAbsent
// when nothing was saved yet and a *CorruptError when the document does not
// decode.
func (a *Adapter) LoadTransactions(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := a.load(ctx, TransactionsKey, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// LoadSettings returns the persisted settings, with the same error contract
// as LoadTransactions.
func (a *Adapter) LoadSettings(ctx context.Context) (model.Settings, error) {
	var s model.Settings
	if err := a.load(ctx, SettingsKey, &s); err != nil {
		return model.Settings{}, err
	}
	return s, nil
}

// SaveTransactions writes txs and reports whether the write succeeded.
func (a *Adapter) SaveTransactions(ctx context.Context, txs []model.Transaction) bool {
	if txs == nil {
		txs = []model.Transaction{}
	}
	return a.save(ctx, TransactionsKey, txs)
}

// SaveSettings writes s and reports whether the write succeeded.
func (a *Adapter) SaveSettings(ctx context.Context, s model.Settings) bool {
	return a.save(ctx, SettingsKey, s)
}

// Clear removes both documents and reports whether that succeeded.
func (a *Adapter) Clear(ctx context.Context) bool {
	if err := a.backend.Delete(ctx, TransactionsKey, SettingsKey); err != nil {
		a.log.Error("clear storage", "error", err)
		return false
	}
	return true
}

// Close closes the backend.
func (a *Adapter) Close() error {
	return a.backend.Close()
}

func (a *Adapter) load(ctx context.Context, key string, dst any) error {
	raw, ok, err := a.backend.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok || len(raw) == 0 {
		return ErrAbsent
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &CorruptError{Key: key, Err: err}
	}
	return nil
}

func (a *Adapter) save(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		a.log.Error("encode document", "key", key, "error", err)
		return false
	}
	if err := a.backend.Set(ctx, key, data); err != nil {
		a.log.Error("save document", "key", key, "bytes", len(data), "error", err)
		return false
	}
	a.log.Debug("saved document", "key", key, "bytes", len(data))
	return true
}
