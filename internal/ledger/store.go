// Package ledger owns the authoritative in-memory transaction list and
// settings, persists every mutation, and notifies subscribers.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/spendwise/internal/model"
	"github.com/jask/spendwise/internal/storage"
)

var (
	// ErrNotFound is returned when an id does not exist in the store.
	ErrNotFound = errors.New("transaction not found")

	// ErrReentrantMutation is returned when a listener tries to mutate the
	// store while it is being notified.
	ErrReentrantMutation = errors.New("store mutated from inside a listener")
)

// Snapshot is the read-only view handed to listeners.
type Snapshot struct {
	Transactions []model.Transaction
	Settings     model.Settings
}

// Listener is called synchronously after every successful mutation.
type Listener func(Snapshot)

// Recorder receives operational counters. metrics.Metrics implements it.
type Recorder interface {
	Mutation(op string)
	PersistFailed(key string)
	Import(ok bool)
	Transactions(n int)
}

type nopRecorder struct{}

func (nopRecorder) Mutation(string)      {}
func (nopRecorder) PersistFailed(string) {}
func (nopRecorder) Import(bool)          {}
func (nopRecorder) Transactions(int)     {}

// Store is the single writer of spendwise state. Construct one per process
// and pass it to collaborators.
type Store struct {
	adapter *storage.Adapter
	log     *slog.Logger
	rec     Recorder
	now     func() time.Time
	loc     *time.Location
	newID   func() string

	mu        sync.Mutex
	txs       []model.Transaction
	settings  model.Settings
	listeners []listenerEntry
	nextSub   int
	notifying bool
	healthy   bool
}

type listenerEntry struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the zone used for calendar calculations.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) { s.loc = loc }
}

// WithIDGenerator overrides the random UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec Recorder) Option {
	return func(s *Store) { s.rec = rec }
}

// New loads persisted state through adapter. Missing or corrupt documents
// are replaced by defaults; New never fails.
func New(ctx context.Context, adapter *storage.Adapter, opts ...Option) *Store {
	s := &Store{
		adapter: adapter,
		log:     slog.Default(),
		rec:     nopRecorder{},
		now:     time.Now,
		loc:     time.Local,
		newID:   uuid.NewString,
		healthy: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.txs, s.settings = s.load(ctx)
	s.rec.Transactions(len(s.txs))
	return s
}

func (s *Store) load(ctx context.Context) ([]model.Transaction, model.Settings) {
	txs, err := s.adapter.LoadTransactions(ctx)
	if err != nil {
		s.logLoadError(storage.TransactionsKey, err)
		txs = []model.Transaction{}
	}
	settings, err := s.adapter.LoadSettings(ctx)
	if err != nil {
		s.logLoadError(storage.SettingsKey, err)
		settings = model.DefaultSettings()
	} else {
		settings = model.DefaultSettings().Merge(model.SettingsPatch{
			Currency:      nonEmpty(settings.Currency),
			BaseCurrency:  nonEmpty(settings.BaseCurrency),
			SpendingLimit: settings.SpendingLimit,
			ExchangeRates: settings.ExchangeRates,
			Categories:    settings.Categories,
		})
	}
	return txs, settings
}

func (s *Store) logLoadError(key string, err error) {
	if errors.Is(err, storage.ErrAbsent) {
		s.log.Debug("no persisted document, using defaults", "key", key)
		return
	}
	s.log.Warn("unreadable persisted document, using defaults", "key", key, "error", err)
}

func nonEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// Subscribe registers fn and returns a function that removes it. Listeners
// run in registration order.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.listeners = slices.DeleteFunc(s.listeners, func(e listenerEntry) bool { return e.id == id })
	}
}

// Healthy reports whether the last persistence write succeeded.
func (s *Store) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthy
}

// Transactions returns a copy of every transaction in insertion order.
func (s *Store) Transactions() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.txs)
}

// Get returns the transaction with id.
func (s *Store) Get(id string) (model.Transaction, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.txs[i], true
	}
	return model.Transaction{}, false
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.Clone()
}

// Categories returns the known categories.
func (s *Store) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.settings.Categories)
}

// Add stores a new transaction. The input is trusted: validate it first.
func (s *Store) Add(ctx context.Context, in model.NewTransaction) (model.Transaction, error) {
	var created model.Transaction
	err := s.mutate(ctx, "add", func() (bool, bool, error) {
		now := s.now()
		created = model.Transaction{
			ID:          s.uniqueID(),
			Description: in.Description,
			Amount:      in.Amount,
			Category:    in.Category,
			Date:        in.Date,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		s.txs = append(s.txs, created)
		return true, s.rememberCategory(in.Category), nil
	})
	return created, err
}

// Update merges patch over the transaction with id and bumps UpdatedAt.
func (s *Store) Update(ctx context.Context, id string, patch model.Patch) (model.Transaction, error) {
	var updated model.Transaction
	err := s.mutate(ctx, "update", func() (bool, bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, false, ErrNotFound
		}
		updated = patch.Apply(s.txs[i])
		updated.UpdatedAt = s.now()
		if updated.UpdatedAt.Before(updated.CreatedAt) {
			updated.UpdatedAt = updated.CreatedAt
		}
		s.txs[i] = updated
		return true, s.rememberCategory(updated.Category), nil
	})
	return updated, err
}

// Delete removes the transaction with id.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete", func() (bool, bool, error) {
		i := s.indexOf(id)
		if i < 0 {
			return false, false, ErrNotFound
		}
		s.txs = slices.Delete(s.txs, i, i+1)
		return true, false, nil
	})
}

// UpdateSettings merges patch into the settings and returns the result.
func (s *Store) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.Settings, error) {
	var out model.Settings
	err := s.mutate(ctx, "settings", func() (bool, bool, error) {
		s.settings = s.settings.Merge(patch)
		out = s.settings.Clone()
		return false, true, nil
	})
	return out, err
}

// AddCategory adds name to the known categories. It reports false when the
// category already existed.
func (s *Store) AddCategory(ctx context.Context, name string) (bool, error) {
	var added bool
	err := s.mutate(ctx, "category", func() (bool, bool, error) {
		added = s.rememberCategory(name)
		return false, added, nil
	})
	return added, err
}

// ClearAll resets the store to its first-run state and wipes storage.
func (s *Store) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return ErrReentrantMutation
	}
	s.txs = []model.Transaction{}
	s.settings = model.DefaultSettings()
	s.healthy = s.adapter.Clear(ctx)
	if !s.healthy {
		s.rec.PersistFailed("clear")
	}
	s.rec.Mutation("clear")
	s.rec.Transactions(0)
	return s.notifyLocked()
}

// mutate runs apply under the lock, persists the documents apply reports as
// dirty, and notifies listeners. Apply returns (txsDirty, settingsDirty, err);
// an error leaves state untouched and skips persistence and notification.
func (s *Store) mutate(ctx context.Context, op string, apply func() (bool, bool, error)) error {
	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		return ErrReentrantMutation
	}
	txsDirty, settingsDirty, err := apply()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if !txsDirty && !settingsDirty {
		s.mu.Unlock()
		return nil
	}
	s.persistLocked(ctx, txsDirty, settingsDirty)
	s.rec.Mutation(op)
	s.rec.Transactions(len(s.txs))
	return s.notifyLocked()
}

func (s *Store) persistLocked(ctx context.Context, txsDirty, settingsDirty bool) {
	healthy := true
	if txsDirty && !s.adapter.SaveTransactions(ctx, s.txs) {
		healthy = false
		s.rec.PersistFailed(storage.TransactionsKey)
	}
	if settingsDirty && !s.adapter.SaveSettings(ctx, s.settings) {
		healthy = false
		s.rec.PersistFailed(storage.SettingsKey)
	}
	if !healthy {
		s.log.Warn("persistence degraded, keeping in-memory state")
	}
	s.healthy = healthy
}

// notifyLocked must be called with s.mu held; it releases the lock before
// calling listeners.
func (s *Store) notifyLocked() error {
	snap := Snapshot{Transactions: slices.Clone(s.txs), Settings: s.settings.Clone()}
	listeners := slices.Clone(s.listeners)
	s.notifying = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.notifying = false
		s.mu.Unlock()
	}()
	for _, l := range listeners {
		l.fn(Snapshot{Transactions: slices.Clone(snap.Transactions), Settings: snap.Settings.Clone()})
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.txs, func(t model.Transaction) bool { return t.ID == id })
}

func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if s.indexOf(id) < 0 {
			return id
		}
	}
}

// rememberCategory adds name to the known set and reports whether it was new.
func (s *Store) rememberCategory(name string) bool {
	if name == "" || s.settings.HasCategory(name) {
		return false
	}
	s.settings.Categories = append(s.settings.Categories, name)
	return true
}
