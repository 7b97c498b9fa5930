// Package watch re-checks the spending limit on a cron schedule.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/jask/spendwise/internal/ledger"
)

// DefaultSchedule runs the check once a day at midnight.
const DefaultSchedule = "@daily"

// Checker is satisfied by *ledger.Store.
type Checker interface {
	CheckSpendingLimit() *ledger.Alert
}

// Notify receives every alert the watcher raises.
type Notify func(ledger.Alert)

// Watcher runs Checker on a schedule. An alert is passed to Notify only when
// it differs from the previous one, so a daily job does not repeat itself
// until spending moves.
type Watcher struct {
	checker Checker
	notify  Notify
	log     *slog.Logger
	cron    *cron.Cron

	mu   sync.Mutex
	last string
}

// New validates schedule and prepares a stopped watcher.
func New(checker Checker, schedule string, notify Notify, log *slog.Logger) (*Watcher, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if log == nil {
		log = slog.Default()
	}
	w := &Watcher{checker: checker, notify: notify, log: log, cron: cron.New()}
	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce() }); err != nil {
		return nil, fmt.Errorf("parse watch schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start runs the schedule in the background.
func (w *Watcher) Start() {
	w.log.Info("spending watcher started", "entries", len(w.cron.Entries()))
	w.cron.Start()
}

// Stop halts the schedule and returns a context that is done once any
// running check has finished.
func (w *Watcher) Stop() context.Context {
	return w.cron.Stop()
}

// RunOnce performs a single check and returns the alert, if any.
func (w *Watcher) RunOnce() *ledger.Alert {
	alert := w.checker.CheckSpendingLimit()

	w.mu.Lock()
	if alert == nil {
		w.last = ""
		w.mu.Unlock()
		w.log.Debug("spending within limit")
		return nil
	}
	repeat := alert.Message == w.last
	w.last = alert.Message
	w.mu.Unlock()

	if repeat {
		w.log.Debug("spending alert unchanged", "level", alert.Level)
		return alert
	}
	w.log.Warn("spending alert", "level", alert.Level, "percentage", alert.Percentage.StringFixed(1))
	if w.notify != nil {
		w.notify(*alert)
	}
	return alert
}
