package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jask/spendwise/internal/config"
	"github.com/jask/spendwise/internal/ledger"
	"github.com/jask/spendwise/internal/logging"
	"github.com/jask/spendwise/internal/metrics"
	"github.com/jask/spendwise/internal/model"
	"github.com/jask/spendwise/internal/storage"
	"github.com/jask/spendwise/internal/storage/file"
	"github.com/jask/spendwise/internal/storage/memory"
	"github.com/jask/spendwise/internal/storage/sqlite"
	"github.com/jask/spendwise/internal/validate"
)

// globalFlags are the root persistent flags.
type globalFlags struct {
	configPath  string
	backend     string
	storagePath string
	logLevel    string
	noColor     bool
}

// app is everything one command invocation needs. It is built per command
// and closed when the command returns.
type app struct {
	cfg       config.Config
	log       *slog.Logger
	loc       *time.Location
	adapter   *storage.Adapter
	store     *ledger.Store
	metrics   *metrics.Metrics
	validator *validate.Validator
	out       io.Writer
	theme     theme
}

// loadConfig reads --config, or SPENDWISE_CONFIG and the default location
// when the flag is unset, then applies the remaining flag overrides.
func loadConfig(flags globalFlags) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	if flags.backend != "" {
		cfg.Storage.Backend = flags.backend
	}
	if flags.storagePath != "" {
		cfg.Storage.Path = flags.storagePath
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.noColor {
		cfg.UI.Color = false
	}
	return cfg, cfg.Validate()
}

func openApp(ctx context.Context, flags globalFlags, out, errOut io.Writer) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	log := logging.Setup(errOut, cfg.Log.Level, cfg.UI.Color)
	backend, err := openBackend(cfg, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New(cfg.Metrics.Runtime)
	adapter := storage.NewAdapter(backend, log)
	store := ledger.New(ctx, adapter,
		ledger.WithLocation(loc),
		ledger.WithLogger(log),
		ledger.WithRecorder(m),
	)
	store.Subscribe(func(snap ledger.Snapshot) {
		log.Debug("store changed", "transactions", len(snap.Transactions), "categories", len(snap.Settings.Categories))
	})
	return &app{
		cfg:       cfg,
		log:       log,
		loc:       loc,
		adapter:   adapter,
		store:     store,
		metrics:   m,
		validator: validate.New(validate.WithLocation(loc)),
		out:       out,
		theme:     newTheme(out, cfg.UI.Color),
	}, nil
}

func openBackend(cfg config.Config, log *slog.Logger) (storage.Backend, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Debug("storage opened", "backend", cfg.Storage.Backend)
		return memory.New(0), nil
	case config.BackendFile:
		b, err := file.New(cfg.StoragePath())
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		log.Debug("storage opened", "backend", cfg.Storage.Backend, "dir", b.Dir())
		return b, nil
	case config.BackendSQLite:
		b, err := sqlite.New(cfg.StoragePath())
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		log.Debug("storage opened", "backend", cfg.Storage.Backend, "path", cfg.StoragePath())
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func (a *app) close() error {
	var errs []error
	if !a.store.Healthy() {
		a.log.Warn("last save failed; changes from this run may not be persisted")
	}
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.adapter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}

func (a *app) today() string {
	return time.Now().In(a.loc).Format(model.DateLayout)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}

// printAlert shows the spending-limit alert, if any.
func (a *app) printAlert() {
	alert := a.store.CheckSpendingLimit()
	if alert == nil {
		return
	}
	style := a.theme.warning
	if alert.Level == ledger.AlertExceeded {
		style = a.theme.errorS
	}
	a.println(style.Render(alert.Message))
}
