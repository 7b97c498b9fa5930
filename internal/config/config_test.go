package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SPENDWISE_CONFIG", "")
	return home
}

func TestLoadDefaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.Storage.Backend)
	require.Equal(t, filepath.Join(home, ".local", "share", "spendwise", "spendwise.db"), cfg.StoragePath())
	require.Equal(t, "info", cfg.Log.Level)
	require.True(t, cfg.UI.Color)
	require.Equal(t, "@daily", cfg.Watch.Schedule)
	require.Empty(t, cfg.Metrics.Textfile)
	require.False(t, cfg.Metrics.Runtime)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, time.Local, loc)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[storage]
backend = "file"

[ui]
timezone = "Australia/Melbourne"
color = false

[watch]
schedule = "@every 6h"
`), 0o644))

	t.Setenv("SPENDWISE_LOG_LEVEL", "debug")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, BackendFile, cfg.Storage.Backend)
	require.Equal(t, filepath.Join(home, ".local", "share", "spendwise", "data"), cfg.StoragePath())
	require.False(t, cfg.UI.Color)
	require.Equal(t, "@every 6h", cfg.Watch.Schedule)
	require.Equal(t, "debug", cfg.Log.Level)

	loc, err := cfg.Location()
	require.NoError(t, err)
	require.Equal(t, "Australia/Melbourne", loc.String())
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	isolate(t)

	t.Setenv("SPENDWISE_STORAGE_BACKEND", "postgres")
	_, err := Load()
	require.ErrorContains(t, err, "storage.backend")

	t.Setenv("SPENDWISE_STORAGE_BACKEND", "memory")
	t.Setenv("SPENDWISE_UI_TIMEZONE", "Mars/Olympus")
	_, err = Load()
	require.ErrorContains(t, err, "ui.timezone")
}

func TestLoadMalformedFile(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage\nbackend ="), 0o644))

	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	home := isolate(t)

	cfg, err := LoadFile(filepath.Join(home, "nope.toml"))
	require.NoError(t, err)
	require.Equal(t, BackendSQLite, cfg.Storage.Backend)
}

func TestSaveRoundTrip(t *testing.T) {
	home := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Storage.Backend = BackendMemory
	cfg.Metrics.Textfile = filepath.Join(home, "spendwise.prom")
	cfg.Metrics.Runtime = true
	cfg.UI.Color = false

	require.NoError(t, Save(cfg, ""))
	_, err = os.Stat(DefaultPath())
	require.NoError(t, err)

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestResolvePath(t *testing.T) {
	home := isolate(t)

	require.Equal(t, filepath.Join(home, ".config", "spendwise", "config.toml"), ResolvePath(""))
	require.Equal(t, "explicit.toml", ResolvePath("explicit.toml"))

	env := filepath.Join(home, "env.toml")
	t.Setenv("SPENDWISE_CONFIG", env)
	require.Equal(t, env, ResolvePath(""))
	require.Equal(t, "explicit.toml", ResolvePath("explicit.toml"))
}
