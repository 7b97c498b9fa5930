package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

var backends = []string{BackendSQLite, BackendFile, BackendMemory}

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Log     LogConfig     `mapstructure:"log"`
	UI      UIConfig      `mapstructure:"ui"`
	Watch   WatchConfig   `mapstructure:"watch"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// StorageConfig selects where transactions and settings are persisted.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Timezone string `mapstructure:"timezone"`
	Color    bool   `mapstructure:"color"`
}

// WatchConfig holds the spending watcher schedule.
type WatchConfig struct {
	Schedule string `mapstructure:"schedule"`
}

// MetricsConfig holds the optional textfile exporter path. Runtime adds Go
// and process collectors to the export.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
	Runtime  bool   `mapstructure:"runtime"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "spendwise")
}

// DefaultPath is the config file location used when SPENDWISE_CONFIG is unset.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "spendwise", "config.toml")
}

// Load reads configuration from SPENDWISE_CONFIG (or the default path), a
// .env file in the working directory, and SPENDWISE_ env overrides.
func Load() (Config, error) {
	return LoadFile(os.Getenv("SPENDWISE_CONFIG"))
}

// LoadFile is Load with an explicit config file. An empty path searches the
// default location. A missing file is not an error.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()

	// default values
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.color", true)
	v.SetDefault("watch.schedule", "@daily")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("metrics.runtime", false)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SPENDWISE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks values that would otherwise fail later at startup.
func (c Config) Validate() error {
	if !slices.Contains(backends, c.Storage.Backend) {
		return fmt.Errorf("storage.backend %q: want one of %s", c.Storage.Backend, strings.Join(backends, ", "))
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// StoragePath resolves the backend path, filling in the per-backend default.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	switch c.Storage.Backend {
	case BackendFile:
		return filepath.Join(dataDir(), "data")
	default:
		return filepath.Join(dataDir(), "spendwise.db")
	}
}

// Location returns the zone used for "today" and "this month".
func (c Config) Location() (*time.Location, error) {
	switch c.UI.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ui.timezone %q: %w", c.UI.Timezone, err)
	}
	return loc, nil
}

// ResolvePath returns path, or SPENDWISE_CONFIG, or DefaultPath, whichever
// is set first.
func ResolvePath(path string) string {
	if path == "" {
		path = os.Getenv("SPENDWISE_CONFIG")
	}
	if path == "" {
		path = DefaultPath()
	}
	return path
}

// Save writes cfg to ResolvePath(path), creating the directory if needed.
func Save(cfg Config, path string) error {
	path = ResolvePath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.path", cfg.Storage.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.color", cfg.UI.Color)
	v.Set("watch.schedule", cfg.Watch.Schedule)
	v.Set("metrics.textfile", cfg.Metrics.Textfile)
	v.Set("metrics.runtime", cfg.Metrics.Runtime)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
