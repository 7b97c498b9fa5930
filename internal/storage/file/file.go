// Package file stores each key as a JSON file inside a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jask/spendwise/internal/storage"
)

// Ensure Backend implements storage.Backend
var _ storage.Backend = (*Backend)(nil)

// Backend writes one file per key. Writes go through a temp file and a
// rename so a crash never leaves a half-written document.
type Backend struct {
	dir string
}

// New creates dir if needed and returns a backend rooted there.
func New(dir string) (*Backend, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("file backend: directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Backend{dir: dir}, nil
}

// Dir returns the storage directory.
func (b *Backend) Dir() string { return b.dir }

func (b *Backend) path(key string) string {
	name := strings.NewReplacer(":", "_", "/", "_", string(filepath.Separator), "_").Replace(key)
	return filepath.Join(b.dir, name+".json")
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	path := b.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (b *Backend) Delete(_ context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		if err := os.Remove(b.path(key)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Backend) Close() error { return nil }
