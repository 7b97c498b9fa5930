// Package memory provides an in-process storage.Backend.
package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/jask/spendwise/internal/storage"
)

// Ensure Backend implements storage.Backend
var _ storage.Backend = (*Backend)(nil)

// ErrClosed is returned after Close.
var ErrClosed = errors.New("memory backend closed")

// Backend keeps values in a map. A positive quota caps the total number of
// stored bytes, mirroring browser local storage limits.
type Backend struct {
	mu     sync.Mutex
	data   map[string][]byte
	quota  int
	fail   error
	closed bool
}

// New returns an empty backend. quota <= 0 disables the size limit.
func New(quota int) *Backend {
	return &Backend{data: make(map[string][]byte), quota: quota}
}

// FailWrites makes every subsequent Set and Delete return err. Pass nil to
// restore normal behaviour.
func (b *Backend) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = err
}

// Put stores raw bytes without quota checks, for seeding corrupt data.
func (b *Backend) Put(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = slices.Clone(value)
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false, ErrClosed
	}
	v, ok := b.data[key]
	return slices.Clone(v), ok, nil
}

func (b *Backend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if b.fail != nil {
		return b.fail
	}
	if b.quota > 0 {
		used := len(value)
		for k, v := range b.data {
			if k != key {
				used += len(v)
			}
		}
		if used > b.quota {
			return storage.ErrQuotaExceeded
		}
	}
	b.data[key] = slices.Clone(value)
	return nil
}

func (b *Backend) Delete(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	if b.fail != nil {
		return b.fail
	}
	for _, k := range keys {
		delete(b.data, k)
	}
	return nil
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
