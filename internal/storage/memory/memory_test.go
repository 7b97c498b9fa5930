package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/spendwise/internal/storage"
)

func TestSetGetDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := New(0)

	_, ok, err := b.Get(ctx, storage.SettingsKey)
	require.NoError(t, err)
	require.False(t, ok)

	value := []byte(`{"currency":"$"}`)
	require.NoError(t, b.Set(ctx, storage.SettingsKey, value))
	value[0] = 'x'

	got, ok, err := b.Get(ctx, storage.SettingsKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `{"currency":"$"}`, string(got))

	require.NoError(t, b.Delete(ctx, storage.SettingsKey, "missing"))
	_, ok, err = b.Get(ctx, storage.SettingsKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestQuota(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := New(10)
	require.NoError(t, b.Set(ctx, "a", []byte("12345")))
	require.NoError(t, b.Set(ctx, "a", []byte("1234567890")))
	require.ErrorIs(t, b.Set(ctx, "b", []byte("1")), storage.ErrQuotaExceeded)
}

func TestFailWritesAndClose(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := New(0)
	boom := errors.New("boom")
	b.FailWrites(boom)
	require.ErrorIs(t, b.Set(ctx, "a", nil), boom)
	require.ErrorIs(t, b.Delete(ctx, "a"), boom)

	b.FailWrites(nil)
	require.NoError(t, b.Set(ctx, "a", []byte("1")))

	require.NoError(t, b.Close())
	_, _, err := b.Get(ctx, "a")
	require.ErrorIs(t, err, ErrClosed)
}
