package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/spendwise/internal/storage"
)

func TestBackendRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b, err := New(dir)
	require.NoError(t, err)

	_, ok, err := b.Get(ctx, storage.TransactionsKey)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, b.Set(ctx, storage.TransactionsKey, []byte(`[]`)))
	got, ok, err := b.Get(ctx, storage.TransactionsKey)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, `[]`, string(got))

	_, err = os.Stat(filepath.Join(dir, "finance-tracker_data.json"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "finance-tracker_data.json.tmp"))
	require.True(t, os.IsNotExist(err))

	require.NoError(t, b.Delete(ctx, storage.TransactionsKey, storage.SettingsKey))
	_, ok, err = b.Get(ctx, storage.TransactionsKey)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestNewRequiresDirectory(t *testing.T) {
	t.Parallel()

	_, err := New("  ")
	require.Error(t, err)
}
