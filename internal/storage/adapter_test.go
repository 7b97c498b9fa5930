package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/spendwise/internal/model"
	"github.com/jask/spendwise/internal/storage"
	"github.com/jask/spendwise/internal/storage/memory"
)

func TestAdapterMissingDocumentsAreAbsent(t *testing.T) {
	t.Parallel()

	a := storage.NewAdapter(memory.New(0), nil)
	_, err := a.LoadTransactions(context.Background())
	require.ErrorIs(t, err, storage.ErrAbsent)
	_, err = a.LoadSettings(context.Background())
	require.ErrorIs(t, err, storage.ErrAbsent)
}

func TestAdapterCorruptDocument(t *testing.T) {
	t.Parallel()

	b := memory.New(0)
	b.Put(storage.TransactionsKey, []byte(`[{"id": `))
	a := storage.NewAdapter(b, nil)

	_, err := a.LoadTransactions(context.Background())
	var corrupt *storage.CorruptError
	require.ErrorAs(t, err, &corrupt)
	require.Equal(t, storage.TransactionsKey, corrupt.Key)
}

func TestAdapterRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := storage.NewAdapter(memory.New(0), nil)
	now := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	txs := []model.Transaction{{
		ID: "1", Description: "Coffee", Amount: decimal.RequireFromString("4.50"),
		Category: "Food", Date: "2024-01-15", CreatedAt: now, UpdatedAt: now,
	}}
	require.True(t, a.SaveTransactions(ctx, txs))
	require.True(t, a.SaveSettings(ctx, model.DefaultSettings()))

	got, err := a.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Coffee", got[0].Description)
	require.True(t, got[0].Amount.Equal(txs[0].Amount))
	require.True(t, got[0].CreatedAt.Equal(now))

	s, err := a.LoadSettings(ctx)
	require.NoError(t, err)
	require.Equal(t, "USD", s.BaseCurrency)
	require.Nil(t, s.SpendingLimit)

	require.True(t, a.Clear(ctx))
	_, err = a.LoadTransactions(ctx)
	require.ErrorIs(t, err, storage.ErrAbsent)
}

func TestAdapterWriteFailuresReturnFalse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := memory.New(0)
	a := storage.NewAdapter(b, nil)

	b.FailWrites(errors.New("disk unavailable"))
	require.False(t, a.SaveTransactions(ctx, nil))
	require.False(t, a.Clear(ctx))

	b.FailWrites(nil)
	require.True(t, a.SaveTransactions(ctx, nil))
	got, err := a.LoadTransactions(ctx)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestAdapterQuotaExceeded(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a := storage.NewAdapter(memory.New(64), nil)
	require.True(t, a.SaveTransactions(ctx, nil))

	big := make([]model.Transaction, 5)
	for i := range big {
		big[i] = model.Transaction{ID: "id", Description: "long enough", Amount: decimal.NewFromInt(1), Category: "Food", Date: "2024-01-01"}
	}
	require.False(t, a.SaveTransactions(ctx, big))
}
