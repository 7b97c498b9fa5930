package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/spendwise/internal/ledger"
	"github.com/jask/spendwise/internal/model"
	"github.com/jask/spendwise/internal/storage"
	"github.com/jask/spendwise/internal/storage/memory"
)

func TestRecorderCounters(t *testing.T) {
	t.Parallel()

	m := New(false)
	m.Mutation("add")
	m.Mutation("add")
	m.Mutation("delete")
	m.PersistFailed(storage.TransactionsKey)
	m.Import(true)
	m.Import(false)
	m.Import(false)
	m.Transactions(7)

	require.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("add")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("delete")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures.WithLabelValues(storage.TransactionsKey)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues("success")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.imports.WithLabelValues("failure")))
	require.Equal(t, 7.0, testutil.ToFloat64(m.transactions))
}

func TestStoreReportsThroughMetrics(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := New(false)
	backend := memory.New(0)
	s := ledger.New(ctx, storage.NewAdapter(backend, nil), ledger.WithRecorder(m))

	_, err := s.Add(ctx, model.NewTransaction{Description: "Coffee", Amount: decimal.RequireFromString("4.50"), Category: "Food", Date: "2024-01-15"})
	require.NoError(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("add")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.transactions))

	_, err = s.Import(ctx, []byte(`{"transactions": "nope"}`))
	require.Error(t, err)
	require.Equal(t, 1.0, testutil.ToFloat64(m.imports.WithLabelValues("failure")))
}

func TestWriteTextfile(t *testing.T) {
	t.Parallel()

	m := New(false)
	m.Transactions(3)
	path := filepath.Join(t.TempDir(), "spendwise.prom")
	require.NoError(t, m.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(raw), "spendwise_transactions 3"), string(raw))
}

func TestRuntimeCollectorsOptional(t *testing.T) {
	t.Parallel()

	families, err := New(true).reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "go_goroutines")
}
