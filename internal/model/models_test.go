package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestTransactionAmountMarshalsAsNumber(t *testing.T) {
	t.Parallel()

	tx := Transaction{ID: "a", Description: "Coffee", Amount: decimal.RequireFromString("4.50"), Category: "Food", Date: "2024-01-15"}
	data, err := json.Marshal(tx)
	require.NoError(t, err)
	require.Contains(t, string(data), `"amount":4.5`)

	var back Transaction
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, back.Amount.Equal(tx.Amount))
}

func TestSettingsAcceptsMonthlyCapAlias(t *testing.T) {
	t.Parallel()

	var s Settings
	require.NoError(t, json.Unmarshal([]byte(`{"baseCurrency":"USD","monthlyCap":500}`), &s))
	require.NotNil(t, s.SpendingLimit)
	require.Equal(t, "500", s.SpendingLimit.String())
	require.Equal(t, "USD", s.BaseCurrency)

	require.NoError(t, json.Unmarshal([]byte(`{"spendingLimit":100,"monthlyCap":500}`), &s))
	require.Equal(t, "100", s.SpendingLimit.String())
}

func TestSettingsMergeDoesNotAliasOriginal(t *testing.T) {
	t.Parallel()

	base := DefaultSettings()
	limit := decimal.NewFromInt(200)
	currency := "€"
	merged := base.Merge(SettingsPatch{
		Currency:      &currency,
		SpendingLimit: &limit,
		ExchangeRates: map[string]decimal.Decimal{"JPY": decimal.NewFromInt(150)},
	})

	require.Equal(t, "$", base.Currency)
	require.Nil(t, base.SpendingLimit)
	require.NotContains(t, base.ExchangeRates, "JPY")

	require.Equal(t, "€", merged.Currency)
	require.Equal(t, "200", merged.SpendingLimit.String())
	require.Contains(t, merged.ExchangeRates, "JPY")
	require.Contains(t, merged.ExchangeRates, "EUR")

	cleared := merged.Merge(SettingsPatch{ClearSpendingLimit: true, SpendingLimit: &limit})
	require.Nil(t, cleared.SpendingLimit)
}

func TestPatchApply(t *testing.T) {
	t.Parallel()

	orig := Transaction{ID: "x", Description: "Lunch", Amount: decimal.NewFromInt(10), Category: "Food", Date: "2024-02-01"}
	desc := "Team lunch"
	got := Patch{Description: &desc}.Apply(orig)
	require.Equal(t, "Team lunch", got.Description)
	require.Equal(t, "Food", got.Category)
	require.Equal(t, "Lunch", orig.Description)
	require.True(t, Patch{}.Empty())
}

func TestConvert(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	cases := []struct {
		name     string
		amount   string
		from, to string
		want     string
		wantErr  bool
	}{
		{name: "base to eur", amount: "100", from: "USD", to: "EUR", want: "85"},
		{name: "eur to base", amount: "85", from: "eur", to: "usd", want: "100"},
		{name: "eur to gbp", amount: "10", from: "EUR", to: "GBP", want: "8.59"},
		{name: "same", amount: "12.34", from: "GBP", to: "GBP", want: "12.34"},
		{name: "unknown", amount: "1", from: "USD", to: "XYZ", wantErr: true},
		{name: "empty", amount: "1", from: "", to: "EUR", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Convert(decimal.RequireFromString(tc.amount), tc.from, tc.to)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got.String())
		})
	}
}
