package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/spendwise/internal/model"
)

const (
	recentDays   = 7
	warnFraction = "0.8"
	noCategory   = "None"
)

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// Stats summarises the transaction list.
type Stats struct {
	Total          decimal.Decimal
	Count          int
	TopCategory    string
	RecentSpending decimal.Decimal // dates within [today-7, today]
	CurrentMonth   decimal.Decimal
	Average        decimal.Decimal
	CategoryTotals []CategoryTotal // first-encountered order
}

// AlertLevel classifies a spending-limit alert.
type AlertLevel string

const (
	AlertWarning  AlertLevel = "warning"
	AlertExceeded AlertLevel = "exceeded"
)

// Alert describes how the current month compares with the spending limit.
type Alert struct {
	Level      AlertLevel
	Message    string
	Percentage decimal.Decimal
	Spent      decimal.Decimal
	Limit      decimal.Decimal
}

// Stats derives aggregate figures relative to the store clock.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	txs := slices.Clone(s.txs)
	now := s.now().In(s.loc)
	s.mu.Unlock()
	return computeStats(txs, now)
}

func computeStats(txs []model.Transaction, now time.Time) Stats {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	recentFrom := today.AddDate(0, 0, -(recentDays - 1)).Format(model.DateLayout)
	todayKey := today.Format(model.DateLayout)
	monthPrefix := today.Format("2006-01")

	st := Stats{TopCategory: noCategory}
	index := make(map[string]int)
	for _, t := range txs {
		st.Total = st.Total.Add(t.Amount)
		st.Count++

		i, seen := index[t.Category]
		if !seen {
			i = len(st.CategoryTotals)
			index[t.Category] = i
			st.CategoryTotals = append(st.CategoryTotals, CategoryTotal{Category: t.Category})
		}
		st.CategoryTotals[i].Total = st.CategoryTotals[i].Total.Add(t.Amount)
		st.CategoryTotals[i].Count++

		if t.Date >= recentFrom && t.Date <= todayKey {
			st.RecentSpending = st.RecentSpending.Add(t.Amount)
		}
		if len(t.Date) >= 7 && t.Date[:7] == monthPrefix {
			st.CurrentMonth = st.CurrentMonth.Add(t.Amount)
		}
	}

	var best decimal.Decimal
	for i, ct := range st.CategoryTotals {
		if i == 0 || ct.Total.GreaterThan(best) {
			best = ct.Total
			st.TopCategory = ct.Category
		}
	}
	if st.Count > 0 {
		st.Average = st.Total.Div(decimal.NewFromInt(int64(st.Count)))
	}
	return st
}

// CheckSpendingLimit compares this month's spending with the configured
// limit. It returns nil when no limit is set or spending is below 80%.
func (s *Store) CheckSpendingLimit() *Alert {
	settings := s.Settings()
	if settings.SpendingLimit == nil || !settings.SpendingLimit.IsPositive() {
		return nil
	}
	return spendingAlert(s.Stats().CurrentMonth, *settings.SpendingLimit, settings.Currency)
}

func spendingAlert(current, limit decimal.Decimal, currency string) *Alert {
	pct := current.Div(limit).Mul(decimal.NewFromInt(100))
	alert := &Alert{Percentage: pct, Spent: current, Limit: limit}
	switch {
	case current.GreaterThanOrEqual(limit):
		alert.Level = AlertExceeded
		alert.Message = fmt.Sprintf("You've exceeded your monthly limit of %s%s by %s%s",
			currency, limit.StringFixed(2), currency, current.Sub(limit).StringFixed(2))
	case current.GreaterThanOrEqual(limit.Mul(decimal.RequireFromString(warnFraction))):
		alert.Level = AlertWarning
		alert.Message = fmt.Sprintf("You've used %s%% of your monthly limit (%s%s of %s%s)",
			pct.StringFixed(1), currency, current.StringFixed(2), currency, limit.StringFixed(2))
	default:
		return nil
	}
	return alert
}
