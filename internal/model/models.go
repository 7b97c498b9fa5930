// Package model holds the records persisted by spendwise: transactions and
// process-wide settings.
package model

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts, limits and rates are JSON numbers in every document we read
	// or write. Unmarshalling accepts both forms.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the canonical transaction date form.
const DateLayout = "2006-01-02"

// Transaction represents one recorded spending event.
type Transaction struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewTransaction carries the caller-supplied fields of a transaction about to
// be created. The store assigns the id and timestamps.
type NewTransaction struct {
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        string
}

// Patch lists the fields to overwrite on an existing transaction. Nil fields
// are left untouched.
type Patch struct {
	Description *string
	Amount      *decimal.Decimal
	Category    *string
	Date        *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Description == nil && p.Amount == nil && p.Category == nil && p.Date == nil
}

// Apply returns t with the patch fields merged over it. Timestamps are not
// touched.
func (p Patch) Apply(t Transaction) Transaction {
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	return t
}

// Settings is the process-wide configuration persisted next to the
// transactions.
type Settings struct {
	Currency      string                     `json:"currency"`
	BaseCurrency  string                     `json:"baseCurrency"`
	SpendingLimit *decimal.Decimal           `json:"spendingLimit"`
	ExchangeRates map[string]decimal.Decimal `json:"exchangeRates,omitempty"`
	Categories    []string                   `json:"categories,omitempty"`
}

// SettingsPatch is a field-by-field settings update. Nil fields are left
// untouched; ClearSpendingLimit removes the limit.
type SettingsPatch struct {
	Currency           *string
	BaseCurrency       *string
	SpendingLimit      *decimal.Decimal
	ClearSpendingLimit bool
	ExchangeRates      map[string]decimal.Decimal
	Categories         []string
}

// DefaultCategories seeds the known category set on first run.
var DefaultCategories = []string{"Food", "Books", "Transport", "Entertainment", "Fees", "Other"}

// DefaultSettings returns a fresh copy of the first-run settings.
func DefaultSettings() Settings {
	return Settings{
		Currency:     "$",
		BaseCurrency: "USD",
		ExchangeRates: map[string]decimal.Decimal{
			"EUR": decimal.RequireFromString("0.85"),
			"GBP": decimal.RequireFromString("0.73"),
		},
		Categories: slices.Clone(DefaultCategories),
	}
}

// Clone returns a deep copy.
func (s Settings) Clone() Settings {
	out := s
	if s.SpendingLimit != nil {
		limit := *s.SpendingLimit
		out.SpendingLimit = &limit
	}
	if s.ExchangeRates != nil {
		out.ExchangeRates = make(map[string]decimal.Decimal, len(s.ExchangeRates))
		for code, rate := range s.ExchangeRates {
			out.ExchangeRates[code] = rate
		}
	}
	out.Categories = slices.Clone(s.Categories)
	return out
}

// Merge applies p over s and returns the result. s is not modified.
func (s Settings) Merge(p SettingsPatch) Settings {
	out := s.Clone()
	if p.Currency != nil {
		out.Currency = *p.Currency
	}
	if p.BaseCurrency != nil {
		out.BaseCurrency = *p.BaseCurrency
	}
	if p.ClearSpendingLimit {
		out.SpendingLimit = nil
	} else if p.SpendingLimit != nil {
		limit := *p.SpendingLimit
		out.SpendingLimit = &limit
	}
	if p.ExchangeRates != nil {
		if out.ExchangeRates == nil {
			out.ExchangeRates = make(map[string]decimal.Decimal, len(p.ExchangeRates))
		}
		for code, rate := range p.ExchangeRates {
			out.ExchangeRates[code] = rate
		}
	}
	if p.Categories != nil {
		out.Categories = slices.Clone(p.Categories)
	}
	return out
}

// HasCategory reports whether name is a known category.
func (s Settings) HasCategory(name string) bool {
	return slices.Contains(s.Categories, name)
}
