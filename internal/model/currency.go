package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Rate returns the multiplier of code relative to the base currency.
func (s Settings) Rate(code string) (decimal.Decimal, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return decimal.Zero, fmt.Errorf("currency code required")
	}
	if strings.EqualFold(code, s.BaseCurrency) {
		return decimal.NewFromInt(1), nil
	}
	rate, ok := s.ExchangeRates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("no exchange rate for %s", code)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("exchange rate for %s must be positive", code)
	}
	return rate, nil
}

// Convert converts amount from one currency to another through the stored
// rate table, rounding to cents.
func (s Settings) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromRate, err := s.Rate(from)
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert from: %w", err)
	}
	toRate, err := s.Rate(to)
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert to: %w", err)
	}
	return amount.Div(fromRate).Mul(toRate).Round(2), nil
}
