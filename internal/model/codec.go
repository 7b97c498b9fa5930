package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// UnmarshalJSON accepts the legacy "monthlyCap" name for the spending limit.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	aux := struct {
		*plain
		MonthlyCap *decimal.Decimal `json:"monthlyCap"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if s.SpendingLimit == nil && aux.MonthlyCap != nil {
		s.SpendingLimit = aux.MonthlyCap
	}
	return nil
}
