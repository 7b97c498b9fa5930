package validate

import (
	"github.com/shopspring/decimal"

	"github.com/jask/spendwise/internal/model"
)

// FormInput is the raw text of a transaction form.
type FormInput struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// FormResult holds one Result per field. Transaction is set only when every
// field is valid.
type FormResult struct {
	Valid       bool
	Fields      map[string]Result
	Transaction *model.NewTransaction
}

// Errors returns the messages of the failed fields keyed by field name.
func (r FormResult) Errors() map[string]string {
	out := make(map[string]string)
	for name, res := range r.Fields {
		if !res.Valid {
			out[name] = res.Message
		}
	}
	return out
}

// Form validates every field. All fields are checked even when an earlier one
// fails so the caller can show every error at once.
func (v *Validator) Form(in FormInput) FormResult {
	fields := map[string]Result{
		FieldDescription: v.Description(in.Description),
		FieldAmount:      v.Amount(in.Amount),
		FieldCategory:    v.Category(in.Category),
		FieldDate:        v.Date(in.Date),
	}
	res := FormResult{Valid: true, Fields: fields}
	for _, f := range fields {
		if !f.Valid {
			res.Valid = false
		}
	}
	if !res.Valid {
		return res
	}
	amount, err := decimal.NewFromString(fields[FieldAmount].Value)
	if err != nil {
		// unreachable: the amount rule already parsed it
		res.Valid = false
		res.Fields[FieldAmount] = fail("Amount must be a valid positive number (e.g., 12.50)")
		return res
	}
	res.Transaction = &model.NewTransaction{
		Description: fields[FieldDescription].Value,
		Amount:      amount,
		Category:    fields[FieldCategory].Value,
		Date:        fields[FieldDate].Value,
	}
	return res
}
