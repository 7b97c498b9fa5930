package ledger

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jask/spendwise/internal/model"
)

// ExportVersion tags every exported document.
const ExportVersion = "1.0"

var importDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Document is the portable export format.
type Document struct {
	Transactions []model.Transaction `json:"transactions"`
	Settings     model.Settings      `json:"settings"`
	ExportDate   string              `json:"exportDate"`
	Version      string              `json:"version"`
}

// ParseError reports an import document that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("import failed: invalid JSON: %v", e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// ImportError reports the first structural problem found in an import
// document. Index is -1 for document-level problems.
type ImportError struct {
	Index  int
	ID     string
	Field  string
	Reason string
}

func (e *ImportError) Error() string {
	switch {
	case e.Index < 0:
		return fmt.Sprintf("import failed: field %q: %s", e.Field, e.Reason)
	case e.ID != "":
		return fmt.Sprintf("import failed: transaction %d (id %q): field %q: %s", e.Index, e.ID, e.Field, e.Reason)
	default:
		return fmt.Sprintf("import failed: transaction %d: field %q: %s", e.Index, e.Field, e.Reason)
	}
}

// Export snapshots the current state.
func (s *Store) Export() Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Document{
		Transactions: slices.Clone(s.txs),
		Settings:     s.settings.Clone(),
		ExportDate:   s.now().UTC().Format(time.RFC3339Nano),
		Version:      ExportVersion,
	}
}

// WriteJSON writes an indented export document to w.
func (s *Store) WriteJSON(w io.Writer) error {
	doc := s.Export()
	if doc.Transactions == nil {
		doc.Transactions = []model.Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// WriteCSV writes the transactions as a CSV report with a header row.
func (s *Store) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "date", "description", "category", "amount", "createdAt", "updatedAt"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range s.Transactions() {
		row := []string{
			t.ID,
			t.Date,
			t.Description,
			t.Category,
			t.Amount.StringFixed(2),
			t.CreatedAt.UTC().Format(time.RFC3339),
			t.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ImportReader reads r fully and imports it.
func (s *Store) ImportReader(ctx context.Context, r io.Reader) (int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read import: %w", err)
	}
	return s.Import(ctx, raw)
}

// Import validates raw as an export document (or a bare
// {"transactions": [...]}) and, if every record passes, replaces the
// transaction list and merges settings. Nothing changes on failure.
func (s *Store) Import(ctx context.Context, raw []byte) (int, error) {
	parsed, err := parseImport(raw)
	if err != nil {
		s.rec.Import(false)
		s.log.Warn("import rejected", "error", err)
		return 0, err
	}

	s.mu.Lock()
	if s.notifying {
		s.mu.Unlock()
		s.rec.Import(false)
		return 0, ErrReentrantMutation
	}
	s.txs = parsed.transactions
	s.settings = s.settings.Merge(parsed.settings)
	for _, c := range parsed.categories {
		s.rememberCategory(c)
	}
	for _, t := range s.txs {
		s.rememberCategory(t.Category)
	}
	s.persistLocked(ctx, true, true)
	s.rec.Import(true)
	s.rec.Mutation("import")
	s.rec.Transactions(len(s.txs))
	count := len(s.txs)
	s.log.Info("import applied", "transactions", count)
	return count, s.notifyLocked()
}

type importResult struct {
	transactions []model.Transaction
	settings     model.SettingsPatch
	categories   []string
}

var (
	documentFields    = []string{"transactions", "settings", "exportDate", "version", "categories"}
	transactionFields = []string{"id", "description", "amount", "category", "date", "createdAt", "updatedAt"}
	requiredFields    = []string{"id", "description", "amount", "category", "date", "createdAt"}
)

func parseImport(raw []byte) (importResult, error) {
	var res importResult
	if !json.Valid(raw) {
		var probe any
		return res, &ParseError{Err: json.Unmarshal(raw, &probe)}
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return res, &ImportError{Index: -1, Field: "transactions", Reason: "document must be a JSON object"}
	}
	for _, key := range slices.Sorted(maps.Keys(doc)) {
		if !slices.Contains(documentFields, key) {
			return res, &ImportError{Index: -1, Field: key, Reason: "unknown field"}
		}
	}

	txRaw, ok := doc["transactions"]
	if !ok || isNull(txRaw) {
		return res, &ImportError{Index: -1, Field: "transactions", Reason: "transactions array required"}
	}
	var elems []json.RawMessage
	if firstByte(txRaw) != '[' || json.Unmarshal(txRaw, &elems) != nil {
		return res, &ImportError{Index: -1, Field: "transactions", Reason: "transactions must be an array"}
	}

	seen := make(map[string]bool, len(elems))
	res.transactions = make([]model.Transaction, 0, len(elems))
	for i, elem := range elems {
		t, err := parseTransaction(i, elem)
		if err != nil {
			return res, err
		}
		if seen[t.ID] {
			return res, &ImportError{Index: i, ID: t.ID, Field: "id", Reason: "duplicate id"}
		}
		seen[t.ID] = true
		res.transactions = append(res.transactions, t)
	}

	if settingsRaw, ok := doc["settings"]; ok && !isNull(settingsRaw) {
		patch, err := parseSettings(settingsRaw)
		if err != nil {
			return res, err
		}
		res.settings = patch
	}
	if catRaw, ok := doc["categories"]; ok && !isNull(catRaw) {
		if err := json.Unmarshal(catRaw, &res.categories); err != nil {
			return res, &ImportError{Index: -1, Field: "categories", Reason: "must be an array of strings"}
		}
	}
	return res, nil
}

func parseTransaction(i int, elem json.RawMessage) (model.Transaction, error) {
	var fields map[string]json.RawMessage
	if firstByte(elem) != '{' || json.Unmarshal(elem, &fields) != nil {
		return model.Transaction{}, &ImportError{Index: i, Field: "transaction", Reason: "must be an object"}
	}
	var id string
	_ = json.Unmarshal(fields["id"], &id)
	fail := func(field, reason string) (model.Transaction, error) {
		return model.Transaction{}, &ImportError{Index: i, ID: id, Field: field, Reason: reason}
	}

	for _, key := range slices.Sorted(maps.Keys(fields)) {
		if !slices.Contains(transactionFields, key) {
			return fail(key, "unknown field")
		}
	}
	for _, key := range requiredFields {
		if v, ok := fields[key]; !ok || isNull(v) {
			return fail(key, "missing required field")
		}
	}

	var t model.Transaction
	var ok bool
	if t.ID, ok = nonEmptyString(fields["id"]); !ok {
		return fail("id", "must be a non-empty string")
	}
	if t.Description, ok = nonEmptyString(fields["description"]); !ok {
		return fail("description", "must be a non-empty string")
	}
	if t.Category, ok = nonEmptyString(fields["category"]); !ok {
		return fail("category", "must be a non-empty string")
	}

	amountRaw := fields["amount"]
	if c := firstByte(amountRaw); c != '-' && (c < '0' || c > '9') {
		return fail("amount", "must be a number")
	}
	amount, err := decimal.NewFromString(string(bytes.TrimSpace(amountRaw)))
	if err != nil {
		return fail("amount", "must be a number")
	}
	if amount.IsNegative() {
		return fail("amount", "must not be negative")
	}
	t.Amount = amount

	if t.Date, ok = nonEmptyString(fields["date"]); !ok || !importDatePattern.MatchString(t.Date) {
		return fail("date", "must be a YYYY-MM-DD string")
	}

	if t.CreatedAt, ok = timestamp(fields["createdAt"]); !ok {
		return fail("createdAt", "must be an RFC 3339 timestamp")
	}
	t.UpdatedAt = t.CreatedAt
	if v, present := fields["updatedAt"]; present && !isNull(v) {
		if t.UpdatedAt, ok = timestamp(v); !ok {
			return fail("updatedAt", "must be an RFC 3339 timestamp")
		}
		if t.UpdatedAt.Before(t.CreatedAt) {
			return fail("updatedAt", "must not precede createdAt")
		}
	}
	return t, nil
}

func parseSettings(raw json.RawMessage) (model.SettingsPatch, error) {
	var patch model.SettingsPatch
	fail := func(field, reason string) (model.SettingsPatch, error) {
		return model.SettingsPatch{}, &ImportError{Index: -1, Field: "settings." + field, Reason: reason}
	}
	var fields map[string]json.RawMessage
	if firstByte(raw) != '{' || json.Unmarshal(raw, &fields) != nil {
		return fail("", "must be an object")
	}
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		v := fields[key]
		switch key {
		case "currency", "baseCurrency":
			s, ok := nonEmptyString(v)
			if !ok {
				return fail(key, "must be a non-empty string")
			}
			if key == "currency" {
				patch.Currency = &s
			} else {
				patch.BaseCurrency = &s
			}
		case "spendingLimit", "monthlyCap":
			// resolved below
		case "exchangeRates":
			var rates map[string]decimal.Decimal
			if firstByte(v) != '{' || json.Unmarshal(v, &rates) != nil {
				return fail(key, "must map currency codes to numbers")
			}
			for _, code := range slices.Sorted(maps.Keys(rates)) {
				if rate := rates[code]; !rate.IsPositive() {
					return fail(key+"."+code, "must be positive")
				}
			}
			patch.ExchangeRates = rates
		case "categories":
			if err := json.Unmarshal(v, &patch.Categories); err != nil {
				return fail(key, "must be an array of strings")
			}
		default:
			return fail(key, "unknown field")
		}
	}
	if key := limitField(fields); key != "" {
		v := fields[key]
		if isNull(v) {
			patch.ClearSpendingLimit = true
		} else {
			limit, err := decimal.NewFromString(string(bytes.TrimSpace(v)))
			if err != nil || limit.IsNegative() {
				return fail(key, "must be a non-negative number or null")
			}
			patch.SpendingLimit = &limit
		}
	}
	return patch, nil
}

// limitField picks the spending limit key, preferring a non-null
// spendingLimit over the legacy monthlyCap.
func limitField(fields map[string]json.RawMessage) string {
	v, hasLimit := fields["spendingLimit"]
	if hasLimit && !isNull(v) {
		return "spendingLimit"
	}
	if _, ok := fields["monthlyCap"]; ok {
		return "monthlyCap"
	}
	if hasLimit {
		return "spendingLimit"
	}
	return ""
}

func nonEmptyString(raw json.RawMessage) (string, bool) {
	if firstByte(raw) != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || s == "" {
		return "", false
	}
	return s, true
}

func timestamp(raw json.RawMessage) (time.Time, bool) {
	s, ok := nonEmptyString(raw)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
