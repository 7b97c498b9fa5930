// Package validate checks user-entered transaction fields.
//
// Every validator returns a Result rather than an error: a failed rule is an
// expected outcome that the caller shows next to the field.
package validate

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jask/spendwise/internal/model"
)

// Field names used as keys in FormResult.
const (
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDate        = "date"
)

const (
	minDescriptionLen = 3
	maxDescriptionLen = 100
	maxAgeYears       = 10
)

var (
	maxAmount = decimal.RequireFromString("999999.99")

	amountPattern   = regexp.MustCompile(`^(0|[1-9]\d*)(\.\d{1,2})?$`)
	categoryPattern = regexp.MustCompile(`^[A-Za-z]+(?:[ -][A-Za-z]+)*$`)
	datePattern     = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
)

// Result is the outcome of validating one field. Value holds the normalised
// input when Valid is true.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Value   string `json:"value,omitempty"`
}

func ok(v string) Result { return Result{Valid: true, Value: v} }
func fail(msg string) Result { return Result{Message: msg} }

// Validator holds the clock used by the date rule.
type Validator struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithLocation sets the zone in which "today" is computed.
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) { v.loc = loc }
}

// New returns a Validator using the local clock unless overridden.
func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Normalize trims outer whitespace and collapses internal runs to a single
// space.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Description validates a free-text description.
func (v *Validator) Description(raw string) Result {
	s := Normalize(raw)
	n := utf8.RuneCountInString(s)
	switch {
	case s == "":
		return fail("Description is required")
	case n < minDescriptionLen:
		return fail("Description must be at least 3 characters")
	case n > maxDescriptionLen:
		return fail("Description must be less than 100 characters")
	case HasRepeatedWord(s):
		return fail("Description contains duplicate words")
	}
	return ok(s)
}

// Amount validates a money amount for a new entry. Zero is rejected.
func (v *Validator) Amount(raw string) Result {
	s := strings.TrimSpace(raw)
	if s == "" {
		return fail("Amount is required")
	}
	if !amountPattern.MatchString(s) {
		return fail("Amount must be a valid positive number (e.g., 12.50)")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fail("Amount must be a valid positive number (e.g., 12.50)")
	}
	if !d.IsPositive() {
		return fail("Amount must be greater than 0")
	}
	if d.GreaterThan(maxAmount) {
		return fail("Amount cannot exceed 999,999.99")
	}
	return ok(s)
}

// Category validates a category name.
func (v *Validator) Category(raw string) Result {
	if raw == "" {
		return fail("Category is required")
	}
	if !categoryPattern.MatchString(raw) {
		return fail("Category can only contain letters, spaces, and hyphens")
	}
	return ok(raw)
}

// Date validates a YYYY-MM-DD date that lies within the last 10 years and
// not in the future.
func (v *Validator) Date(raw string) Result {
	if raw == "" {
		return fail("Date is required")
	}
	if !datePattern.MatchString(raw) {
		return fail("Date must be in YYYY-MM-DD format")
	}
	d, err := time.ParseInLocation(model.DateLayout, raw, v.loc)
	if err != nil {
		return fail("Invalid date")
	}
	now := v.now().In(v.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc)
	if d.After(today) {
		return fail("Date cannot be in the future")
	}
	if d.Before(today.AddDate(-maxAgeYears, 0, 0)) {
		return fail("Date cannot be more than 10 years ago")
	}
	return ok(raw)
}

// HasRepeatedWord reports whether s contains a word immediately followed,
// across whitespace only, by the same word ignoring case ("the the").
// Words are maximal runs of [A-Za-z0-9_].
func HasRepeatedWord(s string) bool {
	prev := ""
	prevEnd := -1
	for i := 0; i < len(s); {
		if !isWordByte(s[i]) {
			i++
			continue
		}
		start := i
		for i < len(s) && isWordByte(s[i]) {
			i++
		}
		word := s[start:i]
		if prevEnd >= 0 && onlySpace(s[prevEnd:start]) && strings.EqualFold(prev, word) {
			return true
		}
		prev, prevEnd = word, i
	}
	return false
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func onlySpace(gap string) bool {
	if gap == "" {
		return false
	}
	return strings.TrimFunc(gap, unicode.IsSpace) == ""
}
