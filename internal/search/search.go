// Package search filters, sorts and highlights transaction lists. Every
// function works on a copy and leaves its input untouched.
package search

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jask/spendwise/internal/model"
)

const (
	MarkOpen  = "<mark>"
	MarkClose = "</mark>"
)

// PatternError reports a search pattern that does not compile. It is
// distinct from an empty result.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid search pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Compile turns a user pattern into a regexp. An empty pattern compiles to
// nil with no error.
func Compile(pattern string, caseSensitive bool) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + pattern
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return re, nil
}

// Target is the text a pattern is matched against.
func Target(t model.Transaction) string {
	return strings.Join([]string{t.Description, t.Category, t.Amount.String(), t.Date}, " ")
}

// Text keeps the transactions whose Target matches pattern.
func Text(list []model.Transaction, pattern string, caseSensitive bool) ([]model.Transaction, error) {
	re, err := Compile(pattern, caseSensitive)
	if err != nil {
		return nil, err
	}
	return Match(list, re), nil
}

// Match keeps the transactions whose Target matches re. A nil re keeps all.
func Match(list []model.Transaction, re *regexp.Regexp) []model.Transaction {
	if re == nil {
		return slices.Clone(list)
	}
	return keep(list, func(t model.Transaction) bool { return re.MatchString(Target(t)) })
}

// Highlight wraps every match of pattern in text with <mark> tags. It never
// fails: an empty or invalid pattern returns text unchanged.
func Highlight(text, pattern string, caseSensitive bool) string {
	re, err := Compile(pattern, caseSensitive)
	if err != nil || re == nil {
		return text
	}
	return HighlightWith(text, re, MarkOpen, MarkClose)
}

// HighlightWith wraps non-empty matches of re in openTag and closeTag.
func HighlightWith(text string, re *regexp.Regexp, openTag, closeTag string) string {
	if re == nil || text == "" {
		return text
	}
	return re.ReplaceAllStringFunc(text, func(m string) string {
		if m == "" {
			return m
		}
		return openTag + m + closeTag
	})
}

// DateRange keeps transactions dated within [start, end]. Either bound may
// be empty.
func DateRange(list []model.Transaction, start, end string) []model.Transaction {
	if start == "" && end == "" {
		return slices.Clone(list)
	}
	return keep(list, func(t model.Transaction) bool {
		if start != "" && t.Date < start {
			return false
		}
		if end != "" && t.Date > end {
			return false
		}
		return true
	})
}

// Categories keeps transactions whose category is in set. An empty set
// keeps everything.
func Categories(list []model.Transaction, set []string) []model.Transaction {
	if len(set) == 0 {
		return slices.Clone(list)
	}
	return keep(list, func(t model.Transaction) bool { return slices.Contains(set, t.Category) })
}

// AmountRange keeps transactions with lo <= amount <= hi. Nil bounds are
// open.
func AmountRange(list []model.Transaction, lo, hi *decimal.Decimal) []model.Transaction {
	if lo == nil && hi == nil {
		return slices.Clone(list)
	}
	return keep(list, func(t model.Transaction) bool {
		if lo != nil && t.Amount.LessThan(*lo) {
			return false
		}
		if hi != nil && t.Amount.GreaterThan(*hi) {
			return false
		}
		return true
	})
}

// Criteria combines every filter. Zero values disable a stage.
type Criteria struct {
	Pattern       string
	CaseSensitive bool
	From, To      string
	Categories    []string
	Min, Max      *decimal.Decimal
	Sort          SortKey
}

// Advanced applies text search, date range, categories, amount range and
// sort, in that order.
func Advanced(list []model.Transaction, c Criteria) ([]model.Transaction, error) {
	out, err := Text(list, c.Pattern, c.CaseSensitive)
	if err != nil {
		return nil, err
	}
	out = DateRange(out, c.From, c.To)
	out = Categories(out, c.Categories)
	out = AmountRange(out, c.Min, c.Max)
	if c.Sort != "" {
		out = Sort(out, c.Sort)
	}
	return out, nil
}

func keep(list []model.Transaction, pred func(model.Transaction) bool) []model.Transaction {
	out := make([]model.Transaction, 0, len(list))
	for _, t := range list {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}
