package search

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jask/spendwise/internal/model"
)

// SortKey names a sort order.
type SortKey string

const (
	DateAsc         SortKey = "date-asc"
	DateDesc        SortKey = "date-desc"
	AmountAsc       SortKey = "amount-asc"
	AmountDesc      SortKey = "amount-desc"
	DescriptionAsc  SortKey = "description-asc"
	DescriptionDesc SortKey = "description-desc"
	CategoryAsc     SortKey = "category-asc"
)

// SortKeys lists every supported key.
var SortKeys = []SortKey{DateAsc, DateDesc, AmountAsc, AmountDesc, DescriptionAsc, DescriptionDesc, CategoryAsc}

// Language is the collation locale for text sorts.
var Language = language.English

// ParseSortKey validates s.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortKeys, k) {
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// Sort returns a stably sorted copy of list. Equal elements keep their
// input order in both directions. An unknown key returns the copy unsorted.
func Sort(list []model.Transaction, key SortKey) []model.Transaction {
	out := slices.Clone(list)
	cmp := comparator(key)
	if cmp == nil {
		return out
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func comparator(key SortKey) func(a, b model.Transaction) int {
	switch key {
	case DateAsc:
		return byDate
	case DateDesc:
		return reverse(byDate)
	case AmountAsc:
		return byAmount
	case AmountDesc:
		return reverse(byAmount)
	case DescriptionAsc:
		return byText(func(t model.Transaction) string { return t.Description })
	case DescriptionDesc:
		return reverse(byText(func(t model.Transaction) string { return t.Description }))
	case CategoryAsc:
		return byText(func(t model.Transaction) string { return t.Category })
	default:
		return nil
	}
}

func byDate(a, b model.Transaction) int { return strings.Compare(a.Date, b.Date) }

func byAmount(a, b model.Transaction) int { return a.Amount.Cmp(b.Amount) }

// byText compares with a fresh collator; collators are not safe for
// concurrent use.
func byText(field func(model.Transaction) string) func(a, b model.Transaction) int {
	c := collate.New(Language, collate.IgnoreCase)
	return func(a, b model.Transaction) int {
		return c.CompareString(field(a), field(b))
	}
}

func reverse(cmp func(a, b model.Transaction) int) func(a, b model.Transaction) int {
	return func(a, b model.Transaction) int { return cmp(b, a) }
}
