package search

import (
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jask/spendwise/internal/model"
)

func tx(id, desc, amount, category, date string) model.Transaction {
	return model.Transaction{ID: id, Description: desc, Amount: decimal.RequireFromString(amount), Category: category, Date: date}
}

func sample() []model.Transaction {
	return []model.Transaction{
		tx("1", "Morning coffee", "4.50", "Food", "2024-01-15"),
		tx("2", "Bus pass", "30", "Transport", "2024-01-02"),
		tx("3", "apple pie", "4.5", "Food", "2024-01-15"),
		tx("4", "Textbook", "89.99", "Books", "2023-12-20"),
		tx("5", "Zoo tickets", "30.00", "Entertainment", "2024-01-10"),
	}
}

func ids(list []model.Transaction) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestCompile(t *testing.T) {
	t.Parallel()

	re, err := Compile("", false)
	require.NoError(t, err)
	require.Nil(t, re)

	// whitespace is a real pattern
	re, err = Compile(" ", false)
	require.NoError(t, err)
	require.NotNil(t, re)
	require.False(t, re.MatchString("Textbook"))

	re, err = Compile("coffee", false)
	require.NoError(t, err)
	require.True(t, re.MatchString("COFFEE"))

	re, err = Compile("coffee", true)
	require.NoError(t, err)
	require.False(t, re.MatchString("COFFEE"))

	_, err = Compile("(unclosed", false)
	var patErr *PatternError
	require.True(t, errors.As(err, &patErr))
	require.Equal(t, "(unclosed", patErr.Pattern)
}

func TestText(t *testing.T) {
	t.Parallel()

	list := sample()

	got, err := Text(list, "", false)
	require.NoError(t, err)
	require.Equal(t, ids(list), ids(got))

	got, err = Text(list, "food", false)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "3"}, ids(got))

	got, err = Text(list, "food", true)
	require.NoError(t, err)
	require.Empty(t, got)

	// amount and date are part of the match target
	got, err = Text(list, `^\S+ \S+ \S+ 4\.5 `, false)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "3"}, ids(got))

	got, err = Text(list, "coffee ", false)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, ids(got))

	got, err = Text(list, "2023-12", false)
	require.NoError(t, err)
	require.Equal(t, []string{"4"}, ids(got))

	got, err = Text(list, "[", false)
	require.Error(t, err)
	require.Nil(t, got)
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Morning <mark>coffee</mark>", Highlight("Morning coffee", "COFFEE", false))
	require.Equal(t, "Morning coffee", Highlight("Morning coffee", "COFFEE", true))
	require.Equal(t, "<mark>a</mark>b<mark>a</mark>", Highlight("aba", "a", false))
	require.Equal(t, "Morning coffee", Highlight("Morning coffee", "(", false))
	require.Equal(t, "Morning coffee", Highlight("Morning coffee", "", false))
	require.Equal(t, "abc", Highlight("abc", "x*", false))

	re := regexp.MustCompile(`\d+`)
	require.Equal(t, "lunch [12].[50]", HighlightWith("lunch 12.50", re, "[", "]"))
}

func TestDateRange(t *testing.T) {
	t.Parallel()

	list := sample()
	require.Equal(t, []string{"1", "3", "5"}, ids(DateRange(list, "2024-01-10", "2024-01-15")))
	require.Equal(t, []string{"4"}, ids(DateRange(list, "", "2023-12-31")))
	require.Equal(t, []string{"1", "3"}, ids(DateRange(list, "2024-01-15", "")))
	require.Len(t, DateRange(list, "", ""), len(list))
	require.Empty(t, DateRange(list, "2024-02-01", "2024-01-01"))
}

func TestCategories(t *testing.T) {
	t.Parallel()

	list := sample()
	require.Equal(t, []string{"1", "3", "4"}, ids(Categories(list, []string{"Books", "Food"})))
	require.Len(t, Categories(list, nil), len(list))
	require.Empty(t, Categories(list, []string{"food"}))
}

func TestAmountRange(t *testing.T) {
	t.Parallel()

	list := sample()
	lo := decimal.RequireFromString("4.5")
	hi := decimal.NewFromInt(30)
	require.Equal(t, []string{"1", "2", "3", "5"}, ids(AmountRange(list, &lo, &hi)))
	require.Equal(t, []string{"1", "3"}, ids(AmountRange(list, nil, &lo)))
	require.Equal(t, []string{"2", "4", "5"}, ids(AmountRange(list, &hi, nil)))
	require.Len(t, AmountRange(list, nil, nil), len(list))
}

func TestFiltersRespectBounds(t *testing.T) {
	t.Parallel()

	list := sample()
	lo := decimal.NewFromInt(5)
	hi := decimal.NewFromInt(50)
	for _, got := range AmountRange(list, &lo, &hi) {
		require.True(t, got.Amount.GreaterThanOrEqual(lo))
		require.True(t, got.Amount.LessThanOrEqual(hi))
	}
	for _, got := range DateRange(list, "2024-01-01", "2024-01-12") {
		require.GreaterOrEqual(t, got.Date, "2024-01-01")
		require.LessOrEqual(t, got.Date, "2024-01-12")
	}
}

func TestSort(t *testing.T) {
	t.Parallel()

	list := sample()
	cases := []struct {
		key  SortKey
		want []string
	}{
		{DateAsc, []string{"4", "2", "5", "1", "3"}},
		{DateDesc, []string{"1", "3", "5", "2", "4"}},
		{AmountAsc, []string{"1", "3", "2", "5", "4"}},
		{AmountDesc, []string{"4", "2", "5", "1", "3"}},
		{DescriptionAsc, []string{"3", "2", "1", "4", "5"}},
		{DescriptionDesc, []string{"5", "4", "1", "2", "3"}},
		{CategoryAsc, []string{"4", "5", "1", "3", "2"}},
		{SortKey("unknown"), []string{"1", "2", "3", "4", "5"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.key), func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, ids(Sort(list, tc.key)))
		})
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	list := sample()
	before := ids(list)
	_ = Sort(list, AmountDesc)
	_ = Sort(list, DescriptionAsc)
	require.Equal(t, before, ids(list))
}

func TestSortIsStable(t *testing.T) {
	t.Parallel()

	var list []model.Transaction
	for i := range 20 {
		list = append(list, tx(fmt.Sprint(i), "same", "1", "Food", "2024-01-01"))
	}
	for _, key := range SortKeys {
		require.Equal(t, ids(list), ids(Sort(list, key)), string(key))
	}
}

func TestParseSortKey(t *testing.T) {
	t.Parallel()

	k, err := ParseSortKey(" Amount-Desc ")
	require.NoError(t, err)
	require.Equal(t, AmountDesc, k)

	_, err = ParseSortKey("category-desc")
	require.Error(t, err)
}

func TestAdvanced(t *testing.T) {
	t.Parallel()

	list := sample()
	hi := decimal.NewFromInt(40)
	got, err := Advanced(list, Criteria{
		Pattern:    "o",
		From:       "2024-01-01",
		Categories: []string{"Food", "Transport", "Entertainment"},
		Max:        &hi,
		Sort:       AmountDesc,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"2", "5", "1", "3"}, ids(got))

	got, err = Advanced(list, Criteria{})
	require.NoError(t, err)
	require.Equal(t, ids(list), ids(got))

	_, err = Advanced(list, Criteria{Pattern: "a(b"})
	var patErr *PatternError
	require.ErrorAs(t, err, &patErr)
}

func TestSuggestions(t *testing.T) {
	t.Parallel()

	list := sample()
	require.Nil(t, Suggestions(list, "c", 5))
	require.Equal(t, []string{"Morning coffee"}, Suggestions(list, "cof", 5))
	// Food is within two edits of "book"
	require.Equal(t, []string{"Textbook", "Books", "Food"}, Suggestions(list, "book", 5))
	require.Equal(t, []string{"Books"}, Suggestions(list, "Bokos", 5))
	require.Len(t, Suggestions(list, "o", 5), 0)
	require.Len(t, Suggestions(list, "oo", 2), 2)
}

func TestClosest(t *testing.T) {
	t.Parallel()

	known := model.DefaultCategories
	got, ok := Closest(known, "Fod")
	require.True(t, ok)
	require.Equal(t, "Food", got)

	got, ok = Closest(known, "food")
	require.True(t, ok)
	require.Equal(t, "Food", got)

	_, ok = Closest(known, "Food")
	require.False(t, ok)

	_, ok = Closest(known, "Gardening")
	require.False(t, ok)
}

func TestPresetsCompile(t *testing.T) {
	t.Parallel()

	for _, p := range Presets() {
		re, err := Compile(p.Pattern, p.CaseSensitive)
		require.NoError(t, err, p.Name)
		require.NotNil(t, re, p.Name)
	}

	got, err := Text(sample(), Presets()[1].Pattern, false)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, ids(got))
}
