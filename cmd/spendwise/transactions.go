package main

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jask/spendwise/internal/ledger"
	"github.com/jask/spendwise/internal/model"
	"github.com/jask/spendwise/internal/search"
	"github.com/jask/spendwise/internal/validate"
)

var errInvalidInput = errors.New("transaction not saved")

var formFieldOrder = []string{validate.FieldDescription, validate.FieldAmount, validate.FieldCategory, validate.FieldDate}

func addFormFlags(cmd *cobra.Command, in *validate.FormInput) {
	f := cmd.Flags()
	f.StringVarP(&in.Description, "desc", "d", "", "what the money was spent on")
	f.StringVarP(&in.Amount, "amount", "a", "", "amount, e.g. 12.50")
	f.StringVarP(&in.Category, "category", "c", "", "category, e.g. Food")
	f.StringVar(&in.Date, "date", "", "date as YYYY-MM-DD (default today)")
}

func newAddCmd(with wrap) *cobra.Command {
	var in validate.FormInput
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new transaction",
		Args:  cobra.NoArgs,
		RunE: with(func(a *app, cmd *cobra.Command, _ []string) error {
			if in.Date == "" {
				in.Date = a.today()
			}
			res := a.validator.Form(in)
			if !res.Valid {
				return a.formErrors(res)
			}
			a.categoryHint(res.Transaction.Category)

			t, err := a.store.Add(cmd.Context(), *res.Transaction)
			if err != nil {
				return fmt.Errorf("add transaction: %w", err)
			}
			a.printf("%s %s\n", a.theme.success.Render("Added"), t.ID)
			a.printAlert()
			return nil
		}),
	}
	addFormFlags(cmd, &in)
	return cmd
}

func newEditCmd(with wrap) *cobra.Command {
	var in validate.FormInput
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(a *app, cmd *cobra.Command, args []string) error {
			existing, ok := a.store.Get(args[0])
			if !ok {
				return notFound(args[0])
			}
			patch, res := a.editPatch(cmd, in)
			if !res.Valid {
				return a.formErrors(res)
			}
			if patch.Empty() {
				return errors.New("nothing to change: pass at least one of --desc, --amount, --category, --date")
			}
			if patch.Category != nil {
				a.categoryHint(*patch.Category)
			}
			t, err := a.store.Update(cmd.Context(), existing.ID, patch)
			if errors.Is(err, ledger.ErrNotFound) {
				return notFound(existing.ID)
			}
			if err != nil {
				return fmt.Errorf("update transaction: %w", err)
			}
			a.printf("%s %s\n", a.theme.success.Render("Updated"), t.ID)
			a.printAlert()
			return nil
		}),
	}
	addFormFlags(cmd, &in)
	return cmd
}

// editPatch validates only the fields whose flags were set. Untouched fields
// keep their stored values even when they would fail today's rules.
func (a *app) editPatch(cmd *cobra.Command, in validate.FormInput) (model.Patch, validate.FormResult) {
	var patch model.Patch
	res := validate.FormResult{Valid: true, Fields: make(map[string]validate.Result)}
	check := func(flag, field, raw string, rule func(string) validate.Result) (string, bool) {
		if !cmd.Flags().Changed(flag) {
			return "", false
		}
		r := rule(raw)
		res.Fields[field] = r
		if !r.Valid {
			res.Valid = false
			return "", false
		}
		return r.Value, true
	}

	if v, ok := check("desc", validate.FieldDescription, in.Description, a.validator.Description); ok {
		patch.Description = &v
	}
	if v, ok := check("amount", validate.FieldAmount, in.Amount, a.validator.Amount); ok {
		d, err := decimal.NewFromString(v)
		if err != nil {
			res.Valid = false
			res.Fields[validate.FieldAmount] = validate.Result{Message: "Amount must be a valid positive number (e.g., 12.50)"}
		} else {
			patch.Amount = &d
		}
	}
	if v, ok := check("category", validate.FieldCategory, in.Category, a.validator.Category); ok {
		patch.Category = &v
	}
	if v, ok := check("date", validate.FieldDate, in.Date, a.validator.Date); ok {
		patch.Date = &v
	}
	return patch, res
}

func newDeleteCmd(with wrap) *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: with(func(a *app, cmd *cobra.Command, args []string) error {
			err := a.store.Delete(cmd.Context(), args[0])
			if errors.Is(err, ledger.ErrNotFound) {
				return notFound(args[0])
			}
			if err != nil {
				return fmt.Errorf("delete transaction: %w", err)
			}
			a.printf("%s %s\n", a.theme.success.Render("Deleted"), args[0])
			return nil
		}),
	}
}

func newShowCmd(with wrap) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one transaction",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(a *app, _ *cobra.Command, args []string) error {
			t, ok := a.store.Get(args[0])
			if !ok {
				return notFound(args[0])
			}
			currency := a.store.Settings().Currency
			rows := [][2]string{
				{"ID", t.ID},
				{"Description", t.Description},
				{"Amount", a.theme.amount.Render(money(currency, t.Amount))},
				{"Category", t.Category},
				{"Date", t.Date},
				{"Created", t.CreatedAt.In(a.loc).Format("2006-01-02 15:04")},
				{"Updated", t.UpdatedAt.In(a.loc).Format("2006-01-02 15:04")},
			}
			for _, r := range rows {
				a.printf("%s %s\n", a.theme.label.Render(fmt.Sprintf("%-12s", r[0])), r[1])
			}
			return nil
		}),
	}
}

type listFlags struct {
	pattern       string
	caseSensitive bool
	from, to      string
	categories    []string
	minAmount     string
	maxAmount     string
	sort          string
	highlight     bool
	preset        string
	suggest       string
}

func newListCmd(with wrap) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List, search and sort transactions",
		Args:    cobra.NoArgs,
		RunE: with(func(a *app, _ *cobra.Command, _ []string) error {
			if lf.suggest != "" {
				for _, s := range search.Suggestions(a.store.Transactions(), lf.suggest, 0) {
					a.println(s)
				}
				return nil
			}
			criteria, err := lf.criteria()
			if err != nil {
				return err
			}
			rows, err := search.Advanced(a.store.Transactions(), criteria)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				a.println(a.theme.muted.Render("No transactions found."))
				return nil
			}

			var re *regexp.Regexp
			if lf.highlight {
				re, _ = search.Compile(criteria.Pattern, criteria.CaseSensitive)
			}
			a.printTransactions(rows, re)
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVarP(&lf.pattern, "search", "s", "", "regular expression matched against description, category, amount and date")
	f.BoolVar(&lf.caseSensitive, "case-sensitive", false, "match --search case-sensitively")
	f.StringVar(&lf.from, "from", "", "earliest date, inclusive")
	f.StringVar(&lf.to, "to", "", "latest date, inclusive")
	f.StringSliceVar(&lf.categories, "category", nil, "only these categories (repeatable)")
	f.StringVar(&lf.minAmount, "min", "", "smallest amount, inclusive")
	f.StringVar(&lf.maxAmount, "max", "", "largest amount, inclusive")
	f.StringVar(&lf.sort, "sort", string(search.DateDesc), "sort key")
	f.BoolVar(&lf.highlight, "highlight", false, "mark search matches")
	f.StringVar(&lf.preset, "preset", "", "use a built-in search pattern (see presets)")
	f.StringVar(&lf.suggest, "suggest", "", "print descriptions and categories matching this text instead of listing")
	cmd.MarkFlagsMutuallyExclusive("search", "preset")
	return cmd
}

func (lf listFlags) criteria() (search.Criteria, error) {
	c := search.Criteria{
		Pattern:       lf.pattern,
		CaseSensitive: lf.caseSensitive,
		From:          lf.from,
		To:            lf.to,
		Categories:    lf.categories,
	}
	if lf.preset != "" {
		p, err := findPreset(lf.preset)
		if err != nil {
			return c, err
		}
		c.Pattern, c.CaseSensitive = p.Pattern, p.CaseSensitive
	}
	var err error
	if c.Min, err = optionalDecimal("min", lf.minAmount); err != nil {
		return c, err
	}
	if c.Max, err = optionalDecimal("max", lf.maxAmount); err != nil {
		return c, err
	}
	if lf.sort != "" {
		if c.Sort, err = search.ParseSortKey(lf.sort); err != nil {
			return c, err
		}
	}
	return c, nil
}

func optionalDecimal(name, raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %q is not a number", name, raw)
	}
	return &d, nil
}

func (a *app) printTransactions(rows []model.Transaction, re *regexp.Regexp) {
	currency := a.store.Settings().Currency
	open, closeTag := search.MarkOpen, search.MarkClose
	if a.theme.color {
		// reverse video on and off
		open, closeTag = "\x1b[7m", "\x1b[27m"
	}
	mark := func(s string) string {
		if re == nil {
			return s
		}
		return search.HighlightWith(s, re, open, closeTag)
	}

	total := decimal.Zero
	body := make([][]string, 0, len(rows))
	for _, t := range rows {
		total = total.Add(t.Amount)
		body = append(body, []string{t.Date, mark(t.Description), mark(t.Category), money(currency, t.Amount), t.ID})
	}
	a.println(a.theme.table([]string{"Date", "Description", "Category", "Amount", "ID"}, body, 3))
	a.printf("%s transactions, total %s\n", count(len(rows)), a.theme.amount.Render(money(currency, total)))
}

func (a *app) formErrors(res validate.FormResult) error {
	errs := res.Errors()
	for _, field := range formFieldOrder {
		if msg, ok := errs[field]; ok {
			a.printf("%s %s\n", a.theme.errorS.Render(field+":"), msg)
		}
	}
	return errInvalidInput
}

// categoryHint points out a probable typo when a category is new.
func (a *app) categoryHint(category string) {
	known := a.store.Categories()
	if slices.Contains(known, category) {
		return
	}
	if near, ok := search.Closest(known, category); ok {
		a.println(a.theme.muted.Render(fmt.Sprintf("New category %q. Did you mean %q?", category, near)))
	}
}

func notFound(id string) error {
	return fmt.Errorf("no transaction with id %q", id)
}
