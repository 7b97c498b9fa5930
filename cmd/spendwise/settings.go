package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jask/spendwise/internal/model"
)

func newSettingsCmd(with wrap) *cobra.Command {
	var (
		currency   string
		base       string
		limit      string
		clearLimit bool
		rates      []string
	)
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change currency, spending limit and exchange rates",
		Args:  cobra.NoArgs,
		RunE: with(func(a *app, cmd *cobra.Command, _ []string) error {
			var patch model.SettingsPatch
			changed := false
			if cmd.Flags().Changed("currency") {
				if strings.TrimSpace(currency) == "" {
					return errors.New("--currency must not be empty")
				}
				patch.Currency = &currency
				changed = true
			}
			if cmd.Flags().Changed("base") {
				code := strings.ToUpper(strings.TrimSpace(base))
				if code == "" {
					return errors.New("--base must not be empty")
				}
				patch.BaseCurrency = &code
				changed = true
			}
			if clearLimit && limit != "" {
				return errors.New("--limit and --clear-limit are mutually exclusive")
			}
			if clearLimit {
				patch.ClearSpendingLimit = true
				changed = true
			}
			if limit != "" {
				d, err := decimal.NewFromString(limit)
				if err != nil || d.IsNegative() {
					return fmt.Errorf("--limit %q must be a non-negative number", limit)
				}
				patch.SpendingLimit = &d
				changed = true
			}
			if len(rates) > 0 {
				parsed, err := parseRates(rates)
				if err != nil {
					return err
				}
				patch.ExchangeRates = parsed
				changed = true
			}

			settings := a.store.Settings()
			if changed {
				var err error
				if settings, err = a.store.UpdateSettings(cmd.Context(), patch); err != nil {
					return fmt.Errorf("update settings: %w", err)
				}
			}
			a.printSettings(settings)
			if changed {
				a.printAlert()
			}
			return nil
		}),
	}
	f := cmd.Flags()
	f.StringVar(&currency, "currency", "", "display symbol, e.g. $")
	f.StringVar(&base, "base", "", "base currency code, e.g. USD")
	f.StringVar(&limit, "limit", "", "monthly spending limit")
	f.BoolVar(&clearLimit, "clear-limit", false, "remove the monthly spending limit")
	f.StringArrayVar(&rates, "rate", nil, "exchange rate as CODE=RATE relative to the base currency (repeatable)")
	return cmd
}

func parseRates(pairs []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(pairs))
	for _, p := range pairs {
		code, raw, ok := strings.Cut(p, "=")
		code = strings.ToUpper(strings.TrimSpace(code))
		if !ok || code == "" {
			return nil, fmt.Errorf("--rate %q: want CODE=RATE", p)
		}
		rate, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil || !rate.IsPositive() {
			return nil, fmt.Errorf("--rate %q: rate must be a positive number", p)
		}
		out[code] = rate
	}
	return out, nil
}

func (a *app) printSettings(s model.Settings) {
	limit := "none"
	if s.SpendingLimit != nil {
		limit = money(s.Currency, *s.SpendingLimit)
	}
	lines := [][2]string{
		{"Currency", s.Currency},
		{"Base currency", s.BaseCurrency},
		{"Spending limit", limit},
	}
	for _, l := range lines {
		a.printf("%s %s\n", a.theme.label.Render(fmt.Sprintf("%-15s", l[0])), l[1])
	}
	if len(s.ExchangeRates) > 0 {
		rows := make([][]string, 0, len(s.ExchangeRates))
		for _, code := range slices.Sorted(maps.Keys(s.ExchangeRates)) {
			rows = append(rows, []string{code, s.ExchangeRates[code].String()})
		}
		a.println(a.theme.table([]string{"Code", "Rate per " + s.BaseCurrency}, rows, 1))
	}
}

func newCategoriesCmd(with wrap) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List known categories",
		Args:    cobra.NoArgs,
		RunE: with(func(a *app, _ *cobra.Command, _ []string) error {
			for _, c := range a.store.Categories() {
				a.println(c)
			}
			return nil
		}),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: with(func(a *app, cmd *cobra.Command, args []string) error {
			res := a.validator.Category(args[0])
			if !res.Valid {
				return errors.New(res.Message)
			}
			a.categoryHint(res.Value)
			added, err := a.store.AddCategory(cmd.Context(), res.Value)
			if err != nil {
				return fmt.Errorf("add category: %w", err)
			}
			if !added {
				a.println(a.theme.muted.Render(fmt.Sprintf("%s already exists", res.Value)))
				return nil
			}
			a.printf("%s %s\n", a.theme.success.Render("Added category"), res.Value)
			return nil
		}),
	})
	return cmd
}
