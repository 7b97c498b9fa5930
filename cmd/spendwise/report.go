package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newStatsCmd(with wrap) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise spending",
		Args:  cobra.NoArgs,
		RunE: with(func(a *app, _ *cobra.Command, _ []string) error {
			st := a.store.Stats()
			currency := a.store.Settings().Currency

			a.println(a.theme.title.Render("Spending summary"))
			lines := [][2]string{
				{"Total", money(currency, st.Total)},
				{"Transactions", count(st.Count)},
				{"Average", money(currency, st.Average)},
				{"Top category", st.TopCategory},
				{"Last 7 days", money(currency, st.RecentSpending)},
				{"This month", money(currency, st.CurrentMonth)},
			}
			for _, l := range lines {
				a.printf("%s %s\n", a.theme.label.Render(fmt.Sprintf("%-14s", l[0])), l[1])
			}
			if len(st.CategoryTotals) > 0 {
				rows := make([][]string, 0, len(st.CategoryTotals))
				for _, ct := range st.CategoryTotals {
					rows = append(rows, []string{ct.Category, count(ct.Count), money(currency, ct.Total)})
				}
				a.println(a.theme.table([]string{"Category", "Count", "Total"}, rows, 1, 2))
			}
			a.printAlert()
			return nil
		}),
	}
}

func newLimitCmd(with wrap) *cobra.Command {
	return &cobra.Command{
		Use:   "limit",
		Short: "Compare this month's spending with the limit",
		Args:  cobra.NoArgs,
		RunE: with(func(a *app, _ *cobra.Command, _ []string) error {
			settings := a.store.Settings()
			if settings.SpendingLimit == nil || !settings.SpendingLimit.IsPositive() {
				a.println(a.theme.muted.Render("No spending limit set. Use: spendwise settings --limit AMOUNT"))
				return nil
			}
			if a.store.CheckSpendingLimit() == nil {
				spent := a.store.Stats().CurrentMonth
				a.println(a.theme.success.Render(fmt.Sprintf("Within limit: %s of %s",
					money(settings.Currency, spent), money(settings.Currency, *settings.SpendingLimit))))
				return nil
			}
			a.printAlert()
			return nil
		}),
	}
}

func newConvertCmd(with wrap) *cobra.Command {
	return &cobra.Command{
		Use:   "convert AMOUNT FROM TO",
		Short: "Convert an amount with the stored exchange rates",
		Args:  cobra.ExactArgs(3),
		RunE: with(func(a *app, _ *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("amount %q is not a number", args[0])
			}
			from, to := strings.ToUpper(args[1]), strings.ToUpper(args[2])
			out, err := a.store.Settings().Convert(amount, from, to)
			if err != nil {
				return err
			}
			a.printf("%s %s = %s %s\n", amount.StringFixed(2), from, a.theme.amount.Render(out.StringFixed(2)), to)
			return nil
		}),
	}
}
