package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jask/spendwise/internal/search"
)

func newPresetsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in search patterns usable with list --preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			th := newTheme(cmd.OutOrStdout(), !flags.noColor)
			var rows [][]string
			for _, p := range search.Presets() {
				mode := "ignore case"
				if p.CaseSensitive {
					mode = "case-sensitive"
				}
				rows = append(rows, []string{p.Name, p.Pattern, mode})
			}
			fmt.Fprintln(cmd.OutOrStdout(), th.table([]string{"Name", "Pattern", "Mode"}, rows))
			return nil
		},
	}
}

func findPreset(name string) (search.Preset, error) {
	var names []string
	for _, p := range search.Presets() {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
		names = append(names, p.Name)
	}
	return search.Preset{}, fmt.Errorf("unknown preset %q: want one of %s", name, strings.Join(names, ", "))
}
