package main

import (
	"github.com/spf13/cobra"
)

type runFunc func(a *app, cmd *cobra.Command, args []string) error

// wrap turns a runFunc into a cobra RunE that owns the app lifecycle.
type wrap func(runFunc) func(*cobra.Command, []string) error

func newRootCmd() *cobra.Command {
	var flags globalFlags
	root := &cobra.Command{
		Use:          "spendwise",
		Short:        "Track personal spending locally",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default $HOME/.config/spendwise/config.toml)")
	pf.StringVar(&flags.backend, "storage", "", "storage backend: sqlite, file or memory")
	pf.StringVar(&flags.storagePath, "storage-path", "", "database file or data directory")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.BoolVar(&flags.noColor, "no-color", false, "disable colored output")

	var with wrap = func(fn runFunc) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			a, err := openApp(cmd.Context(), flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.close(); err == nil {
					err = cerr
				}
			}()
			return fn(a, cmd, args)
		}
	}

	root.AddCommand(
		newAddCmd(with),
		newEditCmd(with),
		newDeleteCmd(with),
		newShowCmd(with),
		newListCmd(with),
		newStatsCmd(with),
		newLimitCmd(with),
		newSettingsCmd(with),
		newCategoriesCmd(with),
		newConvertCmd(with),
		newExportCmd(with),
		newImportCmd(with),
		newClearCmd(with),
		newWatchCmd(with),
		newPresetsCmd(&flags),
		newConfigCmd(&flags),
	)
	return root
}
