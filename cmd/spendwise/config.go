package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jask/spendwise/internal/config"
)

func newConfigCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			th := newTheme(cmd.OutOrStdout(), cfg.UI.Color)
			rows := [][]string{
				{"storage.backend", cfg.Storage.Backend},
				{"storage.path", cfg.StoragePath()},
				{"log.level", cfg.Log.Level},
				{"ui.timezone", cfg.UI.Timezone},
				{"ui.color", strconv.FormatBool(cfg.UI.Color)},
				{"watch.schedule", cfg.Watch.Schedule},
				{"metrics.textfile", cfg.Metrics.Textfile},
				{"metrics.runtime", strconv.FormatBool(cfg.Metrics.Runtime)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), th.table([]string{"Key", "Value"}, rows))
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*flags)
			if err != nil {
				return err
			}
			path := config.ResolvePath(flags.configPath)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("stat config: %w", err)
			}
			if err := config.Save(cfg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)
	return cmd
}
