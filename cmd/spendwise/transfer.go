package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jask/spendwise/internal/ledger"
)

func newExportCmd(with wrap) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all data as JSON, or transactions as CSV",
		Args:  cobra.NoArgs,
		RunE: with(func(a *app, _ *cobra.Command, _ []string) error {
			var write func(io.Writer) error
			switch format {
			case "json":
				write = a.store.WriteJSON
			case "csv":
				write = a.store.WriteCSV
			default:
				return fmt.Errorf("--format %q: want json or csv", format)
			}
			if output == "" || output == "-" {
				return write(a.out)
			}
			if err := writeFileAtomic(output, write); err != nil {
				return err
			}
			a.log.Info("export written", "path", output, "format", format)
			a.printf("%s %s\n", a.theme.success.Render("Exported to"), output)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or csv")
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write (default stdout)")
	return cmd
}

// writeFileAtomic writes through a temp file and renames it into place.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir export dir: %w", err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}

func newImportCmd(with wrap) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all transactions with an exported JSON document",
		Long: "Replace all transactions with an exported JSON document. The whole file is\n" +
			"checked first; if any record is invalid nothing is changed. Use - for stdin.",
		Args: cobra.ExactArgs(1),
		RunE: with(func(a *app, cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import: %w", err)
				}
				defer f.Close()
				r = f
			}
			n, err := a.store.ImportReader(cmd.Context(), r)
			var importErr *ledger.ImportError
			if errors.As(err, &importErr) {
				a.println(a.theme.muted.Render("Nothing was imported; existing data is unchanged."))
			}
			if err != nil {
				return err
			}
			a.printf("%s %s transactions\n", a.theme.success.Render("Imported"), count(n))
			a.printAlert()
			return nil
		}),
	}
}

func newClearCmd(with wrap) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction and reset settings",
		Args:  cobra.NoArgs,
		RunE: with(func(a *app, cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear without --yes")
			}
			if err := a.store.ClearAll(cmd.Context()); err != nil {
				return fmt.Errorf("clear: %w", err)
			}
			a.println(a.theme.warning.Render("All data cleared."))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting everything")
	return cmd
}
