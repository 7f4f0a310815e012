package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/backup"
	"github.com/spendwise-dev/spendwise/internal/buildinfo"
)

func newExportCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of all data",
		Long:  "Write a JSON backup of all data. Use --output - to write to stdout.",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			now := s.tracker.Now()
			state := s.tracker.Snapshot()

			if output == "-" {
				return backup.Export(cmd.OutOrStdout(), state, now, buildinfo.Version)
			}

			path := output
			if path == "" {
				path = backup.FileName(now)
			}
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			if err := backup.Export(f, state, now, buildinfo.Version); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions, %d subscriptions to %s\n",
				len(state.Transactions), len(state.Subscriptions), path)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "backup file (default spendwise-backup-YYYY-MM-DD.json)")
	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Replace all data with a JSON backup",
		Long:  "Replace all data with a JSON backup. Existing transactions, subscriptions and the budget are overwritten, not merged.",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			var r io.Reader
			if args[0] == "-" {
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			state, err := backup.Import(r)
			if err != nil {
				return err
			}
			if err := s.tracker.Replace(state); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d transactions, %d subscriptions, budget %s from %s\n",
				len(state.Transactions), len(state.Subscriptions), s.out.Money(state.Budget), filepath.Base(args[0]))
			return nil
		}),
	}
}
