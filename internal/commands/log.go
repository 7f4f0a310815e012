package commands

import (
	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/activity"
)

func newLogCommand(a *app) *cobra.Command {
	var tail int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show the activity log",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			entries, err := activity.New(s.dir).Read()
			if err != nil {
				return err
			}
			if tail > 0 && len(entries) > tail {
				entries = entries[len(entries)-tail:]
			}
			s.out.Activity(entries)
			return nil
		}),
	}

	cmd.Flags().IntVarP(&tail, "tail", "n", 0, "only the last n entries")
	return cmd
}
