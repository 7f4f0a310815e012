package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBudgetCommand(a *app) *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Show or change the monthly budget",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the monthly budget",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			fmt.Fprintf(cmd.OutOrStdout(), "Monthly budget: %s\n", s.out.Money(s.tracker.Snapshot().Budget))
			return nil
		}),
	}

	set := &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			v, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			if err := s.tracker.SetBudget(v); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Monthly budget set to %s\n", s.out.Money(v))
			return nil
		}),
	}

	budgetCmd.AddCommand(show, set)
	budgetCmd.RunE = show.RunE
	return budgetCmd
}
