package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProposalsCommand(a *app) *cobra.Command {
	proposalsCmd := &cobra.Command{
		Use:     "proposals",
		Aliases: []string{"due"},
		Short:   "Subscriptions due this month",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List subscriptions not yet paid this month",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			s.out.Proposals(s.tracker.Proposals(), s.tracker.Now())
			return nil
		}),
	}

	accept := &cobra.Command{
		Use:   "accept <subscription-id>...",
		Short: "Record this month's payment for each subscription",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			for _, subID := range args {
				txn, err := s.tracker.AcceptProposal(subID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Accepted %s: %s %s on %s\n",
					subID, txn.Description, s.out.Money(txn.Amount), txn.Date.Format(dateLayout))
			}
			return nil
		}),
	}

	proposalsCmd.AddCommand(list, accept, newDeleteSubscriptionCommand(a))
	proposalsCmd.RunE = list.RunE
	return proposalsCmd
}

func newSubscriptionsCommand(a *app) *cobra.Command {
	subsCmd := &cobra.Command{
		Use:     "subscriptions",
		Aliases: []string{"subs"},
		Short:   "Manage recurring payments",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every subscription and its state this month",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			state := s.tracker.Snapshot()
			s.out.Subscriptions(state.Subscriptions, state.Transactions, s.tracker.Now())
			return nil
		}),
	}

	subsCmd.AddCommand(list, newDeleteSubscriptionCommand(a))
	subsCmd.RunE = list.RunE
	return subsCmd
}

// Deleting a subscription keeps the transactions already recorded for it.
func newDeleteSubscriptionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <subscription-id>",
		Short: "Stop proposing a subscription",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.tracker.DeleteSubscription(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted subscription %s\n", args[0])
			return nil
		}),
	}
}
