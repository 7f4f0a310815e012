package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/textparse"
	"github.com/spendwise-dev/spendwise/internal/tracker"
)

const dateLayout = "2006-01-02"

// txnFlags are the fields shared by add and edit. Empty means "not given".
type txnFlags struct {
	description string
	vendor      string
	amount      string
	category    string
	date        string
}

func (f *txnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.description, "desc", "", "what was bought")
	cmd.Flags().StringVar(&f.vendor, "vendor", "", "where it was bought")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount spent, e.g. 12.50")
	cmd.Flags().StringVar(&f.category, "category", "", "category name (default Other)")
	cmd.Flags().StringVar(&f.date, "date", "", "purchase date YYYY-MM-DD (default today)")
}

func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return d, nil
}

// input converts the flags, with base supplying anything not given.
func (f *txnFlags) input(base tracker.TransactionInput, loc *time.Location) (tracker.TransactionInput, error) {
	in := base
	if f.description != "" {
		in.Description = f.description
	}
	if f.vendor != "" {
		in.Vendor = f.vendor
	}
	if f.category != "" {
		in.Category = f.category
	}
	if f.amount != "" {
		amt, err := parseAmount(f.amount)
		if err != nil {
			return in, err
		}
		in.Amount = amt
	}
	if f.date != "" {
		d, err := parseDate(f.date, loc)
		if err != nil {
			return in, err
		}
		in.Date = d
	}
	return in, nil
}

// mergeGuess fills only the fields the user left empty.
func mergeGuess(in tracker.TransactionInput, g textparse.Guess) tracker.TransactionInput {
	if strings.TrimSpace(in.Description) == "" {
		in.Description = g.Description
	}
	if in.Amount.IsZero() && g.Amount.IsPositive() {
		in.Amount = g.Amount
	}
	if in.Category == "" {
		in.Category = string(g.Category)
	}
	return in
}

func newAddCommand(a *app) *cobra.Command {
	var flags txnFlags
	var text string
	var recurring bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a purchase",
		Example: `  spendwise add --desc Coffee --vendor "Blue Bottle" --amount 4.50 --category Dining
  spendwise add --text "gym membership 220" --vendor Equinox --recurring`,
		Args: cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			in, err := flags.input(tracker.TransactionInput{}, s.tracker.Now().Location())
			if err != nil {
				return err
			}
			if text != "" {
				g, err := a.textParser(s).Parse(cmd.Context(), text)
				if err != nil {
					s.log.Warn().Err(err).Msg("text parsing failed, continuing with the given fields")
				} else {
					in = mergeGuess(in, g)
				}
			}

			txn, err := s.tracker.Add(in, recurring)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s: %s %s (%s)\n", txn.ID, txn.Description, s.out.Money(txn.Amount), txn.Category)
			if txn.Recurring() {
				fmt.Fprintf(cmd.OutOrStdout(), "Subscription %s created, billed on day %d\n", txn.SubscriptionID, txn.Date.Day())
			}
			return nil
		}),
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&text, "text", "", "free text to fill in missing fields, e.g. \"lunch at cafe 12.50\"")
	cmd.Flags().BoolVar(&recurring, "recurring", false, "also register a monthly subscription")

	return cmd
}

func newEditCommand(a *app) *cobra.Command {
	var flags txnFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			state := s.tracker.Snapshot()
			i := state.FindTransaction(args[0])
			if i < 0 {
				return fmt.Errorf("transaction %s: %w", args[0], tracker.ErrNotFound)
			}
			cur := state.Transactions[i]
			base := tracker.TransactionInput{
				Description: cur.Description,
				Vendor:      cur.Vendor,
				Amount:      cur.Amount,
				Category:    string(cur.Category),
			}
			in, err := flags.input(base, s.tracker.Now().Location())
			if err != nil {
				return err
			}

			txn, err := s.tracker.Edit(args[0], in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s %s (%s) on %s\n",
				txn.ID, txn.Description, s.out.Money(txn.Amount), txn.Category, txn.Date.Format(dateLayout))
			return nil
		}),
	}

	flags.register(cmd)
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			if err := s.tracker.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		}),
	}
}

func newListCommand(a *app) *cobra.Command {
	var month string
	var category string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			txns := s.tracker.Snapshot().Transactions
			if month != "" {
				m, err := parseMonth(month, s.tracker.Now().Location())
				if err != nil {
					return err
				}
				txns = filterMonth(txns, m)
			}
			if category != "" {
				txns = filterCategory(txns, model.ParseCategory(category))
			}
			if limit > 0 && len(txns) > limit {
				txns = txns[:limit]
			}
			s.out.Transactions(txns)
			return nil
		}),
	}

	cmd.Flags().StringVar(&month, "month", "", "only this month (YYYY-MM)")
	cmd.Flags().StringVar(&category, "category", "", "only this category")
	cmd.Flags().IntVar(&limit, "limit", 0, "show at most this many")
	return cmd
}

func filterCategory(txns []model.Transaction, c model.Category) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if t.Category.Normalize() == c {
			out = append(out, t)
		}
	}
	return out
}
