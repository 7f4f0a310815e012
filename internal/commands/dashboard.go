package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/aggregate"
	"github.com/spendwise-dev/spendwise/internal/charts"
	"github.com/spendwise-dev/spendwise/internal/id"
	"github.com/spendwise-dev/spendwise/internal/model"
	"github.com/spendwise-dev/spendwise/internal/tracker"
)

func parseMonth(s string, loc *time.Location) (time.Time, error) {
	return id.ParseMonthKey(s, loc)
}

func filterMonth(txns []model.Transaction, month time.Time) []model.Transaction {
	return aggregate.FilterByRange(txns, aggregate.StartOfMonth(month), aggregate.EndOfMonth(month))
}

// windowFlags select the dashboard window.
type windowFlags struct {
	timeframe string
	month     string
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.timeframe, "timeframe", "t", "month", "month, 6m, 12m or ytd")
	cmd.Flags().StringVarP(&f.month, "month", "m", "", "month to show with --timeframe month (YYYY-MM)")
}

func (f *windowFlags) dashboard(t *tracker.Tracker) (aggregate.Dashboard, error) {
	tf, err := model.ParseTimeframe(f.timeframe)
	if err != nil {
		return aggregate.Dashboard{}, err
	}
	var month time.Time
	if f.month != "" {
		month, err = parseMonth(f.month, t.Now().Location())
		if err != nil {
			return aggregate.Dashboard{}, err
		}
	}
	return t.Dashboard(tf, month)
}

func newDashboardCommand(a *app) *cobra.Command {
	var window windowFlags

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show spending against budget",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			d, err := window.dashboard(s.tracker)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			s.out.Summary(d)
			fmt.Fprintln(w)
			s.out.Breakdown(d.Breakdown, d.Total)

			if pending := s.tracker.Proposals(); len(pending) > 0 {
				fmt.Fprintln(w)
				s.out.Proposals(pending, s.tracker.Now())
			}
			return nil
		}),
	}

	window.register(cmd)
	return cmd
}

func newMonthsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "List months that can be selected",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			s.out.Months(s.tracker.Months(), s.tracker.Now())
			return nil
		}),
	}
}

func newChartCommand(a *app) *cobra.Command {
	var window windowFlags
	var outDir string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render trend and category charts as PNG",
		Args:  cobra.NoArgs,
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			d, err := window.dashboard(s.tracker)
			if err != nil {
				return err
			}
			dir := outDir
			if dir == "" {
				dir = filepath.Join(s.dir, "charts")
			}
			files, err := charts.WriteDashboard(cmd.Context(), dir, d)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, path := range []string{files.Trend, files.Breakdown} {
				if path != "" {
					fmt.Fprintf(w, "Wrote %s\n", path)
				}
			}
			if files.Breakdown == "" {
				fmt.Fprintln(w, "No spending in this period, category chart skipped.")
			}
			return nil
		}),
	}

	window.register(cmd)
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default <dir>/charts)")
	return cmd
}
