package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newParseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <text>...",
		Short: "Show how free text would be read, without saving",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			text := strings.Join(args, " ")
			g, err := a.textParser(s).Parse(cmd.Context(), text)
			if err != nil {
				return fmt.Errorf("parsing text: %w", err)
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Description: %s\n", g.Description)
			fmt.Fprintf(w, "Amount:      %s\n", s.out.Money(g.Amount))
			fmt.Fprintf(w, "Category:    %s\n", g.Category)
			return nil
		}),
	}
}
