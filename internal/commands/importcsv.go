package commands

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spendwise-dev/spendwise/internal/importer"
	"github.com/spendwise-dev/spendwise/internal/textparse"
	"github.com/spendwise-dev/spendwise/internal/tracker"
)

type importResult struct {
	added   int
	skipped int
}

func newImportCSVCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import-csv [file]",
		Short: "Add transactions from a bank or spendwise CSV",
		Long: `Add transactions from a CSV file. Without a file argument every CSV in
<dir>/import is read and moved to <dir>/import/processed afterwards.
Rows are appended; nothing is matched against existing transactions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string, s *session) error {
			reg := importer.DefaultRegistry()
			w := cmd.OutOrStdout()

			if len(args) == 1 {
				res, err := importFile(cmd, s, reg, args[0], format)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s: %d added, %d skipped\n", filepath.Base(args[0]), res.added, res.skipped)
				return nil
			}

			files, err := importer.Scan(s.dir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintf(w, "No CSV files in %s\n", filepath.Join(s.dir, "import"))
				return nil
			}
			var failed []string
			for _, f := range files {
				res, err := importFile(cmd, s, reg, f.Path, format)
				if err != nil {
					s.log.Error().Err(err).Str("file", f.Name).Msg("import failed")
					failed = append(failed, f.Name)
					continue
				}
				if err := importer.MarkProcessed(s.dir, f.Name); err != nil {
					return err
				}
				fmt.Fprintf(w, "%s: %d added, %d skipped\n", f.Name, res.added, res.skipped)
			}
			if len(failed) > 0 {
				return fmt.Errorf("could not import %s", strings.Join(failed, ", "))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "CSV format (chase or spendwise, default detect from header)")
	return cmd
}

func importFile(cmd *cobra.Command, s *session, reg *importer.Registry, path, format string) (importResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return importResult{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if format == "" {
		header, _ := bufio.NewReader(bytes.NewReader(data)).ReadString('\n')
		format = importer.Detect(header)
		if format == "" {
			return importResult{}, fmt.Errorf("%s: unrecognized CSV header, pass --format (%s)",
				filepath.Base(path), strings.Join(reg.Formats(), ", "))
		}
	}
	p := reg.Get(format)
	if p == nil {
		return importResult{}, fmt.Errorf("unknown format %q (want %s)", format, strings.Join(reg.Formats(), ", "))
	}

	rows, err := p.Parse(bytes.NewReader(data))
	if err != nil {
		return importResult{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	rules := textparse.NewRulesParser()
	ins := make([]tracker.TransactionInput, len(rows))
	for i, row := range rows {
		in := tracker.TransactionInput{
			Description: row.Description,
			Vendor:      row.Vendor,
			Amount:      row.Amount,
			Category:    row.Category,
			Date:        row.Date,
		}
		if strings.TrimSpace(in.Vendor) == "" {
			in.Vendor = row.Description
		}
		if in.Category == "" {
			if g, err := rules.Parse(cmd.Context(), row.Description); err == nil {
				in.Category = string(g.Category)
			}
		}
		ins[i] = in
	}

	added, problems, err := s.tracker.AddMany(ins, filepath.Base(path))
	if err != nil {
		return importResult{}, err
	}
	res := importResult{added: len(added)}
	for i, perr := range problems {
		if perr != nil {
			s.log.Warn().Err(perr).Str("ref", rows[i].Reference).Msg("row skipped")
			res.skipped++
		}
	}
	return res, nil
}
