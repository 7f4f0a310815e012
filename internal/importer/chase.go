package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ChaseParser parses Chase bank checking CSV exports. Debits become
// spending rows; credits (deposits, refunds) are skipped.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV and returns its debits as Rows.
func (p *ChaseParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var rows []Row
	for i, rec := range records[1:] {
		row, debit, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if debit {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func parseChaseRow(rec []string) (Row, bool, error) {
	date, err := time.ParseInLocation(chaseDateFormat, strings.TrimSpace(rec[chaseColDate]), time.Local)
	if err != nil {
		return Row{}, false, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rec[chaseColAmount]))
	if err != nil {
		return Row{}, false, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}
	if !amount.IsNegative() {
		return Row{}, false, nil
	}

	desc := strings.Join(strings.Fields(rec[chaseColDesc]), " ")
	return Row{
		Date:        date,
		Description: desc,
		Vendor:      chaseVendor(desc),
		Amount:      amount.Neg(),
		Reference:   makeChaseRef(date, desc),
	}, true, nil
}

// chaseVendor takes the merchant part of a description such as
// "GITHUB *PRO SUBSCRIPTION" or "SHELL OIL #5741".
func chaseVendor(desc string) string {
	if i := strings.IndexAny(desc, "*#"); i > 0 {
		if v := strings.TrimSpace(desc[:i]); v != "" {
			return v
		}
	}
	return desc
}

// makeChaseRef creates a reference like chase_20250103_GITHUBPROS.
func makeChaseRef(date time.Time, desc string) string {
	prefix := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(prefix) > 10 {
		prefix = prefix[:10]
	}
	return fmt.Sprintf("chase_%s_%s", date.Format("20060102"), prefix)
}
