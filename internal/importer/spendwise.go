package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SpendwiseHeader is the header of the plain spending CSV format.
const SpendwiseHeader = "date,description,vendor,amount,category"

// SpendwiseParser reads the plain format: one row per purchase, ISO dates,
// positive amounts, category optional.
type SpendwiseParser struct{}

func (p *SpendwiseParser) Format() string { return "spendwise" }

func (p *SpendwiseParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading spendwise CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols, err := headerIndex(records[0])
	if err != nil {
		return nil, err
	}

	var rows []Row
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		row, err := parseSpendwiseRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type columns struct {
	date, desc, vendor, amount, category int
}

func headerIndex(header []string) (columns, error) {
	cols := columns{-1, -1, -1, -1, -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "date":
			cols.date = i
		case "description":
			cols.desc = i
		case "vendor":
			cols.vendor = i
		case "amount":
			cols.amount = i
		case "category":
			cols.category = i
		}
	}
	if cols.date < 0 || cols.desc < 0 || cols.vendor < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("header must contain date, description, vendor and amount (got %q)", strings.Join(header, ","))
	}
	return cols, nil
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseSpendwiseRow(rec []string, cols columns) (Row, error) {
	rawDate := field(rec, cols.date)
	date, err := time.ParseInLocation("2006-01-02", rawDate, time.Local)
	if err != nil {
		return Row{}, fmt.Errorf("parsing date %q: %w", rawDate, err)
	}

	rawAmount := strings.TrimPrefix(field(rec, cols.amount), "$")
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return Row{}, fmt.Errorf("parsing amount %q: %w", rawAmount, err)
	}

	return Row{
		Date:        date,
		Description: field(rec, cols.desc),
		Vendor:      field(rec, cols.vendor),
		Amount:      amount,
		Category:    field(rec, cols.category),
	}, nil
}
