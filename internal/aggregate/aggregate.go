// Package aggregate computes the dashboard views over a transaction list:
// range filtering, totals, the category breakdown and the cumulative
// actual-vs-ideal daily series. Every function is pure and leaves its inputs
// untouched.
package aggregate

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	Category model.Category
	Total    decimal.Decimal
}

// FilterByRange returns the transactions dated within [start, end], both ends
// inclusive.
func FilterByRange(txns []model.Transaction, start, end time.Time) []model.Transaction {
	out := make([]model.Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SumAmounts adds up every transaction amount.
func SumAmounts(txns []model.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// CategoryBreakdown totals amounts per category, largest first. Categories
// with no transactions are omitted. Equal totals fall back to the fixed
// category order so the result does not depend on input ordering.
func CategoryBreakdown(txns []model.Transaction) []CategoryTotal {
	totals := make(map[model.Category]decimal.Decimal)
	for _, t := range txns {
		c := t.Category.Normalize()
		totals[c] = totals[c].Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(totals))
	for _, c := range model.Categories {
		if total, ok := totals[c]; ok {
			out = append(out, CategoryTotal{Category: c, Total: total})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total.GreaterThan(out[j].Total)
	})
	return out
}

// StartOfMonth returns midnight on the first of t's month, in t's location.
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// EndOfMonth returns the last instant of t's month.
func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// LastDayOfMonth returns the number of days in t's month.
func LastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// SameMonth reports whether a falls in the same calendar month and year as b,
// judged in b's location.
func SameMonth(a, b time.Time) bool {
	a = a.In(b.Location())
	return a.Year() == b.Year() && a.Month() == b.Month()
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
