package aggregate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// Range is a resolved dashboard window. Multiplier scales the monthly budget
// to the window's target.
type Range struct {
	Timeframe  model.Timeframe
	Start      time.Time
	End        time.Time
	Multiplier int
}

// Label names the window the way the summary card shows it.
func (r Range) Label() string {
	if r.Timeframe == model.TimeframeMonth {
		return r.Start.Format("January 2006")
	}
	return string(r.Timeframe)
}

// ResolveTimeframe turns a timeframe selector into a concrete window.
// selectedMonth only matters for TimeframeMonth; a zero value means now's
// month. Rolling windows end at now.
func ResolveTimeframe(tf model.Timeframe, selectedMonth, now time.Time) (Range, error) {
	thisMonth := StartOfMonth(now)
	switch tf {
	case model.TimeframeMonth:
		month := thisMonth
		if !selectedMonth.IsZero() {
			month = StartOfMonth(selectedMonth)
		}
		return Range{Timeframe: tf, Start: month, End: EndOfMonth(month), Multiplier: 1}, nil
	case model.TimeframeSixMonths:
		return Range{Timeframe: tf, Start: thisMonth.AddDate(0, -5, 0), End: now, Multiplier: 6}, nil
	case model.TimeframeTwelveMonth:
		return Range{Timeframe: tf, Start: thisMonth.AddDate(0, -11, 0), End: now, Multiplier: 12}, nil
	case model.TimeframeYTD:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return Range{Timeframe: tf, Start: start, End: now, Multiplier: int(now.Month())}, nil
	}
	return Range{}, fmt.Errorf("unknown timeframe %q", tf)
}

// AvailableMonths lists month starts from the earliest transaction through
// the later of now and the latest transaction, newest first. With no
// transactions it is just the current month.
func AvailableMonths(txns []model.Transaction, now time.Time) []time.Time {
	current := StartOfMonth(now)
	if len(txns) == 0 {
		return []time.Time{current}
	}

	loc := now.Location()
	earliest := txns[0].Date.In(loc)
	latest := earliest
	for _, t := range txns[1:] {
		d := t.Date.In(loc)
		if d.Before(earliest) {
			earliest = d
		}
		if d.After(latest) {
			latest = d
		}
	}

	first := StartOfMonth(earliest)
	last := StartOfMonth(latest)
	if current.After(last) {
		last = current
	}

	var months []time.Time
	for m := last; !m.Before(first); m = m.AddDate(0, -1, 0) {
		months = append(months, m)
	}
	return months
}

// BudgetStatus describes spend against the monthly budget for a window.
// Target is where the ideal line ends (budget × months); Over and Percent
// always use the plain monthly budget, whatever the window length.
type BudgetStatus struct {
	Spent      decimal.Decimal
	Budget     decimal.Decimal
	Target     decimal.Decimal
	Over       bool
	OverAmount decimal.Decimal // zero unless Over
	Percent    int             // rounded, capped at 100
}

var hundred = decimal.NewFromInt(100)

// Status compares spent against budget. A zero budget counts any spend as
// over budget.
func Status(spent, budget decimal.Decimal, multiplier int) BudgetStatus {
	st := BudgetStatus{
		Spent:      spent,
		Budget:     budget,
		Target:     budget.Mul(decimal.NewFromInt(int64(multiplier))),
		Over:       spent.GreaterThan(budget),
		OverAmount: decimal.Zero,
	}
	if st.Over {
		st.OverAmount = spent.Sub(budget)
	}

	switch {
	case !budget.IsPositive():
		if spent.IsPositive() {
			st.Percent = 100
		}
	default:
		pct := spent.Mul(hundred).Div(budget).Round(0).IntPart()
		st.Percent = int(min(max(pct, 0), 100))
	}
	return st
}
