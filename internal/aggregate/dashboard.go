package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// Dashboard bundles every derived view for one window.
type Dashboard struct {
	Range        Range
	Budget       decimal.Decimal
	Transactions []model.Transaction
	Total        decimal.Decimal
	Breakdown    []CategoryTotal
	Series       []SeriesPoint
	Status       BudgetStatus
}

// Summarize recomputes the dashboard from scratch for the given window.
func Summarize(state model.State, tf model.Timeframe, selectedMonth, now time.Time) (Dashboard, error) {
	r, err := ResolveTimeframe(tf, selectedMonth, now)
	if err != nil {
		return Dashboard{}, err
	}

	filtered := FilterByRange(state.Transactions, r.Start, r.End)
	total := SumAmounts(filtered)

	return Dashboard{
		Range:        r,
		Budget:       state.Budget,
		Transactions: filtered,
		Total:        total,
		Breakdown:    CategoryBreakdown(filtered),
		Series:       BuildDailySeries(r.Start, r.End, filtered, state.Budget, r.Multiplier),
		Status:       Status(total, state.Budget, r.Multiplier),
	}, nil
}
