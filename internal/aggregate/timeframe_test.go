package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-dev/spendwise/internal/model"
)

var now = time.Date(2025, 8, 20, 14, 30, 0, 0, time.UTC)

func TestResolveTimeframe(t *testing.T) {
	tests := []struct {
		tf        model.Timeframe
		selected  time.Time
		wantStart time.Time
		wantEnd   time.Time
		wantMult  int
	}{
		{model.TimeframeMonth, time.Time{}, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), EndOfMonth(now), 1},
		{model.TimeframeMonth, date(2025, 2, 14), time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), EndOfMonth(date(2025, 2, 1)), 1},
		{model.TimeframeSixMonths, time.Time{}, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), now, 6},
		{model.TimeframeTwelveMonth, time.Time{}, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), now, 12},
		{model.TimeframeYTD, time.Time{}, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), now, 8},
	}
	for _, tt := range tests {
		r, err := ResolveTimeframe(tt.tf, tt.selected, now)
		require.NoError(t, err, "timeframe %s", tt.tf)
		assert.Equal(t, tt.wantStart, r.Start, "start for %s", tt.tf)
		assert.Equal(t, tt.wantEnd, r.End, "end for %s", tt.tf)
		assert.Equal(t, tt.wantMult, r.Multiplier, "multiplier for %s", tt.tf)
	}

	_, err := ResolveTimeframe(model.Timeframe("Decade"), time.Time{}, now)
	assert.Error(t, err)
}

func TestRangeLabel(t *testing.T) {
	r, err := ResolveTimeframe(model.TimeframeMonth, date(2025, 2, 1), now)
	require.NoError(t, err)
	assert.Equal(t, "February 2025", r.Label())

	r, err = ResolveTimeframe(model.TimeframeYTD, time.Time{}, now)
	require.NoError(t, err)
	assert.Equal(t, "YTD", r.Label())
}

func TestAvailableMonths(t *testing.T) {
	assert.Equal(t, []time.Time{StartOfMonth(now)}, AvailableMonths(nil, now))

	txns := []model.Transaction{
		txn("a", "1", model.CategoryDining, date(2025, 6, 3)),
		txn("b", "1", model.CategoryDining, date(2025, 5, 30)),
	}
	got := AvailableMonths(txns, now)
	require.Len(t, got, 4)
	assert.Equal(t, time.August, got[0].Month())
	assert.Equal(t, time.May, got[3].Month())

	future := append(txns, txn("c", "1", model.CategoryDining, date(2025, 10, 1)))
	got = AvailableMonths(future, now)
	assert.Equal(t, time.October, got[0].Month(), "future-dated transactions extend the list")
}

func TestStatus(t *testing.T) {
	over := Status(dec("2500"), dec("2000"), 1)
	assert.True(t, over.Over)
	assert.Equal(t, "500.00", over.OverAmount.StringFixed(2))
	assert.Equal(t, 100, over.Percent)

	under := Status(dec("500"), dec("2000"), 1)
	assert.False(t, under.Over)
	assert.True(t, under.OverAmount.IsZero())
	assert.Equal(t, 25, under.Percent)

	rounding := Status(dec("1"), dec("3"), 1)
	assert.Equal(t, 33, rounding.Percent)

}

func TestStatus_MultiMonthUsesMonthlyBudget(t *testing.T) {
	st := Status(dec("3000"), dec("2000"), 6)
	assert.True(t, st.Over)
	assert.Equal(t, "1000.00", st.OverAmount.StringFixed(2))
	assert.Equal(t, 100, st.Percent)
	assert.Equal(t, "2000", st.Budget.String())
	assert.Equal(t, "12000", st.Target.String(), "target only feeds the ideal line")

	under := Status(dec("500"), dec("2000"), 12)
	assert.False(t, under.Over)
	assert.Equal(t, 25, under.Percent)
}

func TestSummarize_SixMonthsOverMonthlyBudget(t *testing.T) {
	state := model.State{
		Budget:       dec("2000"),
		Transactions: []model.Transaction{txn("a", "3000", model.CategoryTravel, date(2025, 5, 10))},
	}
	d, err := Summarize(state, model.TimeframeSixMonths, time.Time{}, now)
	require.NoError(t, err)
	assert.True(t, d.Status.Over)
	assert.Equal(t, 100, d.Status.Percent)
	assert.True(t, d.Series[len(d.Series)-1].Ideal.Equal(dec("12000")))
}

func TestStatus_ZeroBudget(t *testing.T) {
	idle := Status(decimal.Zero, decimal.Zero, 1)
	assert.False(t, idle.Over)
	assert.Equal(t, 0, idle.Percent)

	spent := Status(dec("0.01"), decimal.Zero, 1)
	assert.True(t, spent.Over)
	assert.Equal(t, 100, spent.Percent)
	assert.Equal(t, "0.01", spent.OverAmount.StringFixed(2))
}

func TestSummarize(t *testing.T) {
	state := model.State{
		Budget: dec("2000"),
		Transactions: []model.Transaction{
			txn("a", "2500", model.CategoryTravel, date(2025, 8, 2)),
			txn("b", "40", model.CategoryDining, date(2025, 7, 2)),
		},
	}

	d, err := Summarize(state, model.TimeframeMonth, time.Time{}, now)
	require.NoError(t, err)
	assert.Len(t, d.Transactions, 1)
	assert.Equal(t, "2500.00", d.Total.StringFixed(2))
	assert.True(t, d.Status.Over)
	assert.Equal(t, "500.00", d.Status.OverAmount.StringFixed(2))
	assert.Equal(t, 100, d.Status.Percent)
	assert.Len(t, d.Series, 31)
	require.Len(t, d.Breakdown, 1)
	assert.Equal(t, model.CategoryTravel, d.Breakdown[0].Category)
	assert.Len(t, state.Transactions, 2)
}
