package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendwise-dev/spendwise/internal/model"
)

func TestBuildDailySeries_LengthMatchesDays(t *testing.T) {
	tests := []struct {
		start, end time.Time
		want       int
	}{
		{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), EndOfMonth(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)), 31},
		{time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), EndOfMonth(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)), 29},
		{time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC), 365},
		{time.Date(2025, 6, 5, 9, 0, 0, 0, time.UTC), time.Date(2025, 6, 5, 18, 0, 0, 0, time.UTC), 1},
	}
	for _, tt := range tests {
		got := BuildDailySeries(tt.start, tt.end, nil, dec("2000"), 1)
		assert.Len(t, got, tt.want, "%s..%s", tt.start, tt.end)
		assert.Equal(t, tt.want, DaysInRange(tt.start, tt.end))
	}
}

func TestBuildDailySeries_Cumulative(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	end := EndOfMonth(start)
	txns := []model.Transaction{
		txn("a", "10.00", model.CategoryDining, date(2025, 4, 1)),
		txn("b", "5.50", model.CategoryDining, date(2025, 4, 1)),
		txn("c", "20.00", model.CategoryTravel, date(2025, 4, 3)),
	}

	got := BuildDailySeries(start, end, txns, dec("2900"), 1)
	require.Len(t, got, 30)

	assert.Equal(t, "15.50", got[0].Actual.StringFixed(2))
	assert.Equal(t, "15.50", got[1].Actual.StringFixed(2))
	assert.Equal(t, "35.50", got[2].Actual.StringFixed(2))
	assert.Equal(t, "35.50", got[29].Actual.StringFixed(2))

	assert.True(t, got[0].Ideal.IsZero(), "ideal line starts at zero")
	assert.Equal(t, "100.00", got[1].Ideal.StringFixed(2))
	assert.True(t, got[29].Ideal.Equal(dec("2900")), "ideal line ends at the target")

	assert.Equal(t, "1", got[0].Label)
	assert.Equal(t, "30", got[29].Label)
}

func TestBuildDailySeries_SingleDay(t *testing.T) {
	day := time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
	got := BuildDailySeries(day, day.Add(time.Hour), []model.Transaction{txn("a", "7", model.CategoryOther, day)}, dec("100"), 1)
	require.Len(t, got, 1)
	assert.True(t, got[0].Ideal.IsZero())
	assert.Equal(t, "7.00", got[0].Actual.StringFixed(2))
}

func TestBuildDailySeries_EmptyAndZeroBudget(t *testing.T) {
	start := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	end := EndOfMonth(start)

	empty := BuildDailySeries(start, end, nil, dec("2000"), 1)
	require.Len(t, empty, 28)
	for _, p := range empty {
		assert.True(t, p.Actual.IsZero())
	}
	assert.True(t, empty[27].Ideal.Equal(dec("2000")))

	zero := BuildDailySeries(start, end, nil, decimal.Zero, 1)
	for _, p := range zero {
		assert.True(t, p.Ideal.IsZero())
	}
}

func TestBuildDailySeries_LongRangeLabels(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got := BuildDailySeries(start, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), nil, dec("1000"), 3)
	require.NotEmpty(t, got)
	assert.Equal(t, "Jan 1", got[0].Label)
	assert.True(t, got[len(got)-1].Ideal.Equal(dec("3000")))
}

func TestBuildDailySeries_EndBeforeStart(t *testing.T) {
	start := time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)
	got := BuildDailySeries(start, start.AddDate(0, 0, -1), nil, dec("1"), 1)
	assert.Empty(t, got)
}

func TestBuildDailySeries_Deterministic(t *testing.T) {
	start := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	a := txn("a", "1.25", model.CategoryDining, date(2025, 4, 2))
	b := txn("b", "3.75", model.CategoryHealth, date(2025, 4, 2))

	first := BuildDailySeries(start, EndOfMonth(start), []model.Transaction{a, b}, dec("500"), 1)
	second := BuildDailySeries(start, EndOfMonth(start), []model.Transaction{b, a}, dec("500"), 1)
	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Actual.Equal(second[i].Actual))
		assert.True(t, first[i].Ideal.Equal(second[i].Ideal))
	}
}
