package aggregate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/spendwise-dev/spendwise/internal/model"
)

// SeriesPoint is one calendar day of the spending trend.
type SeriesPoint struct {
	Date   time.Time
	Label  string
	Actual decimal.Decimal // cumulative spend through this day
	Ideal  decimal.Decimal // straight-line pace toward the period target
}

// longRangeDays is the range length above which labels include the month.
const longRangeDays = 31

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func keyOf(t time.Time) dayKey {
	return dayKey{t.Year(), t.Month(), t.Day()}
}

// DaysInRange counts the calendar days from start to end inclusive, using
// start's location. It returns 0 when end falls on an earlier day than start.
func DaysInRange(start, end time.Time) int {
	first := startOfDay(start)
	last := startOfDay(end.In(start.Location()))
	n := 0
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// BuildDailySeries produces one point per calendar day in [start, end].
// The ideal line runs linearly from zero on the first day to
// budget*multiplier on the last; a single-day range keeps the step
// denominator at one. Actual accumulates each day's transaction amounts.
func BuildDailySeries(start, end time.Time, txns []model.Transaction, budget decimal.Decimal, multiplier int) []SeriesPoint {
	loc := start.Location()
	days := DaysInRange(start, end)
	if days == 0 {
		return []SeriesPoint{}
	}

	daily := make(map[dayKey]decimal.Decimal)
	for _, t := range txns {
		k := keyOf(t.Date.In(loc))
		daily[k] = daily[k].Add(t.Amount)
	}

	target := budget.Mul(decimal.NewFromInt(int64(multiplier)))
	denom := decimal.NewFromInt(int64(max(days-1, 1)))

	format := "2"
	if days > longRangeDays {
		format = "Jan 2"
	}

	points := make([]SeriesPoint, 0, days)
	cumulative := decimal.Zero
	day := startOfDay(start)
	for i := 0; i < days; i++ {
		cumulative = cumulative.Add(daily[keyOf(day)])
		points = append(points, SeriesPoint{
			Date:   day,
			Label:  day.Format(format),
			Actual: cumulative,
			Ideal:  target.Mul(decimal.NewFromInt(int64(i))).Div(denom),
		})
		day = day.AddDate(0, 0, 1)
	}
	return points
}
