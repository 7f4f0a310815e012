// Package charts renders dashboard PNGs with go-chart.
package charts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/sync/errgroup"

	"github.com/spendwise-dev/spendwise/internal/aggregate"
	"github.com/spendwise-dev/spendwise/internal/categories"
)

// ErrNoData is returned when there is nothing worth drawing.
var ErrNoData = errors.New("not enough data to chart")

const (
	width  = 1200
	height = 600
)

var (
	actualColor = drawing.ColorFromHex("007AFF")
	idealColor  = drawing.ColorFromHex("8E8E93")
)

func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

// Trend draws cumulative spend against the ideal pace line. It needs at
// least two days.
func Trend(w io.Writer, title string, series []aggregate.SeriesPoint) error {
	if len(series) < 2 {
		return ErrNoData
	}

	xs := make([]float64, len(series))
	actual := make([]float64, len(series))
	ideal := make([]float64, len(series))
	top := 1.0
	ticks := make([]chart.Tick, 0, len(series))
	step := max(len(series)/10, 1)
	for i, p := range series {
		xs[i] = float64(i)
		actual[i] = p.Actual.InexactFloat64()
		ideal[i] = p.Ideal.InexactFloat64()
		top = max(top, actual[i], ideal[i])
		if i%step == 0 || i == len(series)-1 {
			ticks = append(ticks, chart.Tick{Value: xs[i], Label: p.Label})
		}
	}

	graph := chart.Chart{
		Title:  title,
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 30, Right: 30, Bottom: 30},
		},
		XAxis: chart.XAxis{Ticks: ticks},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Actual",
				XValues: xs,
				YValues: actual,
				Style: chart.Style{
					StrokeColor: actualColor,
					StrokeWidth: 3,
				},
			},
			chart.ContinuousSeries{
				Name:    "Ideal",
				XValues: xs,
				YValues: ideal,
				Style: chart.Style{
					StrokeColor:     idealColor,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering trend chart: %w", err)
	}
	return nil
}

// Breakdown draws the category pie using each category's color.
func Breakdown(w io.Writer, rows []aggregate.CategoryTotal) error {
	values := make([]chart.Value, 0, len(rows))
	for _, r := range rows {
		if !r.Total.IsPositive() {
			continue
		}
		meta := categories.Lookup(r.Category)
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %s", meta.Label(), r.Total.StringFixed(2)),
			Value: r.Total.InexactFloat64(),
			Style: chart.Style{FillColor: hexColor(meta.Color)},
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Width:  height,
		Height: height,
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering category chart: %w", err)
	}
	return nil
}

// Files are the PNGs written by WriteDashboard. An empty path means that
// chart had no data.
type Files struct {
	Trend     string
	Breakdown string
}

// WriteDashboard renders both charts for d into dir concurrently.
func WriteDashboard(ctx context.Context, dir string, d aggregate.Dashboard) (Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Files{}, fmt.Errorf("creating chart dir: %w", err)
	}

	var files Files
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		path := filepath.Join(dir, "trend.png")
		ok, err := writeFile(ctx, path, func(w io.Writer) error {
			return Trend(w, d.Range.Label(), d.Series)
		})
		if ok {
			files.Trend = path
		}
		return err
	})
	g.Go(func() error {
		path := filepath.Join(dir, "categories.png")
		ok, err := writeFile(ctx, path, func(w io.Writer) error {
			return Breakdown(w, d.Breakdown)
		})
		if ok {
			files.Breakdown = path
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return Files{}, err
	}
	return files, nil
}

// writeFile renders into path. ErrNoData is not an error here; it just
// means no file.
func writeFile(ctx context.Context, path string, render func(io.Writer) error) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("creating %s: %w", path, err)
	}
	renderErr := render(f)
	closeErr := f.Close()
	if errors.Is(renderErr, ErrNoData) {
		os.Remove(path)
		return false, nil
	}
	if renderErr != nil {
		os.Remove(path)
		return false, renderErr
	}
	if closeErr != nil {
		return false, fmt.Errorf("closing %s: %w", path, closeErr)
	}
	return true, nil
}
