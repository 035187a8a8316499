// Package charts renders the dashboard's distribution and correlation views
// as PNG images.
package charts

import (
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/breedlens/internal/analysis"
	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/filter"
)

// Default color palette, one entry per breed group in first-occurrence order.
var palette = []string{
	"4F46E5", "10B981", "F59E0B", "EF4444", "8B5CF6",
	"06B6D4", "EC4899", "84CC16", "F97316", "6366F1",
}

// Size is the rendered image size in pixels.
type Size struct {
	Width  int
	Height int
}

// Axis is a fixed numeric axis domain.
type Axis struct {
	Title    string
	Min, Max float64
}

// ScatterSpec describes a correlation view of X against Life Expectancy.
type ScatterSpec struct {
	Name      string
	X         filter.Field
	XAxis     Axis
	YAxis     Axis
	LineColor drawing.Color
}

// LifeAxis is the y domain shared by the scatter views.
var LifeAxis = Axis{Title: "Life Expectancy (Years)", Min: 5, Max: 20}

// BoxLifeAxis is the y domain of the box plot.
var BoxLifeAxis = Axis{Title: "Life Expectancy (Years)", Min: 8, Max: 18}

// HeightVsLife and WeightVsLife are the two correlation views.
var (
	HeightVsLife = ScatterSpec{
		Name:      "height",
		X:         filter.Height,
		XAxis:     Axis{Title: "Height (inches)", Min: 5, Max: 35},
		YAxis:     LifeAxis,
		LineColor: chart.ColorRed,
	}
	WeightVsLife = ScatterSpec{
		Name:      "weight",
		X:         filter.Weight,
		XAxis:     Axis{Title: "Weight (pounds)", Min: 5, Max: 200},
		YAxis:     LifeAxis,
		LineColor: chart.ColorBlue,
	}
)

// Scatters lists the correlation views by name.
var Scatters = map[string]ScatterSpec{
	HeightVsLife.Name: HeightVsLife,
	WeightVsLife.Name: WeightVsLife,
}

// GroupColors assigns a palette color to each group in first-occurrence order.
func GroupColors(recs []dataset.Record) map[string]drawing.Color {
	out := map[string]drawing.Color{}
	for _, r := range recs {
		if _, ok := out[r.BreedGroup]; ok {
			continue
		}
		out[r.BreedGroup] = drawing.ColorFromHex(palette[len(out)%len(palette)])
	}
	return out
}

// BoxChart builds the box plot of Life Expectancy by Breed Group.
func BoxChart(recs []dataset.Record, size Size) chart.Chart {
	boxes := analysis.GroupBoxes(recs, filter.LifeExpectancy)
	colors := GroupColors(recs)

	var series []chart.Series
	ticks := make([]chart.Tick, 0, len(boxes))
	for i, gb := range boxes {
		x := float64(i + 1)
		col := colors[gb.Group]
		b := gb.Box
		ticks = append(ticks, chart.Tick{Value: x, Label: gb.Group})
		series = append(series,
			chart.ContinuousSeries{
				Name:    gb.Group + " whisker",
				XValues: []float64{x, x},
				YValues: []float64{b.Min, b.Max},
				Style:   chart.Style{StrokeWidth: 1.5, StrokeColor: col},
			},
			chart.ContinuousSeries{
				Name:    gb.Group,
				XValues: []float64{x, x},
				YValues: []float64{b.Q1, b.Q3},
				Style:   chart.Style{StrokeWidth: boxWidth(len(boxes), size), StrokeColor: col.WithAlpha(200)},
			},
			chart.ContinuousSeries{
				Name:    gb.Group + " median",
				XValues: []float64{x - 0.3, x + 0.3},
				YValues: []float64{b.Median, b.Median},
				Style:   chart.Style{StrokeWidth: 2, StrokeColor: drawing.ColorWhite},
			},
		)
	}
	n := float64(len(boxes))
	if len(series) == 0 {
		series = []chart.Series{placeholder(0.5, 1.5, BoxLifeAxis.Min)}
		n = 1
	}
	return chart.Chart{
		Title:      "Life Expectancy by Breed Group",
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 48}},
		XAxis: chart.XAxis{
			Name:  "Breed Group",
			Range: &chart.ContinuousRange{Min: 0.5, Max: n + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  BoxLifeAxis.Title,
			Range: &chart.ContinuousRange{Min: BoxLifeAxis.Min, Max: BoxLifeAxis.Max},
		},
		Series: series,
	}
}

func boxWidth(n int, size Size) float64 {
	if n == 0 {
		return 1
	}
	w := float64(size.Width) / float64(n) * 0.5
	return math.Max(2, math.Min(w, 40))
}

// ScatterChart builds spec's X against Life Expectancy, one point series per
// breed group plus a least-squares line over all plotted points.
func ScatterChart(recs []dataset.Record, spec ScatterSpec, size Size) chart.Chart {
	colors := GroupColors(recs)
	var order []string
	byGroup := map[string][2][]float64{}
	for _, r := range recs {
		x, okx := spec.X.Value(r).Get()
		y, oky := r.LifeExpectancy.Get()
		if !okx || !oky {
			continue
		}
		pts, seen := byGroup[r.BreedGroup]
		if !seen {
			order = append(order, r.BreedGroup)
		}
		pts[0] = append(pts[0], x)
		pts[1] = append(pts[1], y)
		byGroup[r.BreedGroup] = pts
	}

	var series []chart.Series
	for _, g := range order {
		pts := byGroup[g]
		series = append(series, chart.ContinuousSeries{
			Name:    g,
			XValues: pts[0],
			YValues: pts[1],
			Style:   pointStyle(colors[g]),
		})
	}
	xs, ys := analysis.Pairs(recs, spec.X, filter.LifeExpectancy)
	if line, ok := analysis.Regress(xs, ys); ok {
		lo, hi := extent(xs)
		series = append(series, chart.ContinuousSeries{
			Name:    "Trend",
			XValues: []float64{lo, hi},
			YValues: []float64{line.At(lo), line.At(hi)},
			Style:   chart.Style{StrokeWidth: 2, StrokeColor: spec.LineColor},
		})
	}
	if len(series) == 0 {
		series = []chart.Series{placeholder(spec.XAxis.Min, spec.XAxis.Max, spec.YAxis.Min)}
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s vs Life Expectancy", spec.X.Label()),
		Width:      size.Width,
		Height:     size.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  spec.XAxis.Title,
			Range: &chart.ContinuousRange{Min: spec.XAxis.Min, Max: spec.XAxis.Max},
		},
		YAxis: chart.YAxis{
			Name:  spec.YAxis.Title,
			Range: &chart.ContinuousRange{Min: spec.YAxis.Min, Max: spec.YAxis.Max},
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch
}

// Render writes ch as PNG.
func Render(w io.Writer, ch chart.Chart) error {
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %q: %w", strings.ToLower(ch.Title), err)
	}
	return nil
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

// placeholder keeps an empty view renderable: go-chart refuses charts without
// series. Nothing is drawn.
func placeholder(x0, x1, y float64) chart.ContinuousSeries {
	return chart.ContinuousSeries{
		Name:    "no data",
		XValues: []float64{x0, x1},
		YValues: []float64{y, y},
		Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: chart.Disabled},
	}
}

func extent(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	return lo, hi
}
