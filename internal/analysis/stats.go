package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/filter"
)

// Box is a five-number summary.
type Box struct {
	N      int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// BoxStats computes the five-number summary of vals using linear
// interpolation between order statistics. ok is false for empty input.
func BoxStats(vals []float64) (Box, bool) {
	if len(vals) == 0 {
		return Box{}, false
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return Box{
		N:      len(cp),
		Min:    cp[0],
		Q1:     quantile(cp, 0.25),
		Median: quantile(cp, 0.5),
		Q3:     quantile(cp, 0.75),
		Max:    cp[len(cp)-1],
	}, true
}

// GroupBox is the box summary of one breed group.
type GroupBox struct {
	Group string
	Box   Box
}

// GroupBoxes computes the box summary of f per breed group, in
// first-occurrence order. Absent values are skipped; groups with no known
// value are omitted.
func GroupBoxes(recs []dataset.Record, f filter.Field) []GroupBox {
	var order []string
	vals := map[string][]float64{}
	for _, r := range recs {
		if _, seen := vals[r.BreedGroup]; !seen {
			order = append(order, r.BreedGroup)
			vals[r.BreedGroup] = nil
		}
		if x, ok := f.Value(r).Get(); ok {
			vals[r.BreedGroup] = append(vals[r.BreedGroup], x)
		}
	}
	var out []GroupBox
	for _, g := range order {
		if b, ok := BoxStats(vals[g]); ok {
			out = append(out, GroupBox{Group: g, Box: b})
		}
	}
	return out
}

// Pairs returns the (x, y) values of records where both fields are known.
func Pairs(recs []dataset.Record, fx, fy filter.Field) (xs, ys []float64) {
	for _, r := range recs {
		x, okx := fx.Value(r).Get()
		y, oky := fy.Value(r).Get()
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// Pearson returns the correlation coefficient of xs and ys. ok is false with
// fewer than two pairs or zero variance.
func Pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, false
	}
	var sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		x, y := xs[i], ys[i]
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}
	denom := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denom == 0 || math.IsNaN(denom) {
		return 0, false
	}
	r := (n*sumXY - sumX*sumY) / denom
	return math.Max(-1, math.Min(1, r)), true
}

// Line is y = Intercept + Slope*x.
type Line struct {
	Slope     float64
	Intercept float64
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 { return l.Intercept + l.Slope*x }

// Regress fits an ordinary least squares line. ok is false with fewer than
// two pairs or when all x are equal.
func Regress(xs, ys []float64) (Line, bool) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return Line{}, false
	}
	var mx, my float64
	for i := range xs {
		mx += xs[i]
		my += ys[i]
	}
	n := float64(len(xs))
	mx /= n
	my /= n
	var sxy, sxx float64
	for i := range xs {
		dx := xs[i] - mx
		sxx += dx * dx
		sxy += dx * (ys[i] - my)
	}
	if sxx == 0 {
		return Line{}, false
	}
	slope := sxy / sxx
	return Line{Slope: slope, Intercept: my - slope*mx}, true
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
