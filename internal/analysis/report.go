package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/filter"
)

// Report is a markdown-friendly summary of a (possibly filtered) dataset.
type Report struct {
	Name     string
	Total    int // records in the full dataset
	Filtered int // records in the summarized view
	Cols     []ColumnSummary
	Groups   []GroupResult
	Corr     []PairCorr
	Warnings []string
}

// ColumnSummary captures statistics for one numeric field.
type ColumnSummary struct {
	Name    string
	NonNull int
	Missing int
	Min     float64
	Max     float64
	Mean    float64
	Std     float64
}

// GroupResult captures aggregated metrics per breed group.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary // by field label
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// PairCorr is a Pearson correlation between two fields over records where both
// are known.
type PairCorr struct {
	A, B string
	N    int
	R    float64
}

// Describe summarizes recs. total is the size of the unfiltered dataset.
func Describe(name string, total int, recs []dataset.Record) *Report {
	rep := &Report{Name: name, Total: total, Filtered: len(recs)}

	for _, f := range filter.Fields {
		rep.Cols = append(rep.Cols, summarize(f, recs))
	}

	// group-by in first-occurrence order, then by size
	type gAcc struct {
		size int
		sum  map[filter.Field]float64
		cnt  map[filter.Field]int
		min  map[filter.Field]float64
		max  map[filter.Field]float64
	}
	var order []string
	groups := map[string]*gAcc{}
	for _, r := range recs {
		ga := groups[r.BreedGroup]
		if ga == nil {
			ga = &gAcc{sum: map[filter.Field]float64{}, cnt: map[filter.Field]int{}, min: map[filter.Field]float64{}, max: map[filter.Field]float64{}}
			groups[r.BreedGroup] = ga
			order = append(order, r.BreedGroup)
		}
		ga.size++
		for _, f := range filter.Fields {
			x, ok := f.Value(r).Get()
			if !ok {
				continue
			}
			ga.sum[f] += x
			if _, seen := ga.min[f]; !seen || x < ga.min[f] {
				ga.min[f] = x
			}
			if _, seen := ga.max[f]; !seen || x > ga.max[f] {
				ga.max[f] = x
			}
			ga.cnt[f]++
		}
	}
	for _, k := range order {
		ga := groups[k]
		gr := GroupResult{Key: k, Size: ga.size, Metrics: map[string]NumSummary{}}
		for _, f := range filter.Fields {
			if ga.cnt[f] == 0 {
				continue
			}
			gr.Metrics[f.Label()] = NumSummary{Count: ga.cnt[f], Min: ga.min[f], Max: ga.max[f], Mean: ga.sum[f] / float64(ga.cnt[f])}
		}
		rep.Groups = append(rep.Groups, gr)
	}
	sort.SliceStable(rep.Groups, func(i, j int) bool { return rep.Groups[i].Size > rep.Groups[j].Size })

	for a := 0; a < len(filter.Fields); a++ {
		for b := a + 1; b < len(filter.Fields); b++ {
			fa, fb := filter.Fields[a], filter.Fields[b]
			xs, ys := Pairs(recs, fa, fb)
			r, ok := Pearson(xs, ys)
			if !ok {
				continue
			}
			rep.Corr = append(rep.Corr, PairCorr{A: fa.Label(), B: fb.Label(), N: len(xs), R: r})
		}
	}
	sort.SliceStable(rep.Corr, func(i, j int) bool { return math.Abs(rep.Corr[i].R) > math.Abs(rep.Corr[j].R) })

	for _, c := range rep.Cols {
		if c.Missing > 0 {
			rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s could not be parsed for %d record(s); range filters on it exclude them", c.Name, c.Missing))
		}
	}
	if len(recs) == 0 {
		rep.Warnings = append(rep.Warnings, "no records match the active filters")
	}
	return rep
}

func summarize(f filter.Field, recs []dataset.Record) ColumnSummary {
	s := ColumnSummary{Name: f.Label()}
	var n int
	var mean, m2 float64
	min, max := math.Inf(1), math.Inf(-1)
	for _, r := range recs {
		x, ok := f.Value(r).Get()
		if !ok {
			s.Missing++
			continue
		}
		// Welford update
		n++
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
		if x < min {
			min = x
		}
		if x > max {
			max = x
		}
	}
	s.NonNull = n
	if n == 0 {
		return s
	}
	s.Min, s.Max, s.Mean = min, max, mean
	if n > 1 {
		s.Std = math.Sqrt(m2 / float64(n-1))
	}
	return s
}

// Markdown renders a compact report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Total Breeds: %d\n", r.Total))
	b.WriteString(fmt.Sprintf("Filtered Breeds: %d\n\n", r.Filtered))

	b.WriteString("[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: numeric (non-null %d, missing %.1f%%)", c.Name, c.NonNull, missPct))
		if c.NonNull > 0 {
			b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
		}
		b.WriteString("\n")
	}
	if len(r.Groups) > 0 {
		b.WriteString("\n[GROUP-BY SUMMARY]\n")
		for _, g := range r.Groups {
			b.WriteString(fmt.Sprintf("- Breed Group=%s (n=%d)\n", safeVal(g.Key), g.Size))
			keys := make([]string, 0, len(g.Metrics))
			for k := range g.Metrics {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				m := g.Metrics[k]
				b.WriteString(fmt.Sprintf("  • %s: mean %.4g (min %.4g, max %.4g)\n", k, m.Mean, m.Min, m.Max))
			}
		}
	}
	if len(r.Corr) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		for _, p := range r.Corr {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (n=%d)\n", p.A, p.B, p.R, p.N))
		}
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func safeVal(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(none)"
	}
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
