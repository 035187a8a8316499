// Package filter evaluates read-only queries over a cleaned dataset. Every
// function here is pure: it never changes the dataset it is given.
package filter

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/KaramelBytes/breedlens/internal/dataset"
)

// AllGroups is the group option that disables the category filter.
const AllGroups = "All"

// Field is one of the numeric columns a range filter can constrain.
type Field int

const (
	Height Field = iota
	Weight
	LifeExpectancy
)

// Fields lists every numeric field.
var Fields = []Field{Height, Weight, LifeExpectancy}

// Label returns the column name of the field.
func (f Field) Label() string {
	switch f {
	case Height:
		return string(dataset.ColHeight)
	case Weight:
		return string(dataset.ColWeight)
	case LifeExpectancy:
		return string(dataset.ColLifeExpectancy)
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Value returns the field's measure on r.
func (f Field) Value(r dataset.Record) dataset.Measure {
	switch f {
	case Height:
		return r.Height
	case Weight:
		return r.Weight
	case LifeExpectancy:
		return r.LifeExpectancy
	}
	return dataset.Absent()
}

// Range is an inclusive numeric interval.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether m lies in the range. Absent values never match.
func (r Range) Contains(m dataset.Measure) bool {
	return m.Within(r.Min, r.Max)
}

func (r Range) String() string {
	return fmt.Sprintf("%g:%g", r.Min, r.Max)
}

// ParseRange parses "lo:hi" or "lo..hi".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	sep := ":"
	if strings.Contains(s, "..") {
		sep = ".."
	}
	loStr, hiStr, ok := strings.Cut(s, sep)
	if !ok {
		return Range{}, fmt.Errorf("invalid range %q (want lo:hi)", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(loStr), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range minimum %q: %w", loStr, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(hiStr), 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range maximum %q: %w", hiStr, err)
	}
	if math.IsNaN(lo) || math.IsNaN(hi) {
		return Range{}, fmt.Errorf("invalid range %q: NaN bound", s)
	}
	if lo > hi {
		return Range{}, fmt.Errorf("invalid range %q: minimum exceeds maximum", s)
	}
	return Range{Min: lo, Max: hi}, nil
}

// Criteria is the set of active filters. The zero value matches every record.
type Criteria struct {
	// Group is an exact BreedGroup match; "" or AllGroups disables it.
	Group string
	// A nil range is inactive.
	Height         *Range
	Weight         *Range
	LifeExpectancy *Range
	// Breeds is an exact Breed allow-list; empty disables it.
	Breeds []string
}

// RangeFor returns the active range for f, or nil.
func (c Criteria) RangeFor(f Field) *Range {
	switch f {
	case Height:
		return c.Height
	case Weight:
		return c.Weight
	case LifeExpectancy:
		return c.LifeExpectancy
	}
	return nil
}

// SetRange activates a range filter on f.
func (c *Criteria) SetRange(f Field, r Range) {
	switch f {
	case Height:
		c.Height = &r
	case Weight:
		c.Weight = &r
	case LifeExpectancy:
		c.LifeExpectancy = &r
	}
}

// FillRanges activates every inactive range with its slider bound. Fields
// missing from bounds stay inactive.
func (c *Criteria) FillRanges(bounds map[Field]Range) {
	for _, f := range Fields {
		if c.RangeFor(f) != nil {
			continue
		}
		if b, ok := bounds[f]; ok {
			c.SetRange(f, b)
		}
	}
}

// Match reports whether r passes all active filters.
func (c Criteria) Match(r dataset.Record) bool {
	if c.Group != "" && c.Group != AllGroups && r.BreedGroup != c.Group {
		return false
	}
	for _, f := range Fields {
		if rg := c.RangeFor(f); rg != nil && !rg.Contains(f.Value(r)) {
			return false
		}
	}
	if len(c.Breeds) > 0 {
		found := false
		for _, b := range c.Breeds {
			if r.Breed == b {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// View is an ordered selection of dataset records.
type View struct {
	ds      *dataset.Dataset
	indices []int
}

// All returns a view over every record.
func All(ds *dataset.Dataset) View {
	idx := make([]int, ds.Len())
	for i := range idx {
		idx[i] = i
	}
	return View{ds: ds, indices: idx}
}

// Len returns the number of records in the view.
func (v View) Len() int { return len(v.indices) }

// At returns the i-th record of the view.
func (v View) At(i int) dataset.Record { return v.ds.At(v.indices[i]) }

// Records copies the view's records out.
func (v View) Records() []dataset.Record {
	out := make([]dataset.Record, len(v.indices))
	for i, j := range v.indices {
		out[i] = v.ds.At(j)
	}
	return out
}

// Apply returns the records matching c, in dataset order.
func Apply(ds *dataset.Dataset, c Criteria) View {
	idx := make([]int, 0, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		if c.Match(ds.At(i)) {
			idx = append(idx, i)
		}
	}
	return View{ds: ds, indices: idx}
}

// GroupOptions returns AllGroups followed by each distinct BreedGroup in
// first-occurrence order.
func GroupOptions(ds *dataset.Dataset) []string {
	return append([]string{AllGroups}, distinct(ds, func(r dataset.Record) string { return r.BreedGroup })...)
}

// BreedOptions returns each distinct Breed in first-occurrence order.
func BreedOptions(ds *dataset.Dataset) []string {
	return distinct(ds, func(r dataset.Record) string { return r.Breed })
}

func distinct(ds *dataset.Dataset, key func(dataset.Record) string) []string {
	seen := map[string]bool{}
	var out []string
	for i := 0; i < ds.Len(); i++ {
		k := key(ds.At(i))
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Bounds returns the slider domain for f: floor of the smallest and ceiling
// of the largest known value. ok is false when no record has a value.
func Bounds(ds *dataset.Dataset, f Field) (r Range, ok bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < ds.Len(); i++ {
		v, known := f.Value(ds.At(i)).Get()
		if !known {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
		ok = true
	}
	if !ok {
		return Range{}, false
	}
	return Range{Min: math.Floor(lo), Max: math.Ceil(hi)}, true
}

// AllBounds returns Bounds for every field that has at least one known value.
func AllBounds(ds *dataset.Dataset) map[Field]Range {
	out := map[Field]Range{}
	for _, f := range Fields {
		if r, ok := Bounds(ds, f); ok {
			out[f] = r
		}
	}
	return out
}

// ErrCompareNeedsTwo is returned when a comparison is not between exactly two
// distinct breeds.
var ErrCompareNeedsTwo = errors.New("select exactly two breeds to compare")

// Compare returns the full-dataset records of two breeds. It ignores any
// active filters.
func Compare(ds *dataset.Dataset, breeds []string) (View, error) {
	uniq := map[string]bool{}
	for _, b := range breeds {
		uniq[b] = true
	}
	if len(uniq) != 2 {
		return View{ds: ds}, ErrCompareNeedsTwo
	}
	return Apply(ds, Criteria{Breeds: breeds}), nil
}

// DefaultComparison returns the first two breeds of the dataset.
func DefaultComparison(ds *dataset.Dataset) []string {
	opts := BreedOptions(ds)
	if len(opts) > 2 {
		opts = opts[:2]
	}
	return opts
}
