package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Column identifies one of the fields the normalizer knows about.
type Column string

const (
	ColBreed          Column = "Breed"
	ColBreedGroup     Column = "Breed Group"
	ColHeight         Column = "Height"
	ColWeight         Column = "Weight"
	ColLifeExpectancy Column = "Life Expectancy"
)

// Columns lists the cleaned column set in export order.
var Columns = []Column{ColBreed, ColBreedGroup, ColHeight, ColWeight, ColLifeExpectancy}

// StripRules maps a column to the substrings removed from its text.
type StripRules map[Column][]string

// DefaultStripRules returns the decoration, unit and qualifier substrings found
// in the breed dataset.
func DefaultStripRules() StripRules {
	return StripRules{
		ColBreedGroup:     {" »"},
		ColHeight:         {" inches", " (male)", " (TOY)"},
		ColWeight:         {" (TOY)", " (male)", " pounds"},
		ColLifeExpectancy: {" years"},
	}
}

// ErrUnknownColumn is returned for a strip rule on a column the cleaner never
// strips.
var ErrUnknownColumn = errors.New("no strip rules for column")

// Merge returns a copy of r with extra substrings appended per column. Column
// names match case-insensitively; Breed and unknown columns are rejected.
func (r StripRules) Merge(extra map[string][]string) (StripRules, error) {
	out := make(StripRules, len(r))
	for k, v := range r {
		out[k] = append([]string(nil), v...)
	}
	for col, subs := range extra {
		key, ok := strippableColumn(col)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		out[key] = append(out[key], subs...)
	}
	return out, nil
}

func strippableColumn(name string) (Column, bool) {
	name = strings.TrimSpace(name)
	for _, c := range []Column{ColBreedGroup, ColHeight, ColWeight, ColLifeExpectancy} {
		if strings.EqualFold(string(c), name) {
			return c, true
		}
	}
	return "", false
}

// Strip removes every occurrence of each substring. Absent substrings are a
// no-op; the rules are not anchored and do not validate the format.
func Strip(s string, subs []string) string {
	for _, sub := range subs {
		if sub == "" {
			continue
		}
		s = strings.ReplaceAll(s, sub, "")
	}
	return s
}

// ExtractAvg parses "<low>-<high>" and returns the mean of both bounds.
// Whitespace is ignored. Anything that is not exactly two numeric tokens
// around a single hyphen is absent.
func ExtractAvg(s string) Measure {
	if s == "" {
		return Absent()
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return Absent()
	}
	low, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return Absent()
	}
	high, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Absent()
	}
	return Known((low + high) / 2)
}

// RawRecord is one input row reduced to the known columns, still as text.
type RawRecord struct {
	Breed          string
	BreedGroup     string
	Height         string
	Weight         string
	LifeExpectancy string
}

// Record is a cleaned breed row.
type Record struct {
	Breed          string  `json:"breed"`
	BreedGroup     string  `json:"breed_group"`
	Height         Measure `json:"height"`
	Weight         Measure `json:"weight"`
	LifeExpectancy Measure `json:"life_expectancy"`
}

// Normalizer turns raw records into cleaned records.
type Normalizer struct {
	Rules StripRules
}

// NewNormalizer returns a normalizer using DefaultStripRules.
func NewNormalizer() *Normalizer {
	return &Normalizer{Rules: DefaultStripRules()}
}

func (n *Normalizer) rules() StripRules {
	if n == nil || n.Rules == nil {
		return DefaultStripRules()
	}
	return n.Rules
}

// Clean strips decoration and extracts representative values. It never fails;
// unparseable fields become absent.
func (n *Normalizer) Clean(raw RawRecord) Record {
	r := n.rules()
	return Record{
		Breed:          raw.Breed,
		BreedGroup:     Strip(raw.BreedGroup, r[ColBreedGroup]),
		Height:         ExtractAvg(Strip(raw.Height, r[ColHeight])),
		Weight:         ExtractAvg(Strip(raw.Weight, r[ColWeight])),
		LifeExpectancy: ExtractAvg(Strip(raw.LifeExpectancy, r[ColLifeExpectancy])),
	}
}

// CleanAll cleans each record in order.
func (n *Normalizer) CleanAll(raws []RawRecord) []Record {
	out := make([]Record, len(raws))
	for i, raw := range raws {
		out[i] = n.Clean(raw)
	}
	return out
}

// Reclean runs the pipeline over records that are already cleaned. Only the
// text fields are touched; measures are already numeric and pass through.
func (n *Normalizer) Reclean(recs []Record) []Record {
	r := n.rules()
	out := make([]Record, len(recs))
	for i, rec := range recs {
		rec.BreedGroup = Strip(rec.BreedGroup, r[ColBreedGroup])
		out[i] = rec
	}
	return out
}

// Dedupe removes rows identical across every cell, keeping the first
// occurrence. It returns the kept rows and the number removed.
func Dedupe(rows [][]string) ([][]string, int) {
	seen := make(map[string]struct{}, len(rows))
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		k := rowKey(row)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, row)
	}
	return out, len(rows) - len(out)
}

func rowKey(row []string) string {
	var b strings.Builder
	for i, cell := range row {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(strconv.Itoa(len(cell)))
		b.WriteByte(':')
		b.WriteString(cell)
	}
	return b.String()
}
