package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/breedlens/internal/table"
)

// ErrMissingColumn is returned when the input lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// Dataset is the cleaned record set. It is built once and never mutated;
// callers get copies or read through At.
type Dataset struct {
	source     string
	records    []Record
	duplicates int
}

// New wraps already-cleaned records. The slice is copied.
func New(source string, recs []Record) *Dataset {
	cp := make([]Record, len(recs))
	copy(cp, recs)
	return &Dataset{source: source, records: cp}
}

// Source is the name of the file the dataset came from.
func (d *Dataset) Source() string { return d.source }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// At returns record i.
func (d *Dataset) At(i int) Record { return d.records[i] }

// Records returns a copy of all records.
func (d *Dataset) Records() []Record {
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// Duplicates is the number of full-row duplicates dropped while building.
func (d *Dataset) Duplicates() int { return d.duplicates }

// Build deduplicates the rows, maps them onto the known columns and cleans
// them. Extra columns take part in deduplication only.
func (n *Normalizer) Build(source string, header []string, rows [][]string) (*Dataset, error) {
	t := &table.Table{Name: source, Header: header}
	idx := make(map[Column]int, len(Columns))
	var missing []string
	for _, c := range Columns {
		i := t.Column(string(c))
		if i < 0 {
			missing = append(missing, string(c))
			continue
		}
		idx[c] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}

	kept, dups := Dedupe(rows)
	raws := make([]RawRecord, len(kept))
	for i, row := range kept {
		cell := func(c Column) string {
			j := idx[c]
			if j >= len(row) {
				return ""
			}
			return row[j]
		}
		raws[i] = RawRecord{
			Breed:          cell(ColBreed),
			BreedGroup:     cell(ColBreedGroup),
			Height:         cell(ColHeight),
			Weight:         cell(ColWeight),
			LifeExpectancy: cell(ColLifeExpectancy),
		}
	}
	return &Dataset{source: source, records: n.CleanAll(raws), duplicates: dups}, nil
}

// Load reads a tabular file and builds the cleaned dataset from it.
func (n *Normalizer) Load(path string, opt table.Options) (*Dataset, error) {
	t, err := table.ReadFile(path, opt)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	ds, err := n.Build(t.Name, t.Header, t.Rows)
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", t.Name, err)
	}
	return ds, nil
}
