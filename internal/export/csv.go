package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/KaramelBytes/breedlens/internal/dataset"
	"github.com/KaramelBytes/breedlens/internal/utils"
)

// DefaultFilename is the name offered for downloads of the filtered view.
const DefaultFilename = "filtered_data.csv"

// Header returns the exported column names.
func Header() []string {
	h := make([]string, len(dataset.Columns))
	for i, c := range dataset.Columns {
		h[i] = string(c)
	}
	return h
}

// WriteCSV writes recs with a header row. Absent measures are empty fields.
func WriteCSV(w io.Writer, recs []dataset.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range recs {
		row := []string{r.Breed, r.BreedGroup, r.Height.String(), r.Weight.String(), r.LifeExpectancy.String()}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteFile writes recs as CSV to path atomically.
func WriteFile(path string, recs []dataset.Record) error {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, recs); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}
