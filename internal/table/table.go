package table

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Table is a header plus rows grid read from a tabular file. Every row is
// padded to at least the header width.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Options controls how a file is read.
type Options struct {
	// Delimiter for delimited text. If 0, chosen from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet by name (case-insensitive).
	SheetName string
	// SheetIndex selects an XLSX sheet by 1-based index when SheetName is empty.
	SheetIndex int
}

// Reader reads one family of tabular files.
type Reader interface {
	CanRead(filename string) bool
	Read(path string, opt Options) (*Table, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

// ErrNotFound is returned when the input file does not exist.
var ErrNotFound = errors.New("input file not found")

// ReadFile selects a reader based on filename. Unknown extensions are read as
// delimited text with a sniffed delimiter.
func ReadFile(path string, opt Options) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("stat input: %w", err)
	}
	for _, r := range registry {
		if r.CanRead(path) {
			return r.Read(path, opt)
		}
	}
	return delimitedReader{}.Read(path, opt)
}

// Column returns the index of the named header column, matching
// case-insensitively and ignoring surrounding space. It returns -1 if absent.
func (t *Table) Column(name string) int {
	want := strings.ToLower(strings.TrimSpace(name))
	for i, h := range t.Header {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return i
		}
	}
	return -1
}

func baseName(path string) string { return filepath.Base(path) }

func padRow(rec []string, n int) []string {
	row := make([]string, max(n, len(rec)))
	copy(row, rec)
	return row
}

func init() {
	Register(delimitedReader{})
	Register(xlsxReader{})
}
