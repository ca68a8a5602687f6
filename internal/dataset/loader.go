package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Options controls how raw files are read.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the file name and header line.
	Delimiter rune
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// XLSX sheet selection. SheetName wins over SheetIndex (1-based).
	SheetName  string
	SheetIndex int
}

// DefaultOptions reads every row of the first sheet with a sniffed delimiter.
func DefaultOptions() Options {
	return Options{SheetIndex: 1}
}

// Loader decodes one file format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Decode(name string, data []byte, opt Options) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no loader accepts the file name.
var ErrUnsupported = errors.New("unsupported file format (use .csv, .tsv or .xlsx)")

// Load reads path from disk and decodes it with the matching loader.
func Load(path string, opt Options) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(filepath.Base(path), data, opt)
}

// Decode picks a loader by file name and decodes data.
func Decode(name string, data []byte, opt Options) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(name) {
			t, err := l.Decode(name, data, opt)
			if err != nil {
				return nil, err
			}
			t.Name = name
			return t, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", name, ErrUnsupported)
}

// Supported reports whether a loader exists for the file name.
func Supported(name string) bool {
	for _, l := range registry {
		if l.CanLoad(name) {
			return true
		}
	}
	return false
}

func hasExt(name string, exts ...string) bool {
	lower := strings.ToLower(name)
	for _, e := range exts {
		if strings.HasSuffix(lower, e) {
			return true
		}
	}
	return false
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
