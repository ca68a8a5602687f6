package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

type csvLoader struct{}

func (csvLoader) CanLoad(filename string) bool {
	return hasExt(filename, ".csv", ".tsv", ".txt")
}

func (csvLoader) Decode(name string, data []byte, opt Options) (*Table, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(name, data)
	}
	return ReadCSV(bytes.NewReader(stripBOM(data)), delim, opt.MaxRows)
}

// ReadCSV reads a delimited stream whose first record is the header.
func ReadCSV(src io.Reader, delim rune, maxRows int) (*Table, error) {
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	if delim != 0 {
		r.Comma = delim
	}

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{Format: FormatCSV}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	t := &Table{Format: FormatCSV, Columns: make([]string, len(header))}
	for i, h := range header {
		t.Columns[i] = strings.TrimSpace(h)
	}
	ncol := len(t.Columns)
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}

	line := 1
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++
		if len(t.Rows) >= maxRows {
			t.Truncated++
			continue
		}
		t.Rows = append(t.Rows, padRow(rec, ncol))
	}
	return t, nil
}

// sniffDelimiter picks tab for .tsv files, otherwise the most frequent
// candidate separator in the header line (comma on ties or none).
func sniffDelimiter(name string, data []byte) rune {
	if hasExt(name, ".tsv") {
		return '\t'
	}
	first := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		first = data[:i]
	}
	best, bestN := ',', bytes.Count(first, []byte{','})
	for _, c := range []rune{';', '\t', '|'} {
		if n := bytes.Count(first, []byte(string(c))); n > bestN {
			best, bestN = c, n
		}
	}
	return best
}

func stripBOM(b []byte) []byte {
	return bytes.TrimPrefix(b, []byte("\xef\xbb\xbf"))
}
