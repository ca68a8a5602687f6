package canonical

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes the dataset with a header of canonical field names.
// Missing values are written as empty cells.
func (d *Dataset) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(d.Columns))
	for i, row := range d.Rows {
		for j := range rec {
			rec[j] = row[j].String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSV returns the dataset encoded as CSV.
func (d *Dataset) CSV() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Records returns one map per row keyed by canonical field name, with nil
// for missing values.
func (d *Dataset) Records() []map[string]any {
	names := d.ColumnNames()
	out := make([]map[string]any, len(d.Rows))
	for i, row := range d.Rows {
		rec := make(map[string]any, len(names))
		for j, n := range names {
			rec[n] = row[j].Interface()
		}
		out[i] = rec
	}
	return out
}

// FailureCounts returns CoercionFailures keyed by field name.
func (d *Dataset) FailureCounts() map[string]int {
	out := make(map[string]int, len(d.CoercionFailures))
	for f, n := range d.CoercionFailures {
		out[f.String()] = n
	}
	return out
}
