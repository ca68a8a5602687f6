package dataset

import "strings"

// Source formats recorded on a Table.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Table is a raw uploaded dataset: the header as found in the file and the
// data rows, each padded to the header width.
type Table struct {
	Name    string
	Format  string
	Columns []string
	Rows    [][]string
	// Truncated counts rows skipped because of Options.MaxRows.
	Truncated int
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Index returns the position of the first column named name.
func (t *Table) Index(name string) (int, bool) {
	for i, c := range t.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Cell returns the value at row r, column c, or "" when out of range.
func (t *Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// naTokens are the cell values read as null, in addition to blank cells.
var naTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {},
	"nan": {}, "null": {},
}

// IsMissing reports whether a raw cell carries no value.
func IsMissing(v string) bool {
	s := strings.TrimSpace(v)
	if s == "" {
		return true
	}
	_, ok := naTokens[s]
	return ok
}

func padRow(rec []string, n int) []string {
	row := make([]string, n)
	copy(row, rec)
	return row
}
