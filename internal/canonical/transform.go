package canonical

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/dataset"
	"github.com/KaramelBytes/salesloom-cli/internal/schema"
)

// Options tunes value coercion.
type Options struct {
	// DecimalSeparator and ThousandsSeparator switch numeric fields to
	// locale-aware parsing. Both zero means plain decimal parsing.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// ExcelSerialDates accepts Excel day serials in order_date. Build turns
	// it on for XLSX sources.
	ExcelSerialDates bool
}

// Dataset is the canonical, analysis-ready table.
type Dataset struct {
	Columns []schema.Field
	Rows    [][]Value
	// CoercionFailures counts cells per field that had content but did not
	// parse, measured before rows were dropped.
	CoercionFailures map[schema.Field]int
}

// MissingColumnError reports a mapping key that is not a column of the raw
// dataset. It signals a caller bug: validated mappings come from the
// dataset's own header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("mapped column %q not found in dataset", e.Column)
}

// DuplicateTargetError reports a mapping that sends two raw columns to the
// same field. ValidateMapping rejects such mappings first.
type DuplicateTargetError struct {
	Field   schema.Field
	Columns []string
}

func (e *DuplicateTargetError) Error() string {
	return fmt.Sprintf("canonical field %s mapped from several columns: %s", e.Field, strings.Join(e.Columns, ", "))
}

type coercer func(raw string) Value

var numericFields = map[schema.Field]bool{
	schema.Quantity:     true,
	schema.PricePerUnit: true,
	schema.TotalAmount:  true,
	schema.Age:          true,
}

// criticalFields drop a row when missing. Only those present apply.
var criticalFields = []schema.Field{schema.OrderDate, schema.TotalAmount}

// Build projects raw onto the mapped columns, renames them to canonical
// fields, coerces typed fields and drops rows missing a critical value.
// It returns the dataset and the number of dropped rows. The mapping is
// expected to have passed schema.ValidateMapping.
func Build(raw *dataset.Table, m schema.ColumnMapping, opt Options) (*Dataset, int, error) {
	if raw == nil {
		raw = &dataset.Table{}
	}
	if raw.Format == dataset.FormatXLSX {
		opt.ExcelSerialDates = true
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	byField := make(map[schema.Field][]string, len(m))
	for _, k := range keys {
		if _, ok := raw.Index(k); !ok {
			return nil, 0, &MissingColumnError{Column: k}
		}
		byField[m[k]] = append(byField[m[k]], k)
	}
	for _, f := range schema.Fields() {
		if cols := byField[f]; len(cols) > 1 {
			return nil, 0, &DuplicateTargetError{Field: f, Columns: cols}
		}
	}

	cols := m.Columns(raw.Columns)
	ds := &Dataset{
		Columns:          make([]schema.Field, len(cols)),
		CoercionFailures: map[schema.Field]int{},
	}
	srcIdx := make([]int, len(cols))
	coercers := make([]coercer, len(cols))
	var critical []int
	for i, c := range cols {
		f := m[c]
		ds.Columns[i] = f
		srcIdx[i], _ = raw.Index(c)
		coercers[i] = coercerFor(f, opt)
		for _, cf := range criticalFields {
			if f == cf {
				critical = append(critical, i)
			}
		}
	}

	ds.Rows = make([][]Value, 0, len(raw.Rows))
	for r := range raw.Rows {
		row := make([]Value, len(cols))
		for i := range cols {
			row[i] = coercers[i](raw.Cell(r, srcIdx[i]))
			if row[i].State == MissingCoercion {
				ds.CoercionFailures[ds.Columns[i]]++
			}
		}
		if hasMissing(row, critical) {
			continue
		}
		ds.Rows = append(ds.Rows, row)
	}
	dropped := len(raw.Rows) - len(ds.Rows)
	return ds, dropped, nil
}

func hasMissing(row []Value, idx []int) bool {
	for _, i := range idx {
		if row[i].Missing() {
			return true
		}
	}
	return false
}

func coercerFor(f schema.Field, opt Options) coercer {
	switch {
	case f == schema.OrderDate:
		return func(raw string) Value {
			if dataset.IsMissing(raw) {
				return missingFromSource(raw)
			}
			t, ok := parseDate(raw, opt.ExcelSerialDates)
			if !ok {
				return coercionFailed(raw)
			}
			return TimeValue(t, raw)
		}
	case numericFields[f]:
		locale := opt.DecimalSeparator != 0 || opt.ThousandsSeparator != 0
		return func(raw string) Value {
			if dataset.IsMissing(raw) {
				return missingFromSource(raw)
			}
			var (
				x  float64
				ok bool
			)
			if locale {
				x, ok = parseLocaleNumber(raw, opt.DecimalSeparator, opt.ThousandsSeparator)
			} else {
				x, ok = parseNumber(raw)
			}
			if !ok {
				return coercionFailed(raw)
			}
			return NumberValue(x, raw)
		}
	default:
		return func(raw string) Value {
			if dataset.IsMissing(raw) {
				return missingFromSource(raw)
			}
			return TextValue(strings.TrimSpace(raw))
		}
	}
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Rows) }

// Index returns the column position of f.
func (d *Dataset) Index(f schema.Field) (int, bool) {
	for i, c := range d.Columns {
		if c == f {
			return i, true
		}
	}
	return -1, false
}

// Has reports whether f is a column of the dataset.
func (d *Dataset) Has(f schema.Field) bool {
	_, ok := d.Index(f)
	return ok
}

// ColumnNames returns the canonical column labels.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.String()
	}
	return out
}
