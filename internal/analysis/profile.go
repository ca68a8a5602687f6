package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/canonical"
	"github.com/KaramelBytes/salesloom-cli/internal/dataset"
)

// DefaultMinRows is the acceptance threshold used when none is configured.
const DefaultMinRows = 50

const maxSamples = 5

// InsufficientDataError rejects an upload with too few rows to analyze.
type InsufficientDataError struct {
	Rows    int
	MinRows int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("dataset must have at least %d rows (got %d)", e.MinRows, e.Rows)
}

// ColumnProfile describes one raw column for the mapping review.
type ColumnProfile struct {
	Column         string   `json:"column_name"`
	PercentMissing float64  `json:"percent_missing"`
	UniqueCount    int      `json:"unique_count"`
	SampleValues   []string `json:"sample_values"`
	// Kind is numeric|datetime|text|empty, by predominant parsed type.
	Kind string `json:"kind"`
}

// ProfileColumns checks the row-count gate and profiles every column in
// header order.
func ProfileColumns(t *dataset.Table, minRows int) ([]ColumnProfile, error) {
	n := t.Len()
	if n < minRows {
		return nil, &InsufficientDataError{Rows: n, MinRows: minRows}
	}
	profiles := make([]ColumnProfile, 0, len(t.Columns))
	for j, name := range t.Columns {
		var missing, numCnt, dtCnt, txtCnt int
		uniq := map[string]struct{}{}
		p := ColumnProfile{Column: name, SampleValues: []string{}}
		for r := 0; r < n; r++ {
			raw := t.Cell(r, j)
			if dataset.IsMissing(raw) {
				missing++
				continue
			}
			v := strings.TrimSpace(raw)
			uniq[v] = struct{}{}
			if len(p.SampleValues) < maxSamples {
				p.SampleValues = append(p.SampleValues, v)
			}
			if _, ok := canonical.ParseNumber(v); ok {
				numCnt++
			} else if _, ok := canonical.ParseDate(v); ok {
				dtCnt++
			} else {
				txtCnt++
			}
		}
		if n > 0 {
			p.PercentMissing = math.Round(float64(missing)*100/float64(n)*100) / 100
		}
		p.UniqueCount = len(uniq)
		p.Kind = predominantKind(numCnt, dtCnt, txtCnt)
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func predominantKind(num, dt, txt int) string {
	switch {
	case num >= dt && num >= txt && num > 0:
		return "numeric"
	case dt >= txt && dt > 0:
		return "datetime"
	case txt > 0:
		return "text"
	default:
		return "empty"
	}
}

// Markdown renders a compact profile report.
func Markdown(t *dataset.Table, profiles []ColumnProfile) string {
	var b strings.Builder
	b.WriteString("[DATASET PROFILE]\n")
	if t.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", t.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", t.Len()))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(profiles)))

	b.WriteString("[COLUMNS]\n")
	for _, p := range profiles {
		b.WriteString(fmt.Sprintf("- %s: %s (missing %.2f%%, unique %d)", safeName(p.Column), p.Kind, p.PercentMissing, p.UniqueCount))
		if len(p.SampleValues) > 0 {
			b.WriteString(" — e.g., ")
			for i, v := range p.SampleValues {
				if i > 0 {
					b.WriteString(" | ")
				}
				if r := []rune(v); len(r) > 40 {
					v = string(r[:37]) + "..."
				}
				b.WriteString(safeVal(v))
			}
		}
		b.WriteString("\n")
	}
	if t.Truncated > 0 {
		b.WriteString("\n[NOTES]\n")
		b.WriteString(fmt.Sprintf("- read only %d/%d rows due to MaxRows\n", t.Len(), t.Len()+t.Truncated))
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
