package schema

import "sort"

// ColumnMapping maps a raw (uploaded) column name to a canonical field.
// Drafts produced by InferMapping are injective; edited mappings may not be,
// which ValidateMapping reports.
type ColumnMapping map[string]Field

// Clone returns an independent copy.
func (m ColumnMapping) Clone() ColumnMapping {
	out := make(ColumnMapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Has reports whether any raw column targets f.
func (m ColumnMapping) Has(f Field) bool {
	for _, v := range m {
		if v == f {
			return true
		}
	}
	return false
}

// Targets returns every mapped field, duplicates included, sorted by field
// declaration order.
func (m ColumnMapping) Targets() []Field {
	out := make([]Field, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Columns returns the mapped raw columns following the given column order.
// Mapped names absent from order are appended in lexical order.
func (m ColumnMapping) Columns(order []string) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	for _, c := range order {
		if _, ok := m[c]; !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	var rest []string
	for c := range m {
		if _, ok := seen[c]; !ok {
			rest = append(rest, c)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Strings returns the mapping with canonical string values, for JSON/YAML
// surfaces.
func (m ColumnMapping) Strings() map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v.String()
	}
	return out
}

// MappingFromStrings builds a mapping from raw column -> canonical string.
// Empty values and "skip" leave the column unmapped.
func MappingFromStrings(in map[string]string) (ColumnMapping, error) {
	out := make(ColumnMapping, len(in))
	for col, name := range in {
		if isSkip(name) {
			continue
		}
		f, err := ParseField(name)
		if err != nil {
			return nil, err
		}
		out[col] = f
	}
	return out, nil
}
