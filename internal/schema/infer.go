package schema

import "strings"

// Match records why a raw column was chosen for a field.
type Match struct {
	Field  Field  `json:"field"`
	Column string `json:"column"`
	// Keyword is the matched keyword, or empty for an exact name match.
	Keyword string `json:"keyword,omitempty"`
}

// Exact reports whether the column's normalized name equals the field name.
func (m Match) Exact() bool { return m.Keyword == "" }

// InferMapping builds a draft mapping from raw column names.
//
// Fields are visited in catalog order; for each, raw columns are scanned in
// their original order and the first unclaimed column whose normalized name
// equals the field name or contains one of its keywords is claimed. Matching
// is plain substring containment. Fields without a match stay unmapped.
func InferMapping(columns []string) ColumnMapping {
	m := make(ColumnMapping)
	for _, mt := range Explain(columns) {
		m[mt.Column] = mt.Field
	}
	return m
}

// Explain runs the same scan as InferMapping and returns one Match per
// mapped field, in catalog order.
func Explain(columns []string) []Match {
	normalized := make([]string, len(columns))
	for i, c := range columns {
		normalized[i] = NormalizeColumnName(c)
	}
	claimed := make(map[string]struct{}, len(columns))
	assigned := make(map[Field]struct{}, len(catalog))
	var out []Match

	for _, rule := range catalog {
		if _, done := assigned[rule.Field]; done {
			continue
		}
		want := rule.Field.String()
		for i, col := range columns {
			if _, taken := claimed[col]; taken {
				continue
			}
			kw, ok := matchColumn(normalized[i], want, rule.Keywords)
			if !ok {
				continue
			}
			claimed[col] = struct{}{}
			assigned[rule.Field] = struct{}{}
			out = append(out, Match{Field: rule.Field, Column: col, Keyword: kw})
			break
		}
	}
	return out
}

func matchColumn(norm, fieldName string, keywords []string) (string, bool) {
	if norm == fieldName {
		return "", true
	}
	for _, kw := range keywords {
		if strings.Contains(norm, kw) {
			return kw, true
		}
	}
	return "", false
}
