package schema

import (
	"fmt"
	"os"
	"strings"

	"github.com/KaramelBytes/salesloom-cli/internal/utils"
	"gopkg.in/yaml.v3"
)

// SkipValue marks an unmapped column in review files.
const SkipValue = "skip"

// MappingFile is the on-disk review format edited between infer and process.
type MappingFile struct {
	Source  string          `yaml:"source,omitempty"`
	Columns []MappingColumn `yaml:"columns"`
}

// MappingColumn is one raw column and its chosen field (or "skip").
type MappingColumn struct {
	Column string `yaml:"column"`
	Field  string `yaml:"field"`
}

// NewMappingFile lists every raw column in order with its mapped field.
func NewMappingFile(source string, columns []string, m ColumnMapping) *MappingFile {
	mf := &MappingFile{Source: source}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		val := SkipValue
		if f, ok := m[c]; ok {
			val = f.String()
		}
		mf.Columns = append(mf.Columns, MappingColumn{Column: c, Field: val})
	}
	// mapped names that are not in the header still round-trip
	for _, c := range m.Columns(columns) {
		if _, ok := seen[c]; ok {
			continue
		}
		mf.Columns = append(mf.Columns, MappingColumn{Column: c, Field: m[c].String()})
	}
	return mf
}

// Mapping converts the file entries back to a ColumnMapping.
func (mf *MappingFile) Mapping() (ColumnMapping, error) {
	m := make(ColumnMapping, len(mf.Columns))
	seen := make(map[string]struct{}, len(mf.Columns))
	for i, c := range mf.Columns {
		if c.Column == "" {
			return nil, fmt.Errorf("columns[%d]: column name is empty", i)
		}
		if _, dup := seen[c.Column]; dup {
			return nil, fmt.Errorf("columns[%d]: column %q listed more than once", i, c.Column)
		}
		seen[c.Column] = struct{}{}
		if isSkip(c.Field) {
			continue
		}
		f, err := ParseField(c.Field)
		if err != nil {
			return nil, fmt.Errorf("columns[%d] (%s): %w", i, c.Column, err)
		}
		m[c.Column] = f
	}
	return m, nil
}

// WriteMappingFile writes a review file for the given columns and mapping.
func WriteMappingFile(path, source string, columns []string, m ColumnMapping) error {
	b, err := yaml.Marshal(NewMappingFile(source, columns, m))
	if err != nil {
		return fmt.Errorf("marshal mapping: %w", err)
	}
	return utils.SafeWriteFile(path, b)
}

// ReadMappingFile loads a review file and returns its source and mapping.
func ReadMappingFile(path string) (string, ColumnMapping, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read mapping: %w", err)
	}
	var mf MappingFile
	if err := yaml.Unmarshal(b, &mf); err != nil {
		return "", nil, fmt.Errorf("parse mapping: %w", err)
	}
	m, err := mf.Mapping()
	if err != nil {
		return "", nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	return mf.Source, m, nil
}

func isSkip(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "" || s == SkipValue || s == "-"
}
