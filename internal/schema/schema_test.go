package schema

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColumnName(t *testing.T) {
	cases := map[string]string{
		" Order Date ":   "order_date",
		"Unit-Price":     "unit_price",
		"TOTAL":          "total",
		"already_normal": "already_normal",
		"a - b":          "a___b",
		"":               "",
	}
	for in, want := range cases {
		got := NormalizeColumnName(in)
		assert.Equal(t, want, got, "normalize(%q)", in)
		assert.Equal(t, got, NormalizeColumnName(got), "not idempotent for %q", in)
	}
}

func TestFieldNames(t *testing.T) {
	assert.Equal(t, []string{
		"transaction_id", "order_date", "customer_id", "gender", "age",
		"product_category", "quantity", "price_per_unit", "total_amount",
	}, FieldNames())

	for _, f := range Fields() {
		got, err := ParseField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}
	f, err := ParseField("  Order_Date ")
	require.NoError(t, err)
	assert.Equal(t, OrderDate, f)

	_, err = ParseField("revenue")
	assert.Error(t, err)
}

func TestCatalogIsACopy(t *testing.T) {
	rules := Catalog()
	require.Len(t, rules, len(Fields()))
	rules[0].Keywords[0] = "mutated"
	r, ok := RuleFor(TransactionID)
	require.True(t, ok)
	assert.Equal(t, "id", r.Keywords[0])
}

func TestInferMapping(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    ColumnMapping
	}{
		{
			name:    "basic",
			columns: []string{"id", "date", "qty", "total"},
			want:    ColumnMapping{"id": TransactionID, "date": OrderDate, "qty": Quantity, "total": TotalAmount},
		},
		{
			name:    "exact names",
			columns: []string{"Order Date", "Total Amount", "Price Per Unit"},
			want:    ColumnMapping{"Order Date": OrderDate, "Total Amount": TotalAmount, "Price Per Unit": PricePerUnit},
		},
		{
			name:    "first column wins",
			columns: []string{"Sale Date", "Ship Date", "Revenue"},
			want:    ColumnMapping{"Sale Date": OrderDate, "Revenue": TotalAmount},
		},
		{
			name:    "claimed columns are skipped",
			columns: []string{"customer_id", "txn"},
			// customer_id contains "id" and is claimed by transaction_id first
			want: ColumnMapping{"customer_id": TransactionID},
		},
		{
			name:    "no matches",
			columns: []string{"foo", "bar"},
			want:    ColumnMapping{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferMapping(tt.columns))
		})
	}
}

func TestInferMappingIsInjective(t *testing.T) {
	inputs := [][]string{
		{"date", "date2", "order date", "day", "timestamp"},
		{"Total", "Amount", "Sales", "grand_total"},
		{"id", "transaction_id", "customer", "client", "member"},
	}
	for _, cols := range inputs {
		m := InferMapping(cols)
		seen := map[Field]string{}
		for col, f := range m {
			prev, dup := seen[f]
			assert.False(t, dup, "field %s mapped from %q and %q", f, prev, col)
			seen[f] = col
		}
	}
}

func TestExplain(t *testing.T) {
	matches := Explain([]string{"order_date", "Qty"})
	require.Len(t, matches, 2)
	assert.Equal(t, Match{Field: OrderDate, Column: "order_date"}, matches[0])
	assert.True(t, matches[0].Exact())
	assert.Equal(t, Match{Field: Quantity, Column: "Qty", Keyword: "qty"}, matches[1])
}

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateMapping(t *testing.T) {
	tests := []struct {
		name string
		m    ColumnMapping
		want []string
	}{
		{"missing date", ColumnMapping{"qty": Quantity}, []string{CodeMissingOrderDate}},
		{"no measure", ColumnMapping{"d": OrderDate}, []string{CodeMissingMeasure}},
		{"duplicate", ColumnMapping{"a": OrderDate, "b": OrderDate}, []string{CodeDuplicateMapping, CodeMissingMeasure}},
		{"valid minimal", ColumnMapping{"d": OrderDate, "t": TotalAmount}, []string{}},
		{"empty", ColumnMapping{}, []string{CodeMissingOrderDate, CodeMissingMeasure}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(ValidateMapping(tt.m)))
		})
	}

	errs := ValidateMapping(ColumnMapping{"a": Age, "b": Age})
	require.Len(t, errs, 3)
	assert.Equal(t, "Duplicate mapping detected. Each standard field can only be used once.", errs[0].Error())
	assert.Equal(t, "You must map a column to 'order_date'.", errs[1].Message)
	assert.Equal(t, "You must map at least one measure: quantity, price_per_unit, or total_amount.", errs[2].Message)
}

func TestMappingHelpers(t *testing.T) {
	m := ColumnMapping{"b": Quantity, "a": OrderDate, "z": Quantity}
	assert.True(t, m.Has(Quantity))
	assert.False(t, m.Has(Age))
	assert.Equal(t, []Field{OrderDate, Quantity, Quantity}, m.Targets())
	assert.Equal(t, []string{"z", "a", "b"}, m.Columns([]string{"z", "x", "a"}))

	c := m.Clone()
	c["a"] = Age
	assert.Equal(t, OrderDate, m["a"])

	parsed, err := MappingFromStrings(map[string]string{"a": "order_date", "b": "skip", "c": "", "d": "Total_Amount"})
	require.NoError(t, err)
	assert.Equal(t, ColumnMapping{"a": OrderDate, "d": TotalAmount}, parsed)
	_, err = MappingFromStrings(map[string]string{"a": "nope"})
	assert.Error(t, err)
}

func TestMappingFileRoundTrip(t *testing.T) {
	path := t.TempDir() + "/mapping.yaml"
	columns := []string{"Order Date", "Notes", "Total"}
	m := ColumnMapping{"Order Date": OrderDate, "Total": TotalAmount}
	require.NoError(t, WriteMappingFile(path, "sales.csv", columns, m))

	src, got, err := ReadMappingFile(path)
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", src)
	assert.Equal(t, m, got)

	mf := NewMappingFile("sales.csv", columns, m)
	require.Len(t, mf.Columns, 3)
	assert.Equal(t, MappingColumn{Column: "Notes", Field: SkipValue}, mf.Columns[1])
}

func TestMappingFileErrors(t *testing.T) {
	for i, mf := range []MappingFile{
		{Columns: []MappingColumn{{Column: "", Field: "age"}}},
		{Columns: []MappingColumn{{Column: "a", Field: "age"}, {Column: "a", Field: "gender"}}},
		{Columns: []MappingColumn{{Column: "a", Field: "revenue"}}},
	} {
		_, err := mf.Mapping()
		assert.Error(t, err, fmt.Sprintf("case %d", i))
	}
}
