package dataset

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVPadsShortRows(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(" id , date ,total\n1,2024-01-01,3\n2,2024-01-02\n"), ',', 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "date", "total"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"2", "2024-01-02", ""}, tbl.Rows[1])
	assert.Equal(t, "", tbl.Cell(1, 2))
	assert.Equal(t, "", tbl.Cell(5, 0))
	i, ok := tbl.Index("total")
	require.True(t, ok)
	assert.Equal(t, 2, i)
}

func TestDecodeSniffsDelimiter(t *testing.T) {
	tests := []struct {
		name, file, body string
		cols             []string
	}{
		{"semicolon", "a.csv", "a;b;c\n1;2;3\n", []string{"a", "b", "c"}},
		{"tsv by extension", "a.tsv", "a,x\tb\n1\t2\n", []string{"a,x", "b"}},
		{"pipe", "a.txt", "a|b\n1|2\n", []string{"a", "b"}},
		{"bom", "a.csv", "\xef\xbb\xbfa,b\n1,2\n", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Decode(tt.file, []byte(tt.body), DefaultOptions())
			require.NoError(t, err)
			assert.Equal(t, tt.cols, tbl.Columns)
			assert.Equal(t, tt.file, tbl.Name)
			assert.Equal(t, FormatCSV, tbl.Format)
		})
	}
}

func TestDecodeMaxRows(t *testing.T) {
	opt := DefaultOptions()
	opt.MaxRows = 2
	tbl, err := Decode("a.csv", []byte("x\n1\n2\n3\n4\n"), opt)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, 2, tbl.Truncated)
}

func TestDecodeUnsupported(t *testing.T) {
	_, err := Decode("report.pdf", []byte("x"), DefaultOptions())
	assert.True(t, errors.Is(err, ErrUnsupported))
	assert.False(t, Supported("report.pdf"))
	assert.True(t, Supported("REPORT.XLSX"))
}

func TestLoadFromDisk(t *testing.T) {
	p := filepath.Join(t.TempDir(), "sales.csv")
	require.NoError(t, os.WriteFile(p, []byte("a,b\n1,2\n"), 0o644))
	tbl, err := Load(p, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "sales.csv", tbl.Name)
	assert.Equal(t, 1, tbl.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"), DefaultOptions())
	assert.Error(t, err)
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "  ", "NA", "N/A", "null", "NaN", "None", "#N/A", " nan "} {
		assert.True(t, IsMissing(v), "%q", v)
	}
	for _, v := range []string{"0", "na", "none", "-", "x"} {
		assert.False(t, IsMissing(v), "%q", v)
	}
}

const (
	wbXML = `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Notes" sheetId="1" r:id="rId1"/><sheet name="Sales" sheetId="2" r:id="rId2"/></sheets>
</workbook>`
	relsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="worksheet" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`
	sharedXML = `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><si><t>Order Date</t></si><si><t>Total</t></si><si><r><t>Rich </t></r><r><t>text</t></r></si></sst>`
	sheet1XML = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="inlineStr"><is><t>memo</t></is></c></row>
<row r="2"><c r="A2" t="inlineStr"><is><t>hello</t></is></c></row>
</sheetData></worksheet>`
	sheet2XML = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="C1" t="inlineStr"><is><t>Note</t></is></c></row>
<row r="2"><c r="A2"><v>45292</v></c><c r="B2"><v>12.5</v></c><c r="C2" t="s"><v>2</v></c></row>
<row r="3"><c r="A3"><v>45293</v></c><c r="C3" t="inlineStr"><is><t>gap</t></is></c></row>
<row r="4"><c r="A4"><v>45294</v></c></row>
</sheetData></worksheet>`
)

func xlsxFixture(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"xl/workbook.xml":            wbXML,
		"xl/_rels/workbook.xml.rels": relsXML,
		"xl/sharedStrings.xml":       sharedXML,
		"xl/worksheets/sheet1.xml":   sheet1XML,
		"xl/worksheets/sheet2.xml":   sheet2XML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDecodeXLSXBySheetName(t *testing.T) {
	opt := DefaultOptions()
	opt.SheetName = "sales"
	tbl, err := Decode("book.xlsx", xlsxFixture(t), opt)
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, tbl.Format)
	assert.Equal(t, []string{"Order Date", "Total", "Note"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"45292", "12.5", "Rich text"}, tbl.Rows[0])
	assert.Equal(t, []string{"45293", "", "gap"}, tbl.Rows[1])
	assert.Equal(t, []string{"45294", "", ""}, tbl.Rows[2])
}

func TestDecodeXLSXBySheetIndex(t *testing.T) {
	tbl, err := Decode("book.xlsx", xlsxFixture(t), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"memo"}, tbl.Columns)

	opt := DefaultOptions()
	opt.SheetIndex = 2
	tbl, err = Decode("book.xlsx", xlsxFixture(t), opt)
	require.NoError(t, err)
	assert.Equal(t, "Order Date", tbl.Columns[0])
}

func TestDecodeXLSXUnknownSheet(t *testing.T) {
	opt := DefaultOptions()
	opt.SheetName = "Missing"
	_, err := Decode("book.xlsx", xlsxFixture(t), opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Notes, Sales")
}

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"styles.xml", "xl/styles.xml"},
		{"/xl/styles.xml", "xl/styles.xml"},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.input); got != tt.expected {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestColIndexFromRef(t *testing.T) {
	for ref, want := range map[string]int{"A1": 0, "C12": 2, "Z9": 25, "AA3": 26, "ab10": 27, "12": -1} {
		assert.Equal(t, want, colIndexFromRef(ref), ref)
	}
}
