package worksheet_test

import (
	"io"
	"strings"
	"testing"

	"github.com/gosheets/xl/sharedstrings"
	"github.com/gosheets/xl/style"
	"github.com/gosheets/xl/worksheet"
	"github.com/gosheets/xl/xldate"
)

func nopCloser(r io.Reader) io.ReadCloser {
	return io.NopCloser(r)
}

func drain(t *testing.T, xmlDoc string, strs *sharedstrings.Table, styles style.Table, epoch xldate.System) []worksheet.Row {
	t.Helper()
	it := worksheet.NewRowIter(nopCloser(strings.NewReader(xmlDoc)), strs, styles, epoch)
	var rows []worksheet.Row
	for it.Next() {
		rows = append(rows, it.Row())
	}
	if err := it.Err(); err != nil {
		t.Fatalf("unexpected iteration error: %v", err)
	}
	return rows
}

func TestSparseCellsAndMissingRow(t *testing.T) {
	doc := `<worksheet><sheetData>
<row r="1"><c r="B1" t="s"><v>0</v></c></row>
<row r="2"><c r="A2"><v>1</v></c></row>
<row r="3"><c r="A3"><v>2</v></c></row>
<row r="5"><c r="A5"><v>4</v></c></row>
</sheetData></worksheet>`
	strs, _ := sharedstrings.Parse(strings.NewReader(`<sst><si><t>hi</t></si></sst>`))
	rows := drain(t, doc, strs, nil, xldate.V1900)
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}
	if rows[0].Cells[0].Reference != "A1" {
		t.Errorf("row 1 cell 0 reference = %q, want A1", rows[0].Cells[0].Reference)
	}
	if rows[0].Cells[0].Value.Kind != worksheet.KindNone {
		t.Errorf("row 1 cell A1 should be valueless")
	}
	if rows[3].Index != 4 {
		t.Fatalf("rows[3].Index = %d, want 4", rows[3].Index)
	}
	for _, c := range rows[3].Cells {
		if c.Value.Kind != worksheet.KindNone {
			t.Errorf("row 4 should be a full empty row, got %+v", c)
		}
	}
	if rows[4].Index != 5 {
		t.Errorf("rows[4].Index = %d, want 5", rows[4].Index)
	}
}

func TestDegenerateDimensionA1(t *testing.T) {
	doc := `<worksheet><dimension ref="A1"/><sheetData>
<row r="1"><c r="A1"><v>1</v></c><c r="B1"><v>2</v></c></row>
<row r="2"><c r="A2"><v>3</v></c></row>
</sheetData></worksheet>`
	rows := drain(t, doc, nil, nil, xldate.V1900)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2 (no trailing synthesis)", len(rows))
	}
	if len(rows[0].Cells) != 2 {
		t.Errorf("row 1 should have 2 cells (widest observed row), got %d", len(rows[0].Cells))
	}
	if len(rows[1].Cells) != 2 {
		t.Errorf("row 2 should be right-padded to 2 cells, got %d", len(rows[1].Cells))
	}
}

func TestBoolAndErrorCells(t *testing.T) {
	doc := `<worksheet><sheetData>
<row r="1"><c r="A1" t="b"><v>0</v></c><c r="B1" t="b"><v>1</v></c><c r="C1" t="e"><v>DIV/0!</v></c></row>
</sheetData></worksheet>`
	rows := drain(t, doc, nil, nil, xldate.V1900)
	cells := rows[0].Cells
	if cells[0].Value.Kind != worksheet.KindBool || cells[0].Value.Bool != false {
		t.Errorf("A1 = %+v, want Bool(false)", cells[0].Value)
	}
	if cells[1].Value.Kind != worksheet.KindBool || cells[1].Value.Bool != true {
		t.Errorf("B1 = %+v, want Bool(true)", cells[1].Value)
	}
	if cells[2].Value.Kind != worksheet.KindError || cells[2].Value.Err != "DIV/0!" {
		t.Errorf("C1 = %+v, want Error(DIV/0!)", cells[2].Value)
	}
}

func TestSharedStringOutOfRange(t *testing.T) {
	doc := `<worksheet><sheetData>
<row r="1"><c r="A1" t="s"><v>9999</v></c></row>
</sheetData></worksheet>`
	strs, _ := sharedstrings.Parse(strings.NewReader(`<sst><si><t>a</t></si><si><t>b</t></si><si><t>c</t></si></sst>`))
	rows := drain(t, doc, strs, nil, xldate.V1900)
	v := rows[0].Cells[0].Value
	if v.Kind != worksheet.KindString || v.Str != "9999" {
		t.Errorf("out-of-range shared string = %+v, want String(9999)", v)
	}
}

func TestDatesUnderV1900(t *testing.T) {
	doc := `<worksheet><sheetData>
<row r="1"><c r="A1" s="0"><v>44633</v></c></row>
<row r="2"><c r="A2" s="0"><v>44687</v></c></row>
<row r="3"><c r="A3" s="0"><v>44835</v></c></row>
</sheetData></worksheet>`
	styles := style.Table{{NumFmtID: 14, FormatCode: "mm-dd-yy"}}
	rows := drain(t, doc, nil, styles, xldate.V1900)
	want := []string{"2022-03-13", "2022-05-06", "2022-10-01"}
	for i, w := range want {
		v := rows[i].Cells[0].Value
		if v.Kind != worksheet.KindDate {
			t.Fatalf("row %d: Kind = %v, want Date", i+1, v.Kind)
		}
		if got := v.Time.Format("2006-01-02"); got != w {
			t.Errorf("row %d: date = %s, want %s", i+1, got, w)
		}
	}
}

func TestRowCSVSerialisation(t *testing.T) {
	doc := `<worksheet><sheetData>
<row r="1"><c r="A1" t="str"><v>S1 "Line 4"</v></c></row>
</sheetData></worksheet>`
	rows := drain(t, doc, nil, nil, xldate.V1900)
	got := rows[0].String()
	want := `"S1 ""Line 4"""`
	if got != want {
		t.Errorf("Row.String() = %s, want %s", got, want)
	}
}

func TestWriteCSV(t *testing.T) {
	doc := `<worksheet><sheetData>
<row r="1"><c r="A1"><v>1</v></c><c r="B1" t="str"><v>hi</v></c></row>
<row r="2"><c r="A2" t="b"><v>1</v></c><c r="B2"/></row>
</sheetData></worksheet>`
	it := worksheet.NewRowIter(nopCloser(strings.NewReader(doc)), nil, nil, xldate.V1900)
	var sb strings.Builder
	if err := it.WriteCSV(&sb); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "1,\"hi\"\ntrue,\n"
	if sb.String() != want {
		t.Errorf("WriteCSV = %q, want %q", sb.String(), want)
	}
}

func TestRowNumbersContiguous(t *testing.T) {
	doc := `<worksheet><dimension ref="A1:A4"/><sheetData>
<row r="2"><c r="A2"><v>1</v></c></row>
</sheetData></worksheet>`
	rows := drain(t, doc, nil, nil, xldate.V1900)
	if len(rows) != 4 {
		t.Fatalf("len(rows) = %d, want 4", len(rows))
	}
	for i, r := range rows {
		if r.Index != i+1 {
			t.Errorf("rows[%d].Index = %d, want %d", i, r.Index, i+1)
		}
	}
}
