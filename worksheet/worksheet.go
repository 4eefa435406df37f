// Package worksheet implements the SAX-style sheet reader: a pull parser
// over one worksheet XML part that emits a dense, gap-filled sequence of
// typed rows.
package worksheet

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/gosheets/xl/cellref"
	"github.com/gosheets/xl/sharedstrings"
	"github.com/gosheets/xl/style"
	"github.com/gosheets/xl/xldate"
)

// Kind discriminates the typed variants a cell's Value may hold.
type Kind int

const (
	KindNone Kind = iota
	KindBool
	KindNumber
	KindString
	KindDate
	KindDateTime
	KindTime
	KindError
)

// Value is the typed result of resolving one cell: its declared type, its
// inherited style, and its raw text combine into exactly one of these
// variants.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Time   time.Time
	Err    string
}

// String renders v the way the CSV-style buffer serialiser does: a Bool as
// true/false, a String double-quoted with embedded quotes doubled, a Number
// as the shortest round-trip decimal, Date/DateTime as ISO 8601, Time
// double-quoted (a bare HH:MM:SS would otherwise read as three numbers),
// an Error prefixed with '#', and None as the empty string.
func (v Value) String() string {
	switch v.Kind {
	case KindNone:
		return ""
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindString:
		return quoteCSV(v.Str)
	case KindNumber:
		return formatNumber(v.Number)
	case KindDate:
		return v.Time.Format("2006-01-02")
	case KindDateTime:
		return v.Time.Format("2006-01-02T15:04:05")
	case KindTime:
		return quoteCSV(v.Time.Format("15:04:05"))
	case KindError:
		return "#" + v.Err
	}
	return ""
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Cell is one resolved spreadsheet cell.
type Cell struct {
	Reference string
	Column    int
	RowNum    int
	CellType  string // the declared "t" attribute: "", "s", "str", "inlineStr", "b", "e", "n", or other
	Style     string // resolved format-code string
	Formula   string
	RawValue  string
	Value     Value
}

// Row is an ordered, dense sequence of cells sharing one 1-based row index.
type Row struct {
	Index int
	Cells []Cell
}

// String renders the row as its cells' CSV-style text joined by commas.
func (r Row) String() string {
	parts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		parts[i] = c.Value.String()
	}
	return strings.Join(parts, ",")
}

// RowIter is a single-threaded, single-pass pull iterator over one
// worksheet part. It peeks at most one real row ahead; the caller drives
// progress entirely through Next.
type RowIter struct {
	dec     *xml.Decoder
	closer  io.Closer
	strings *sharedstrings.Table
	styles  style.Table
	epoch   xldate.System

	wantRow  int
	nextRow  *Row
	numCols  int
	numRows  int
	dimSeen  bool
	doneFile bool

	cur Row
	err error
}

// NewRowIter constructs a RowIter over an already-open worksheet part
// reader. strs and styles are borrowed immutably for the iterator's
// lifetime; epoch selects the date system serial numbers are interpreted
// under.
func NewRowIter(rc io.ReadCloser, strs *sharedstrings.Table, styles style.Table, epoch xldate.System) *RowIter {
	return &RowIter{
		dec:     xml.NewDecoder(rc),
		closer:  rc,
		strings: strs,
		styles:  styles,
		epoch:   epoch,
		wantRow: 1,
	}
}

// Next advances the iterator. It returns false when the sheet is exhausted
// or a parse error occurred; callers must check Err after a false return to
// distinguish the two.
func (it *RowIter) Next() bool {
	if it.err != nil {
		return false
	}
	row, ok, err := it.step()
	if err != nil {
		it.err = err
		return false
	}
	if !ok {
		return false
	}
	it.cur = row
	return true
}

// Row returns the row produced by the most recent call to Next.
func (it *RowIter) Row() Row { return it.cur }

// Err returns the first parse error encountered, if any.
func (it *RowIter) Err() error { return it.err }

// Close releases the underlying worksheet part reader.
func (it *RowIter) Close() error { return it.closer.Close() }

// All adapts the iterator to a Go range-over-func sequence for callers that
// prefer `for row := range it.All() { ... }` over the explicit Next/Row
// pull protocol.
func (it *RowIter) All() func(yield func(Row) bool) {
	return func(yield func(Row) bool) {
		for it.Next() {
			if !yield(it.Row()) {
				return
			}
		}
	}
}

// WriteCSV drains the iterator into w as a header-less, comma-joined,
// newline-terminated grid — the alternate sink workbook's ReadToBuffer
// composes over the same event loop as Next.
func (it *RowIter) WriteCSV(w io.Writer) error {
	for it.Next() {
		if _, err := io.WriteString(w, it.Row().String()); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return it.Err()
}

// step implements the buffering discipline: a buffered look-ahead row that
// now matches wantRow is returned directly; a buffered row still ahead of
// wantRow causes a synthetic empty row to be emitted instead; once the
// underlying file is exhausted, synthetic rows are emitted until numRows is
// satisfied; otherwise events are pulled until a completed row decides.
func (it *RowIter) step() (Row, bool, error) {
	if it.nextRow != nil && it.nextRow.Index == it.wantRow {
		r := *it.nextRow
		it.nextRow = nil
		it.wantRow++
		return r, true, nil
	}
	if it.nextRow != nil && it.wantRow < it.nextRow.Index {
		r := emptyRow(it.wantRow, it.numCols)
		it.wantRow++
		return r, true, nil
	}
	if it.doneFile {
		if it.wantRow-1 < it.numRows {
			r := emptyRow(it.wantRow, it.numCols)
			it.wantRow++
			return r, true, nil
		}
		return Row{}, false, nil
	}
	return it.pullUntilRow()
}

func (it *RowIter) pullUntilRow() (Row, bool, error) {
	var (
		curRow     *Row
		thisRowNum int
		curCell    *Cell
		lastCol    int
		inValue    bool
		inFormula  bool
	)
	for {
		tok, err := it.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				it.doneFile = true
				if it.wantRow-1 < it.numRows {
					r := emptyRow(it.wantRow, it.numCols)
					it.wantRow++
					return r, true, nil
				}
				return Row{}, false, nil
			}
			return Row{}, false, fmt.Errorf("worksheet: parse worksheet XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "dimension":
				cols, rows := cellref.UsedArea(attrOf(t, "ref"))
				if cols > 0 {
					it.numCols = cols
				}
				if rows > 0 {
					it.numRows = rows
					it.dimSeen = true
				}
			case "row":
				n, _ := strconv.Atoi(attrOf(t, "r"))
				thisRowNum = n
				curRow = &Row{Index: n}
				lastCol = 0
			case "c":
				ref := attrOf(t, "r")
				col, rowNum, cerr := cellref.Coordinates(ref)
				if cerr != nil {
					col = lastCol + 1
					rowNum = thisRowNum
					ref = cellref.Join(col, rowNum)
				}
				styleIdx := -1
				if s := attrOf(t, "s"); s != "" {
					if v, err := strconv.Atoi(s); err == nil {
						styleIdx = v
					}
				}
				curCell = &Cell{
					Reference: ref,
					Column:    col,
					RowNum:    rowNum,
					CellType:  attrOf(t, "t"),
					Style:     it.styles.Resolve(styleIdx),
				}
			case "v", "t":
				inValue = true
			case "f":
				inFormula = true
			}

		case xml.CharData:
			if curCell == nil {
				continue
			}
			switch {
			case inValue:
				curCell.RawValue += string(t)
			case inFormula:
				curCell.Formula += string(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "v", "t":
				inValue = false
			case "f":
				inFormula = false
			case "c":
				if curCell != nil && curRow != nil {
					curCell.Value = resolveValue(*curCell, it.strings, it.epoch)
					for col := lastCol + 1; col < curCell.Column; col++ {
						curRow.Cells = append(curRow.Cells, emptyCell(col, thisRowNum))
					}
					curRow.Cells = append(curRow.Cells, *curCell)
					lastCol = curCell.Column
					curCell = nil
				}
			case "row":
				if curRow == nil {
					continue
				}
				if len(curRow.Cells) > it.numCols {
					it.numCols = len(curRow.Cells)
				}
				for col := len(curRow.Cells) + 1; col <= it.numCols; col++ {
					curRow.Cells = append(curRow.Cells, emptyCell(col, thisRowNum))
				}
				if !it.dimSeen && thisRowNum > it.numRows {
					it.numRows = thisRowNum
				}
				row := *curRow
				curRow = nil

				if thisRowNum == it.wantRow {
					it.wantRow++
					return row, true, nil
				}
				it.nextRow = &row
				synth := emptyRow(it.wantRow, it.numCols)
				it.wantRow++
				return synth, true, nil
			}
		}
	}
}

// resolveValue types a cell by combining its declared type with its
// inherited style, per the sheet reader's dispatch rules.
func resolveValue(c Cell, strs *sharedstrings.Table, epoch xldate.System) Value {
	switch c.CellType {
	case "s":
		if idx, err := strconv.Atoi(strings.TrimSpace(c.RawValue)); err == nil && idx >= 0 {
			if s, ok := strs.Get(idx); ok {
				return Value{Kind: KindString, Str: s}
			}
		}
		return Value{Kind: KindString, Str: c.RawValue}
	case "str", "inlineStr":
		return Value{Kind: KindString, Str: c.RawValue}
	case "b":
		return Value{Kind: KindBool, Bool: c.RawValue != "0"}
	case "e":
		return Value{Kind: KindError, Err: c.RawValue}
	case "bl":
		return Value{Kind: KindNone}
	default:
		if strings.TrimSpace(c.RawValue) == "" {
			return Value{Kind: KindNone}
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(c.RawValue), 64)
		if err != nil {
			// Coercion error: recover to the raw text as a String and
			// preserve RawValue on the enclosing Cell for the consumer.
			return Value{Kind: KindString, Str: c.RawValue}
		}
		if style.IsDate(c.Style) {
			res := xldate.Convert(f, epoch)
			switch res.Kind {
			case xldate.Date:
				return Value{Kind: KindDate, Time: res.Time}
			case xldate.DateTime:
				return Value{Kind: KindDateTime, Time: res.Time}
			case xldate.Time:
				return Value{Kind: KindTime, Time: res.Time}
			}
		}
		return Value{Kind: KindNumber, Number: f}
	}
}

func emptyCell(col, row int) Cell {
	return Cell{
		Reference: cellref.Join(col, row),
		Column:    col,
		RowNum:    row,
		Value:     Value{Kind: KindNone},
	}
}

func emptyRow(rowNum, numCols int) Row {
	cells := make([]Cell, numCols)
	for i := 0; i < numCols; i++ {
		cells[i] = emptyCell(i+1, rowNum)
	}
	return Row{Index: rowNum, Cells: cells}
}

func attrOf(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
