// Package sharedstrings parses the xl/sharedStrings.xml part into an
// ordered, index-addressable table of strings.
package sharedstrings

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Table is the ordered list of strings read from the shared-string part.
// The slice index is the integer a cell of type "s" carries as its text.
type Table struct {
	strings []string
}

// Len returns the number of shared strings in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.strings)
}

// Get returns the string at idx and whether idx was in range. Callers that
// receive ok == false should fall back to the raw index text as a String
// value rather than treat this as a fatal error.
func (t *Table) Get(idx int) (string, bool) {
	if t == nil || idx < 0 || idx >= len(t.strings) {
		return "", false
	}
	return t.strings[idx], true
}

// xmlSst mirrors the subset of xl/sharedStrings.xml this package consumes.
// Each <si> contributes one table entry: when it has <r> runs, the
// concatenation of each run's <t> text (so multi-run rich text degrades to
// plain text); otherwise its direct <t> text. Other nested <t> elements are
// not read.
type xmlSst struct {
	SI []xmlSI `xml:"si"`
}

type xmlSI struct {
	T    string   `xml:"t"`
	Runs []xmlRun `xml:"r"`
}

type xmlRun struct {
	T string `xml:"t"`
}

// Parse reads the raw xl/sharedStrings.xml part and returns the ordered
// table of strings. A missing or empty part is not an error: some
// workbooks have no shared strings at all.
func Parse(r io.Reader) (*Table, error) {
	var doc xmlSst
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("sharedstrings: parse sharedStrings.xml: %w", err)
	}
	table := &Table{strings: make([]string, len(doc.SI))}
	for i, si := range doc.SI {
		if len(si.Runs) > 0 {
			var s string
			for _, run := range si.Runs {
				s += run.T
			}
			table.strings[i] = s
		} else {
			table.strings[i] = si.T
		}
	}
	return table, nil
}
