// Package workbook opens a SpreadsheetML (.xlsx-style) workbook container,
// parses its relationship and sheet directory, and builds the shared-string
// and style tables every sheet reader borrows from.
package workbook

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gosheets/xl/container"
	"github.com/gosheets/xl/internal/rels"
	"github.com/gosheets/xl/sharedstrings"
	"github.com/gosheets/xl/style"
	"github.com/gosheets/xl/worksheet"
	"github.com/gosheets/xl/xldate"
)

const (
	partWorkbook     = "xl/workbook.xml"
	partWorkbookRels = "xl/_rels/workbook.xml.rels"
	partSharedStr    = "xl/sharedStrings.xml"
	partStyles       = "xl/styles.xml"
)

// SheetEntry is one entry in the workbook's sheet catalogue.
type SheetEntry struct {
	Name           string
	Position       int // 1-based, in document order
	RelationshipID string
	SheetID        string
	Target         string // container-relative path to the worksheet part
}

// Rows opens a fresh reader over this sheet's worksheet part and returns a
// row iterator borrowing wb's shared-string and style tables. Each call
// creates an independent reader; the sheet itself is stateless.
func (e SheetEntry) Rows(wb *Workbook) (*worksheet.RowIter, error) {
	rc, err := wb.container.Open(e.Target)
	if err != nil {
		return nil, fmt.Errorf("workbook: open sheet %q: %w", e.Name, err)
	}
	return worksheet.NewRowIter(rc, wb.strings, wb.styles, wb.epoch), nil
}

// ReadToBuffer renders this sheet as a header-less CSV-style grid, composing
// over the same row-iteration engine Rows uses.
func (e SheetEntry) ReadToBuffer(wb *Workbook) ([]byte, error) {
	it, err := e.Rows(wb)
	if err != nil {
		return nil, err
	}
	defer it.Close()
	var buf bytes.Buffer
	if err := it.WriteCSV(&buf); err != nil {
		return nil, fmt.Errorf("workbook: render sheet %q: %w", e.Name, err)
	}
	return buf.Bytes(), nil
}

// Catalogue is the ordered list of sheets declared by a workbook part.
type Catalogue struct {
	entries []SheetEntry
}

// All returns every catalogue entry in document order.
func (c Catalogue) All() []SheetEntry { return c.entries }

// Len reports the number of sheets in the catalogue.
func (c Catalogue) Len() int { return len(c.entries) }

// Get looks up a sheet by its case-sensitive name.
func (c Catalogue) Get(name string) (SheetEntry, bool) {
	for _, e := range c.entries {
		if e.Name == name {
			return e, true
		}
	}
	return SheetEntry{}, false
}

// At looks up a sheet by its 1-based position.
func (c Catalogue) At(position int) (SheetEntry, bool) {
	for _, e := range c.entries {
		if e.Position == position {
			return e, true
		}
	}
	return SheetEntry{}, false
}

// Workbook owns an open container and the tables built from it: the
// shared-string table, the style table, the date-epoch selector, and the
// sheet catalogue. These are built once, eagerly, at open time and are
// read-only for the workbook's lifetime.
type Workbook struct {
	container *container.Container
	strings   *sharedstrings.Table
	styles    style.Table
	epoch     xldate.System
	sheets    Catalogue
}

// Open opens a workbook from a file path.
func Open(path string) (*Workbook, error) {
	c, err := container.OpenFile(path)
	if err != nil {
		return nil, err
	}
	wb, err := build(c)
	if err != nil {
		c.Close()
		return nil, err
	}
	return wb, nil
}

// OpenReader opens a workbook from an in-memory or otherwise
// already-addressable random-access source.
func OpenReader(r io.ReaderAt, size int64) (*Workbook, error) {
	c, err := container.OpenReader(r, size)
	if err != nil {
		return nil, err
	}
	return build(c)
}

// OpenS3 opens a workbook stored as a single S3 object, reading it through
// ranged GetObject calls rather than downloading it in full first.
func OpenS3(ctx context.Context, client *s3.Client, bucket, key string) (*Workbook, error) {
	c, err := container.OpenS3(ctx, client, bucket, key)
	if err != nil {
		return nil, err
	}
	return build(c)
}

// Sheets returns the workbook's sheet catalogue.
func (wb *Workbook) Sheets() Catalogue { return wb.sheets }

// Close releases the underlying container.
func (wb *Workbook) Close() error { return wb.container.Close() }

func build(c *container.Container) (*Workbook, error) {
	wb := &Workbook{container: c}

	relsData, err := c.ReadAll(partWorkbookRels)
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	relMap, err := rels.ParseRelsXML(relsData)
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}

	wbData, err := c.ReadAll(partWorkbook)
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	epoch, sheets, err := parseWorkbookXML(wbData, relMap)
	if err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	wb.epoch = epoch
	wb.sheets = Catalogue{entries: sheets}

	if c.Has(partSharedStr) {
		rc, err := c.Open(partSharedStr)
		if err != nil {
			return nil, fmt.Errorf("workbook: %w", err)
		}
		strs, err := sharedstrings.Parse(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("workbook: %w", err)
		}
		wb.strings = strs
	} else {
		wb.strings = &sharedstrings.Table{}
	}

	if c.Has(partStyles) {
		rc, err := c.Open(partStyles)
		if err != nil {
			return nil, fmt.Errorf("workbook: %w", err)
		}
		styles, err := style.Parse(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("workbook: %w", err)
		}
		wb.styles = styles
	}

	return wb, nil
}

type xmlWorkbook struct {
	WorkbookPr struct {
		Date1904 string `xml:"date1904,attr"`
	} `xml:"workbookPr"`
	Sheets struct {
		Sheet []xmlSheet `xml:"sheet"`
	} `xml:"sheets"`
}

type xmlSheet struct {
	Name    string `xml:"name,attr"`
	SheetID string `xml:"sheetId,attr"`
	RID     string `xml:"id,attr"`
}

// parseWorkbookXML parses the workbook part's date-system flag and ordered
// sheet list, resolving each sheet's relationship ID to an absolute
// container member path via relMap.
func parseWorkbookXML(data []byte, relMap map[string]string) (xldate.System, []SheetEntry, error) {
	var doc xmlWorkbook
	if err := xml.Unmarshal(data, &doc); err != nil {
		return 0, nil, fmt.Errorf("parse workbook.xml: %w", err)
	}

	epoch := xldate.V1900
	if doc.WorkbookPr.Date1904 == "1" || strings.EqualFold(doc.WorkbookPr.Date1904, "true") {
		epoch = xldate.V1904
	}

	entries := make([]SheetEntry, 0, len(doc.Sheets.Sheet))
	for i, s := range doc.Sheets.Sheet {
		target, ok := relMap[s.RID]
		if !ok {
			return 0, nil, fmt.Errorf("sheet %q: relationship %q not found", s.Name, s.RID)
		}
		entries = append(entries, SheetEntry{
			Name:           s.Name,
			Position:       i + 1,
			RelationshipID: s.RID,
			SheetID:        s.SheetID,
			Target:         joinPartPath("xl", target),
		})
	}
	return epoch, entries, nil
}

// joinPartPath resolves a relationship Target against the directory the
// referencing part lives in, per OOXML's package-relative path rules:
// targets are relative to dir unless they start with "/".
func joinPartPath(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return dir + "/" + target
}
