// Package xl provides a pure-Go, streaming reader for Microsoft Excel
// SpreadsheetML (.xlsx) workbooks. No cgo is required.
//
// # Quick start
//
//	wb, err := xl.Open("Book1.xlsx")
//	if err != nil { ... }
//	defer wb.Close()
//
//	for _, sheet := range wb.Sheets().All() {
//	    rows, err := sheet.Rows(wb)
//	    if err != nil { ... }
//	    for rows.Next() {
//	        row := rows.Row()
//	        fmt.Println(row.String())
//	    }
//	    rows.Close()
//	}
//
// # Cell formatting
//
// [worksheet.RowIter] always resolves cells to their typed [worksheet.Value]
// (bool, number, string, date/datetime/time, or error) using the CSV-style
// Display rules documented on [worksheet.Value.String]. To obtain the
// display string a spreadsheet application would show — respecting the
// cell's number format — call [github.com/gosheets/xl/numfmt.Render]:
//
//	formatted := numfmt.Render(cell.Value, cell.Style, wb's date system)
//
// # Dates
//
// SpreadsheetML stores dates as floating-point serial numbers. Cell
// resolution handles date rendering automatically when the cell's number
// format is a date or datetime format, using [github.com/gosheets/xl/xldate.Convert].
// For direct access to the underlying [time.Time] value, call xldate.Convert
// with the workbook's date system directly.
//
// # Remote sources
//
// [OpenS3] opens a workbook stored as a single S3 object without downloading
// it in full first, reading the ZIP central directory and individual parts
// through ranged GetObject calls.
package xl

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gosheets/xl/workbook"
)

// Version is the current version of the xl library.
const Version = "1.0.0"

// Open opens the named .xlsx file. The caller must call Close on the
// returned Workbook when done.
func Open(name string) (*workbook.Workbook, error) {
	return workbook.Open(name)
}

// OpenReader opens an .xlsx workbook from an arbitrary [io.ReaderAt]. size
// must equal the total byte length of the data.
func OpenReader(r io.ReaderAt, size int64) (*workbook.Workbook, error) {
	return workbook.OpenReader(r, size)
}

// OpenS3 opens an .xlsx workbook stored as a single S3 object, reading it
// through ranged GetObject calls rather than downloading it in full first.
func OpenS3(ctx context.Context, client *s3.Client, bucket, key string) (*workbook.Workbook, error) {
	return workbook.OpenS3(ctx, client, bucket, key)
}
