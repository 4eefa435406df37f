// Command xlcat prints a SpreadsheetML workbook's sheet catalogue, or
// streams one sheet as CSV-style text to stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gosheets/xl"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <workbook.xlsx> [sheet-name]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	wb, err := xl.Open(args[0])
	if err != nil {
		log.Fatalf("xlcat: open %s: %v", args[0], err)
	}
	defer wb.Close()

	if len(args) == 1 {
		for _, s := range wb.Sheets().All() {
			fmt.Printf("%d\t%s\t%s\n", s.Position, s.Name, s.Target)
		}
		return
	}

	sheetName := args[1]
	sheet, ok := wb.Sheets().Get(sheetName)
	if !ok {
		log.Fatalf("xlcat: sheet %q not found", sheetName)
	}

	rows, err := sheet.Rows(wb)
	if err != nil {
		log.Fatalf("xlcat: %v", err)
	}
	defer rows.Close()

	if err := rows.WriteCSV(os.Stdout); err != nil {
		log.Fatalf("xlcat: %v", err)
	}
}
