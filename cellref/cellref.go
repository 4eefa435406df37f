// Package cellref parses SpreadsheetML cell and range references such as
// "AB17" and "A1:D9".
package cellref

import (
	"fmt"
	"strconv"

	"github.com/gosheets/xl/column"
)

// Split divides a reference such as "AB17" into its alphabetic column
// letters and numeric row digits by scanning to the first non-alphabetic
// byte.
func Split(ref string) (letters, digits string) {
	i := 0
	for i < len(ref) && isAlpha(ref[i]) {
		i++
	}
	return ref[:i], ref[i:]
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// Coordinates parses a reference such as "AB17" into its 1-based (column,
// row) pair.
func Coordinates(ref string) (col, row int, err error) {
	letters, digits := Split(ref)
	if letters == "" || digits == "" {
		return 0, 0, fmt.Errorf("cellref: malformed reference %q", ref)
	}
	col, err = column.LetterToNum(letters)
	if err != nil {
		return 0, 0, fmt.Errorf("cellref: %q: %w", ref, err)
	}
	row, err = strconv.Atoi(digits)
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("cellref: malformed row in %q", ref)
	}
	return col, row, nil
}

// Join composes a reference string from a 1-based column and row, e.g.
// Join(28, 17) == "AB17".
func Join(col, row int) string {
	letters, err := column.NumToLetter(col)
	if err != nil {
		// Callers only ever pass columns already validated by the sheet
		// reader's own bookkeeping; fall back to the raw number rather
		// than panicking on a malformed internal invariant.
		return fmt.Sprintf("?%d%d", col, row)
	}
	return fmt.Sprintf("%s%d", letters, row)
}

// UsedArea parses a dimension range such as "A1:D9" and returns the
// lower-right extent (end column, end row). If rng has no colon it is not a
// range — the result (0, 0) means "unknown, infer from data".
func UsedArea(rng string) (cols, rows int) {
	lo, hi, ok := splitRange(rng)
	if !ok {
		return 0, 0
	}
	_ = lo
	letters, digits := Split(hi)
	col, err := column.LetterToNum(letters)
	if err != nil {
		return 0, 0
	}
	row, err := strconv.Atoi(digits)
	if err != nil {
		return 0, 0
	}
	return col, row
}

func splitRange(rng string) (lo, hi string, ok bool) {
	for i := 0; i < len(rng); i++ {
		if rng[i] == ':' {
			return rng[:i], rng[i+1:], true
		}
	}
	return "", "", false
}
