// Package xldate converts SpreadsheetML date/time serial numbers to calendar
// values under the two date systems a workbook may declare.
package xldate

import (
	"math"
	"time"
)

// System selects the epoch a workbook's date serials are counted from.
type System int

const (
	// V1900 counts serials from 1-Jan-1900 and reproduces the historical
	// Lotus 1-2-3 leap-year defect: serial 60 is treated as the
	// non-existent 29-Feb-1900.
	V1900 System = iota
	// V1904 counts serials from 1-Jan-1904 with no leap-year compensation.
	V1904
)

// Kind classifies the shape of a converted serial.
type Kind int

const (
	// Number means the serial could not be interpreted as a calendar value
	// (negative, non-finite, or the V1900 date-zero) and should be emitted
	// as a plain number instead.
	Number Kind = iota
	Date
	DateTime
	Time
)

// Result is the outcome of converting one serial number.
type Result struct {
	Kind  Kind
	Time  time.Time
	Value float64 // the original serial, always populated
}

var (
	v1900Base = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	v1900Zero = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)
	v1904Base = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Convert converts a serial number to a calendar value under sys, following
// the rules in the date-serial converter: negative or non-finite serials,
// and the V1900 date-zero, fall back to Number; an integral serial ≥ 1
// (or, under V1904, an integral serial of 0, since 0 is itself the V1904
// epoch date rather than a non-date placeholder) becomes a Date; a serial
// whose integer part is 0 and whose fractional part is positive becomes a
// Time; anything else becomes a DateTime.
func Convert(serial float64, sys System) Result {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 {
		return Result{Kind: Number, Value: serial}
	}
	if sys == V1900 && serial == 0 {
		return Result{Kind: Number, Value: serial}
	}

	t := toTime(serial, sys)

	intPart := math.Trunc(serial)
	frac := serial - intPart
	switch {
	case frac == 0 && (serial >= 1 || sys == V1904):
		return Result{Kind: Date, Time: t, Value: serial}
	case intPart == 0 && frac > 0:
		return Result{Kind: Time, Time: t, Value: serial}
	default:
		return Result{Kind: DateTime, Time: t, Value: serial}
	}
}

// toTime performs the raw epoch arithmetic, including the V1900 leap-year
// compensation: days are counted from a 31-Dec-1899 base and serials ≥ 61 are
// shifted back one day, so serial 1 lands on 1-Jan-1900 and serial 61 on
// 1-Mar-1900. Serial 60 (the fictitious 29-Feb-1900, which time.Time cannot
// represent) is not shifted and also lands on 1-Mar-1900.
func toTime(serial float64, sys System) time.Time {
	intPart := int64(math.Trunc(serial))
	fracSec := int64(math.Round((serial - math.Trunc(serial)) * 86400))
	if fracSec < 0 {
		fracSec = 0
	} else if fracSec > 86399 {
		fracSec = 86399
	}

	if sys == V1904 {
		return v1904Base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second)
	}

	switch {
	case intPart == 0:
		return v1900Zero.Add(time.Duration(fracSec) * time.Second)
	case intPart >= 61:
		return v1900Base.Add(time.Duration(intPart-1)*24*time.Hour + time.Duration(fracSec)*time.Second)
	default:
		return v1900Base.Add(time.Duration(intPart)*24*time.Hour + time.Duration(fracSec)*time.Second)
	}
}
