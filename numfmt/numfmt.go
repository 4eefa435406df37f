// Package numfmt renders a resolved cell value to its display string using
// a SpreadsheetML number-format code. It is the optional rendering layer
// above worksheet.Value's plain Display text: the same format codes a
// spreadsheet application shows the user, rather than the sheet reader's
// canonical CSV-style text.
//
// The public entry point is [Render]. All format-string parsing is
// delegated to [github.com/xuri/nfp]; this package only implements the
// rendering logic on top of the resulting token stream.
package numfmt

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/nfp"

	"github.com/gosheets/xl/worksheet"
	"github.com/gosheets/xl/xldate"
)

// Render renders a resolved cell value v under formatCode, the format
// string resolved from the workbook's style table for that cell. epoch
// selects the date system Date/DateTime/Time values were converted under,
// needed to re-derive the raw serial for elapsed-time tokens.
//
// Strings are returned as-is (unquoted), bools as TRUE/FALSE and errors
// with a '#' prefix, whatever formatCode is. An empty formatCode is treated
// as "General"; under "General", or when formatCode yields no sections, a
// number renders in General style and a date/time value as
// "YYYY-MM-DD hh:mm:ss". This is not v's Display text.
func Render(v worksheet.Value, formatCode string, epoch xldate.System) string {
	effective := formatCode
	if effective == "" {
		effective = "General"
	}

	switch v.Kind {
	case worksheet.KindNone:
		return ""
	case worksheet.KindString:
		return v.Str
	case worksheet.KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case worksheet.KindError:
		return "#" + v.Err
	case worksheet.KindNumber:
		return formatNumber(v.Number, effective)
	case worksheet.KindDate, worksheet.KindDateTime, worksheet.KindTime:
		return formatTemporal(v, effective, epoch)
	}
	return v.String()
}

func formatNumber(val float64, effective string) string {
	if effective == "General" {
		return renderGeneral(val)
	}
	sections := parseSections(effective)
	if sections == nil {
		return renderGeneral(val)
	}
	sec := selectSection(sections, val)
	return renderNumber(val, sec, sections)
}

func formatTemporal(v worksheet.Value, effective string, epoch xldate.System) string {
	serial := serialOf(v.Time, epoch)
	if effective == "General" {
		return v.Time.Format("2006-01-02 15:04:05")
	}
	sections := parseSections(effective)
	if sections == nil {
		return v.Time.Format("2006-01-02 15:04:05")
	}
	sec := selectSection(sections, serial)
	return renderDateTime(v.Time, serial, sec)
}

// serialOf re-derives the fractional-day serial a time.Time was converted
// from. It drives section selection and the elapsed-time tokens ([h], [mm],
// [ss]), which operate on the raw serial rather than the wall-clock time.
func serialOf(t time.Time, epoch xldate.System) float64 {
	var base time.Time
	if epoch == xldate.V1904 {
		base = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	} else {
		base = time.Date(1899, 12, 31, 0, 0, 0, 0, time.UTC)
	}
	days := t.Sub(base).Hours() / 24
	if epoch != xldate.V1904 && days >= 60 {
		days++
	}
	return days
}

func parseSections(effective string) []nfp.Section {
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(effective)
	if len(sections) == 0 {
		return nil
	}
	return sections
}

// selectSection picks the correct section based on the value's sign.
//
//	1 section  → applies to all values
//	2 sections → [0]=positive+zero  [1]=negative
//	3 sections → [0]=positive  [1]=negative  [2]=zero
//	4 sections → [0]=positive  [1]=negative  [2]=zero  [3]=text
func selectSection(sections []nfp.Section, val float64) nfp.Section {
	switch {
	case len(sections) == 1:
		return sections[0]
	case len(sections) == 2:
		if val < 0 {
			return sections[1]
		}
		return sections[0]
	default:
		switch {
		case val > 0:
			return sections[0]
		case val < 0:
			return sections[1]
		default:
			return sections[2]
		}
	}
}

// renderGeneral formats a float64 in Excel's "General" style: integer
// values render without a decimal point; fractional values use Go's
// shortest-representation float.
func renderGeneral(val float64) string {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return strconv.FormatFloat(val, 'G', -1, 64)
	}
	if val == math.Trunc(val) && math.Abs(val) < 1e15 {
		return strconv.FormatInt(int64(val), 10)
	}
	return strconv.FormatFloat(val, 'G', -1, 64)
}

// renderDateTime renders a date/time value using the tokens in sec. serial
// is the raw fractional-day serial, needed by elapsed-time tokens.
func renderDateTime(t time.Time, serial float64, sec nfp.Section) string {
	hasAmPm := false
	for _, tok := range sec.Items {
		if tok.TType == nfp.TokenTypeDateTimes {
			upper := strings.ToUpper(tok.TValue)
			if upper == "AM/PM" || upper == "A/P" {
				hasAmPm = true
				break
			}
		}
	}

	var sb strings.Builder
	lastWasHour := false

	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeDateTimes:
			upper := strings.ToUpper(tok.TValue)
			sb.WriteString(renderDateToken(upper, t, hasAmPm, lastWasHour))
			lastWasHour = upper == "H" || upper == "HH"

		case nfp.TokenTypeElapsedDateTimes:
			upper := strings.ToUpper(tok.TValue)
			sb.WriteString(renderElapsed(upper, serial))
			lastWasHour = upper == "H" || upper == "HH"

		case nfp.TokenTypeLiteral:
			sb.WriteString(tok.TValue)

		default:
			lastWasHour = false
		}
	}

	if sb.Len() == 0 {
		return t.Format("2006-01-02 15:04:05")
	}
	return sb.String()
}

func renderDateToken(upper string, t time.Time, hasAmPm, lastWasHour bool) string {
	switch upper {
	case "YYYY":
		return fmt.Sprintf("%04d", t.Year())
	case "YY":
		return fmt.Sprintf("%02d", t.Year()%100)

	case "MMMM":
		return t.Month().String()
	case "MMM":
		return t.Month().String()[:3]
	case "MM":
		if lastWasHour {
			return fmt.Sprintf("%02d", t.Minute())
		}
		return fmt.Sprintf("%02d", int(t.Month()))
	case "M":
		if lastWasHour {
			return strconv.Itoa(t.Minute())
		}
		return strconv.Itoa(int(t.Month()))

	case "DDDD":
		return t.Weekday().String()
	case "DDD":
		return t.Weekday().String()[:3]
	case "DD":
		return fmt.Sprintf("%02d", t.Day())
	case "D":
		return strconv.Itoa(t.Day())

	case "HH":
		h := t.Hour()
		if hasAmPm {
			h = h%12
			if h == 0 {
				h = 12
			}
		}
		return fmt.Sprintf("%02d", h)
	case "H":
		h := t.Hour()
		if hasAmPm {
			h = h % 12
			if h == 0 {
				h = 12
			}
		}
		return strconv.Itoa(h)

	case "SS":
		return fmt.Sprintf("%02d", t.Second())
	case "S":
		return strconv.Itoa(t.Second())

	case "AM/PM":
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case "A/P":
		if t.Hour() < 12 {
			return "A"
		}
		return "P"
	}
	return ""
}

// renderElapsed renders an elapsed-time token ([h], [mm], [ss] — brackets
// already stripped by the parser) against the raw fractional-day serial.
func renderElapsed(upper string, serial float64) string {
	switch upper {
	case "H", "HH":
		return strconv.Itoa(int(serial * 24))
	case "MM":
		return fmt.Sprintf("%02d", int(serial*24*60)%60)
	case "M":
		return strconv.Itoa(int(serial*24*60) % 60)
	case "SS":
		return fmt.Sprintf("%02d", int(serial*24*3600)%60)
	case "S":
		return strconv.Itoa(int(serial*24*3600) % 60)
	}
	return ""
}

// renderNumber renders a numeric (non-date) value using the token section
// sec. sections is the full parsed set: a leading minus is written only when
// there is a single section and sec has no literal sign of its own.
func renderNumber(val float64, sec nfp.Section, sections []nfp.Section) string {
	type meta struct {
		hasPercent      bool
		hasThousands    bool
		decZeros        int
		decHashes       int
		intZeros        int
		hasDecimal      bool
		hasExplicitSign bool
	}
	var m meta
	afterDecimal := false
	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypePercent:
			m.hasPercent = true
		case nfp.TokenTypeThousandsSeparator:
			m.hasThousands = true
		case nfp.TokenTypeDecimalPoint:
			m.hasDecimal = true
			afterDecimal = true
		case nfp.TokenTypeZeroPlaceHolder:
			if afterDecimal {
				m.decZeros += len(tok.TValue)
			} else {
				m.intZeros += len(tok.TValue)
			}
		case nfp.TokenTypeHashPlaceHolder:
			if afterDecimal {
				m.decHashes += len(tok.TValue)
			}
		case nfp.TokenTypeLiteral:
			if tok.TValue == "+" || tok.TValue == "-" {
				m.hasExplicitSign = true
			}
		}
	}
	totalDecPlaces := m.decZeros + m.decHashes

	absVal := math.Abs(val)
	if m.hasPercent {
		absVal *= 100
	}

	var intStr, fracStr string
	if m.hasDecimal {
		formatted := strconv.FormatFloat(absVal, 'f', totalDecPlaces, 64)
		dotIdx := strings.IndexByte(formatted, '.')
		if dotIdx >= 0 {
			intStr = formatted[:dotIdx]
			fracStr = formatted[dotIdx+1:]
		} else {
			intStr = formatted
			fracStr = strings.Repeat("0", totalDecPlaces)
		}
		if m.decHashes > 0 && len(fracStr) > m.decZeros {
			trimTo := len(fracStr)
			for trimTo > m.decZeros && trimTo > 0 && fracStr[trimTo-1] == '0' {
				trimTo--
			}
			fracStr = fracStr[:trimTo]
		}
	} else {
		intStr = strconv.FormatFloat(absVal, 'f', 0, 64)
	}

	for len(intStr) < m.intZeros {
		intStr = "0" + intStr
	}

	if m.hasThousands && len(intStr) > 3 {
		intStr = insertThousandsSep(intStr)
	}

	needsMinus := false
	if val < 0 && !m.hasExplicitSign && len(sections) < 2 {
		needsMinus = true
	}

	var sb strings.Builder
	if needsMinus {
		sb.WriteByte('-')
	}

	intConsumed := false
	fracConsumed := false
	afterDecimal = false

	for _, tok := range sec.Items {
		switch tok.TType {
		case nfp.TokenTypeLiteral:
			sb.WriteString(tok.TValue)

		case nfp.TokenTypeDecimalPoint:
			if len(fracStr) > 0 {
				sb.WriteByte('.')
			}
			afterDecimal = true

		case nfp.TokenTypeZeroPlaceHolder, nfp.TokenTypeHashPlaceHolder:
			if afterDecimal {
				if !fracConsumed {
					sb.WriteString(fracStr)
					fracConsumed = true
				}
			} else if !intConsumed {
				sb.WriteString(intStr)
				intConsumed = true
			}

		case nfp.TokenTypePercent:
			sb.WriteByte('%')

		case nfp.TokenTypeThousandsSeparator:
			// already applied to intStr

		case nfp.TokenTypeColor, nfp.TokenTypeCondition,
			nfp.TokenTypeCurrencyLanguage, nfp.TokenTypeAlignment:
			// formatting-only tokens
		}
	}

	if !intConsumed && !afterDecimal {
		sb.WriteString(intStr)
	}

	if sb.Len() == 0 {
		return renderGeneral(val)
	}
	return sb.String()
}

// insertThousandsSep inserts commas every three digits from the right in an
// integer string (digits only, no sign).
func insertThousandsSep(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	b.Grow(n + n/3)
	rem := n % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < n; i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
