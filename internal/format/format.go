// Package format turns report values into the strings shown by the views.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	isoLayout = "2006-01-02T15:04:05.000Z"

	// significantDigits is the precision of Grouped.
	significantDigits = 12
)

var printer = message.NewPrinter(language.English)

// Count groups an integer with thousands separators: 12345 -> "12,345".
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Grouped rounds v to 12 significant digits, drops trailing zeros and groups
// the integer part with thousands separators: 1234.5 -> "1,234.5".
// Magnitudes of 1e12 and above keep exponent notation.
func Grouped(v float64) string {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', significantDigits, 64), 64)
	if err != nil || math.IsInf(rounded, 0) || math.IsNaN(rounded) {
		return strconv.FormatFloat(v, 'g', significantDigits, 64)
	}
	if rounded == 0 {
		return "0"
	}
	if math.Abs(rounded) >= 1e12 {
		return strconv.FormatFloat(rounded, 'g', significantDigits, 64)
	}

	digits := strconv.FormatFloat(math.Abs(rounded), 'f', -1, 64)
	whole, frac, _ := strings.Cut(digits, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return digits
	}

	out := printer.Sprintf("%d", n)
	if frac != "" {
		out += "." + frac
	}
	if rounded < 0 {
		out = "-" + out
	}
	return out
}

// Fixed6 prints v with six decimals. A value that rounds to zero loses its
// sign.
func Fixed6(v float64) string {
	out := fmt.Sprintf("%.6f", v)
	if out == "-0.000000" {
		return "0.000000"
	}
	return out
}

// Ordinal returns n with its English suffix: 1st, 2nd, 3rd, 11th, 112th, 121st.
func Ordinal(n int) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}

	suffix := "th"
	switch abs % 100 {
	case 11, 12, 13:
	default:
		switch abs % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// ISOTime renders t in UTC with millisecond precision.
func ISOTime(t time.Time) string {
	return t.UTC().Format(isoLayout)
}
