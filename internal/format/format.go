// Package format holds the shared money and date formatting helpers used by
// both the renderer and the extractor. All functions are pure.
package format

import (
	"strconv"
	"strings"
	"time"
)

// ISODate is the storage form for invoice dates.
const ISODate = "2006-01-02"

// longDate is the human form shown on rendered invoices, e.g. "March 28, 2025".
const longDate = "January 2, 2006"

// flexibleLayouts are the date shapes the extractor accepts, tried in order.
var flexibleLayouts = []string{
	"2 Jan 2006",
	"2 January 2006",
	"2/1/2006",
	"2/1/06",
	"2-1-2006",
	longDate,
	ISODate,
}

// Currency renders a dollar amount as "$" plus a thousands-grouped value with
// exactly two decimal places, e.g. 3620 -> "$3,620.00".
func Currency(amount float64) string {
	neg := false
	if amount < 0 {
		neg = true
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	intPart, fracPart := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	b.WriteString(fracPart)
	return b.String()
}

// Percent renders a decimal tax fraction as a percentage label with one
// decimal place, e.g. 0.085 -> "8.5%".
func Percent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64) + "%"
}

// LongDate reformats a stored ISO date into its long human form. If the value
// does not parse as an ISO date it is returned unchanged so a bad date never
// fails a render.
func LongDate(iso string) string {
	t, err := time.Parse(ISODate, iso)
	if err != nil {
		return iso
	}
	return t.Format(longDate)
}

// ParseFlexibleDate parses a date recovered from document text. It accepts the
// labeled-date forms the renderer emits as well as day-first numeric forms.
func ParseFlexibleDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range flexibleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
