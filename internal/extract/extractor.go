// Package extract recovers an approximate invoice record from the text of a
// rendered document. It is a best-effort seeding tool built from ordered
// pattern-matching heuristics over one known layout family: every step may
// fail independently, each failure degrades to a default value and a warning,
// and the output never reflects more than the patterns could find. Output
// needs manual review before it is trusted.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/invoiceartisan/invoice-artisan/internal/format"
	"github.com/invoiceartisan/invoice-artisan/internal/invoice"
)

// Section markers of the known layout.
const (
	itemsStartMarker = "Item & Description"
	itemsEndMarker   = "Notes"
	billToMarker     = "BILL TO"
	termsMarker      = "Terms & Conditions"
)

// dueDateDefaultDays is added to the invoice date when no due date is found.
const dueDateDefaultDays = 30

var (
	invoiceNumberRe = regexp.MustCompile(`#\s*(INV-[0-9][0-9-]*)`)
	monthLabelRe    = regexp.MustCompile(`Month\s*:\s*([A-Za-z]+)`)
	taxLabelRe      = regexp.MustCompile(`Tax\s*\(\s*(\d+(?:\.\d+)?)\s*%\s*\)`)
	notesRe         = regexp.MustCompile(`(?s)Notes\s*:?\s*(.*?)(?:Terms & Conditions|$)`)
	termsRe         = regexp.MustCompile(`(?s)Terms & Conditions\s*:?\s*(.*?)(?:\n\s*\n|$)`)

	// One item per line: optional row number, label, quantity, rate, amount.
	// The amount is matched but discarded; it is always recomputed.
	itemLineRe = regexp.MustCompile(`^\s*(?:\d+\s+)?(.+?)\s+(\d+(?:\.\d+)?)\s+\$?([\d,]+(?:\.\d+)?)\s+\$?([\d,]+(?:\.\d+)?)\s*$`)

	datePatterns    = labeledDatePatterns("Invoice Date", "Date")
	dueDatePatterns = labeledDatePatterns("Due Date", "Due")
)

// labeledDatePatterns builds the ordered pattern list for a set of labels,
// each supporting "January 2, 2006", "2 Jan 2006" and "2/1/2006" forms.
func labeledDatePatterns(labels ...string) []*regexp.Regexp {
	tokens := []string{
		`[A-Za-z]+\s+\d{1,2},\s+\d{4}`,
		`\d{1,2}\s+[A-Za-z]+\s+\d{4}`,
		`\d{1,2}[-/]\d{1,2}[-/]\d{2,4}`,
	}
	var patterns []*regexp.Regexp
	for _, label := range labels {
		for _, token := range tokens {
			patterns = append(patterns, regexp.MustCompile(label+`\s*:\s*(`+token+`)`))
		}
	}
	return patterns
}

// Result is a structurally complete record plus the warnings accumulated
// while building it. A non-empty warning list means the record contains
// placeholder or defaulted values.
type Result struct {
	Record   *invoice.Record
	Warnings []string
}

// Extractor recovers invoice records from document text. The clock is
// injectable so date defaulting is testable.
type Extractor struct {
	now func() time.Time
}

// New creates an extractor using the wall clock.
func New() *Extractor {
	return &Extractor{now: time.Now}
}

// NewWithClock creates an extractor with a fixed clock, for tests.
func NewWithClock(now func() time.Time) *Extractor {
	return &Extractor{now: now}
}

// Extract runs every heuristic over the document text and always returns a
// structurally valid record: required fields that cannot be recovered are
// populated with defaults, never left empty.
func (e *Extractor) Extract(text string) *Result {
	res := &Result{Record: &invoice.Record{}}
	warn := func(msg string, args ...any) {
		res.Warnings = append(res.Warnings, fmt.Sprintf(msg, args...))
	}

	e.extractNumber(text, res.Record, warn)
	e.extractDates(text, res.Record, warn)
	e.extractParties(text, res.Record, warn)
	e.extractItems(text, res.Record, warn)
	e.extractTaxRate(text, res.Record)
	e.extractNotesAndTerms(text, res.Record)

	return res
}

func (e *Extractor) extractNumber(text string, rec *invoice.Record, warn func(string, ...any)) {
	if m := invoiceNumberRe.FindStringSubmatch(text); m != nil {
		rec.Invoice.Number = strings.TrimSpace(m[1])
		return
	}
	rec.Invoice.Number = "INV-0000"
	warn("invoice number not found, defaulted to %s", rec.Invoice.Number)
}

// extractDates tries the labeled due-date patterns first and removes the
// match from the scratch text, so the bare "Date:" patterns cannot latch onto
// the "Due Date:" label.
func (e *Extractor) extractDates(text string, rec *invoice.Record, warn func(string, ...any)) {
	scratch := text
	for _, re := range dueDatePatterns {
		loc := re.FindStringSubmatchIndex(scratch)
		if loc == nil {
			continue
		}
		if t, ok := format.ParseFlexibleDate(scratch[loc[2]:loc[3]]); ok {
			rec.Invoice.DueDate = t.Format(format.ISODate)
			scratch = scratch[:loc[0]] + scratch[loc[1]:]
			break
		}
	}

	for _, re := range datePatterns {
		m := re.FindStringSubmatch(scratch)
		if m == nil {
			continue
		}
		if t, ok := format.ParseFlexibleDate(m[1]); ok {
			rec.Invoice.Date = t.Format(format.ISODate)
			break
		}
	}

	// The extractor always yields some date, never an empty field.
	if rec.Invoice.Date == "" {
		rec.Invoice.Date = e.now().Format(format.ISODate)
		warn("invoice date not found, defaulted to today")
	}
	if rec.Invoice.DueDate == "" {
		rec.Invoice.DueDate = e.now().AddDate(0, 0, dueDateDefaultDays).Format(format.ISODate)
		warn("due date not found, defaulted to today+%d days", dueDateDefaultDays)
	}

	if m := monthLabelRe.FindStringSubmatch(text); m != nil {
		rec.Invoice.Month = m[1]
	}
}

func (e *Extractor) extractItems(text string, rec *invoice.Record, warn func(string, ...any)) {
	section := sliceBetween(text, itemsStartMarker, itemsEndMarker)

	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || isTableHeaderLine(line) {
			continue
		}
		m := itemLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		label := strings.TrimSpace(m[1])
		qty, qtyOK := parseAmount(m[2])
		rate, rateOK := parseAmount(m[3])
		if label == "" || !qtyOK || !rateOK {
			continue
		}
		rec.Items = append(rec.Items, invoice.LineItem{
			Description: label,
			Quantity:    qty,
			Rate:        rate,
		})
	}

	if len(rec.Items) == 0 {
		// Keep the record structurally valid; the placeholder is obvious
		// enough that nobody bills from it by accident.
		rec.Items = []invoice.LineItem{{
			Description: "Unrecovered line item",
			Quantity:    1,
			Rate:        0,
		}}
		warn("no line items recovered, placeholder item inserted")
	}
}

func (e *Extractor) extractTaxRate(text string, rec *invoice.Record) {
	if m := taxLabelRe.FindStringSubmatch(text); m != nil {
		if pct, ok := parseAmount(m[1]); ok {
			rec.TaxRate = pct / 100
		}
	}
}

func (e *Extractor) extractNotesAndTerms(text string, rec *invoice.Record) {
	if m := notesRe.FindStringSubmatch(text); m != nil {
		rec.Notes = strings.TrimSpace(m[1])
	}
	if idx := strings.Index(text, termsMarker); idx >= 0 {
		if m := termsRe.FindStringSubmatch(text[idx:]); m != nil {
			rec.Terms = strings.TrimSpace(m[1])
		}
	}
}

// sliceBetween returns the text between the first occurrence of start and the
// first occurrence of end after it, or "" when either marker is missing.
func sliceBetween(text, start, end string) string {
	s := strings.Index(text, start)
	if s < 0 {
		return ""
	}
	s += len(start)
	rest := text[s:]
	e := strings.Index(rest, end)
	if e < 0 {
		return rest
	}
	return rest[:e]
}

func isTableHeaderLine(line string) bool {
	lower := strings.ToLower(line)
	for _, prefix := range []string{"no.", "item", "description", "quantity", "qty", "rate", "amount"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// parseAmount parses a numeric token that may carry currency grouping.
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.TrimPrefix(s, "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
