package render

import (
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/invoiceartisan/invoice-artisan/internal/format"
	"github.com/invoiceartisan/invoice-artisan/internal/invoice"
	"github.com/invoiceartisan/invoice-artisan/internal/template"
)

// paymentDetailsMarker splits the general terms prose from the payment
// sub-block. The split happens at the first occurrence only.
const paymentDetailsMarker = "Payment Details:"

// thanksPhrases suppress a redundant notes block: the fixed footer caption
// already thanks the client, so notes that only repeat it are dropped.
var thanksPhrases = []string{"thank", "thanks", "thank you", "business"}

// Item table column proportions: No., Item & Description, Quantity, Rate,
// Amount. Scaled to the content width at layout time.
var columnUnits = [5]float64{0.5, 4, 0.75, 1.25, 1}

type rgb struct{ r, g, b int }

// hexRGB parses "#rrggbb" (or "#rgb") into color components, black on any
// malformed value so a bad template never fails a render.
func hexRGB(s string) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return rgb{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}
	}
	return rgb{r: int(v >> 16 & 0xff), g: int(v >> 8 & 0xff), b: int(v & 0xff)}
}

// layout walks the fixed step sequence of one invoice page flow: header
// band, rule, company block, bill-to row, items table, notes, terms, footer.
type layout struct {
	doc *gofpdf.Fpdf
	tr  func(string) string
	rec *invoice.Record
	tpl template.Template

	logoPath     string
	contentWidth float64
	colWidths    [5]float64

	// resolved styling
	primary, accent, muted, rowAlt, rule, headerText, footerText rgb
	fTitle, fBody, fSmall, fHeader, fTotal, fFooter              template.Font
	sectionGap, lineHeight, tablePad, ruleThickness              float64
}

func newLayout(doc *gofpdf.Fpdf, rec *invoice.Record, tpl template.Template, logoPath string) *layout {
	l := &layout{
		doc:          doc,
		tr:           doc.UnicodeTranslatorFromDescriptor(""),
		rec:          rec,
		tpl:          tpl,
		logoPath:     logoPath,
		contentWidth: pageWidth - 2*pageMargin,
	}

	l.primary = hexRGB(tpl.Color("primary", "#2c3e50"))
	l.accent = hexRGB(tpl.Color("accent", "#3498db"))
	l.muted = hexRGB(tpl.Color("muted", "#7f8c8d"))
	l.rowAlt = hexRGB(tpl.Color("row_alt", "#f8f9fa"))
	l.rule = hexRGB(tpl.Color("rule", "#e9ecef"))
	l.headerText = hexRGB(tpl.Color("table_header_text", "#ffffff"))
	l.footerText = hexRGB(tpl.Color("footer", "#808080"))

	l.fTitle = tpl.Font("title", template.Font{Family: "Helvetica", Style: "B", Size: 28})
	l.fBody = tpl.Font("body", template.Font{Family: "Helvetica", Size: 10})
	l.fSmall = tpl.Font("small", template.Font{Family: "Helvetica", Size: 9})
	l.fHeader = tpl.Font("table_header", template.Font{Family: "Helvetica", Style: "B", Size: 10})
	l.fTotal = tpl.Font("total", template.Font{Family: "Helvetica", Style: "B", Size: 12})
	l.fFooter = tpl.Font("footer", template.Font{Family: "Helvetica", Size: 9})

	l.sectionGap = tpl.Space("section_gap", 15)
	l.lineHeight = tpl.Space("line_height", 16)
	l.tablePad = tpl.Space("table_padding", 6)
	l.ruleThickness = tpl.Space("rule_thickness", 1)

	total := 0.0
	for _, u := range columnUnits {
		total += u
	}
	for i, u := range columnUnits {
		l.colWidths[i] = l.contentWidth * u / total
	}

	return l
}

func (l *layout) run() {
	l.headerBand()
	l.separator(l.ruleThickness)
	l.companyBlock()
	l.billToRow()
	l.itemsTable()
	l.notesBlock()
	l.termsBlock()
	l.footerBlock()
}

func (l *layout) setFont(f template.Font) {
	l.doc.SetFont(f.Family, f.Style, f.Size)
}

func (l *layout) setText(c rgb) { l.doc.SetTextColor(c.r, c.g, c.b) }
func (l *layout) setDraw(c rgb) { l.doc.SetDrawColor(c.r, c.g, c.b) }
func (l *layout) setFill(c rgb) { l.doc.SetFillColor(c.r, c.g, c.b) }
func (l *layout) resetText()    { l.doc.SetTextColor(40, 40, 40) }
func (l *layout) gap(h float64) { l.doc.SetY(l.doc.GetY() + h) }

// headerBand draws the logo (or its textual placeholder) left-aligned and the
// invoice title plus number right-aligned on the same band.
func (l *layout) headerBand() {
	top := pageMargin
	bandHeight := 48.0

	if l.logoPath != "" && l.tpl.HasFeature("logo") {
		// 2 x 1.4 inch logo box, matching the original layout.
		l.doc.ImageOptions(l.logoPath, pageMargin, top, 144, 100.8, false,
			gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		bandHeight = 100.8
	} else {
		l.setFont(template.Font{Family: l.fBody.Family, Size: 12})
		l.setText(l.muted)
		l.doc.SetXY(pageMargin, top)
		l.doc.CellFormat(144, 30, l.tr("¤ "+l.rec.Company.Name), "", 0, "LM", false, 0, "")
	}

	l.doc.SetXY(pageMargin, top)
	l.setFont(l.fTitle)
	l.setText(l.primary)
	l.doc.CellFormat(l.contentWidth, 30, "INVOICE", "", 2, "RM", false, 0, "")

	l.setFont(l.fBody)
	l.setText(l.accent)
	l.doc.CellFormat(l.contentWidth, 14, l.tr("# "+l.rec.Invoice.Number), "", 1, "RM", false, 0, "")

	l.doc.SetY(top + bandHeight + l.sectionGap)
}

func (l *layout) separator(thickness float64) {
	y := l.doc.GetY()
	l.setDraw(l.rule)
	l.doc.SetLineWidth(thickness)
	l.doc.Line(pageMargin, y, pageMargin+l.contentWidth, y)
	l.doc.SetY(y + 10)
}

// companyBlock prints the issuing company address paragraph. Blank optional
// lines are omitted, not rendered as empty placeholders.
func (l *layout) companyBlock() {
	c := l.rec.Company

	l.setFont(template.Font{Family: l.fBody.Family, Style: "B", Size: 12})
	l.setText(l.primary)
	l.doc.CellFormat(l.contentWidth, l.lineHeight, l.tr(c.Name), "", 1, "LM", false, 0, "")

	l.setFont(l.fBody)
	l.resetText()
	for _, line := range []string{
		c.Address1,
		c.Address2,
		c.City + ", " + c.State + " " + c.Zip,
		c.Country,
		c.Phone,
		c.Email,
	} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.doc.CellFormat(l.contentWidth, l.lineHeight, l.tr(line), "", 1, "LM", false, 0, "")
	}

	l.gap(l.sectionGap)
}

// billToRow draws the two-column row: client address left, invoice meta
// (month, date, due date) right-aligned with accent labels.
func (l *layout) billToRow() {
	yStart := l.doc.GetY()
	leftWidth := l.contentWidth * 2 / 3

	l.setFont(template.Font{Family: l.fBody.Family, Style: "B", Size: 11})
	l.setText(l.primary)
	l.doc.CellFormat(leftWidth, l.lineHeight, "BILL TO:", "", 1, "LM", false, 0, "")

	cl := l.rec.Client
	l.setFont(l.fBody)
	l.resetText()
	for _, line := range []string{
		cl.Name,
		cl.Address,
		cl.City + ", " + cl.State + " " + cl.Zip,
		cl.Country,
	} {
		if strings.TrimSpace(line) == "" {
			continue
		}
		l.doc.CellFormat(leftWidth, l.lineHeight, l.tr(line), "", 1, "LM", false, 0, "")
	}
	leftEnd := l.doc.GetY()

	// Right column, rendered label-by-value so the labels stay bold while the
	// pair remains right-aligned as a unit.
	y := yStart + l.lineHeight // below the BILL TO title row
	meta := [][2]string{
		{"Month:", l.rec.Invoice.Month},
		{"Date:", format.LongDate(l.rec.Invoice.Date)},
		{"Due Date:", format.LongDate(l.rec.Invoice.DueDate)},
	}
	for _, pair := range meta {
		if strings.TrimSpace(pair[1]) == "" {
			continue
		}
		label, value := pair[0], " "+pair[1]

		l.setFont(template.Font{Family: l.fBody.Family, Style: "B", Size: l.fBody.Size})
		labelWidth := l.doc.GetStringWidth(label)
		l.setFont(l.fBody)
		valueWidth := l.doc.GetStringWidth(l.tr(value))

		l.doc.SetXY(pageMargin+l.contentWidth-labelWidth-valueWidth-1, y)
		l.setFont(template.Font{Family: l.fBody.Family, Style: "B", Size: l.fBody.Size})
		l.setText(l.accent)
		l.doc.CellFormat(labelWidth, l.lineHeight, label, "", 0, "LM", false, 0, "")
		l.setFont(l.fBody)
		l.resetText()
		l.doc.CellFormat(valueWidth+1, l.lineHeight, l.tr(value), "", 0, "LM", false, 0, "")
		y += l.lineHeight
	}

	if y > leftEnd {
		l.doc.SetY(y)
	} else {
		l.doc.SetY(leftEnd)
	}
	l.gap(l.sectionGap)
}

func (l *layout) notesBlock() {
	notes := strings.TrimSpace(l.rec.Notes)
	if notes == "" || isBoilerplateThanks(notes) {
		return
	}

	l.gap(l.sectionGap)
	l.setFont(template.Font{Family: l.fBody.Family, Style: "B", Size: 10})
	l.setText(l.primary)
	l.doc.CellFormat(l.contentWidth, 14, "Notes:", "", 1, "LM", false, 0, "")

	l.setFont(l.fSmall)
	l.resetText()
	l.doc.SetX(pageMargin + 10)
	l.doc.MultiCell(l.contentWidth-20, 11, l.tr(notes), "", "L", false)
}

// isBoilerplateThanks reports whether notes only repeat the fixed footer
// caption's sentiment.
func isBoilerplateThanks(notes string) bool {
	lower := strings.ToLower(notes)
	for _, phrase := range thanksPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// termsBlock renders the terms prose. Text after the first "Payment Details:"
// marker becomes a labeled sub-block with per-line label/value bolding.
func (l *layout) termsBlock() {
	terms := l.rec.Terms
	if strings.TrimSpace(terms) == "" {
		return
	}

	l.gap(l.sectionGap)
	l.setFont(template.Font{Family: l.fBody.Family, Style: "B", Size: 10})
	l.setText(l.primary)
	l.doc.CellFormat(l.contentWidth, 14, "Terms & Conditions:", "", 1, "LM", false, 0, "")

	general := terms
	if before, after, found := strings.Cut(terms, paymentDetailsMarker); found {
		general = before
		l.paymentDetails(after)
	}

	if g := strings.TrimSpace(general); g != "" {
		l.gap(2)
		l.setFont(l.fSmall)
		l.resetText()
		l.doc.SetX(pageMargin + 10)
		l.doc.MultiCell(l.contentWidth-20, 11, l.tr(g), "", "L", false)
	}
}

func (l *layout) paymentDetails(block string) {
	l.gap(2)
	l.setFont(template.Font{Family: l.fSmall.Family, Style: "B", Size: l.fSmall.Size})
	l.setText(l.accent)
	l.doc.SetX(pageMargin + 10)
	l.doc.CellFormat(l.contentWidth-20, 12, paymentDetailsMarker, "", 1, "LM", false, 0, "")

	for _, line := range strings.Split(strings.TrimSpace(block), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		l.doc.SetX(pageMargin + 10)
		if label, value, found := strings.Cut(line, ":"); found {
			l.setFont(template.Font{Family: l.fSmall.Family, Style: "B", Size: l.fSmall.Size})
			l.resetText()
			labelText := l.tr(label + ": ")
			l.doc.CellFormat(l.doc.GetStringWidth(labelText)+1, 11, labelText, "", 0, "LM", false, 0, "")
			l.setFont(l.fSmall)
			l.doc.CellFormat(0, 11, l.tr(strings.TrimSpace(value)), "", 1, "LM", false, 0, "")
		} else {
			l.setFont(l.fSmall)
			l.resetText()
			l.doc.CellFormat(0, 11, l.tr(line), "", 1, "LM", false, 0, "")
		}
	}
	l.gap(3)
}

// footerBlock is fixed: rule plus centered caption, present on every invoice
// regardless of template or record content.
func (l *layout) footerBlock() {
	l.gap(l.sectionGap)
	l.separator(l.ruleThickness)

	l.setFont(l.fFooter)
	l.setText(l.footerText)
	l.doc.CellFormat(l.contentWidth, 12, FooterCaption, "", 1, "CM", false, 0, "")
}
