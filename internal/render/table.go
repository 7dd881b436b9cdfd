package render

import (
	"strconv"
	"strings"

	"github.com/invoiceartisan/invoice-artisan/internal/format"
	"github.com/invoiceartisan/invoice-artisan/internal/invoice"
	"github.com/invoiceartisan/invoice-artisan/internal/template"
)

var tableHeaders = [5]string{"No.", "Item & Description", "Quantity", "Rate", "Amount"}

// Per-column text alignment is fixed: index and quantity centered,
// description left, rate and amount right.
var columnAligns = [5]string{"CM", "LM", "CM", "RM", "RM"}

const (
	itemLineHeight = 12.0
	descLineHeight = 11.0
	cellInset      = 4.0
)

// itemsTable draws the header row, one row per item, a spacer row and the
// three totals rows. Alternating shading applies to item rows only.
func (l *layout) itemsTable() {
	l.tableHeaderRow()

	shadeRows := l.tpl.HasFeature("alternating_rows")
	for i, item := range l.rec.Items {
		l.itemRow(i+1, item, shadeRows && i%2 == 0)
	}

	// Spacer row before the totals for breathing room.
	l.gap(8)
	l.totalsRows()
}

func (l *layout) tableHeaderRow() {
	h := 2*l.tablePad + itemLineHeight
	y := l.doc.GetY()

	l.setFill(l.primary)
	l.setDraw(l.rule)
	l.doc.SetLineWidth(0.5)
	l.doc.Rect(pageMargin, y, l.contentWidth, h, "F")

	l.setFont(l.fHeader)
	l.setText(l.headerText)
	x := pageMargin
	for i, header := range tableHeaders {
		l.doc.SetXY(x+cellInset, y+l.tablePad)
		l.doc.CellFormat(l.colWidths[i]-2*cellInset, itemLineHeight, header, "", 0, columnAligns[i], false, 0, "")
		x += l.colWidths[i]
	}
	l.doc.SetY(y + h)
}

// breakPage starts a new page when a row of height h would not fit, and
// repeats the table header on the new page.
func (l *layout) breakPage(h float64) {
	if l.doc.GetY()+h <= pageHeight-pageMargin {
		return
	}
	l.doc.AddPage()
	l.tableHeaderRow()
}

func (l *layout) itemRow(num int, item invoice.LineItem, shaded bool) {
	name := strings.TrimSpace(item.Name)
	desc := strings.TrimSpace(item.Description)
	if name == "" {
		// Only a description: promote it to the item line.
		name, desc = desc, ""
	}

	h := 2*l.tablePad + itemLineHeight
	if desc != "" {
		h += descLineHeight
	}
	l.breakPage(h)
	y := l.doc.GetY()

	if shaded {
		l.setFill(l.rowAlt)
		l.doc.Rect(pageMargin, y, l.contentWidth, h, "F")
	}

	// Light cell grid, matching the header area.
	l.setDraw(l.rule)
	l.doc.SetLineWidth(0.5)
	x := pageMargin
	for _, w := range l.colWidths {
		l.doc.Rect(x, y, w, h, "D")
		x += w
	}

	textTop := y + l.tablePad
	col := func(i int) float64 {
		offset := pageMargin
		for j := 0; j < i; j++ {
			offset += l.colWidths[j]
		}
		return offset
	}
	cell := func(i int, text string, f template.Font, c rgb) {
		l.setFont(f)
		l.setText(c)
		l.doc.SetXY(col(i)+cellInset, textTop)
		l.doc.CellFormat(l.colWidths[i]-2*cellInset, itemLineHeight, l.tr(text), "", 0, columnAligns[i], false, 0, "")
	}

	dark := rgb{40, 40, 40}
	boldBody := template.Font{Family: l.fBody.Family, Style: "B", Size: l.fBody.Size}

	cell(0, strconv.Itoa(num), l.fBody, dark)
	cell(1, name, boldBody, dark)
	if desc != "" {
		l.setFont(l.fSmall)
		l.setText(l.muted)
		l.doc.SetXY(col(1)+cellInset, textTop+itemLineHeight)
		l.doc.CellFormat(l.colWidths[1]-2*cellInset, descLineHeight, l.tr(desc), "", 0, "LM", false, 0, "")
	}
	cell(2, formatQuantity(item.Quantity, item.Unit), l.fBody, dark)
	cell(3, format.Currency(item.Rate), l.fBody, dark)
	cell(4, format.Currency(item.Amount()), l.fBody, dark)

	l.doc.SetY(y + h)
}

// totalsRows prints Subtotal, Tax at the record's percentage, and Total. The
// labels sit in the rate column, the values in the amount column, with an
// accent rule above the block and below the total.
func (l *layout) totalsRows() {
	l.breakPage(3*(2*l.tablePad+itemLineHeight) + 4)

	labelX := pageMargin + l.colWidths[0] + l.colWidths[1] + l.colWidths[2]
	labelW := l.colWidths[3]
	valueW := l.colWidths[4]
	rowH := 2*l.tablePad + itemLineHeight

	y := l.doc.GetY()
	l.setDraw(l.primary)
	l.doc.SetLineWidth(1)
	l.doc.Line(labelX, y, pageMargin+l.contentWidth, y)

	rows := []struct {
		label string
		value float64
		font  template.Font
		color rgb
	}{
		{"Subtotal:", l.rec.Subtotal(), l.fBody, rgb{40, 40, 40}},
		{"Tax (" + format.Percent(l.rec.TaxRate) + "):", l.rec.Tax(), l.fBody, rgb{40, 40, 40}},
		{"Total:", l.rec.Total(), l.fTotal, l.primary},
	}

	for _, row := range rows {
		l.setFont(row.font)
		l.setText(row.color)
		l.doc.SetXY(labelX, y)
		l.doc.CellFormat(labelW, rowH, l.tr(row.label), "", 0, "RM", false, 0, "")
		l.doc.CellFormat(valueW-cellInset, rowH, format.Currency(row.value), "", 0, "RM", false, 0, "")
		y += rowH
	}

	l.setDraw(l.primary)
	l.doc.SetLineWidth(1.5)
	l.doc.Line(labelX, y, pageMargin+l.contentWidth, y)
	l.doc.SetY(y + 2)
}

// formatQuantity keeps quantities free of trailing zeros (40, not 40.00) and
// appends the presentational unit when one is set.
func formatQuantity(q float64, unit string) string {
	s := strconv.FormatFloat(q, 'f', -1, 64)
	if unit != "" {
		return s + " " + unit
	}
	return s
}
