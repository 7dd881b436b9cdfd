package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoiceartisan/invoice-artisan/internal/invoice"
	"github.com/invoiceartisan/invoice-artisan/internal/pdfio"
	"github.com/invoiceartisan/invoice-artisan/internal/template"
)

func sampleRecord() *invoice.Record {
	return &invoice.Record{
		Invoice: invoice.Header{
			Number:  "INV-2025-010",
			Date:    "2025-03-01",
			DueDate: "2025-03-31",
			Month:   "March",
		},
		Company: invoice.Company{
			Name:     "Acme Consulting",
			Address1: "123 Business Street",
			City:     "Springfield",
			State:    "IL",
			Zip:      "62701",
			Country:  "United States",
			Email:    "billing@acme.test",
			Phone:    "+1 555 0100",
		},
		Client: invoice.Client{
			Name:    "Widget Corp",
			Address: "1 Widget Way",
			City:    "Shelbyville",
			State:   "IL",
			Zip:     "62565",
			Country: "United States",
		},
		Items: []invoice.LineItem{
			{Name: "Consulting", Description: "Senior engineering time", Quantity: 40, Rate: 75},
			{Name: "Support retainer", Quantity: 10, Rate: 50},
			{Description: "One-time setup fee", Quantity: 1, Rate: 120},
		},
		TaxRate: 0.085,
		Notes:   "PO 4471 applies to this invoice.",
		Terms:   "Net 30.\nPayment Details:\nBank: Acme Bank\nIBAN: XX00",
	}
}

func newTestRenderer() *Renderer {
	return NewRenderer(template.NewRegistry(), nil)
}

// renderedText renders the record and reads the text back out of the
// produced document, exactly the way the extractor's collaborator would.
func renderedText(t *testing.T, r *Renderer, rec *invoice.Record, templateID string) string {
	t.Helper()
	data, err := r.Render(rec, templateID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data[:8]), "%PDF-"), "output does not start with a PDF header")
	require.NoError(t, pdfio.ValidateBytes(data))

	text, err := pdfio.NewReader(64 * 1024 * 1024).ReadTextBytes(data)
	require.NoError(t, err)
	return text
}

func TestRenderTotalsBlock(t *testing.T) {
	text := renderedText(t, newTestRenderer(), sampleRecord(), template.DefaultID)

	// 40*75 + 10*50 + 1*120 = 3620, tax 8.5% = 307.70, total 3927.70.
	assert.Contains(t, text, "Subtotal:")
	assert.Contains(t, text, "$3,620.00")
	assert.Contains(t, text, "Tax (8.5%):")
	assert.Contains(t, text, "$307.70")
	assert.Contains(t, text, "Total:")
	assert.Contains(t, text, "$3,927.70")
}

func TestRenderHeaderAndAddressBlocks(t *testing.T) {
	text := renderedText(t, newTestRenderer(), sampleRecord(), template.DefaultID)

	assert.Contains(t, text, "INVOICE")
	assert.Contains(t, text, "# INV-2025-010")
	assert.Contains(t, text, "Acme Consulting")
	assert.Contains(t, text, "Springfield, IL 62701")
	assert.Contains(t, text, "BILL TO:")
	assert.Contains(t, text, "Widget Corp")
	assert.Contains(t, text, "March 1, 2025")
	assert.Contains(t, text, "March 31, 2025")
}

func TestRenderItemRows(t *testing.T) {
	text := renderedText(t, newTestRenderer(), sampleRecord(), template.DefaultID)

	assert.Contains(t, text, "Item & Description")
	assert.Contains(t, text, "Consulting")
	assert.Contains(t, text, "Senior engineering time")
	// Description-only item is promoted to the item line, not left blank.
	assert.Contains(t, text, "One-time setup fee")
	assert.Contains(t, text, "$75.00")
	assert.Contains(t, text, "$3,000.00")
}

func TestRenderNotesAndTerms(t *testing.T) {
	text := renderedText(t, newTestRenderer(), sampleRecord(), template.DefaultID)

	assert.Contains(t, text, "Notes:")
	assert.Contains(t, text, "PO 4471 applies to this invoice.")
	assert.Contains(t, text, "Terms & Conditions:")
	assert.Contains(t, text, "Net 30.")
	assert.Contains(t, text, "Payment Details:")
	assert.Contains(t, text, "Bank:")
	assert.Contains(t, text, "Acme Bank")
	assert.Contains(t, text, "IBAN:")
	assert.Contains(t, text, "XX00")
	assert.Contains(t, text, FooterCaption)
}

func TestRenderSuppressesBoilerplateNotes(t *testing.T) {
	rec := sampleRecord()
	rec.Notes = "Thank you for your business!"
	rec.Terms = ""

	text := renderedText(t, newTestRenderer(), rec, template.DefaultID)

	assert.NotContains(t, text, "Notes:")
	// The fixed footer still thanks the client.
	assert.Contains(t, text, FooterCaption)
}

func TestRenderOmitsEmptyOptionalLines(t *testing.T) {
	rec := sampleRecord()
	rec.Invoice.Month = ""
	rec.Company.Address1 = ""

	text := renderedText(t, newTestRenderer(), rec, template.DefaultID)

	assert.NotContains(t, text, "Month:")
	assert.NotContains(t, text, "123 Business Street")
}

func TestRenderBadDatePassesThrough(t *testing.T) {
	rec := sampleRecord()
	rec.Invoice.Date = "sometime soon"

	text := renderedText(t, newTestRenderer(), rec, template.DefaultID)
	assert.Contains(t, text, "sometime soon")
}

func TestRenderManyItemsPaginates(t *testing.T) {
	rec := sampleRecord()
	rec.Items = nil
	for i := 1; i <= 60; i++ {
		rec.Items = append(rec.Items, invoice.LineItem{
			Name:     fmt.Sprintf("Task %03d", i),
			Quantity: 1,
			Rate:     10,
		})
	}

	text := renderedText(t, newTestRenderer(), rec, template.DefaultID)
	assert.Contains(t, text, "Task 001")
	assert.Contains(t, text, "Task 060")
	assert.Contains(t, text, "$600.00") // subtotal across pages
}

func TestRenderUnknownTemplateFallsBack(t *testing.T) {
	data, err := newTestRenderer().Render(sampleRecord(), "no_such_template")
	require.NoError(t, err)
	assert.NoError(t, pdfio.ValidateBytes(data))
}

func TestRenderRejectsBadInput(t *testing.T) {
	r := newTestRenderer()

	_, err := r.Render(nil, template.DefaultID)
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)

	_, err = r.Render(&invoice.Record{}, template.DefaultID)
	require.ErrorAs(t, err, &rerr)
}

func TestRenderToFileAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "invoice.pdf")

	require.NoError(t, newTestRenderer().RenderToFile(sampleRecord(), template.DefaultID, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.NoError(t, pdfio.ValidateBytes(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files may remain next to the output")
}

func TestRenderToFileFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "invoice.pdf")

	err := newTestRenderer().RenderToFile(&invoice.Record{}, template.DefaultID, dest)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr), "failed render must not leave partial output")
}

func TestRenderAlternateTemplate(t *testing.T) {
	text := renderedText(t, newTestRenderer(), sampleRecord(), "classic_serif")
	assert.Contains(t, text, "INVOICE")
	assert.Contains(t, text, "$3,927.70")
}
