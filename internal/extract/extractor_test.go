package extract

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoiceartisan/invoice-artisan/internal/invoice"
)

// sampleText mirrors the text a PDF text collaborator recovers from a
// rendered invoice in the known layout.
const sampleText = `INVOICE
# INV-2025-010
Acme Consulting
123 Business Street
Springfield, IL 62701
United States
+1 555 0100
billing@acme.test
BILL TO:
Widget Corp
1 Widget Way
Shelbyville, IL 62565
United States
Month: March
Date: March 1, 2025
Due Date: March 31, 2025
No. Item & Description Quantity Rate Amount
1 Consulting 40 $75.00 $3,000.00
2 Support retainer 10 $50.00 $500.00
Subtotal: $3,620.00
Tax (8.5%): $307.70
Total: $3,927.70
Notes:
PO 4471 applies to this invoice.
Terms & Conditions:
Net 30.

Thank you for your business!
`

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	}
}

func TestExtractKnownLayout(t *testing.T) {
	res := NewWithClock(fixedClock()).Extract(sampleText)
	rec := res.Record

	assert.Equal(t, "INV-2025-010", rec.Invoice.Number)
	assert.Equal(t, "2025-03-01", rec.Invoice.Date)
	assert.Equal(t, "2025-03-31", rec.Invoice.DueDate)
	assert.Equal(t, "March", rec.Invoice.Month)

	assert.Equal(t, "Acme Consulting", rec.Company.Name)
	assert.Equal(t, "123 Business Street", rec.Company.Address1)
	assert.Equal(t, "Springfield", rec.Company.City)
	assert.Equal(t, "IL", rec.Company.State)
	assert.Equal(t, "62701", rec.Company.Zip)
	assert.Equal(t, "United States", rec.Company.Country)
	assert.Equal(t, "billing@acme.test", rec.Company.Email)
	assert.Equal(t, "+1 555 0100", rec.Company.Phone)

	assert.Equal(t, "Widget Corp", rec.Client.Name)
	assert.Equal(t, "1 Widget Way", rec.Client.Address)
	assert.Equal(t, "Shelbyville", rec.Client.City)
	assert.Equal(t, "62565", rec.Client.Zip)

	require.Len(t, rec.Items, 2)
	assert.Equal(t, "Consulting", rec.Items[0].Description)
	assert.Equal(t, 40.0, rec.Items[0].Quantity)
	assert.Equal(t, 75.0, rec.Items[0].Rate)
	assert.Equal(t, "Support retainer", rec.Items[1].Description)
	assert.Equal(t, 10.0, rec.Items[1].Quantity)
	assert.Equal(t, 50.0, rec.Items[1].Rate)

	assert.InDelta(t, 0.085, rec.TaxRate, 1e-9)
	assert.Equal(t, "PO 4471 applies to this invoice.", rec.Notes)
	assert.Equal(t, "Net 30.", rec.Terms)
}

func TestExtractDateForms(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		date    string
		dueDate string
	}{
		{
			name:    "abbreviated_month",
			text:    "Invoice Date: 28 Mar 2025\nDue Date: 27 Apr 2025",
			date:    "2025-03-28",
			dueDate: "2025-04-27",
		},
		{
			name:    "slash_form",
			text:    "Date: 28/3/2025\nDue: 27/4/2025",
			date:    "2025-03-28",
			dueDate: "2025-04-27",
		},
		{
			name:    "due_label_does_not_shadow_date",
			text:    "Due Date: 27 Apr 2025\nDate: 28 Mar 2025",
			date:    "2025-03-28",
			dueDate: "2025-04-27",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewWithClock(fixedClock()).Extract(tt.text).Record
			assert.Equal(t, tt.date, rec.Invoice.Date)
			assert.Equal(t, tt.dueDate, rec.Invoice.DueDate)
		})
	}
}

func TestExtractDefaultsDatesWhenUnrecognizable(t *testing.T) {
	res := NewWithClock(fixedClock()).Extract("nothing useful in here")
	rec := res.Record

	assert.Equal(t, "2025-06-15", rec.Invoice.Date)
	assert.Equal(t, "2025-07-15", rec.Invoice.DueDate)
	assert.NotEmpty(t, res.Warnings)
}

func TestExtractAlwaysYieldsValidRecord(t *testing.T) {
	for _, text := range []string{
		"",
		"nothing useful in here",
		"# INV-7\nDate: 1 Jan 2025",
		sampleText,
	} {
		res := New().Extract(text)

		out, err := invoice.EncodeSource(res.Record)
		require.NoError(t, err)
		raw, err := invoice.DecodeSource(out)
		require.NoError(t, err)
		_, err = invoice.Validate(raw)
		assert.NoError(t, err, "extracted record must round-trip through the validator for input %q", text)
	}
}

func TestExtractPlaceholderItemWhenNoneMatch(t *testing.T) {
	res := New().Extract("Item & Description\nnothing tabular here\nNotes")
	rec := res.Record

	require.Len(t, rec.Items, 1)
	assert.Equal(t, "Unrecovered line item", rec.Items[0].Description)
	assert.Equal(t, 1.0, rec.Items[0].Quantity)
	assert.Equal(t, 0.0, rec.Items[0].Rate)

	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "placeholder item") {
			found = true
		}
	}
	assert.True(t, found, "expected a placeholder-item warning, got %v", res.Warnings)
}

func TestExtractPlaceholderPartiesWarn(t *testing.T) {
	res := New().Extract("no address blocks at all")

	assert.Equal(t, "Unknown Company", res.Record.Company.Name)
	assert.Equal(t, "Unknown Client", res.Record.Client.Name)

	var companyWarned, clientWarned bool
	for _, w := range res.Warnings {
		if strings.Contains(w, "company identity") {
			companyWarned = true
		}
		if strings.Contains(w, "client identity") {
			clientWarned = true
		}
	}
	assert.True(t, companyWarned)
	assert.True(t, clientWarned)
}

func TestExtractInvoiceNumberFallback(t *testing.T) {
	rec := New().Extract("no number anywhere").Record
	assert.Equal(t, "INV-0000", rec.Invoice.Number)

	rec = New().Extract("ref # INV-123 attached").Record
	assert.Equal(t, "INV-123", rec.Invoice.Number)
}

func TestParseAddressBlock(t *testing.T) {
	blk, ok := parseAddressBlock("Acme Consulting\n123 Business Street\nSuite 100\nSpringfield, IL 62701\nUnited States\nbilling@acme.test\n+1 555 0100")
	require.True(t, ok)
	assert.Equal(t, "Acme Consulting", blk.name)
	assert.Equal(t, []string{"123 Business Street", "Suite 100"}, blk.address)
	assert.Equal(t, "Springfield", blk.city)
	assert.Equal(t, "IL", blk.state)
	assert.Equal(t, "62701", blk.zip)
	assert.Equal(t, "United States", blk.country)
	assert.Equal(t, "billing@acme.test", blk.email)
	assert.Equal(t, "+1 555 0100", blk.phone)

	_, ok = parseAddressBlock("only one line")
	assert.False(t, ok)

	_, ok = parseAddressBlock("Name\nStreet with no city line")
	assert.False(t, ok)
}
