// Package invoice defines the canonical invoice record and the validation
// boundary that converts untyped source documents into it. Code downstream of
// Validate never touches untyped maps again.
package invoice

import "strings"

// Record is the canonical structured representation of one invoice's billing
// data. Derived figures (per-line amounts, subtotal, tax, total) are never
// stored; they are recomputed from Items and TaxRate on demand.
type Record struct {
	Invoice Header     `yaml:"invoice" json:"invoice"`
	Company Company    `yaml:"company" json:"company"`
	Client  Client     `yaml:"client" json:"client"`
	Items   []LineItem `yaml:"items" json:"items"`
	TaxRate float64    `yaml:"tax_rate" json:"tax_rate"`
	Notes   string     `yaml:"notes,omitempty" json:"notes,omitempty"`
	Terms   string     `yaml:"terms,omitempty" json:"terms,omitempty"`
}

// Header identifies the invoice itself.
type Header struct {
	Number  string `yaml:"number" json:"number"`
	Date    string `yaml:"date" json:"date"`
	DueDate string `yaml:"due_date" json:"due_date"`
	Month   string `yaml:"month,omitempty" json:"month,omitempty"`
}

// Company is the issuing party.
type Company struct {
	Name     string `yaml:"name" json:"name"`
	Address1 string `yaml:"address1,omitempty" json:"address1,omitempty"`
	Address2 string `yaml:"address2,omitempty" json:"address2,omitempty"`
	City     string `yaml:"city" json:"city"`
	State    string `yaml:"state" json:"state"`
	Zip      string `yaml:"zip" json:"zip"`
	Country  string `yaml:"country" json:"country"`
	Email    string `yaml:"email" json:"email"`
	Phone    string `yaml:"phone" json:"phone"`
}

// Client is the billed party.
type Client struct {
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address" json:"address"`
	City    string `yaml:"city" json:"city"`
	State   string `yaml:"state" json:"state"`
	Zip     string `yaml:"zip" json:"zip"`
	Country string `yaml:"country" json:"country"`
	Email   string `yaml:"email,omitempty" json:"email,omitempty"`
}

// LineItem is one billable row. At least one of Name and Description is
// non-empty; Unit is purely presentational.
type LineItem struct {
	Name        string  `yaml:"name,omitempty" json:"name,omitempty"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Quantity    float64 `yaml:"quantity" json:"quantity"`
	Unit        string  `yaml:"unit,omitempty" json:"unit,omitempty"`
	Rate        float64 `yaml:"rate" json:"rate"`
}

// Amount is the derived line total.
func (li LineItem) Amount() float64 {
	return li.Quantity * li.Rate
}

// Blank reports whether the item carries no label at all. Blank items are
// dropped during validation, never rendered as empty rows.
func (li LineItem) Blank() bool {
	return strings.TrimSpace(li.Name) == "" && strings.TrimSpace(li.Description) == ""
}

// Subtotal is the sum of all line amounts.
func (r *Record) Subtotal() float64 {
	var sum float64
	for _, item := range r.Items {
		sum += item.Amount()
	}
	return sum
}

// Tax is the subtotal times the stored tax fraction.
func (r *Record) Tax() float64 {
	return r.Subtotal() * r.TaxRate
}

// Total is subtotal plus tax.
func (r *Record) Total() float64 {
	return r.Subtotal() + r.Tax()
}
