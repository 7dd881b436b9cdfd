package invoice

import (
	"fmt"
	"strconv"
	"strings"
)

// Required subfields per section, in source order so error messages are
// stable.
var (
	requiredInvoiceFields = []string{"number", "date", "due_date"}
	requiredCompanyFields = []string{"name", "city", "state", "zip", "country", "email", "phone"}
	requiredClientFields  = []string{"name", "address", "city", "state", "zip", "country"}
)

// Validate converts an untyped source mapping into a fully-typed Record. It
// is a pure function: raw is never mutated, and on failure the returned error
// is a *ValidationError naming the offending field (and 1-based item index
// for item-scoped problems). Unknown extra keys are ignored.
func Validate(raw any) (*Record, error) {
	root, ok := asMapping(raw)
	if !ok {
		return nil, missingField("(document)")
	}

	for _, key := range []string{"invoice", "company", "client", "items"} {
		if _, present := root[key]; !present {
			return nil, missingField(key)
		}
	}

	header, err := validateHeader(root["invoice"])
	if err != nil {
		return nil, err
	}
	company, err := validateCompany(root["company"])
	if err != nil {
		return nil, err
	}
	client, err := validateClient(root["client"])
	if err != nil {
		return nil, err
	}
	items, err := validateItems(root["items"])
	if err != nil {
		return nil, err
	}

	rec := &Record{
		Invoice: *header,
		Company: *company,
		Client:  *client,
		Items:   items,
	}

	if rawRate, present := root["tax_rate"]; present {
		rate, numOK := asNumber(rawRate)
		if !numOK || rate < 0 {
			return nil, invalidNumber("tax_rate", 0)
		}
		rec.TaxRate = rate
	}
	rec.Notes = optionalString(root, "notes")
	rec.Terms = optionalString(root, "terms")

	return rec, nil
}

func validateHeader(v any) (*Header, error) {
	m, ok := asMapping(v)
	if !ok {
		return nil, wrongType("invoice")
	}
	if err := requireFields(m, "invoice", requiredInvoiceFields); err != nil {
		return nil, err
	}
	return &Header{
		Number:  scalarString(m["number"]),
		Date:    scalarString(m["date"]),
		DueDate: scalarString(m["due_date"]),
		Month:   optionalString(m, "month"),
	}, nil
}

func validateCompany(v any) (*Company, error) {
	m, ok := asMapping(v)
	if !ok {
		return nil, wrongType("company")
	}
	if err := requireFields(m, "company", requiredCompanyFields); err != nil {
		return nil, err
	}
	return &Company{
		Name:     scalarString(m["name"]),
		Address1: optionalString(m, "address1"),
		Address2: optionalString(m, "address2"),
		City:     scalarString(m["city"]),
		State:    scalarString(m["state"]),
		Zip:      scalarString(m["zip"]),
		Country:  scalarString(m["country"]),
		Email:    scalarString(m["email"]),
		Phone:    scalarString(m["phone"]),
	}, nil
}

func validateClient(v any) (*Client, error) {
	m, ok := asMapping(v)
	if !ok {
		return nil, wrongType("client")
	}
	if err := requireFields(m, "client", requiredClientFields); err != nil {
		return nil, err
	}
	return &Client{
		Name:    scalarString(m["name"]),
		Address: scalarString(m["address"]),
		City:    scalarString(m["city"]),
		State:   scalarString(m["state"]),
		Zip:     scalarString(m["zip"]),
		Country: scalarString(m["country"]),
		Email:   optionalString(m, "email"),
	}, nil
}

func validateItems(v any) ([]LineItem, error) {
	seq, ok := asSequence(v)
	if !ok {
		return nil, wrongType("items")
	}

	items := make([]LineItem, 0, len(seq))
	for _, entry := range seq {
		m, entryOK := asMapping(entry)
		if !entryOK {
			continue // non-mapping entries are blank lines, dropped
		}

		item := LineItem{
			Name:        optionalString(m, "name"),
			Description: optionalString(m, "description"),
			Unit:        optionalString(m, "unit"),
		}
		if item.Blank() {
			continue
		}

		// Index is 1-based over the filtered sequence, matching the row
		// numbering the renderer prints.
		idx := len(items) + 1
		for _, field := range []string{"quantity", "rate"} {
			if _, present := m[field]; !present {
				return nil, &ValidationError{
					Kind:  MissingField,
					Field: fmt.Sprintf("items[%d].%s", idx, field),
					Item:  idx,
				}
			}
		}

		qty, qtyOK := asNumber(m["quantity"])
		if !qtyOK || qty < 0 {
			return nil, invalidNumber(fmt.Sprintf("items[%d].quantity", idx), idx)
		}
		rate, rateOK := asNumber(m["rate"])
		if !rateOK || rate < 0 {
			return nil, invalidNumber(fmt.Sprintf("items[%d].rate", idx), idx)
		}
		item.Quantity = qty
		item.Rate = rate
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, &ValidationError{Kind: EmptyCollection, Field: "items"}
	}
	return items, nil
}

func requireFields(m map[string]any, section string, fields []string) error {
	for _, field := range fields {
		if _, present := m[field]; !present {
			return missingField(section + "." + field)
		}
	}
	return nil
}

// asMapping normalizes the mapping shapes the YAML and JSON decoders produce.
func asMapping(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asSequence(v any) ([]any, bool) {
	seq, ok := v.([]any)
	return seq, ok
}

// asNumber accepts the scalar forms a decoder may hand us for a numeric
// field, including digit strings from hand-edited sources.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// scalarString renders a scalar value as a string. YAML decodes bare zip
// codes and similar values as integers, which are still legitimate text
// fields for our purposes.
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case int, int64, uint64, float64, float32, bool:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

func optionalString(m map[string]any, key string) string {
	v, present := m[key]
	if !present {
		return ""
	}
	return scalarString(v)
}
