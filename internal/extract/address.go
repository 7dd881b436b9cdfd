package extract

import (
	"regexp"
	"strings"

	"github.com/invoiceartisan/invoice-artisan/internal/invoice"
)

// Placeholder identities substituted when an address block cannot be parsed.
// Every required field is populated so the record still validates; the values
// make the gap obvious instead of impersonating real data.
var (
	placeholderCompany = invoice.Company{
		Name:    "Unknown Company",
		City:    "Unknown",
		State:   "NA",
		Zip:     "00000",
		Country: "Unknown",
		Email:   "billing@unknown.invalid",
		Phone:   "+0 000 0000",
	}
	placeholderClient = invoice.Client{
		Name:    "Unknown Client",
		Address: "Unknown",
		City:    "Unknown",
		State:   "NA",
		Zip:     "00000",
		Country: "Unknown",
	}
)

var phoneLineRe = regexp.MustCompile(`^\+?[\d][\d\s().-]{5,}$`)

// addressBlock is the parsed form of a free-text address paragraph.
type addressBlock struct {
	name    string
	address []string
	city    string
	state   string
	zip     string
	country string
	email   string
	phone   string
}

// parseAddressBlock splits a block of address text into components: an email
// line is any line with '@' and '.', a phone line is all dial characters, the
// first remaining line is the name, the line with a comma is "City, ST ZIP",
// anything between name and city is street address, anything after city is
// the country.
func parseAddressBlock(block string) (*addressBlock, bool) {
	var lines []string
	for _, line := range strings.Split(block, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return nil, false
	}

	out := &addressBlock{}
	var rest []string
	for _, line := range lines {
		switch {
		case out.email == "" && strings.Contains(line, "@") && strings.Contains(line, "."):
			out.email = line
		case out.phone == "" && phoneLineRe.MatchString(line):
			out.phone = line
		default:
			rest = append(rest, line)
		}
	}
	if len(rest) < 2 {
		return nil, false
	}

	cityIdx := -1
	for i := len(rest) - 1; i >= 1; i-- {
		if strings.Contains(rest[i], ",") {
			cityIdx = i
			break
		}
	}
	if cityIdx < 0 {
		return nil, false
	}

	parts := strings.SplitN(rest[cityIdx], ",", 2)
	out.city = strings.TrimSpace(parts[0])
	stateZip := strings.Fields(parts[1])
	if len(stateZip) > 0 {
		out.state = stateZip[0]
	}
	if len(stateZip) > 1 {
		out.zip = stateZip[1]
	}

	out.name = rest[0]
	out.address = rest[1:cityIdx]
	if cityIdx+1 < len(rest) {
		out.country = rest[cityIdx+1]
	}

	return out, out.city != "" && out.state != ""
}

// extractParties recovers the company and client identities from the address
// blocks of the known layout: the issuer paragraph sits between the header
// and the BILL TO marker, the client paragraph after it. Either side degrades
// to a clearly-labeled placeholder identity with a warning.
func (e *Extractor) extractParties(text string, rec *invoice.Record, warn func(string, ...any)) {
	companyText, clientText := partyBlocks(text)

	if blk, ok := parseAddressBlock(companyText); ok {
		rec.Company = invoice.Company{
			Name:    blk.name,
			City:    blk.city,
			State:   blk.state,
			Zip:     blk.zip,
			Country: blk.country,
			Email:   blk.email,
			Phone:   blk.phone,
		}
		if len(blk.address) > 0 {
			rec.Company.Address1 = blk.address[0]
		}
		if len(blk.address) > 1 {
			rec.Company.Address2 = blk.address[1]
		}
		fillCompanyDefaults(&rec.Company, warn)
	} else {
		rec.Company = placeholderCompany
		warn("company identity not recovered, placeholder substituted")
	}

	if blk, ok := parseAddressBlock(clientText); ok {
		rec.Client = invoice.Client{
			Name:    blk.name,
			Address: strings.Join(blk.address, ", "),
			City:    blk.city,
			State:   blk.state,
			Zip:     blk.zip,
			Country: blk.country,
			Email:   blk.email,
		}
		fillClientDefaults(&rec.Client, warn)
	} else {
		rec.Client = placeholderClient
		warn("client identity not recovered, placeholder substituted")
	}
}

// partyBlocks slices the issuer and client address paragraphs out of the
// document text, stripping header and meta lines that interleave with them.
func partyBlocks(text string) (companyText, clientText string) {
	head := text
	var tail string
	if idx := strings.Index(text, billToMarker); idx >= 0 {
		head = text[:idx]
		tail = text[idx+len(billToMarker):]
	}

	companyText = stripNonAddressLines(head)

	if end := strings.Index(tail, itemsStartMarker); end >= 0 {
		tail = tail[:end]
	}
	clientText = stripNonAddressLines(tail)
	return companyText, clientText
}

var metaLineRe = regexp.MustCompile(`(?i)^(:|invoice|#|month\s*:|date\s*:|due\s|invoice date\s*:)`)

func stripNonAddressLines(block string) string {
	var kept []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || metaLineRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func fillCompanyDefaults(c *invoice.Company, warn func(string, ...any)) {
	if c.Country == "" {
		c.Country = placeholderCompany.Country
		warn("company country not recovered, placeholder substituted")
	}
	if c.Email == "" {
		c.Email = placeholderCompany.Email
		warn("company email not recovered, placeholder substituted")
	}
	if c.Phone == "" {
		c.Phone = placeholderCompany.Phone
		warn("company phone not recovered, placeholder substituted")
	}
}

func fillClientDefaults(c *invoice.Client, warn func(string, ...any)) {
	if c.Address == "" {
		c.Address = placeholderClient.Address
		warn("client street address not recovered, placeholder substituted")
	}
	if c.Country == "" {
		c.Country = placeholderClient.Country
		warn("client country not recovered, placeholder substituted")
	}
}
