package card

import (
	"fmt"
	"strings"
)

// Text renders c as plain text, one "Label: value" line per field, grouped
// by section.
func Text(c Card) string {
	var b strings.Builder

	b.WriteString(strings.ToUpper(c.Title))
	b.WriteString("\n")
	if c.CompanyName != "" {
		b.WriteString(c.CompanyName)
		b.WriteString("\n")
	}
	if n := len(c.Images); n > 0 {
		fmt.Fprintf(&b, "[%d photo(s)]\n", n)
	}

	for _, s := range []Section{SectionParties, SectionDates, SectionSpecs, SectionPrices, SectionComments} {
		fields := c.Section(s)
		if len(fields) == 0 {
			continue
		}
		b.WriteString(strings.Repeat("-", 32))
		b.WriteString("\n")
		for _, f := range fields {
			fmt.Fprintf(&b, "%-14s %s\n", f.Label+":", f.Value)
		}
	}

	return b.String()
}
