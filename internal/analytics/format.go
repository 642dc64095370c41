package analytics

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a decimal as a USD display string with comma
// separators and two fraction digits, e.g. "$1,234.50" or "-$12.00".
func FormatCurrency(d decimal.Decimal) string {
	negative := d.IsNegative()
	fixed := d.Abs().StringFixed(2)

	intPart := fixed
	decPart := "00"
	if dot := strings.IndexByte(fixed, '.'); dot >= 0 {
		intPart = fixed[:dot]
		decPart = fixed[dot+1:]
	}

	if len(intPart) > 3 {
		var parts []string
		for len(intPart) > 3 {
			parts = append([]string{intPart[len(intPart)-3:]}, parts...)
			intPart = intPart[:len(intPart)-3]
		}
		parts = append([]string{intPart}, parts...)
		intPart = strings.Join(parts, ",")
	}

	out := "$" + intPart + "." + decPart
	if negative {
		out = "-" + out
	}
	return out
}
