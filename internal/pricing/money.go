package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

const displayPlaces = 2

// Round applies the display rounding (half away from zero, two places).
func Round(value decimal.Decimal) decimal.Decimal {
	return value.Round(displayPlaces)
}

// FormatBRL renders value as Brazilian currency, for example "R$ 1.234,56".
func FormatBRL(value decimal.Decimal) string {
	fixed := value.StringFixed(displayPlaces)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	integer, fraction, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range integer {
		if i > 0 && (len(integer)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	return "R$ " + sign + grouped.String() + "," + fraction
}
