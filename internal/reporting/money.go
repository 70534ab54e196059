package reporting

import (
	"github.com/shopspring/decimal"
)

// FormatCents renders an integer cent amount as dollars, e.g. -160 → "-$1.60".
func FormatCents(cents int) string {
	return formatDollars(decimal.New(int64(cents), -2))
}

// FormatMeanCents renders a fractional cent amount as dollars rounded to the cent.
func FormatMeanCents(cents float64) string {
	return formatDollars(decimal.NewFromFloat(cents).Shift(-2))
}

func formatDollars(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}
