// Package money keeps monetary values as fixed-precision decimals and
// converts them to floats or display strings only at the API boundary.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToFloat converts a stored amount for JSON output.
func ToFloat(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// FromFloat converts an amount received over the API.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(2)
}

// Percent returns part/whole*100, or zero when whole is not positive.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}

// CappedPercent is Percent limited to 100.
func CappedPercent(part, whole decimal.Decimal) decimal.Decimal {
	return decimal.Min(Percent(part, whole), hundred)
}

// FormatNaira renders d as "₦1,500,000.00"; negative amounts get a leading
// minus sign.
func FormatNaira(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	return sign + "₦" + b.String() + "." + frac
}
