package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders amount with two decimals, comma thousands separators and
// the currency code, e.g. "1,234.50 RUB".
func FormatAmount(amount decimal.Decimal, currency string) string {
	s := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	if amount.IsNegative() {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	if currency != "" {
		b.WriteByte(' ')
		b.WriteString(currency)
	}
	return b.String()
}
