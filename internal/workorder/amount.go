package workorder

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseDecimal converts a pt-BR amount such as "1.234,56" into an exact decimal.
// Empty or malformed input yields zero so a single bad cell never aborts an extraction.
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
