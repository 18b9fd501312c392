package services

import (
	"fmt"
	"strings"
)

// FormatCurrency formats a float64 amount in the localized money notation
// used on quotations (two decimals, thousands separated by commas, prefixed
// currency symbol), e.g. $1,234,567.89 MXN. Stored values stay unrounded;
// this is the presentation boundary.
func FormatCurrency(amount float64, currencyCode string) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "$" + applyThousandsGrouping(intPart) + "." + decPart
	if currencyCode != "" {
		result += " " + currencyCode
	}
	if negative {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts commas into an integer string every three
// digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 3 {
		result = remaining[len(remaining)-3:] + "," + result
		remaining = remaining[:len(remaining)-3]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}
