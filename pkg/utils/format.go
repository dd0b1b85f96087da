// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currencies without a minor monetary unit; their amounts display with no
// decimal places.
var zeroDecimalCurrencies = map[string]bool{
	"TWD": true,
	"JPY": true,
	"KRW": true,
}

// FormatAmount formats a monetary amount with thousands separators. TWD and
// other zero-decimal currencies render without a fraction; everything else
// gets two places.
func FormatAmount(amount decimal.Decimal, currency string) string {
	places := 2
	if zeroDecimalCurrencies[currency] {
		places = 0
	}
	str := amount.StringFixed(int32(places))

	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	intPart := str
	decPart := ""
	if i := strings.IndexByte(str, '.'); i >= 0 {
		intPart, decPart = str[:i], str[i:]
	}

	result := groupThousands(intPart) + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent renders a whole-number allocation percentage.
func FormatPercent(percent int) string {
	return fmt.Sprintf("%d%%", percent)
}
