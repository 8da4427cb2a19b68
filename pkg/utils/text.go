// Package utils provides shared utilities for text, math, and logging.
package utils

import (
	"fmt"
	"strings"
)

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// FormatAmount renders a currency amount as "Rs.12,345" (whole units,
// comma-grouped every three digits).
func FormatAmount(amount float64) string {
	return "Rs." + GroupThousands(int64(amount))
}

// GroupThousands renders n with commas every three digits, e.g. 1234567 ->
// "1,234,567".
func GroupThousands(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)
	return sign + strings.Join(groups, ",")
}
