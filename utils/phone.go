package utils

import "strings"

// FormatPhone normalizes a phone number to digits and "+" only.
func FormatPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r == '+' || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
