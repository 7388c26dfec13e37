package validation

import "strings"

// NormalizePHPhone canonicalizes a PH mobile number to +639XXXXXXXXX.
// Accepted inputs: 09XXXXXXXXX, 639XXXXXXXXX, +639XXXXXXXXX, with spaces or
// dashes anywhere. Returns false when the number cannot be a PH mobile.
func NormalizePHPhone(raw string) (string, bool) {
	var b strings.Builder
	for _, c := range raw {
		switch {
		case c >= '0' && c <= '9':
			b.WriteRune(c)
		case c == '+', c == ' ', c == '-', c == '(', c == ')':
			// separators and the plus sign carry no information
		default:
			return "", false
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "09"):
		digits = "639" + digits[2:]
	case len(digits) == 12 && strings.HasPrefix(digits, "639"):
	default:
		return "", false
	}

	return "+" + digits, true
}
