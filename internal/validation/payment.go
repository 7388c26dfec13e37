// Package validation contains the pure input checks for payment and address
// fields. The account-number rules are channel contracts, exact by design.
package validation

import "strings"

// NormalizeAccountNumber strips whitespace and rewrites a leading +63 country
// prefix to the local 0 prefix, so +639XXXXXXXXX becomes 09XXXXXXXXX.
func NormalizeAccountNumber(raw string) string {
	s := strings.Join(strings.Fields(raw), "")
	if strings.HasPrefix(s, "+63") {
		s = "0" + s[3:]
	}
	return s
}

// IsValidGCashNumber checks an already-normalized GCash number: exactly
// 11 digits starting with 09.
func IsValidGCashNumber(s string) bool {
	if len(s) != 11 || !strings.HasPrefix(s, "09") {
		return false
	}
	return allDigits(s)
}

// IsValidBPIAccount checks a BPI account number: 9 to 12 digits.
func IsValidBPIAccount(s string) bool {
	if len(s) < 9 || len(s) > 12 {
		return false
	}
	return allDigits(s)
}

// CheckAccountNumber applies the channel-specific account number rule and
// returns the normalized value. GCash numbers are normalized before the
// check; other channels are validated as entered.
func CheckAccountNumber(method, raw string) (string, bool) {
	switch method {
	case "gcash":
		n := NormalizeAccountNumber(raw)
		return n, IsValidGCashNumber(n)
	case "bpi":
		return raw, IsValidBPIAccount(raw)
	default:
		return raw, len(raw) > 0 && allDigits(raw)
	}
}

// IsValidReferenceNumber checks a channel transaction reference:
// 6 to 20 alphanumeric characters.
func IsValidReferenceNumber(s string) bool {
	if len(s) < 6 || len(s) > 20 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		default:
			return false
		}
	}
	return true
}

// IsValidPostalCode checks a PH postal code: 4 or 5 digits. Empty is allowed,
// postal codes are optional on addresses.
func IsValidPostalCode(s string) bool {
	if s == "" {
		return true
	}
	if len(s) < 4 || len(s) > 5 {
		return false
	}
	return allDigits(s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
