package utils

import (
	"regexp"
	"strings"
)

var nonDigit = regexp.MustCompile(`\D`)

// SanitizeDigits strips everything except digits from a phone number.
func SanitizeDigits(phone string) string {
	return nonDigit.ReplaceAllString(phone, "")
}

// ValidPhoneLength checks the combined country code + subscriber number
// against the international 7..15 digit range.
func ValidPhoneLength(fullDigits string) bool {
	return len(fullDigits) >= 7 && len(fullDigits) <= 15
}

// PhoneMatches reports whether a stored phone number refers to the same
// line as the searched one. Stored numbers may or may not include the
// country code, so three strategies are tried:
//  1. exact match on country code + subscriber number,
//  2. exact match on the subscriber number alone,
//  3. stored number ends with the subscriber number.
func PhoneMatches(stored, fullDigits, subscriberDigits string) bool {
	if subscriberDigits == "" {
		return false
	}
	sanitized := SanitizeDigits(stored)
	return sanitized == fullDigits ||
		sanitized == subscriberDigits ||
		strings.HasSuffix(sanitized, subscriberDigits)
}
