package utils

import (
	"regexp"
	"strings"
)

// emailRx mirrors the format the mobile client validates against:
// a local part of word characters plus ._+-, an @, and a domain
// containing at least one dot. Case does not matter.
var emailRx = regexp.MustCompile(`^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+$`)

// NormalizeEmail trims surrounding whitespace and lowercases the
// address. All storage and comparison happens on the normalized
// form so email uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether the address (after trimming) matches
// the accepted format. Embedded spaces, a missing @ or a dotless
// domain all fail.
func IsValidEmail(email string) bool {
	return emailRx.MatchString(strings.TrimSpace(email))
}
