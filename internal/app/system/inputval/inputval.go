// Package inputval validates user-supplied field values. Checks here are
// shape checks only; uniqueness and referential rules live in the
// repository.
package inputval

import (
	"regexp"
	"strings"
)

// emailRe is a deliberately simple shape check: something@something.tld.
// Full RFC 5322 validation buys nothing for an import pipeline that will
// bounce a bad address at delivery time anyway.
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(strings.TrimSpace(s))
}

// IsBlank reports whether s is empty after trimming.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// ParseBool interprets the tabular codec's TRUE/FALSE cells,
// case-insensitively. Unrecognized values are false.
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}
