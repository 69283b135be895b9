// Package normalize holds the canonical-form rules for identity fields.
// Every write path goes through these before comparing or persisting,
// so uniqueness checks and lookups agree on what "equal" means.
package normalize

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

// Email lowercases and trims an email address. Email comparison is
// case-insensitive everywhere in the system.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses interior runs of whitespace.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NameCI folds a name for case/diacritic-insensitive search fields.
func NameCI(s string) string {
	return text.Fold(Name(s))
}

// EmployeeID trims an employee id. Employee ids compare case-sensitively,
// so no folding happens here.
func EmployeeID(s string) string {
	return strings.TrimSpace(s)
}
