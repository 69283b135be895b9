// Package htmlsanitize strips markup from chat message content before it
// is persisted. Messages are plain text; anything that looks like HTML
// is removed rather than escaped.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// Clean removes all HTML from s and trims the result.
func Clean(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
