package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict drops every element and escapes what remains, so the output is
// safe to embed in either a plain-text or an HTML mail body.
var strict = bluemonday.StrictPolicy()

// Text trims s, strips any markup and HTML-escapes the remaining text.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(strings.TrimSpace(s)))
}

// Header trims s and removes CR and LF so it cannot inject mail headers.
func Header(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(s)
	return strings.TrimSpace(s)
}
