// Package normalize cleans raw feed snippets into plain text.
package normalize

import (
	"html"
	"regexp"
	"strings"
)

var tagRe = regexp.MustCompile(`<[^>]+>`)

// Text decodes HTML entities, replaces every tag with a space and collapses
// whitespace. Entities are decoded first, so escaped markup is removed too.
func Text(raw string) string {
	if raw == "" {
		return ""
	}
	s := html.UnescapeString(raw)
	s = tagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
