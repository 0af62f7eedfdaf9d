// Package sanitize turns rendered HTML into plain text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy removes all HTML tags and attributes.
var StrictPolicy = bluemonday.StrictPolicy()

// PlainText strips the markup from an HTML document and decodes its
// entities. Blank lines are dropped and the remaining lines trimmed.
func PlainText(document string) string {
	text := html.UnescapeString(StrictPolicy.Sanitize(document))
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
