package textutil

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UntitledDocument is the fallback label for documents without a title.
const UntitledDocument = "Untitled Document"

var (
	titlePattern      = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	tagPattern        = regexp.MustCompile(`(?s)<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	titleCaser = cases.Title(language.English)
)

// DocumentTitle extracts the first <title> element from an HTML document.
// Nested markup is stripped, entities are unescaped, and whitespace is
// collapsed. Returns "" when the document has no usable title.
func DocumentTitle(htmlSource string) string {
	match := titlePattern.FindStringSubmatch(htmlSource)
	if match == nil {
		return ""
	}
	title := tagPattern.ReplaceAllString(match[1], " ")
	title = html.UnescapeString(title)
	title = whitespacePattern.ReplaceAllString(title, " ")
	return strings.TrimSpace(title)
}

// DisplayTitle returns a presentable title for a document. Titles written
// entirely in one case are re-cased for display; mixed-case titles pass
// through untouched. Empty input yields UntitledDocument.
func DisplayTitle(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return UntitledDocument
	}
	if raw == strings.ToLower(raw) || raw == strings.ToUpper(raw) {
		return titleCaser.String(strings.ToLower(raw))
	}
	return raw
}

// SanitizeFileName converts a title into a filesystem-safe base name.
// Path separators and shell-hostile characters become hyphens, runs of
// hyphens collapse, and the result is trimmed. Returns "" for input with no
// usable characters.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	var b strings.Builder
	b.Grow(len(name))
	lastHyphen := false
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|' || r == 0:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		default:
			b.WriteRune(r)
			lastHyphen = false
		}
	}
	return strings.Trim(b.String(), "- ")
}
