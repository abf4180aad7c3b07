package common

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	markupPattern     = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// CleanText strips markup, collapses whitespace, and truncates the
// result to at most maxLen characters. Product descriptions arrive as
// rich text; retrieval and prompts both want plain prose.
func CleanText(s string, maxLen int) string {
	s = markupPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if maxLen > 0 && len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s
}
