package prompt

import (
	"regexp"
	"unicode/utf8"
)

// escapeSequencePattern matches the SGR escape sequences this package emits.
var escapeSequencePattern = regexp.MustCompile("\x1b\\[[0-9;]*m")

// StripEscapeSequences removes every color escape sequence from the rendering.
func StripEscapeSequences(rendering string) string {
	return escapeSequencePattern.ReplaceAllString(rendering, "")
}

// VisibleWidth counts the characters a terminal displays for the rendering.
func VisibleWidth(rendering string) int {
	return utf8.RuneCountInString(StripEscapeSequences(rendering))
}
