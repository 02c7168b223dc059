// Package textnorm cleans text extracted from court documents.
package textnorm

import (
	"strings"
	"unicode"
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// Normalize strips control characters, unifies line endings, collapses every
// run of whitespace to a single space and trims the result.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	s = strings.Map(dropControl, s)
	s = lineEndings.Replace(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// dropControl removes U+0000-U+0008, U+000B, U+000C, U+000E-U+001F and
// U+007F-U+009F. Tab, line feed and carriage return survive as whitespace.
func dropControl(r rune) rune {
	switch {
	case r <= 0x08, r == 0x0b, r == 0x0c, r >= 0x0e && r <= 0x1f:
		return -1
	case r >= 0x7f && r <= 0x9f:
		return -1
	default:
		return r
	}
}
