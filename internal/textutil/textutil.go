// Package textutil holds small line and whitespace helpers shared by the
// segmenter, the field extractor and the normalizer.
package textutil

import (
	"strings"
	"unicode"
)

// SplitLines splits s on '\n' after folding CRLF and lone CR to LF.
func SplitLines(s string) []string {
	if strings.IndexByte(s, '\r') >= 0 {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	}
	return strings.Split(s, "\n")
}

// IsBlank reports whether s holds only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// CollapseSpaces replaces every run of whitespace in s with one ASCII space
// and trims both ends.
func CollapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimRight(b.String(), " ")
}

// IsHexDump reports whether line looks like leaked binary data (embedded
// pictures or OLE payloads): at least minLen characters, of which more than
// ratio are hex digits.
func IsHexDump(line string, minLen int, ratio float64) bool {
	l := strings.TrimSpace(line)
	if len(l) <= minLen {
		return false
	}
	hex := 0
	for i := 0; i < len(l); i++ {
		c := l[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			hex++
		}
	}
	return float64(hex)/float64(len(l)) > ratio
}

// ReplaceControls maps control characters other than '\n' to spaces.
func ReplaceControls(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' {
			return r
		}
		if unicode.IsControl(r) || r == '\uFEFF' {
			return ' '
		}
		return r
	}, s)
}
