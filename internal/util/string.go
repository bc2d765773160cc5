package util

import (
	"strings"
	"unicode"
)

// Normalize performs basic string normalization (lowercase + trim). Trimming
// uses the same whitespace set as SplitWhitespace, so a leading BOM is removed.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimFunc(s, isSpace))
}

// CountWords returns the number of maximal runs of word characters
// ([A-Za-z0-9_]) in s. Any other byte, including non-ASCII, is a boundary.
func CountWords(s string) int {
	count := 0
	inWord := false
	for i := 0; i < len(s); i++ {
		if isWordByte(s[i]) {
			if !inWord {
				count++
				inWord = true
			}
			continue
		}
		inWord = false
	}
	return count
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// SplitWhitespace splits s on runs of whitespace. Unlike strings.Fields it keeps
// the empty leading and trailing pieces produced by surrounding whitespace.
func SplitWhitespace(s string) []string {
	parts := make([]string, 0, 8)
	start := 0
	inSpace := false
	for i, r := range s {
		if isSpace(r) {
			if !inSpace {
				parts = append(parts, s[start:i])
				inSpace = true
			}
			continue
		}
		if inSpace {
			start = i
			inSpace = false
		}
	}
	if inSpace {
		return append(parts, "")
	}
	return append(parts, s[start:])
}

// isSpace matches the whitespace set of JavaScript's \s: unicode.IsSpace plus
// the BOM, minus NEL (U+0085).
func isSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// TruncateWords keeps the first n whitespace-separated pieces of s joined by
// single spaces and appends ellipsis.
func TruncateWords(s string, n int, ellipsis string) string {
	if n <= 0 {
		return ellipsis
	}
	words := SplitWhitespace(s)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ") + ellipsis
}
