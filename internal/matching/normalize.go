// Package matching centralizes the text normalization, time parsing and
// similarity scoring primitives used by event deduplication.
package matching

import "strings"

// Normalize lowercases and trims a string. Every comparison in the
// matching pipeline goes through this first.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tokens splits a normalized string on whitespace into a set of word tokens.
func Tokens(s string) map[string]struct{} {
	fields := strings.Fields(Normalize(s))
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

// ContainsWord reports whether needle occurs in haystack on a word or
// punctuation boundary. Both inputs are normalized before comparison, so
// "101" matches "101 Beit Midrash" but not "1012 Library".
func ContainsWord(haystack, needle string) bool {
	h := Normalize(haystack)
	n := Normalize(needle)
	if n == "" {
		return false
	}

	for start := 0; ; {
		idx := strings.Index(h[start:], n)
		if idx < 0 {
			return false
		}
		idx += start

		end := idx + len(n)
		leftOK := idx == 0 || isBoundary(h[idx-1])
		rightOK := end == len(h) || isBoundary(h[end])
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}

func isBoundary(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return false
	case b >= '0' && b <= '9':
		return false
	default:
		return true
	}
}
