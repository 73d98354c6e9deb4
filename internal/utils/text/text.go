// Package text holds small rune-aware string helpers.
package text

import "strings"

// Ellipsis is appended to truncated text.
const Ellipsis = "…"

// CountRunes counts Unicode characters rather than bytes.
func CountRunes(s string) int {
	return len([]rune(s))
}

// CollapseSpace replaces every run of whitespace with a single space and
// trims both ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most limit runes, ending with Ellipsis when
// anything was cut. It prefers to cut at a word boundary in the last
// quarter of the allowance.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if CountRunes(s) <= limit {
		return s
	}
	runes := []rune(s)
	keep := limit - 1
	cut := runes[:keep]
	if i := lastSpace(cut); i >= keep*3/4 {
		cut = cut[:i]
	}
	return strings.TrimRight(string(cut), " ") + Ellipsis
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == ' ' {
			return i
		}
	}
	return -1
}
