// Package search holds helpers shared by the keyword search code paths.
package search

import "strings"

// LikeEscape is the escape character used with EscapeLike patterns.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE/ILIKE wildcards in s so it matches literally.
// Use with ESCAPE '\'.
func EscapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// ContainsPattern returns a LIKE pattern matching any text containing s.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// Keywords splits a raw search string into terms, dropping empty ones.
func Keywords(raw string) []string {
	return strings.Fields(raw)
}
