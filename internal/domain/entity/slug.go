package entity

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugify lowercases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}

// Path returns the canonical URL path of the question.
func (q *Question) Path() string {
	slug := q.Slug
	if slug == "" {
		slug = Slugify(q.Title)
	}
	if slug == "" {
		return "/questions/" + formatID(q.ID)
	}
	return "/questions/" + formatID(q.ID) + "/" + slug
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Path returns the permalink of the answer. It redirects to the page of
// the question listing that contains the answer.
func (a *Answer) Path() string {
	return "/questions/" + formatID(a.QuestionID) + "/answers/" + formatID(a.ID)
}
