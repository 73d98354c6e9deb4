package render

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"forum-reader/internal/utils/text"
)

// Excerpt returns the visible text of an HTML fragment, whitespace
// collapsed and truncated to limit runes. Unparseable input is returned
// as collapsed raw text.
func Excerpt(fragment string, limit int) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return text.Truncate(text.CollapseSpace(fragment), limit)
	}
	doc.Find("script, style").Remove()
	return text.Truncate(text.CollapseSpace(doc.Text()), limit)
}
