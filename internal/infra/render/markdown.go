// Package render turns stored revisions into display HTML, diffs HTML
// fragments and extracts plain-text excerpts.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"forum-reader/internal/domain/entity"
)

var revisionTmpl = template.Must(template.New("revision").Parse(
	`<div class="revision">` +
		`{{if .Title}}<h1>{{.Title}}</h1>{{end}}` +
		`<div class="post-body">{{.Body}}</div>` +
		`{{if .Tags}}<ul class="tags">{{range .Tags}}<li class="tag">{{.}}</li>{{end}}</ul>{{end}}` +
		`</div>`))

// RevisionRenderer renders a revision's markdown body into sanitized HTML
// framed with its title and tags.
type RevisionRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewRevisionRenderer creates a renderer with GFM enabled. Raw HTML in
// the source is passed through goldmark and then stripped to the UGC
// policy.
func NewRevisionRenderer() *RevisionRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
			html.WithUnsafe(),
		),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span")
	policy.AllowElements("table", "thead", "tbody", "tr", "th", "td")

	return &RevisionRenderer{md: md, policy: policy}
}

// Markdown converts markdown source to sanitized HTML.
func (r *RevisionRenderer) Markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// Render returns the display HTML of one revision.
func (r *RevisionRenderer) Render(rev *entity.Revision) (string, error) {
	body, err := r.Markdown(rev.Body)
	if err != nil {
		return "", fmt.Errorf("render revision %d: %w", rev.Number, err)
	}

	var out bytes.Buffer
	err = revisionTmpl.Execute(&out, struct {
		Title string
		Body  template.HTML
		Tags  []string
	}{
		Title: rev.Title,
		Body:  template.HTML(body), // #nosec G203 -- sanitized by bluemonday above
		Tags:  rev.Tags,
	})
	if err != nil {
		return "", fmt.Errorf("render revision %d: %w", rev.Number, err)
	}
	return out.String(), nil
}
