package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// tokenBase maps token indexes onto runes outside the surrogate range so
// they survive the differ's rune-to-string round trips.
const tokenBase = 0x10000

// HTMLDiffer compares two HTML fragments word by word. Inserted text is
// wrapped in <ins> and removed text in <del>; markup follows the newer
// fragment.
type HTMLDiffer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewHTMLDiffer creates a differ with the library's default timeout.
func NewHTMLDiffer() *HTMLDiffer {
	return &HTMLDiffer{dmp: diffmatchpatch.New()}
}

// Diff returns b annotated with the changes from a.
func (d *HTMLDiffer) Diff(a, b string) (string, error) {
	if a == b {
		return b, nil
	}

	var dict tokenDict
	ra := dict.encode(tokenize(a))
	rb := dict.encode(tokenize(b))

	diffs := d.dmp.DiffMainRunes(ra, rb, false)
	diffs = d.dmp.DiffCleanupSemantic(diffs)

	var out strings.Builder
	for _, df := range diffs {
		tokens := dict.decode(df.Text)
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			for _, t := range tokens {
				out.WriteString(t)
			}
		case diffmatchpatch.DiffInsert:
			writeMarked(&out, "ins", tokens, true)
		case diffmatchpatch.DiffDelete:
			writeMarked(&out, "del", tokens, false)
		}
	}
	return out.String(), nil
}

// writeMarked wraps runs of text tokens in <tag>. Markup tokens are kept
// only for insertions.
func writeMarked(out *strings.Builder, tag string, tokens []string, keepMarkup bool) {
	open := false
	for _, t := range tokens {
		if isMarkup(t) {
			if open {
				out.WriteString("</" + tag + ">")
				open = false
			}
			if keepMarkup {
				out.WriteString(t)
			}
			continue
		}
		if !open {
			out.WriteString("<" + tag + ">")
			open = true
		}
		out.WriteString(t)
	}
	if open {
		out.WriteString("</" + tag + ">")
	}
}

func isMarkup(t string) bool {
	return strings.HasPrefix(t, "<")
}

// tokenize splits HTML into tags, whitespace runs and words. Entities stay
// inside their word.
func tokenize(s string) []string {
	var tokens []string
	for len(s) > 0 {
		var n int
		switch r, _ := utf8.DecodeRuneInString(s); {
		case r == '<':
			n = strings.IndexByte(s, '>') + 1
			if n == 0 {
				n = len(s)
			}
		case unicode.IsSpace(r):
			n = strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) })
		default:
			n = strings.IndexFunc(s, func(r rune) bool { return r == '<' || unicode.IsSpace(r) })
		}
		if n <= 0 {
			n = len(s)
		}
		tokens = append(tokens, s[:n])
		s = s[n:]
	}
	return tokens
}

type tokenDict struct {
	index  map[string]rune
	tokens []string
}

func (d *tokenDict) encode(tokens []string) []rune {
	if d.index == nil {
		d.index = make(map[string]rune)
	}
	out := make([]rune, len(tokens))
	for i, t := range tokens {
		r, ok := d.index[t]
		if !ok {
			r = rune(tokenBase + len(d.tokens))
			d.index[t] = r
			d.tokens = append(d.tokens, t)
		}
		out[i] = r
	}
	return out
}

func (d *tokenDict) decode(s string) []string {
	var out []string
	for _, r := range s {
		out = append(out, d.tokens[r-tokenBase])
	}
	return out
}
