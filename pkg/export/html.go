// Package export renders pseudocode as a standalone HTML document, colored the
// way the editor colors it. The coloring is computed from the text alone; the
// tags of the live buffer are never consulted.
package export

import (
	"html"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fivemoreminix/pseudoedit/internal/fsutil"
	"github.com/fivemoreminix/pseudoedit/internal/log"
	"github.com/fivemoreminix/pseudoedit/pkg/markup"
)

// Untitled is the document title used for text with no file.
const Untitled = "untitled"

// sentinel pads the text so matches at its very start and end see a
// boundary character like any other.
const sentinel = "\x00"

// A Span is an accepted, colored occurrence. Start and End are byte offsets
// into the exported text.
type Span struct {
	Start    int
	End      int
	Category string
	Color    string
}

// Spans returns the colored occurrences of the patterns of reg in text, in
// text order. Categories are tried in precedence order and an occurrence is
// dropped when it overlaps one already accepted, so the earliest category
// wins. Occurrences must be preceded and followed by a non-word character
// (or the start or end of the text) and, except for the category of string
// literals itself, must not lie inside a string literal.
func Spans(text string, reg *markup.Registry) []Span {
	padded := sentinel + text + sentinel
	quotes := newQuoteIndex(padded)

	var accepted []Span // Kept sorted by Start, offsets into padded
	for _, c := range reg.Categories() {
		for _, p := range c.Patterns {
			re, err := markup.Compile(p.Expr)
			if err != nil {
				log.Debug(log.CatExport, "skipping pattern", "category", c.Name, "pattern", p.Expr, "error", err)
				continue
			}

			pos := 0
			for pos < len(padded) {
				loc := re.FindStringSubmatchIndex(padded[pos:])
				if loc == nil || loc[1] == loc[0] {
					break
				}
				start, end := pos+loc[2], pos+loc[3]
				if end == start {
					pos = nextRune(padded, start)
					continue
				}
				if start == 0 || !isNonWord(padded, start) {
					pos = nextRune(padded, start)
					continue
				}
				pos = end

				// The sentinels belong to no occurrence.
				end = min(end, len(padded)-len(sentinel))
				if end <= start {
					continue
				}
				if !c.Quoted && quotes.inString(start, end) {
					continue
				}
				sp := Span{Start: start, End: end, Category: c.Name, Color: c.Color}
				accepted = insertSpan(accepted, sp)
			}
		}
	}

	for i := range accepted {
		accepted[i].Start -= len(sentinel)
		accepted[i].End -= len(sentinel)
	}
	return accepted
}

// isNonWord reports whether the rune ending right before off cannot be part
// of a word.
func isNonWord(s string, off int) bool {
	r, _ := utf8.DecodeLastRuneInString(s[:off])
	return !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r))
}

func nextRune(s string, off int) int {
	_, size := utf8.DecodeRuneInString(s[off:])
	return off + max(size, 1)
}

// insertSpan adds sp to the sorted spans unless it overlaps one of them.
func insertSpan(spans []Span, sp Span) []Span {
	i := sort.Search(len(spans), func(i int) bool { return spans[i].Start >= sp.Start })
	if i > 0 && spans[i-1].End > sp.Start {
		return spans
	}
	if i < len(spans) && spans[i].Start < sp.End {
		return spans
	}
	spans = append(spans, Span{})
	copy(spans[i+1:], spans[i:])
	spans[i] = sp
	return spans
}

// Render returns the escaped text with every span of Spans wrapped in a
// colored element, inside a bold preformatted block.
func Render(text string, reg *markup.Registry) string {
	var b strings.Builder
	b.WriteString(`<pre><code style="font-weight: bold;">`)
	last := 0
	for _, sp := range Spans(text, reg) {
		b.WriteString(html.EscapeString(text[last:sp.Start]))
		b.WriteString(`<span style="color: `)
		b.WriteString(html.EscapeString(sp.Color))
		b.WriteString(`;">`)
		b.WriteString(html.EscapeString(text[sp.Start:sp.End]))
		b.WriteString(`</span>`)
		last = sp.End
	}
	b.WriteString(html.EscapeString(text[last:]))
	b.WriteString(`</code></pre>`)
	return b.String()
}

// Document returns a complete HTML page for text. An empty title becomes
// Untitled.
func Document(title, text string, reg *markup.Registry) string {
	if title == "" {
		title = Untitled
	}
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
	b.WriteString(html.EscapeString(title))
	b.WriteString(`</title></head><body>`)
	b.WriteString(Render(text, reg))
	b.WriteString(`</body></html>`)
	return b.String()
}

// WriteFile writes the Document for text to path. Either the whole document is
// written or path is left as it was.
func WriteFile(path, title, text string, reg *markup.Registry) error {
	if err := fsutil.WriteFile(path, []byte(Document(title, text, reg)), 0o644); err != nil {
		log.ErrorErr(log.CatExport, "export failed", err, "path", path)
		return err
	}
	log.Info(log.CatExport, "exported", "path", path, "bytes", len(text))
	return nil
}
