package highlight

import (
	"context"
	"errors"
	"regexp"
	"runtime"
	"sort"
	"unicode"
	"unicode/utf8"

	"github.com/sourcegraph/conc/pool"

	"github.com/fivemoreminix/pseudoedit/internal/log"
	"github.com/fivemoreminix/pseudoedit/pkg/buffer"
	"github.com/fivemoreminix/pseudoedit/pkg/markup"
)

// errStale is returned by a scan that noticed the buffer changed under it.
var errStale = errors.New("buffer changed during scan")

// Tagger applies the categories of a registry to a buffer as tags named
// after the categories.
type Tagger struct {
	buf        buffer.Buffer
	categories []category
	workers    int
}

type category struct {
	name     string
	patterns []*regexp.Regexp
}

type TaggerOption func(*Tagger)

// WithWorkers bounds the number of patterns scanned at once. Zero or less
// means GOMAXPROCS.
func WithWorkers(n int) TaggerOption {
	return func(t *Tagger) {
		if n > 0 {
			t.workers = n
		}
	}
}

// NewTagger compiles the patterns of reg and defines one tag per category on
// buf, in precedence order. Patterns that do not compile are skipped.
func NewTagger(buf buffer.Buffer, reg *markup.Registry, opts ...TaggerOption) *Tagger {
	t := &Tagger{buf: buf, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(t)
	}

	for _, c := range reg.Categories() {
		buf.DefineTag(c.Name)
		cat := category{name: c.Name}
		for _, p := range c.Patterns {
			re, err := markup.Compile(p.Expr)
			if err != nil {
				log.Debug(log.CatHighlight, "skipping pattern", "category", c.Name, "pattern", p.Expr, "error", err)
				continue
			}
			cat.patterns = append(cat.patterns, re)
		}
		t.categories = append(t.categories, cat)
	}
	return t
}

// HighlightAll runs passes until one completes against an unchanged buffer.
func (t *Tagger) HighlightAll(ctx context.Context) error {
	for {
		applied, err := t.Pass(ctx, func() bool { return true })
		if err != nil || applied {
			return err
		}
	}
}

type scanResult struct {
	job    int
	cat    int
	ranges []buffer.Range
}

// Pass scans the whole buffer for every pattern and replaces the tags of each
// category with what was found. It reports whether the tags were written.
// Nothing is written for a category once current returns false or the
// buffer has been edited since the pass began.
func (t *Tagger) Pass(ctx context.Context, current func() bool) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	version := t.buf.Version()

	p := pool.NewWithResults[scanResult]().
		WithContext(ctx).
		WithMaxGoroutines(t.workers)
	job := 0
	for ci, c := range t.categories {
		for _, re := range c.patterns {
			id, ci, re := job, ci, re
			p.Go(func(ctx context.Context) (scanResult, error) {
				ranges, err := t.scan(ctx, re, version)
				return scanResult{job: id, cat: ci, ranges: ranges}, err
			})
			job++
		}
	}
	results, err := p.Wait()
	if errors.Is(err, errStale) {
		log.Debug(log.CatHighlight, "pass abandoned", "reason", err)
		return false, nil
	} else if err != nil {
		return false, err
	}
	sort.Slice(results, func(i, j int) bool { return results[i].job < results[j].job })

	byCategory := make([][]buffer.Range, len(t.categories))
	for _, r := range results {
		byCategory[r.cat] = append(byCategory[r.cat], r.ranges...)
	}
	for ci, c := range t.categories {
		if !current() {
			log.Debug(log.CatHighlight, "pass superseded", "category", c.name)
			return false, nil
		}
		if !t.buf.ReplaceTag(c.name, byCategory[ci], version) {
			log.Debug(log.CatHighlight, "pass abandoned", "reason", errStale, "category", c.name)
			return false, nil
		}
	}
	return true, nil
}

// scan finds every occurrence of re in the buffer. re must be the output of
// markup.Compile: group 1 is the lexeme, the rest of the match its trailing
// boundary. An occurrence counts only at the start of the buffer or after a
// character that is not a letter.
func (t *Tagger) scan(ctx context.Context, re *regexp.Regexp, version uint64) ([]buffer.Range, error) {
	var ranges []buffer.Range
	from := buffer.Position{}
	end := t.buf.End()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if t.buf.Version() != version {
			return nil, errStale
		}

		m, ok := t.buf.Search(re, from, end)
		if !ok || m.Len == 0 {
			return ranges, nil
		}
		body := 0
		if len(m.Groups) > 0 && m.Groups[0].Offset == 0 {
			body = m.Groups[0].Len
		}
		if body == 0 {
			from = t.buf.Advance(m.Start, 1)
			continue
		}

		bodyEnd := t.buf.Advance(m.Start, body)
		if t.startsWord(m.Start) {
			ranges = append(ranges, buffer.Range{Start: m.Start, End: bodyEnd})
		}
		from = bodyEnd
	}
}

func (t *Tagger) startsWord(p buffer.Position) bool {
	if p == (buffer.Position{}) {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(t.buf.Text(t.buf.Advance(p, -1), p))
	return !unicode.IsLetter(r)
}
