package highlight

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fivemoreminix/pseudoedit/pkg/buffer"
	"github.com/fivemoreminix/pseudoedit/pkg/markup"
)

func sealedBuiltin() *markup.Registry {
	reg := markup.Builtin()
	reg.Seal()
	return reg
}

func onlyKeywordIf() *markup.Registry {
	reg := markup.New()
	reg.AddCategory(markup.CatKeyword, "orange", false)
	_ = reg.Register(markup.CatKeyword, "if")
	reg.Seal()
	return reg
}

func rng(sl, sc, el, ec int) buffer.Range {
	return buffer.Range{Start: buffer.Pos(sl, sc), End: buffer.Pos(el, ec)}
}

func highlight(t *testing.T, text string, reg *markup.Registry) *buffer.RopeBuffer {
	t.Helper()
	buf := buffer.NewRopeBuffer([]byte(text))
	require.NoError(t, NewTagger(buf, reg).HighlightAll(context.Background()))
	return buf
}

func TestTagger_WordBoundaries(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []buffer.Range
	}{
		{"alone", "if", []buffer.Range{rng(0, 0, 0, 2)}},
		{"followed by space", "if x", []buffer.Range{rng(0, 0, 0, 2)}},
		{"inside a word", "motif", []buffer.Range{}},
		{"prefix of a word", "iffy", []buffer.Range{}},
		{"after parenthesis", "(if)", []buffer.Range{rng(0, 1, 0, 3)}},
		{"after digit", "1if", []buffer.Range{rng(0, 1, 0, 3)}},
		{"followed by underscore", "if_x", []buffer.Range{}},
		{"second line", "x\n  if y", []buffer.Range{rng(1, 2, 1, 4)}},
		{"every occurrence", "if if", []buffer.Range{rng(0, 0, 0, 2), rng(0, 3, 0, 5)}},
		{"after a wide letter", "はif", []buffer.Range{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := highlight(t, tt.text, onlyKeywordIf())
			require.Equal(t, tt.want, buf.Tags(markup.CatKeyword))
		})
	}
}

func TestTagger_BoundaryProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		prefix := rapid.SampledFrom([]string{"", " ", "(", "\n", "1", "_", "a", "Z", "é", "は", "\""}).Draw(rt, "prefix")
		suffix := rapid.SampledFrom([]string{"", " ", ")", "\n", ":", "1", "_", "y", "é"}).Draw(rt, "suffix")

		buf := buffer.NewRopeBuffer([]byte(prefix + "if" + suffix))
		require.NoError(rt, NewTagger(buf, onlyKeywordIf()).HighlightAll(context.Background()))

		startOK := prefix == "" || !unicode.IsLetter([]rune(prefix)[0])
		endOK := suffix == "" || !regexp.MustCompile(`^[\p{L}\p{N}_]`).MatchString(suffix)

		start := buf.Advance(buffer.Position{}, len([]rune(prefix)))
		want := []buffer.Range{}
		if startOK && endOK {
			want = append(want, buffer.Range{Start: start, End: buf.Advance(start, 2)})
		}
		require.Equal(rt, want, buf.Tags(markup.CatKeyword))
	})
}

func TestTagger_BuiltinCategories(t *testing.T) {
	buf := highlight(t, "DEF:\nvars x: int\nwrite \"if true\"\n", sealedBuiltin())

	require.Equal(t, []buffer.Range{rng(0, 0, 0, 3), rng(1, 0, 1, 4)}, buf.Tags(markup.CatHeader))
	require.Equal(t, []buffer.Range{rng(1, 8, 1, 11)}, buf.Tags(markup.CatType))
	require.Equal(t, []buffer.Range{rng(2, 0, 2, 5), rng(2, 10, 2, 14)}, buf.Tags(markup.CatBuiltin))
	require.Equal(t, []buffer.Range{rng(2, 6, 2, 15)}, buf.Tags(markup.CatString))
	require.Equal(t, []buffer.Range{rng(2, 7, 2, 9)}, buf.Tags(markup.CatKeyword))
}

func TestTagger_CommentAndAtHeader(t *testing.T) {
	buf := highlight(t, "@param n // count\n\n", sealedBuiltin())

	require.Equal(t, []buffer.Range{rng(0, 0, 0, 6)}, buf.Tags(markup.CatHeader))
	require.Equal(t, []buffer.Range{rng(0, 9, 1, 0)}, buf.Tags(markup.CatComment))
}

func TestTagger_Idempotent(t *testing.T) {
	text := "def f:\n    while x and not y:\n        return random\n"
	buf := highlight(t, text, sealedBuiltin())
	first := snapshotTags(buf)

	require.NoError(t, NewTagger(buf, sealedBuiltin()).HighlightAll(context.Background()))
	require.Equal(t, first, snapshotTags(buf))
	require.Equal(t, text, string(buf.Bytes()), "tagging never changes the text")
}

func TestTagger_StaleTagsAreCleared(t *testing.T) {
	buf := buffer.NewRopeBuffer([]byte("if x"))
	tagger := NewTagger(buf, onlyKeywordIf())
	require.NoError(t, tagger.HighlightAll(context.Background()))
	require.Len(t, buf.Tags(markup.CatKeyword), 1)

	buf.Insert(0, 0, []byte("mot")) // "motif x": the old range now sits inside a word
	require.NoError(t, tagger.HighlightAll(context.Background()))
	require.Empty(t, buf.Tags(markup.CatKeyword))
}

func TestTagger_SupersededPassWritesNothing(t *testing.T) {
	buf := buffer.NewRopeBuffer([]byte("if x"))
	tagger := NewTagger(buf, onlyKeywordIf())

	applied, err := tagger.Pass(context.Background(), func() bool { return false })
	require.NoError(t, err)
	require.False(t, applied)
	require.Empty(t, buf.Tags(markup.CatKeyword))
}

// editingBuffer inserts text the first time it is searched, the way an edit on
// the UI goroutine can land in the middle of a pass.
type editingBuffer struct {
	*buffer.RopeBuffer
	edited bool
}

func (b *editingBuffer) Search(re *regexp.Regexp, from, to buffer.Position) (buffer.Match, bool) {
	if !b.edited {
		b.edited = true
		b.Insert(0, 0, []byte("x "))
	}
	return b.RopeBuffer.Search(re, from, to)
}

func TestTagger_EditDuringPassWritesNothing(t *testing.T) {
	buf := &editingBuffer{RopeBuffer: buffer.NewRopeBuffer([]byte("if y"))}
	tagger := NewTagger(buf, onlyKeywordIf(), WithWorkers(1))

	applied, err := tagger.Pass(context.Background(), func() bool { return true })
	require.NoError(t, err)
	require.False(t, applied)
	require.Empty(t, buf.Tags(markup.CatKeyword))

	applied, err = tagger.Pass(context.Background(), func() bool { return true })
	require.NoError(t, err)
	require.True(t, applied)
	require.Equal(t, []buffer.Range{rng(0, 2, 0, 4)}, buf.Tags(markup.CatKeyword))
}

func TestTagger_MalformedPatternIsSkipped(t *testing.T) {
	reg := markup.New()
	reg.AddCategory(markup.CatKeyword, "orange", false)
	_ = reg.Register(markup.CatKeyword, "(unclosed")
	_ = reg.Register(markup.CatKeyword, "if")
	reg.Seal()

	buf := highlight(t, "if x", reg)
	require.Equal(t, []buffer.Range{rng(0, 0, 0, 2)}, buf.Tags(markup.CatKeyword))
}

func TestTagger_UnbalancedClassIsSkipped(t *testing.T) {
	reg := markup.New()
	reg.AddCategory(markup.CatKeyword, "orange", false)
	_ = reg.Register(markup.CatKeyword, "[")
	reg.Seal()

	buf := highlight(t, "x = y", reg)
	require.Empty(t, buf.Tags(markup.CatKeyword))

	reg = markup.New()
	reg.AddCategory(markup.CatKeyword, "orange", false)
	_ = reg.Register(markup.CatKeyword, "[")
	_ = reg.Register(markup.CatKeyword, "if")
	reg.Seal()

	buf = highlight(t, "if x", reg)
	require.Equal(t, []buffer.Range{rng(0, 0, 0, 2)}, buf.Tags(markup.CatKeyword))
}

func TestTagger_EmptyMatchesEndTheScan(t *testing.T) {
	reg := markup.New()
	reg.AddCategory("any", "red", false)
	_ = reg.Register("any", "a*")
	reg.Seal()

	buf := highlight(t, "b aa b", reg)
	require.Equal(t, []buffer.Range{rng(0, 2, 0, 4)}, buf.Tags("any"))
}

func TestTagger_CancelledContext(t *testing.T) {
	buf := buffer.NewRopeBuffer([]byte(strings.Repeat("if ", 100)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	applied, err := NewTagger(buf, onlyKeywordIf()).Pass(ctx, func() bool { return true })
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, applied)
	require.Empty(t, buf.Tags(markup.CatKeyword))
}

func snapshotTags(buf *buffer.RopeBuffer) map[string][]buffer.Range {
	out := make(map[string][]buffer.Range)
	for _, c := range sealedBuiltin().Categories() {
		out[c.Name] = buf.Tags(c.Name)
	}
	return out
}
