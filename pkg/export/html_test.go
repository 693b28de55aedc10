package export

import (
	"html"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/fivemoreminix/pseudoedit/pkg/markup"
)

func builtin() *markup.Registry {
	reg := markup.Builtin()
	reg.Seal()
	return reg
}

func TestRender_NoMatches(t *testing.T) {
	got := Render("x <- y & z", builtin())
	require.Equal(t, `<pre><code style="font-weight: bold;">x &lt;- y &amp; z</code></pre>`, got)
}

func TestRender_StringContentsAreNotStyled(t *testing.T) {
	got := Render(`write "if true"`, builtin())
	require.Equal(t,
		`<pre><code style="font-weight: bold;">`+
			`<span style="color: green;">write</span> `+
			`<span style="color: lime;">&#34;if true&#34;</span>`+
			`</code></pre>`,
		got)
}

func TestSpans(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Span
	}{
		{
			name: "start and end of text",
			text: "if x and y",
			want: []Span{
				{0, 2, markup.CatKeyword, "orange"},
				{5, 8, markup.CatKeyword, "orange"},
			},
		},
		{
			name: "partial words",
			text: "motif iffy _if if_ 1if",
			want: nil,
		},
		{
			name: "upper case",
			text: "DEF main:",
			want: []Span{{0, 3, markup.CatHeader, "red"}},
		},
		{
			name: "multibyte neighbours",
			text: "x ⬅ read",
			want: []Span{{6, 10, markup.CatBuiltin, "green"}},
		},
		{
			name: "escaped quote stays inside the string",
			text: `"a \" if" or b`,
			want: []Span{
				{0, 9, markup.CatString, "lime"},
				{10, 12, markup.CatKeyword, "orange"},
			},
		},
		{
			name: "comment",
			text: "x // note\n\n",
			want: []Span{
				{2, 10, markup.CatComment, "grey"},
			},
		},
		{
			name: "keyword inside a comment claims its word first",
			text: "// if\n\n",
			want: []Span{
				{3, 5, markup.CatKeyword, "orange"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Spans(tt.text, builtin()))
		})
	}
}

func TestSpans_EarlierCategoryWins(t *testing.T) {
	reg := markup.New()
	reg.AddCategory("first", "red", false)
	reg.AddCategory("second", "blue", false)
	_ = reg.Register("second", "for each")
	_ = reg.Register("first", "each")
	reg.Seal()

	require.Equal(t, []Span{{4, 8, "first", "red"}}, Spans("for each", reg))
}

func TestSpans_MalformedPatternIsSkipped(t *testing.T) {
	reg := markup.New()
	reg.AddCategory(markup.CatKeyword, "orange", false)
	_ = reg.Register(markup.CatKeyword, "[")
	_ = reg.Register(markup.CatKeyword, "if")

	require.Equal(t, []Span{{0, 2, markup.CatKeyword, "orange"}}, Spans("if", reg))
}

func TestDocument(t *testing.T) {
	got := Document("", "x", builtin())
	require.Equal(t,
		`<!DOCTYPE html><html><head><meta charset="utf-8"><title>untitled</title></head><body>`+
			`<pre><code style="font-weight: bold;">x</code></pre></body></html>`,
		got)

	got = Document("a<b>.pseudo", "x", builtin())
	require.Contains(t, got, "<title>a&lt;b&gt;.pseudo</title>")
}

var tagRe = regexp.MustCompile(`<span style="color: [a-z]+;">|</span>`)

// Stripping the markup from a rendered body gives back the text.
func TestRender_RoundTripProperty(t *testing.T) {
	reg := builtin()
	words := []string{"if", "while", "x", "motif", "write", "\"", "//", "<", "&", "DEF", "@param", "⬅", " ", " ", "\n", ":", "(", ")", "\\"}
	rapid.Check(t, func(rt *rapid.T) {
		parts := rapid.SliceOfN(rapid.SampledFrom(words), 0, 30).Draw(rt, "parts")
		text := strings.Join(parts, "")

		body := Render(text, reg)
		require.True(rt, strings.HasPrefix(body, `<pre><code style="font-weight: bold;">`))
		require.True(rt, strings.HasSuffix(body, `</code></pre>`))
		body = strings.TrimSuffix(strings.TrimPrefix(body, `<pre><code style="font-weight: bold;">`), `</code></pre>`)

		require.NotContains(rt, body, "\x00")
		require.Equal(rt, text, html.UnescapeString(tagRe.ReplaceAllString(body, "")))

		spans := Spans(text, reg)
		for i := 1; i < len(spans); i++ {
			require.LessOrEqual(rt, spans[i-1].End, spans[i].Start, "spans never overlap")
		}
	})
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.html")
	require.NoError(t, WriteFile(path, "prog.pseudo", "if x", builtin()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, Document("prog.pseudo", "if x", builtin()), string(data))

	bad := filepath.Join(t.TempDir(), "missing", "prog.html")
	require.Error(t, WriteFile(bad, "prog.pseudo", "if x", builtin()))
	_, err = os.Stat(bad)
	require.True(t, os.IsNotExist(err))
}
