package buffer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTags_AddMergesAndOrders(t *testing.T) {
	buf := NewRopeBuffer([]byte("one two three\nfour"))

	buf.AddTag("kw", Pos(0, 8), Pos(0, 13))
	buf.AddTag("kw", Pos(0, 0), Pos(0, 3))
	buf.AddTag("kw", Pos(0, 2), Pos(0, 7)) // Overlaps the first range

	require.Equal(t, []Range{
		{Pos(0, 0), Pos(0, 7)},
		{Pos(0, 8), Pos(0, 13)},
	}, buf.Tags("kw"))
}

func TestTags_RemoveSplitsRange(t *testing.T) {
	buf := NewRopeBuffer([]byte("abcdefgh"))
	buf.AddTag("t", Pos(0, 0), Pos(0, 8))

	buf.RemoveTag("t", Pos(0, 2), Pos(0, 5))

	require.Equal(t, []Range{
		{Pos(0, 0), Pos(0, 2)},
		{Pos(0, 5), Pos(0, 8)},
	}, buf.Tags("t"))
}

func TestTags_ReplaceIsRejectedAfterEdit(t *testing.T) {
	buf := NewRopeBuffer([]byte("if x"))
	v := buf.Version()
	buf.AddTag("kw", Pos(0, 3), Pos(0, 4))

	buf.Insert(0, 0, []byte(" "))
	ok := buf.ReplaceTag("kw", []Range{{Pos(0, 0), Pos(0, 2)}}, v)

	require.False(t, ok)
	require.Equal(t, []Range{{Pos(0, 4), Pos(0, 5)}}, buf.Tags("kw"), "stale replace must not touch tags")

	ok = buf.ReplaceTag("kw", []Range{{Pos(0, 1), Pos(0, 3)}}, buf.Version())
	require.True(t, ok)
	require.Equal(t, []Range{{Pos(0, 1), Pos(0, 3)}}, buf.Tags("kw"))
}

func TestTags_FollowEdits(t *testing.T) {
	buf := NewRopeBuffer([]byte("xx while yy"))
	buf.AddTag("kw", Pos(0, 3), Pos(0, 8))

	buf.Insert(0, 0, []byte("ab")) // Before the range: shifts it
	require.Equal(t, []Range{{Pos(0, 5), Pos(0, 10)}}, buf.Tags("kw"))

	buf.Insert(0, 5, []byte("Z")) // At the start edge: not part of the range
	require.Equal(t, []Range{{Pos(0, 6), Pos(0, 11)}}, buf.Tags("kw"))

	buf.Insert(0, 8, []byte("-")) // Strictly inside: grows the range
	require.Equal(t, []Range{{Pos(0, 6), Pos(0, 12)}}, buf.Tags("kw"))

	buf.Remove(0, 4, 0, 7) // Deletes across the start edge
	require.Equal(t, []Range{{Pos(0, 4), Pos(0, 8)}}, buf.Tags("kw"))

	buf.Remove(0, 0, 0, 20) // Deletes everything
	require.Empty(t, buf.Tags("kw"))
}

func TestTags_LineTagsPrecedence(t *testing.T) {
	buf := NewRopeBuffer([]byte("write \"if\"\nnext"))
	buf.DefineTag("keyword")
	buf.DefineTag("string")

	buf.AddTag("string", Pos(0, 6), Pos(0, 10))
	buf.AddTag("keyword", Pos(0, 7), Pos(0, 9))
	buf.AddTag("keyword", Pos(1, 0), Pos(1, 4))

	require.Equal(t, []TagSpan{
		{Tag: "keyword", StartCol: 7, EndCol: 9},
		{Tag: "string", StartCol: 6, EndCol: 10},
	}, buf.LineTags(0), "lower precedence tags come first")
	require.Equal(t, []TagSpan{{Tag: "keyword", StartCol: 0, EndCol: 4}}, buf.LineTags(1))
	require.Nil(t, buf.LineTags(7))
}

func TestTags_MultilineRangeIsClippedPerLine(t *testing.T) {
	buf := NewRopeBuffer([]byte("// a\nb"))
	buf.AddTag("comment", Pos(0, 0), Pos(1, 0))

	require.Equal(t, []TagSpan{{Tag: "comment", StartCol: 0, EndCol: 5}}, buf.LineTags(0))
	require.Empty(t, buf.LineTags(1))
}
