package buffer

import (
	"io"
	"regexp"
)

// A Buffer is wrapper around any buffer data structure like ropes or a gap buffer
// that can be used for text editors. One way this interface helps is by making
// all API function parameters line and column indexes, so it is simple and easy
// to index and use like a text editor. All lines and columns start at zero, and
// the line/col "end" ranges are inclusive. Position based methods use half-open
// ranges instead.
//
// A Buffer is safe for one writer and any number of concurrent readers. Tag
// methods may be called from any goroutine.
type Buffer interface {
	// Line returns a copy of the data at the given line, including the ending line-
	// delimiter. line starts from zero.
	Line(line int) []byte

	// Returns a slice of the buffer from startLine, startCol, to endLine, endCol,
	// inclusive bounds.
	Slice(startLine, startCol, endLine, endCol int) []byte

	// Bytes returns a copy of all the bytes in the buffer.
	Bytes() []byte

	// Insert copies a byte slice (inserting it) into the position at line, col.
	Insert(line, col int, value []byte)

	// Remove deletes any characters between startLine, startCol, and endLine,
	// endCol, inclusive bounds.
	Remove(startLine, startCol, endLine, endCol int)

	// Returns the number of occurrences of 'sequence' in the buffer, within the range
	// of start line and col, to end line and col. [start, end) (exclusive end).
	Count(startLine, startCol, endLine, endCol int, sequence []byte) int

	// Len returns the number of bytes in the buffer.
	Len() int

	// Lines returns the number of lines in the buffer. If the buffer is empty,
	// 1 is returned, because there is always at least one line.
	Lines() int

	// RunesInLineWithDelim returns the number of runes in the given line,
	// including the line delimiter.
	RunesInLineWithDelim(line int) int

	// RunesInLine returns the number of runes in the given line, excluding the
	// line delimiter.
	RunesInLine(line int) int

	// ClampLineCol clamps line and col to values that point at runes of the
	// buffer. The column may point at the line delimiter.
	ClampLineCol(line, col int) (int, int)

	// LineColToPos returns the index of the byte at line, col. Out of range
	// values are clamped.
	LineColToPos(line, col int) int

	// PosToLineCol converts a byte offset into a line and column. Position will
	// be clamped.
	PosToLineCol(pos int) (int, int)

	WriteTo(w io.Writer) (int64, error)

	// End returns the position just past the last character.
	End() Position

	// Advance returns the position n characters after p (before p if n is
	// negative), clamped to the buffer.
	Advance(p Position, n int) Position

	// Text returns the characters in [start, end).
	Text(start, end Position) string

	// Search finds the first match of re inside [from, to). The pattern only
	// sees that region of text.
	Search(re *regexp.Regexp, from, to Position) (Match, bool)

	// Version is incremented by every Insert and Remove.
	Version() uint64

	TagStore
}

// A TagStore layers named, presentational ranges over a buffer. Tags never
// change the text. Ranges move with the text when it is edited, the way
// ranges of a Tk text widget do: text inserted strictly inside a range
// becomes part of it, text inserted at either edge does not.
type TagStore interface {
	// DefineTag registers a tag name. Tags defined later take precedence
	// when ranges overlap. Using an undefined tag defines it.
	DefineTag(tag string)

	// AddTag tags [start, end).
	AddTag(tag string, start, end Position)

	// RemoveTag removes the tag from [start, end).
	RemoveTag(tag string, start, end Position)

	// ReplaceTag clears every range of tag and applies ranges in its place,
	// as one step. If the buffer is no longer at version the call does nothing
	// and returns false.
	ReplaceTag(tag string, ranges []Range, version uint64) bool

	// Tags returns the merged ranges of tag, in order.
	Tags(tag string) []Range

	// LineTags returns the tagged runs of the line, lowest precedence first.
	LineTags(line int) []TagSpan
}
