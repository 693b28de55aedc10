package buffer

// A Position addresses a character in a Buffer by zero-based line and column.
// Columns count runes, not bytes. The line delimiter at the end of a line is
// addressed by the column one past the last rune of that line.
//
// Positions are plain values: they are not updated when the buffer changes,
// so a Position taken before an insertion or deletion must not be reused
// after it.
type Position struct {
	Line int
	Col  int
}

// Pos is shorthand for Position{line, col}.
func Pos(line, col int) Position {
	return Position{line, col}
}

// Compare returns -1 if p is before o, 1 if p is after o, and 0 if they are
// the same position.
func (p Position) Compare(o Position) int {
	switch {
	case p.Line < o.Line:
		return -1
	case p.Line > o.Line:
		return 1
	case p.Col < o.Col:
		return -1
	case p.Col > o.Col:
		return 1
	}
	return 0
}

// Before reports whether p comes strictly before o.
func (p Position) Before(o Position) bool {
	return p.Compare(o) < 0
}

// A Range is the half-open region [Start, End) of a buffer.
type Range struct {
	Start Position
	End   Position
}

// Empty reports whether the range covers no characters.
func (r Range) Empty() bool {
	return !r.Start.Before(r.End)
}

// Submatch locates a capture group inside a Match. Offset and Len count runes
// from the start of the match. Offset is negative when the group did not
// participate in the match.
type Submatch struct {
	Offset int
	Len    int
}

// A Match is the result of a forward search: where the match starts, how
// many runes it spans, and where each capture group landed.
type Match struct {
	Start  Position
	Len    int
	Groups []Submatch
}

// TagSpan is one tagged run of columns on a single line. EndCol is exclusive.
type TagSpan struct {
	Tag      string
	StartCol int
	EndCol   int
}
