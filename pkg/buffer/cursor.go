package buffer

import (
	"math"
	"unicode"
)

// So why is the code for moving the cursor in the buffer package, and not in the
// TextEdit component? The cursor needs to know where lines end and how it can
// move. The buffer is the city, and the Cursor is the car.

// A Region is a selected span of the buffer. Start is never after End once
// Normalized is called. Unlike the line/col methods of Buffer, End is exclusive.
type Region struct {
	Start Position
	End   Position
}

// Normalized returns the region with Start and End in buffer order.
func (r Region) Normalized() Region {
	if r.End.Before(r.Start) {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// A Cursor's functions emulate common cursor actions. Cursors are values: each
// movement returns the moved Cursor.
type Cursor struct {
	buffer  Buffer
	prevCol int // Column to return to when moving vertically through short lines
	Position
}

func NewCursor(in Buffer) Cursor {
	return Cursor{buffer: in}
}

func (c Cursor) Left() Cursor {
	if c.Col == 0 && c.Line != 0 { // If we are at the beginning of the current line...
		// Go to the end of the above line
		c.Line--
		c.Col = c.buffer.RunesInLine(c.Line)
	} else {
		c.Col = max(c.Col-1, 0)
	}
	c.prevCol = c.Col
	return c
}

func (c Cursor) Right() Cursor {
	// If we are at the end of the current line,
	// and not at the last line...
	if c.Col >= c.buffer.RunesInLine(c.Line) && c.Line < c.buffer.Lines()-1 {
		c.Line, c.Col = c.buffer.ClampLineCol(c.Line+1, 0) // Go to beginning of line below
	} else {
		c.Line, c.Col = c.buffer.ClampLineCol(c.Line, c.Col+1)
	}
	c.prevCol = c.Col
	return c
}

func (c Cursor) Up() Cursor {
	if c.Line == 0 { // If the cursor is at the first line...
		c.Line, c.Col = 0, 0 // Go to beginning
		c.prevCol = 0
	} else {
		c.Line, c.Col = c.buffer.ClampLineCol(c.Line-1, max(c.Col, c.prevCol))
	}
	return c
}

func (c Cursor) Down() Cursor {
	if c.Line == c.buffer.Lines()-1 { // If the cursor is at the last line...
		c.Line, c.Col = c.buffer.ClampLineCol(c.Line, math.MaxInt32) // Go to end of current line
		c.prevCol = c.Col
	} else {
		c.Line, c.Col = c.buffer.ClampLineCol(c.Line+1, max(c.Col, c.prevCol))
	}
	return c
}

// NextWordBoundaryEnd moves to the end of the word, or run of symbols, to the
// right of the Cursor. Whitespace is skipped.
func (c Cursor) NextWordBoundaryEnd() Cursor {
	end := c.buffer.End()
	p := c.Position
	var class charclass = charwhitespace
	for p.Before(end) {
		next := c.buffer.Advance(p, 1)
		r := []rune(c.buffer.Text(p, next))[0]
		rc := getRuneCharclass(r)
		if class != charwhitespace && rc != class {
			break
		}
		class = rc
		p = next
	}
	c.Position = p
	c.prevCol = c.Col
	return c
}

// PrevWordBoundaryStart moves to the start of the word, or run of symbols, to
// the left of the Cursor. Whitespace is skipped.
func (c Cursor) PrevWordBoundaryStart() Cursor {
	p := c.Position
	var class charclass = charwhitespace
	for (Position{}).Before(p) {
		prev := c.buffer.Advance(p, -1)
		r := []rune(c.buffer.Text(prev, p))[0]
		rc := getRuneCharclass(r)
		if class != charwhitespace && rc != class {
			break
		}
		class = rc
		p = prev
	}
	c.Position = p
	c.prevCol = c.Col
	return c
}

func (c Cursor) GetLineCol() (line, col int) {
	return c.Line, c.Col
}

// SetLineCol sets the line and col of the Cursor to those provided. `line` is
// clamped within the range (0, lines in buffer). `col` is then clamped within
// the range (0, line length in runes).
func (c Cursor) SetLineCol(line, col int) Cursor {
	c.Line, c.Col = c.buffer.ClampLineCol(line, col)
	c.prevCol = c.Col
	return c
}

func (c Cursor) Eq(other Cursor) bool {
	return c.buffer == other.buffer && c.Position == other.Position
}

type charclass uint8

const (
	charwhitespace charclass = iota
	charword
	charsymbol
)

func getRuneCharclass(r rune) charclass {
	if unicode.IsSpace(r) {
		return charwhitespace
	} else if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return charword
	} else {
		return charsymbol
	}
}
