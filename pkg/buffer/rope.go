package buffer

import (
	"io"
	"regexp"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/zyedidia/rope"
)

// RopeBuffer is a Buffer backed by a rope. Line and column lookups go through a
// flattened copy of the text with a line index, rebuilt lazily after each edit,
// so addressing costs a binary search instead of a walk over the rope.
type RopeBuffer struct {
	mu      sync.RWMutex
	rope    *rope.Node
	version uint64
	tags    tagTable

	snapMu sync.Mutex
	snap   *snapshot // nil when stale
}

// snapshot is the flattened text of a RopeBuffer at one version.
type snapshot struct {
	data       []byte
	lineStarts []int // Byte index of the first byte of each line
}

func NewRopeBuffer(contents []byte) *RopeBuffer {
	if contents == nil {
		contents = []byte{}
	}
	return &RopeBuffer{
		rope: rope.New(contents),
		tags: newTagTable(),
	}
}

func newSnapshot(data []byte) *snapshot {
	starts := make([]int, 1, 64)
	for i, c := range data {
		if c == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &snapshot{data: data, lineStarts: starts}
}

// current returns the snapshot of the buffer. The caller must hold b.mu.
func (b *RopeBuffer) current() *snapshot {
	b.snapMu.Lock()
	defer b.snapMu.Unlock()
	if b.snap == nil {
		// Copy: leaves of the rope may be reused by later edits.
		b.snap = newSnapshot(append([]byte(nil), b.rope.Value()...))
	}
	return b.snap
}

// touch marks the buffer as changed. The caller must hold b.mu for writing.
func (b *RopeBuffer) touch() {
	b.version++
	b.snap = nil
}

func (s *snapshot) lines() int {
	return len(s.lineStarts)
}

// lineBounds returns the byte index of the first byte of line, the index of its
// line delimiter (or the end of the text), and the index of the next line.
func (s *snapshot) lineBounds(line int) (start, contentEnd, next int) {
	start = s.lineStarts[line]
	if line+1 < len(s.lineStarts) {
		next = s.lineStarts[line+1]
		contentEnd = next - 1 // '\n'
		if contentEnd > start && s.data[contentEnd-1] == '\r' {
			contentEnd--
		}
	} else {
		next = len(s.data)
		contentEnd = next
	}
	return start, contentEnd, next
}

// offset converts a Position into a byte index. Lines past the end map to the
// end of the text; columns past the end of a line stop at its delimiter.
func (s *snapshot) offset(p Position) int {
	if p.Line < 0 {
		return 0
	}
	if p.Line >= s.lines() {
		return len(s.data)
	}
	start, _, next := s.lineBounds(p.Line)
	limit := next
	if p.Line+1 < s.lines() {
		limit = next - 1 // Column may address the '\n', no further
	}
	pos := start
	for col := p.Col; col > 0 && pos < limit; col-- {
		_, size := utf8.DecodeRune(s.data[pos:])
		pos += size
	}
	return pos
}

// position converts a byte index into a Position. The index is clamped.
func (s *snapshot) position(off int) Position {
	if off <= 0 {
		return Position{}
	}
	if off > len(s.data) {
		off = len(s.data)
	}
	line := sort.Search(len(s.lineStarts), func(i int) bool {
		return s.lineStarts[i] > off
	}) - 1
	return Position{line, utf8.RuneCount(s.data[s.lineStarts[line]:off])}
}

// runeEnd returns the index after the rune starting at off.
func (s *snapshot) runeEnd(off int) int {
	if off >= len(s.data) {
		return len(s.data)
	}
	_, size := utf8.DecodeRune(s.data[off:])
	return off + size
}

// LineColToPos returns the index of the byte at line, col. If col is greater than
// the length of the line, the position of the line delimiter is returned instead.
func (b *RopeBuffer) LineColToPos(line, col int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current().offset(Position{line, col})
}

// Line returns a copy of the data at the given line, including the ending line-
// delimiter. Lines out of range return nil.
func (b *RopeBuffer) Line(line int) []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	if line < 0 || line >= s.lines() {
		return nil
	}
	start, _, next := s.lineBounds(line)
	out := make([]byte, next-start)
	copy(out, s.data[start:next])
	return out
}

// Returns a slice of the buffer from startLine, startCol, to endLine, endCol,
// inclusive bounds.
func (b *RopeBuffer) Slice(startLine, startCol, endLine, endCol int) []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	start := s.offset(Position{startLine, startCol})
	end := s.runeEnd(s.offset(Position{endLine, endCol}))
	if end <= start {
		return []byte{}
	}
	return b.rope.Slice(start, end)
}

// Bytes returns a copy of all the bytes in the buffer.
func (b *RopeBuffer) Bytes() []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data := b.current().data
	out := make([]byte, len(data))
	copy(out, data)
	return out
}

// Insert copies a byte slice (inserting it) into the position at line, col.
func (b *RopeBuffer) Insert(line, col int, value []byte) {
	if len(value) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	pos := b.current().offset(Position{line, col})
	b.rope.Insert(pos, value)
	b.tags.shiftInsert(pos, len(value))
	b.touch()
}

// Remove deletes any characters between startLine, startCol, and endLine,
// endCol, inclusive bounds.
func (b *RopeBuffer) Remove(startLine, startCol, endLine, endCol int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.current()
	start := s.offset(Position{startLine, startCol})
	end := s.runeEnd(s.offset(Position{endLine, endCol}))
	if end <= start {
		return
	}
	b.rope.Remove(start, end)
	b.tags.shiftRemove(start, end)
	b.touch()
}

// Returns the number of occurrences of 'sequence' in the buffer, within the range
// of start line and col, to end line and col. End is exclusive.
func (b *RopeBuffer) Count(startLine, startCol, endLine, endCol int, sequence []byte) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	startPos := s.offset(Position{startLine, startCol})
	endPos := s.offset(Position{endLine, endCol})
	if endPos <= startPos {
		return 0
	}
	return b.rope.Count(startPos, endPos, sequence)
}

// Len returns the number of bytes in the buffer.
func (b *RopeBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.Len()
}

// Lines returns the number of lines in the buffer. If the buffer is empty,
// 1 is returned, because there is always at least one line. This function
// basically counts the number of newline ('\n') characters in a buffer.
func (b *RopeBuffer) Lines() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current().lines()
}

// RunesInLineWithDelim returns the number of runes in the given line. That is, the
// number of Utf-8 codepoints in the line, not bytes. Includes the line delimiter
// in the count. If that line delimiter is CRLF ('\r\n'), then it adds two.
func (b *RopeBuffer) RunesInLineWithDelim(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	if line < 0 || line >= s.lines() {
		return 0
	}
	start, _, next := s.lineBounds(line)
	return utf8.RuneCount(s.data[start:next])
}

// RunesInLine returns the number of runes in the given line. That is, the
// number of Utf-8 codepoints in the line, not bytes. Excludes line delimiters.
func (b *RopeBuffer) RunesInLine(line int) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	if line < 0 || line >= s.lines() {
		return 0
	}
	start, end, _ := s.lineBounds(line)
	return utf8.RuneCount(s.data[start:end])
}

// ClampLineCol is a utility function to clamp any provided line and col to
// only possible values within the buffer, pointing to runes. It first clamps
// the line, then clamps the column. The column is clamped between zero and
// the last rune before the line delimiter.
func (b *RopeBuffer) ClampLineCol(line, col int) (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	if line < 0 {
		line = 0
	} else if lines := s.lines() - 1; line > lines {
		line = lines
	}

	start, end, _ := s.lineBounds(line)
	if col < 0 {
		col = 0
	} else if runes := utf8.RuneCount(s.data[start:end]); col > runes {
		col = runes
	}
	return line, col
}

// PosToLineCol converts a byte offset (position) of the buffer's bytes, into
// a line and column. Unless you are working with the Bytes() function, this
// is unlikely to be useful to you. Position will be clamped.
func (b *RopeBuffer) PosToLineCol(pos int) (int, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	p := b.current().position(pos)
	return p.Line, p.Col
}

func (b *RopeBuffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.rope.WriteTo(w)
}

// End returns the position just past the last character of the buffer.
func (b *RopeBuffer) End() Position {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := b.current()
	return s.position(len(s.data))
}

// Advance returns the position n characters after p, or before p when n is
// negative. Line delimiters count as one character each.
func (b *RopeBuffer) Advance(p Position, n int) Position {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	off := s.offset(p)
	for ; n > 0 && off < len(s.data); n-- {
		_, size := utf8.DecodeRune(s.data[off:])
		off += size
	}
	for ; n < 0 && off > 0; n++ {
		_, size := utf8.DecodeLastRune(s.data[:off])
		off -= size
	}
	return s.position(off)
}

// Text returns the characters between start (inclusive) and end (exclusive).
func (b *RopeBuffer) Text(start, end Position) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	from, to := s.offset(start), s.offset(end)
	if to <= from {
		return ""
	}
	return string(s.data[from:to])
}

// Search finds the leftmost match of re within [from, to). The returned Match
// reports lengths and group offsets in runes.
func (b *RopeBuffer) Search(re *regexp.Regexp, from, to Position) (Match, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	lo, hi := s.offset(from), s.offset(to)
	if hi < lo {
		return Match{}, false
	}
	loc := re.FindSubmatchIndex(s.data[lo:hi])
	if loc == nil {
		return Match{}, false
	}

	start := lo + loc[0]
	m := Match{
		Start: s.position(start),
		Len:   utf8.RuneCount(s.data[start : lo+loc[1]]),
	}
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] < 0 {
			m.Groups = append(m.Groups, Submatch{Offset: -1})
			continue
		}
		gs, ge := lo+loc[i], lo+loc[i+1]
		m.Groups = append(m.Groups, Submatch{
			Offset: utf8.RuneCount(s.data[start:gs]),
			Len:    utf8.RuneCount(s.data[gs:ge]),
		})
	}
	return m, true
}

// Version returns the edit counter of the buffer.
func (b *RopeBuffer) Version() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.version
}

// DefineTag registers tag, giving it precedence over all tags defined before it.
func (b *RopeBuffer) DefineTag(tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tags.define(tag)
}

// AddTag tags the characters in [start, end).
func (b *RopeBuffer) AddTag(tag string, start, end Position) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.current()
	b.tags.add(tag, span{s.offset(start), s.offset(end)})
}

// RemoveTag removes tag from the characters in [start, end).
func (b *RopeBuffer) RemoveTag(tag string, start, end Position) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.current()
	b.tags.remove(tag, span{s.offset(start), s.offset(end)})
}

// ReplaceTag swaps every range of tag for ranges, provided the buffer has not
// been edited since version.
func (b *RopeBuffer) ReplaceTag(tag string, ranges []Range, version uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.version != version {
		return false
	}
	s := b.current()
	spans := make([]span, 0, len(ranges))
	for _, r := range ranges {
		spans = append(spans, span{s.offset(r.Start), s.offset(r.End)})
	}
	b.tags.replace(tag, spans)
	return true
}

// Tags returns the merged ranges of tag in buffer order.
func (b *RopeBuffer) Tags(tag string) []Range {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	spans := b.tags.spans[tag]
	out := make([]Range, 0, len(spans))
	for _, sp := range spans {
		out = append(out, Range{s.position(sp.start), s.position(sp.end)})
	}
	return out
}

// LineTags returns the tagged column runs of line. Runs are grouped by tag in
// precedence order, lowest first, so drawing them in order leaves the highest
// precedence tag visible.
func (b *RopeBuffer) LineTags(line int) []TagSpan {
	b.mu.RLock()
	defer b.mu.RUnlock()

	s := b.current()
	if line < 0 || line >= s.lines() {
		return nil
	}
	start, _, next := s.lineBounds(line)

	var out []TagSpan
	for _, tag := range b.tags.order {
		for _, sp := range b.tags.clip(tag, start, next) {
			out = append(out, TagSpan{
				Tag:      tag,
				StartCol: utf8.RuneCount(s.data[start:sp.start]),
				EndCol:   utf8.RuneCount(s.data[start:sp.end]),
			})
		}
	}
	return out
}
