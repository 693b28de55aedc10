package ui

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/fivemoreminix/pseudoedit/pkg/buffer"
	"github.com/fivemoreminix/pseudoedit/pkg/document"
)

// TextEdit edits the text of a Document. Tagged text is drawn in the style
// its tag has in Colors.
type TextEdit struct {
	Doc         *document.Document
	Colors      Colorscheme
	LineNumbers bool // Whether to render line numbers (and therefore the column)
	TabSize     int  // Spaces inserted by Tab and removed by Shift-Tab

	// OnEdit is called after the text changed. qualifies reports whether the
	// key that changed it should trigger highlighting.
	OnEdit func(qualifies bool)

	screen           tcell.Screen // We keep our own reference to the screen for cursor purposes.
	cursor           buffer.Cursor
	scrollx, scrolly int // X and Y offset of view, known as scroll

	selection  buffer.Region // Selection: selectMode determines if it should be used
	selectMode bool          // Whether the user is actively selecting text

	baseComponent
}

func NewTextEdit(screen tcell.Screen, doc *document.Document, colors Colorscheme, theme *Theme) *TextEdit {
	return &TextEdit{
		Doc:           doc,
		Colors:        colors,
		LineNumbers:   true,
		TabSize:       4,
		screen:        screen,
		cursor:        buffer.NewCursor(doc.Buffer()),
		baseComponent: baseComponent{theme: theme},
	}
}

func (t *TextEdit) buf() buffer.Buffer {
	return t.Doc.Buffer()
}

// Qualifies reports whether a key should trigger highlighting: ASCII
// letters, Tab, Backspace, Space, double quotes and parentheses.
func Qualifies(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyTab, tcell.KeyBackspace, tcell.KeyBackspace2:
		return true
	case tcell.KeyRune:
		r := ev.Rune()
		return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || strings.ContainsRune(`"() `, r)
	}
	return false
}

func (t *TextEdit) edited(qualifies bool) {
	if t.OnEdit != nil {
		t.OnEdit(qualifies)
	}
}

// ResetCursor moves the cursor to the start of the document and drops the
// selection, as after opening a file.
func (t *TextEdit) ResetCursor() {
	t.selectMode = false
	t.scrollx, t.scrolly = 0, 0
	t.SetCursor(t.cursor.SetLineCol(0, 0))
}

func (t *TextEdit) GetCursor() buffer.Cursor {
	return t.cursor
}

func (t *TextEdit) SetCursor(newCursor buffer.Cursor) {
	t.cursor = newCursor
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// GotoLine moves the cursor to the start of the one-based line, clamped to
// the document.
func (t *TextEdit) GotoLine(line int) {
	t.selectMode = false
	t.SetCursor(t.cursor.SetLineCol(line-1, 0))
}

// selected returns the selected region and whether anything is selected.
func (t *TextEdit) selected() (buffer.Region, bool) {
	if !t.selectMode {
		return buffer.Region{}, false
	}
	r := t.selection.Normalized()
	return r, r.Start.Before(r.End)
}

// GetSelectedString returns the selected text, or "" if nothing is selected.
func (t *TextEdit) GetSelectedString() string {
	if r, ok := t.selected(); ok {
		return t.buf().Text(r.Start, r.End)
	}
	return ""
}

// remove deletes [start, end).
func (t *TextEdit) remove(start, end buffer.Position) {
	if !start.Before(end) {
		return
	}
	last := t.buf().Advance(end, -1)
	t.buf().Remove(start.Line, start.Col, last.Line, last.Col)
}

// DeleteSelection removes the selected text. It reports whether there was any.
func (t *TextEdit) DeleteSelection() bool {
	r, ok := t.selected()
	t.selectMode = false
	if !ok {
		return false
	}
	t.remove(r.Start, r.End)
	t.SetCursor(t.cursor.SetLineCol(r.Start.Line, r.Start.Col))
	return true
}

// Delete with `forwards` false will backspace, destroying the character before the cursor,
// while Delete with `forwards` true will delete the character after (or on) the cursor.
// An active selection is deleted instead. Reports whether anything was deleted.
func (t *TextEdit) Delete(forwards bool) bool {
	if t.DeleteSelection() {
		return true
	}

	pos := t.cursor.Position
	if forwards {
		if !pos.Before(t.buf().End()) {
			return false
		}
		t.remove(pos, t.buf().Advance(pos, 1))
		t.SetCursor(t.cursor.SetLineCol(pos.Line, pos.Col))
		return true
	}

	if pos == (buffer.Position{}) {
		return false
	}
	prev := t.buf().Advance(pos, -1)
	t.remove(prev, pos)
	t.SetCursor(t.cursor.SetLineCol(prev.Line, prev.Col))
	return true
}

// Insert writes `contents` at the cursor position, replacing any selection,
// and moves the cursor after it.
func (t *TextEdit) Insert(contents string) {
	t.DeleteSelection()
	if contents == "" {
		return
	}

	pos := t.cursor.Position
	t.buf().Insert(pos.Line, pos.Col, []byte(contents))
	end := t.buf().Advance(pos, utf8.RuneCountInString(contents))
	t.SetCursor(t.cursor.SetLineCol(end.Line, end.Col))
}

// lineBeforeCursor returns the text from the start of the cursor's line up to
// the cursor.
func (t *TextEdit) lineBeforeCursor() string {
	pos := t.cursor.Position
	return t.buf().Text(buffer.Pos(pos.Line, 0), pos)
}

// InsertNewline breaks the line, indenting the new one like the current one.
// A line ending in ':' opens a block, so the new line gets one more indent.
func (t *TextEdit) InsertNewline() {
	t.DeleteSelection()
	prev := t.lineBeforeCursor()
	indent := len([]rune(prev)) - len([]rune(strings.TrimLeftFunc(prev, unicode.IsSpace)))
	text := "\n" + strings.Repeat(" ", indent)
	if strings.HasSuffix(prev, ":") {
		text += strings.Repeat(" ", t.TabSize)
	}
	t.Insert(text)
}

// InsertTab inserts TabSize spaces.
func (t *TextEdit) InsertTab() {
	t.Insert(strings.Repeat(" ", t.TabSize))
}

// Untab removes TabSize spaces before the cursor, if that is what is there.
// Reports whether it removed them.
func (t *TextEdit) Untab() bool {
	pos := t.cursor.Position
	start := t.buf().Advance(pos, -t.TabSize)
	if t.buf().Text(start, pos) != strings.Repeat(" ", t.TabSize) {
		return false
	}
	t.selectMode = false
	t.remove(start, pos)
	t.SetCursor(t.cursor.SetLineCol(start.Line, start.Col))
	return true
}

// visualCol returns the cell offset of rune column col in runes. A tab takes
// TabSize cells.
func (t *TextEdit) visualCol(runes []rune, col int) int {
	var cells int
	for i := 0; i < col && i < len(runes); i++ {
		cells += t.runeCells(runes[i])
	}
	return cells
}

func (t *TextEdit) runeCells(r rune) int {
	if r == '\t' {
		return t.TabSize
	}
	return max(runewidth.RuneWidth(r), 1)
}

// lineRunes returns the runes of line without its delimiter.
func (t *TextEdit) lineRunes(line int) []rune {
	s := string(t.buf().Line(line))
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return []rune(s)
}

// updateCursorVisibility sets the position of the terminal's cursor with the
// cursor of the TextEdit. Sends a signal to show the cursor if the TextEdit
// is focused and not in select mode.
func (t *TextEdit) updateCursorVisibility() {
	if t.screen == nil || !t.focused {
		return
	}
	if _, ok := t.selected(); ok {
		t.screen.HideCursor()
		return
	}
	line, col := t.cursor.GetLineCol()
	x := t.visualCol(t.lineRunes(line), col)
	t.screen.ShowCursor(t.x+t.getColumnWidth()+x-t.scrollx, t.y+line-t.scrolly)
}

// ScrollToCursor scrolls the view if the cursor is out of it.
func (t *TextEdit) ScrollToCursor() {
	line, col := t.cursor.GetLineCol()

	if line >= t.scrolly+t.height {
		t.scrolly = line - t.height + 1
	} else if line < t.scrolly {
		t.scrolly = line
	}

	x := t.visualCol(t.lineRunes(line), col)
	textWidth := t.width - t.getColumnWidth()
	if x >= t.scrollx+textWidth {
		t.scrollx = x - textWidth + 1
	} else if x < t.scrollx {
		t.scrollx = x
	}
}

// getColumnWidth returns the width of the line numbers column if it is present.
func (t *TextEdit) getColumnWidth() int {
	if !t.LineNumbers {
		return 0
	}
	return max(3, 2+len(strconv.Itoa(t.buf().Lines()))) // Digits plus a space and the bar
}

// lineStyles returns the style of every rune of the line. Higher precedence
// tags come later in LineTags and overwrite lower ones.
func (t *TextEdit) lineStyles(line, n int, def tcell.Style) []tcell.Style {
	styles := make([]tcell.Style, n)
	for i := range styles {
		styles[i] = def
	}
	for _, span := range t.buf().LineTags(line) {
		sty := t.Colors.Style(span.Tag, def)
		for c := max(span.StartCol, 0); c < min(span.EndCol, n); c++ {
			styles[c] = sty
		}
	}
	return styles
}

// Draw renders the TextEdit component.
func (t *TextEdit) Draw(s tcell.Screen) {
	defaultStyle := t.theme.GetOrDefault("TextEdit")
	selectedStyle := t.theme.GetOrDefault("TextEditSelected")
	columnStyle := t.theme.GetOrDefault("TextEditColumn")

	columnWidth := t.getColumnWidth()
	bufferLines := t.buf().Lines()
	sel, hasSel := t.selected()

	DrawRect(s, t.x, t.y, t.width, t.height, ' ', defaultStyle)

	for lineY := t.y; lineY < t.y+t.height; lineY++ {
		line := lineY + t.scrolly - t.y
		if line >= bufferLines {
			break
		}

		if columnWidth > 0 {
			num := strconv.Itoa(line + 1)
			DrawStr(s, t.x, lineY, strings.Repeat(" ", columnWidth-len(num)-1)+num+"│", columnStyle)
		}

		runes := t.lineRunes(line)
		styles := t.lineStyles(line, len(runes), defaultStyle)
		left := t.x + columnWidth
		right := t.x + t.width

		cell := 0 // Cell offset from the start of the line
		for col := 0; col <= len(runes); col++ {
			r := ' ' // Past the last rune we draw the delimiter as a blank
			sty := defaultStyle
			if col < len(runes) {
				r, sty = runes[col], styles[col]
			}
			if hasSel {
				p := buffer.Pos(line, col)
				if !p.Before(sel.Start) && p.Before(sel.End) {
					sty = selectedStyle
				}
			}

			width := t.runeCells(r)
			if col == len(runes) {
				width = 1
			}
			x := left + cell - t.scrollx
			if x >= right {
				break
			}
			if x >= left {
				if r == '\t' {
					DrawRect(s, x, lineY, min(width, right-x), 1, ' ', sty)
				} else {
					s.SetContent(x, lineY, r, nil, sty)
				}
			}
			cell += width
		}
	}

	t.updateCursorVisibility()
}

// SetFocused sets whether the TextEdit is focused. When focused, the cursor is set visible
// and its position is updated on every event.
func (t *TextEdit) SetFocused(v bool) {
	t.focused = v
	if v {
		t.updateCursorVisibility()
	} else if t.screen != nil {
		t.screen.HideCursor()
	}
}

// SetSize resizes the view and keeps the cursor in it.
func (t *TextEdit) SetSize(width, height int) {
	t.width, t.height = width, height
	t.ScrollToCursor()
}

// move applies a cursor movement. With shift held the selection grows from
// where the cursor was; otherwise the selection is dropped.
func (t *TextEdit) move(ev *tcell.EventKey, to func(buffer.Cursor) buffer.Cursor) {
	if ev.Modifiers()&tcell.ModShift != 0 {
		if !t.selectMode {
			t.selection = buffer.Region{Start: t.cursor.Position, End: t.cursor.Position}
			t.selectMode = true
		}
		t.cursor = to(t.cursor)
		t.selection.End = t.cursor.Position
		t.SetCursor(t.cursor)
		return
	}
	t.selectMode = false
	t.SetCursor(to(t.cursor))
}

// HandleEvent allows the TextEdit to handle `event` if it chooses, returns
// whether the TextEdit handled the event.
func (t *TextEdit) HandleEvent(event tcell.Event) bool {
	ev, ok := event.(*tcell.EventKey)
	if !ok {
		return false
	}

	wordMove := ev.Modifiers()&tcell.ModCtrl != 0
	switch ev.Key() {
	// Cursor movement
	case tcell.KeyUp:
		t.move(ev, buffer.Cursor.Up)
	case tcell.KeyDown:
		t.move(ev, buffer.Cursor.Down)
	case tcell.KeyLeft:
		if wordMove {
			t.move(ev, buffer.Cursor.PrevWordBoundaryStart)
		} else {
			t.move(ev, buffer.Cursor.Left)
		}
	case tcell.KeyRight:
		if wordMove {
			t.move(ev, buffer.Cursor.NextWordBoundaryEnd)
		} else {
			t.move(ev, buffer.Cursor.Right)
		}
	case tcell.KeyHome:
		t.move(ev, func(c buffer.Cursor) buffer.Cursor { return c.SetLineCol(c.Line, 0) })
	case tcell.KeyEnd:
		t.move(ev, func(c buffer.Cursor) buffer.Cursor { return c.SetLineCol(c.Line, math.MaxInt32) })
	case tcell.KeyPgUp:
		t.move(ev, func(c buffer.Cursor) buffer.Cursor { return c.SetLineCol(c.Line-t.height, c.Col) })
	case tcell.KeyPgDn:
		t.move(ev, func(c buffer.Cursor) buffer.Cursor { return c.SetLineCol(c.Line+t.height, c.Col) })

	// Deleting
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if t.Delete(false) {
			t.edited(true)
		}
	case tcell.KeyDelete:
		if t.Delete(true) {
			t.edited(false)
		}

	// Editing conveniences
	case tcell.KeyTab:
		t.InsertTab()
		t.edited(true)
	case tcell.KeyBacktab:
		if t.Untab() {
			t.edited(true)
		}
	case tcell.KeyEnter:
		t.InsertNewline()
		t.edited(true)

	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return false
		}
		t.Insert(string(ev.Rune()))
		t.edited(Qualifies(ev))
	default:
		return false
	}
	return true
}
