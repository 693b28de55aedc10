package ui

import (
	"github.com/gdamore/tcell/v2"
)

// An InputField is a single-line input box.
type InputField struct {
	// OnSubmit is called with the text when Enter is pressed.
	OnSubmit func(string)

	text      []rune
	cursorPos int // Rune index into text
	scrollPos int
	screen    tcell.Screen

	baseComponent
}

func NewInputField(screen tcell.Screen, text string, theme *Theme) *InputField {
	f := &InputField{
		screen:        screen,
		baseComponent: baseComponent{theme: theme},
	}
	f.SetText(text)
	return f
}

func (f *InputField) Text() string {
	return string(f.text)
}

// SetText replaces the text and moves the cursor to its end.
func (f *InputField) SetText(text string) {
	f.text = []rune(text)
	f.SetCursorPos(len(f.text))
}

func (f *InputField) GetCursorPos() int {
	return f.cursorPos
}

// SetCursorPos sets the cursor position offset. Offset is clamped to possible values.
// The InputField is scrolled to show the new cursor position.
func (f *InputField) SetCursorPos(offset int) {
	offset = Clamp(offset, 0, len(f.text))

	visible := max(f.width-2, 1)
	if offset >= f.scrollPos+visible { // Out of view to the right
		f.scrollPos = offset - visible + 1
	} else if offset < f.scrollPos {
		f.scrollPos = offset
	}

	f.cursorPos = offset
	if f.focused && f.screen != nil {
		f.screen.ShowCursor(f.x+1+offset-f.scrollPos, f.y)
	}
}

// Insert writes r at the cursor.
func (f *InputField) Insert(r rune) {
	f.text = append(f.text[:f.cursorPos], append([]rune{r}, f.text[f.cursorPos:]...)...)
	f.SetCursorPos(f.cursorPos + 1)
}

// Delete with forward false removes the rune before the cursor; with forward
// true it removes the rune under the cursor.
func (f *InputField) Delete(forward bool) {
	if forward {
		if f.cursorPos < len(f.text) {
			f.text = append(f.text[:f.cursorPos], f.text[f.cursorPos+1:]...)
		}
		f.SetCursorPos(f.cursorPos)
		return
	}
	if f.cursorPos > 0 {
		f.text = append(f.text[:f.cursorPos-1], f.text[f.cursorPos:]...)
		f.SetCursorPos(f.cursorPos - 1)
	}
}

func (f *InputField) Draw(s tcell.Screen) {
	style := f.theme.GetOrDefault("InputField")

	DrawRect(s, f.x, f.y, f.width, 1, ' ', style)
	s.SetContent(f.x, f.y, '[', nil, style)
	s.SetContent(f.x+f.width-1, f.y, ']', nil, style)

	if len(f.text) > 0 {
		end := min(len(f.text), f.scrollPos+f.width-2)
		DrawStr(s, f.x+1, f.y, string(f.text[f.scrollPos:end]), style)
	}

	f.SetCursorPos(f.cursorPos)
}

func (f *InputField) SetFocused(v bool) {
	f.focused = v
	if v {
		f.SetCursorPos(f.cursorPos)
	} else if f.screen != nil {
		f.screen.HideCursor()
	}
}

// SetSize resizes the InputField and scrolls back as far as the cursor
// allows.
func (f *InputField) SetSize(width, height int) {
	f.width, f.height = width, height
	f.scrollPos = 0
	f.SetCursorPos(f.cursorPos)
}

func (f *InputField) GetMinSize() (int, int) {
	return 3, 1
}

func (f *InputField) HandleEvent(event tcell.Event) bool {
	ev, ok := event.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch ev.Key() {
	case tcell.KeyLeft:
		f.SetCursorPos(f.cursorPos - 1)
	case tcell.KeyRight:
		f.SetCursorPos(f.cursorPos + 1)
	case tcell.KeyHome:
		f.SetCursorPos(0)
	case tcell.KeyEnd:
		f.SetCursorPos(len(f.text))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		f.Delete(false)
	case tcell.KeyDelete:
		f.Delete(true)
	case tcell.KeyEnter:
		if f.OnSubmit == nil {
			return false
		}
		f.OnSubmit(f.Text())
	case tcell.KeyRune:
		f.Insert(ev.Rune())
	default:
		return false
	}
	return true
}
