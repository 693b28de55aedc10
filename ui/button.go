package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// A Button runs its Callback when it is focused and Enter or Space is pressed.
type Button struct {
	Text     string
	Callback func()

	baseComponent
}

func NewButton(text string, theme *Theme, callback func()) *Button {
	b := &Button{
		Text:          text,
		Callback:      callback,
		baseComponent: baseComponent{theme: theme},
	}
	b.SetSize(b.GetMinSize())
	return b
}

func (b *Button) Draw(s tcell.Screen) {
	style := b.theme.GetOrDefault("Button")
	left, right := ' ', ' '
	if b.focused {
		style = b.theme.GetOrDefault("ButtonFocused")
		left, right = '<', '>'
	}
	s.SetContent(b.x, b.y, left, nil, style)
	s.SetContent(b.x+1, b.y, ' ', nil, style)
	col := b.x + 2 + DrawStr(s, b.x+2, b.y, b.Text, style)
	s.SetContent(col, b.y, ' ', nil, style)
	s.SetContent(col+1, b.y, right, nil, style)
}

func (b *Button) GetMinSize() (int, int) {
	return runewidth.StringWidth(b.Text) + 4, 1
}

func (b *Button) SetSize(width, height int) {
	minW, minH := b.GetMinSize()
	b.baseComponent.SetSize(max(width, minW), max(height, minH))
}

// Press runs the Callback.
func (b *Button) Press() {
	if b.Callback != nil {
		b.Callback()
	}
}

func (b *Button) HandleEvent(event tcell.Event) bool {
	if !b.focused {
		return false
	}
	if ev, ok := event.(*tcell.EventKey); ok {
		if ev.Key() == tcell.KeyEnter || (ev.Key() == tcell.KeyRune && ev.Rune() == ' ') {
			b.Press()
			return true
		}
	}
	return false
}
