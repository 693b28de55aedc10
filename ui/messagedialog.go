package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

type MessageDialogKind uint8

const (
	MessageKindNormal MessageDialogKind = iota
	MessageKindWarning
	MessageKindError
)

// Index of messageDialogKindTitles is any MessageDialogKind.
var messageDialogKindTitles = [3]string{
	"Message",
	"Warning!",
	"Error!",
}

// A MessageDialog shows a message and a row of option buttons. Callback gets
// the text of the chosen option. Escape chooses the last option.
type MessageDialog struct {
	Title    string
	Kind     MessageDialogKind
	Callback func(string)

	message        string
	messageWrapped string

	buttons  []*Button
	selected int

	baseComponent
}

func NewMessageDialog(title string, message string, kind MessageDialogKind, options []string, theme *Theme, callback func(string)) *MessageDialog {
	if title == "" {
		title = messageDialogKindTitles[kind]
	}
	if len(options) == 0 {
		options = []string{"OK"}
	}

	d := &MessageDialog{
		Title:         title,
		Kind:          kind,
		Callback:      callback,
		message:       message,
		baseComponent: baseComponent{theme: theme},
	}

	d.buttons = make([]*Button, len(options))
	for i, option := range options {
		d.buttons[i] = NewButton(option, theme, func() { d.choose(option) })
	}

	d.SetSize(0, 0)
	return d
}

func (d *MessageDialog) choose(option string) {
	if d.Callback != nil {
		d.Callback(option)
	}
}

// Options returns the option texts in order.
func (d *MessageDialog) Options() []string {
	opts := make([]string, len(d.buttons))
	for i, b := range d.buttons {
		opts[i] = b.Text
	}
	return opts
}

func (d *MessageDialog) SetMessage(message string) {
	d.message = message
	d.SetSize(d.width, 0)
}

func (d *MessageDialog) Draw(s tcell.Screen) {
	DrawWindow(s, d.x, d.y, d.width, d.height, d.Title, d.theme)

	DrawStr(s, d.x+1, d.y+2, d.messageWrapped, d.theme.GetOrDefault("Window"))

	col := d.width // Buttons are laid out from the right
	for i := len(d.buttons) - 1; i >= 0; i-- {
		width, _ := d.buttons[i].GetSize()
		col -= width + 1
		d.buttons[i].SetPos(d.x+col, d.y+d.height-2)
		d.buttons[i].Draw(s)
	}
}

func (d *MessageDialog) SetFocused(v bool) {
	d.focused = v
	d.buttons[d.selected].SetFocused(v)
}

func (d *MessageDialog) SetTheme(theme *Theme) {
	d.theme = theme
	for i := range d.buttons {
		d.buttons[i].SetTheme(theme)
	}
}

func (d *MessageDialog) GetMinSize() (int, int) {
	buttonsWidth := 1
	for _, b := range d.buttons {
		w, _ := b.GetSize()
		buttonsWidth += w + 1
	}
	width := max(runewidth.StringWidth(d.Title)+2, buttonsWidth, 30)
	lines := strings.Count(runewidth.Wrap(d.message, width-2), "\n") + 1
	return width, 2 + lines + 3
}

func (d *MessageDialog) SetSize(width, height int) {
	minWidth, _ := d.GetMinSize()
	d.width = max(width, minWidth)
	d.messageWrapped = runewidth.Wrap(d.message, d.width-2)
	lines := strings.Count(d.messageWrapped, "\n") + 1
	d.height = max(height, 2+lines+3)
}

func (d *MessageDialog) selectButton(idx int) {
	d.buttons[d.selected].SetFocused(false)
	d.selected = (idx + len(d.buttons)) % len(d.buttons)
	d.buttons[d.selected].SetFocused(d.focused)
}

func (d *MessageDialog) HandleEvent(event tcell.Event) bool {
	if ev, ok := event.(*tcell.EventKey); ok {
		switch ev.Key() {
		case tcell.KeyLeft, tcell.KeyBacktab:
			d.selectButton(d.selected - 1)
			return true
		case tcell.KeyRight, tcell.KeyTab:
			d.selectButton(d.selected + 1)
			return true
		case tcell.KeyEscape:
			d.choose(d.buttons[len(d.buttons)-1].Text)
			return true
		case tcell.KeyRune:
			for i, b := range d.buttons {
				if QuickCharInString(b.Text, 0) == ev.Rune() {
					d.selectButton(i)
					b.Press()
					return true
				}
			}
		}
	}
	return d.buttons[d.selected].HandleEvent(event)
}
