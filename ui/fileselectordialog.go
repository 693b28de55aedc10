package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// A FileSelectorDialog is a WindowContainer with an input and buttons for
// choosing one file path, to open, save or export to.
type FileSelectorDialog struct {
	FileChosenCallback func(string) // Called with the trimmed path; never with ""
	CancelCallback     func()

	container     *WindowContainer
	tabs          tabOrder
	inputField    *InputField
	confirmButton *Button
	cancelButton  *Button

	baseComponent
}

// NewFileSelectorDialog creates the dialog with path as the initial input.
func NewFileSelectorDialog(screen tcell.Screen, title, path string, theme *Theme, fileChosenCallback func(string), cancelCallback func()) *FileSelectorDialog {
	d := &FileSelectorDialog{
		FileChosenCallback: fileChosenCallback,
		CancelCallback:     cancelCallback,
		baseComponent:      baseComponent{theme: theme},
	}

	d.inputField = NewInputField(screen, path, theme)
	d.inputField.OnSubmit = func(string) { d.onConfirm() }
	d.container = NewWindowContainer(title, d.inputField, theme)
	d.confirmButton = NewButton("Confirm", theme, d.onConfirm)
	d.cancelButton = NewButton("Cancel", theme, d.onCancel)
	d.tabs = tabOrder{items: []Component{d.inputField, d.cancelButton, d.confirmButton}}

	d.SetSize(d.GetMinSize())
	return d
}

// Path returns the text of the input.
func (d *FileSelectorDialog) Path() string {
	return strings.TrimSpace(d.inputField.Text())
}

func (d *FileSelectorDialog) onConfirm() {
	path := d.Path()
	if path == "" || d.FileChosenCallback == nil {
		return
	}
	d.FileChosenCallback(path)
}

func (d *FileSelectorDialog) onCancel() {
	if d.CancelCallback != nil {
		d.CancelCallback()
	}
}

func (d *FileSelectorDialog) SetTitle(title string) {
	d.container.Title = title
}

func (d *FileSelectorDialog) Draw(s tcell.Screen) {
	d.container.Draw(s)
	d.confirmButton.Draw(s)
	d.cancelButton.Draw(s)
}

func (d *FileSelectorDialog) SetFocused(v bool) {
	d.focused = v
	d.tabs.current().SetFocused(v)
}

func (d *FileSelectorDialog) SetTheme(theme *Theme) {
	d.theme = theme
	d.container.SetTheme(theme)
	d.confirmButton.SetTheme(theme)
	d.cancelButton.SetTheme(theme)
}

func (d *FileSelectorDialog) SetPos(x, y int) {
	d.x, d.y = x, y
	d.layout()
}

func (d *FileSelectorDialog) GetMinSize() (int, int) {
	return max(len(d.container.Title)+2, 40), 6
}

func (d *FileSelectorDialog) SetSize(width, height int) {
	minX, minY := d.GetMinSize()
	d.width, d.height = max(width, minX), max(height, minY)
	d.layout()
}

func (d *FileSelectorDialog) layout() {
	d.container.SetPos(d.x, d.y)
	d.container.SetSize(d.width, d.height)
	d.inputField.SetSize(d.width-2, 1)

	btnWidth, _ := d.confirmButton.GetSize()
	d.cancelButton.SetPos(d.x+1, d.y+d.height-2)
	d.confirmButton.SetPos(d.x+d.width-btnWidth-1, d.y+d.height-2)
}

func (d *FileSelectorDialog) HandleEvent(event tcell.Event) bool {
	if ev, ok := event.(*tcell.EventKey); ok {
		switch ev.Key() {
		case tcell.KeyTab, tcell.KeyBacktab:
			d.tabs.next(ev.Key() == tcell.KeyBacktab)
			return true
		case tcell.KeyEscape:
			d.onCancel()
			return true
		}
	}
	return d.tabs.current().HandleEvent(event)
}
