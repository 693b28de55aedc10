package main

import (
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/pseudoedit/ui"
)

// A GotoLineDialog asks for a one-based line number. Only digits can be
// typed; anything that is not a positive number keeps the dialog open.
type GotoLineDialog struct {
	*ui.FileSelectorDialog

	LineChosenCallback func(int)
}

func NewGotoLineDialog(s tcell.Screen, theme *ui.Theme, lineChosenCallback func(int), cancelCallback func()) *GotoLineDialog {
	d := &GotoLineDialog{LineChosenCallback: lineChosenCallback}
	d.FileSelectorDialog = ui.NewFileSelectorDialog(s, "Go to line", "", theme, d.onSubmit, cancelCallback)
	return d
}

func (d *GotoLineDialog) onSubmit(text string) {
	num, err := strconv.Atoi(text)
	if err != nil || num < 1 || d.LineChosenCallback == nil {
		return
	}
	d.LineChosenCallback(num)
}

func (d *GotoLineDialog) HandleEvent(event tcell.Event) bool {
	if ev, ok := event.(*tcell.EventKey); ok && ev.Key() == tcell.KeyRune {
		// Space still reaches the focused button.
		if r := ev.Rune(); r != ' ' && (r < '0' || r > '9') {
			return true
		}
	}
	return d.FileSelectorDialog.HandleEvent(event)
}
