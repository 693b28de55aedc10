package ui

import (
	"github.com/gdamore/tcell/v2"
)

// A WindowContainer has a header with a title and a body holding one child
// Component.
type WindowContainer struct {
	Title string
	Child Component

	baseComponent
}

func NewWindowContainer(title string, child Component, theme *Theme) *WindowContainer {
	return &WindowContainer{
		Title:         title,
		Child:         child,
		baseComponent: baseComponent{theme: theme},
	}
}

// Draw draws the window, then its child.
func (w *WindowContainer) Draw(s tcell.Screen) {
	DrawWindow(s, w.x, w.y, w.width, w.height, w.Title, w.theme)

	if w.Child != nil {
		w.Child.Draw(s)
	}
}

// SetFocused calls SetFocused on the child Component.
func (w *WindowContainer) SetFocused(v bool) {
	w.focused = v
	if w.Child != nil {
		w.Child.SetFocused(v)
	}
}

func (w *WindowContainer) SetTheme(theme *Theme) {
	w.theme = theme
	if w.Child != nil {
		w.Child.SetTheme(theme)
	}
}

// SetPos sets the position of the window and moves the child below the header.
func (w *WindowContainer) SetPos(x, y int) {
	w.x, w.y = x, y
	if w.Child != nil {
		w.Child.SetPos(x+1, y+2)
	}
}

// SetSize sets the size of the window and fits the child inside its body.
func (w *WindowContainer) SetSize(width, height int) {
	w.width, w.height = width, height
	if w.Child != nil {
		w.Child.SetSize(width-2, height-3)
	}
}

// HandleEvent forwards the event to the child Component and returns whether it was handled.
func (w *WindowContainer) HandleEvent(event tcell.Event) bool {
	if w.Child != nil {
		return w.Child.HandleEvent(event)
	}
	return false
}
