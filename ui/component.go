package ui

import (
	"github.com/gdamore/tcell/v2"
)

// A Component is anything drawn in a rectangle of the screen that can take
// focus and events: the text editor, menus, dialogs, buttons, input fields.
// After constructing a Component, call SetPos and, when it is resizable,
// SetSize. Constructors size their Component to its minimum size.
type Component interface {
	// Draw renders the Component inside its bounding rectangle.
	Draw(tcell.Screen)
	// SetFocused tells the Component whether it receives events. A focused
	// Component may draw itself differently or show the terminal cursor.
	SetFocused(bool)
	// SetTheme applies the theme to the Component and all of its children.
	SetTheme(*Theme)

	GetPos() (x, y int)
	SetPos(x, y int)

	// GetMinSize returns the smallest size the Component can be.
	GetMinSize() (w, h int)
	GetSize() (w, h int)
	// SetSize resizes the Component. Sizes below the minimum use the minimum.
	SetSize(w, h int)

	// HandleEvent gives the event to the Component, which reports whether it
	// used it. Only focused Components handle events.
	HandleEvent(tcell.Event) bool
}

// baseComponent can be embedded in a Component's struct to hide a few of the
// boilerplate fields and functions. The baseComponent defines defaults for
// ...Pos(), ...Size(), SetFocused(), and SetTheme() functions that can be
// overridden.
type baseComponent struct {
	focused       bool
	x, y          int
	width, height int
	theme         *Theme
}

func (c *baseComponent) SetFocused(v bool) {
	c.focused = v
}

func (c *baseComponent) SetTheme(theme *Theme) {
	c.theme = theme
}

func (c *baseComponent) GetPos() (int, int) {
	return c.x, c.y
}

func (c *baseComponent) SetPos(x, y int) {
	c.x, c.y = x, y
}

func (c *baseComponent) GetMinSize() (int, int) {
	return 0, 0
}

func (c *baseComponent) GetSize() (int, int) {
	return c.width, c.height
}

func (c *baseComponent) SetSize(width, height int) {
	c.width, c.height = width, height
}

// tabOrder cycles focus through the Components of a dialog.
type tabOrder struct {
	items []Component
	idx   int
}

func (o *tabOrder) current() Component {
	return o.items[o.idx]
}

// next moves focus to the following Component, wrapping around. Backwards
// moves to the previous one instead.
func (o *tabOrder) next(backwards bool) {
	o.items[o.idx].SetFocused(false)
	if backwards {
		o.idx = (o.idx - 1 + len(o.items)) % len(o.items)
	} else {
		o.idx = (o.idx + 1) % len(o.items)
	}
	o.items[o.idx].SetFocused(true)
}
