package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	runewidth "github.com/mattn/go-runewidth"
)

// Item is implemented by everything listed in a Menu.
type Item interface {
	GetName() string
	// Returns a character/rune index of the name of the item.
	GetQuickCharIdx() int
	// A Shortcut is the tcell name of the key that triggers the item, for
	// example "Ctrl+S". See tcell's EventKey.Name. An empty string implies no
	// shortcut.
	GetShortcut() string
}

// An ItemSeparator is a line between groups of items. It cannot be selected.
type ItemSeparator struct{}

func (i *ItemSeparator) GetName() string {
	return ""
}

func (i *ItemSeparator) GetQuickCharIdx() int {
	return -1
}

func (i *ItemSeparator) GetShortcut() string {
	return ""
}

// ItemEntry is a listing in a Menu with a name and callback.
type ItemEntry struct {
	Name      string
	QuickChar int // Character/rune index of Name
	Shortcut  string
	Callback  func()
}

func (i *ItemEntry) GetName() string {
	return i.Name
}

func (i *ItemEntry) GetQuickCharIdx() int {
	return i.QuickChar
}

func (i *ItemEntry) GetShortcut() string {
	return i.Shortcut
}

// A MenuBar is a horizontal list of menus, with a status text on its right.
type MenuBar struct {
	// Status is drawn right-aligned, usually the title of the document.
	Status string

	menus        []*Menu
	selected     int  // Index of selection in MenuBar
	menusVisible bool // Whether to draw the selected menu

	baseComponent
}

func NewMenuBar(theme *Theme) *MenuBar {
	return &MenuBar{
		menus:         make([]*Menu, 0, 4),
		baseComponent: baseComponent{theme: theme, height: 1},
	}
}

func (b *MenuBar) AddMenu(menu *Menu) {
	menu.itemSelectedCallback = func() {
		b.menusVisible = false
		menu.SetFocused(false)
	}
	b.menus = append(b.menus, menu)
}

// MenusVisible reports whether a menu is dropped down.
func (b *MenuBar) MenusVisible() bool {
	return b.menusVisible
}

// GetMenuXPos returns the X position of the name of Menu at `idx` visually.
func (b *MenuBar) GetMenuXPos(idx int) int {
	x := b.x + 1
	for i := 0; i < idx; i++ {
		x += runewidth.StringWidth(b.menus[i].Name) + 2 // Two for padding
	}
	return x
}

func (b *MenuBar) ActivateMenuUnderCursor() {
	b.menusVisible = true
	menu := b.menus[b.selected]
	menu.SetPos(b.GetMenuXPos(b.selected), b.y+1)
	menu.SetFocused(true)
}

// HideMenus closes the dropped down menu.
func (b *MenuBar) HideMenus() {
	if b.menusVisible {
		b.menus[b.selected].SetFocused(false)
		b.menusVisible = false
	}
}

func (b *MenuBar) moveCursor(delta int) {
	if b.menusVisible {
		b.menus[b.selected].SetFocused(false)
	}
	b.selected = (b.selected + delta + len(b.menus)) % len(b.menus)
	if b.menusVisible {
		b.ActivateMenuUnderCursor()
	}
}

func (b *MenuBar) CursorLeft() {
	b.moveCursor(-1)
}

func (b *MenuBar) CursorRight() {
	b.moveCursor(1)
}

// Draw renders the MenuBar and its sub-menus.
func (b *MenuBar) Draw(s tcell.Screen) {
	normalStyle := b.theme.GetOrDefault("MenuBar")

	DrawRect(s, b.x, b.y, b.width, 1, ' ', normalStyle)
	col := b.x + 1
	for i, item := range b.menus {
		sty := normalStyle
		if b.focused && b.selected == i {
			sty = b.theme.GetOrDefault("MenuBarSelected")
		}
		col += DrawQuickCharStr(s, col, b.y, " "+item.Name+" ", item.QuickChar+1, sty)
	}

	if b.Status != "" {
		statusCol := max(col+1, b.x+b.width-runewidth.StringWidth(b.Status)-1)
		DrawStr(s, statusCol, b.y, b.Status, normalStyle)
	}

	if b.menusVisible {
		b.menus[b.selected].Draw(s)
	}
}

// SetFocused highlights the MenuBar. Losing focus closes any open menu and
// resets the selection.
func (b *MenuBar) SetFocused(v bool) {
	b.focused = v
	if !v {
		b.HideMenus()
		b.selected = 0
	}
}

func (b *MenuBar) SetTheme(theme *Theme) {
	b.theme = theme
	for _, m := range b.menus {
		m.SetTheme(theme)
	}
}

func (b *MenuBar) GetMinSize() (int, int) {
	return 0, 1
}

// HandleShortcut runs the item whose shortcut matches the key, if any. It
// works whether or not the MenuBar is focused.
func (b *MenuBar) HandleShortcut(ev *tcell.EventKey) bool {
	if ev.Modifiers() == 0 {
		return false
	}
	name := ev.Name()
	for _, m := range b.menus {
		if m.handleShortcut(name) {
			return true
		}
	}
	return false
}

// HandleEvent will propagate events to sub-menus and returns true if
// any of them handled the event.
func (b *MenuBar) HandleEvent(event tcell.Event) bool {
	ev, ok := event.(*tcell.EventKey)
	if !ok {
		return false
	}
	if b.HandleShortcut(ev) {
		return true
	}

	switch ev.Key() {
	case tcell.KeyEnter:
		if !b.menusVisible {
			b.ActivateMenuUnderCursor()
		} else {
			return b.menus[b.selected].HandleEvent(event)
		}
	case tcell.KeyEscape:
		if !b.menusVisible {
			return false
		}
		b.HideMenus()
	case tcell.KeyLeft:
		b.CursorLeft()
	case tcell.KeyRight:
		b.CursorRight()
	case tcell.KeyDown:
		if !b.menusVisible {
			b.ActivateMenuUnderCursor()
		} else {
			return b.menus[b.selected].HandleEvent(event)
		}
	case tcell.KeyTab:
		if b.menusVisible {
			return b.menus[b.selected].HandleEvent(event)
		}
		b.CursorRight()
	case tcell.KeyRune: // Quick chars
		if b.menusVisible {
			return b.menus[b.selected].HandleEvent(event)
		}
		for i, m := range b.menus {
			if r := QuickCharInString(m.Name, m.QuickChar); r != 0 && r == ev.Rune() {
				b.selected = i
				b.ActivateMenuUnderCursor()
				return true
			}
		}
		return false
	default:
		if b.menusVisible {
			return b.menus[b.selected].HandleEvent(event)
		}
		return false
	}
	return true
}

// A Menu is a drop down list of items.
type Menu struct {
	Name      string
	QuickChar int // Character/rune index of Name
	Items     []Item

	selected             int    // Index of selected Item
	itemSelectedCallback func() // Used internally to hide menus on selection

	baseComponent
}

func NewMenu(name string, quickChar int, theme *Theme) *Menu {
	return &Menu{
		Name:          name,
		QuickChar:     quickChar,
		Items:         make([]Item, 0, 6),
		baseComponent: baseComponent{theme: theme},
	}
}

func (m *Menu) AddItem(item Item) {
	m.Items = append(m.Items, item)
}

func (m *Menu) AddItems(items []Item) {
	for _, item := range items {
		m.AddItem(item)
	}
}

// Selected returns the item under the cursor.
func (m *Menu) Selected() Item {
	return m.Items[m.selected]
}

func (m *Menu) ActivateItemUnderCursor() {
	if item, ok := m.Items[m.selected].(*ItemEntry); ok {
		if m.itemSelectedCallback != nil {
			m.itemSelectedCallback()
		}
		if item.Callback != nil {
			item.Callback()
		}
	}
}

func (m *Menu) moveCursor(delta int) {
	for range m.Items {
		m.selected = (m.selected + delta + len(m.Items)) % len(m.Items)
		if _, sep := m.Items[m.selected].(*ItemSeparator); !sep {
			return
		}
	}
}

func (m *Menu) CursorUp() {
	m.moveCursor(-1)
}

func (m *Menu) CursorDown() {
	m.moveCursor(1)
}

// Draw renders the Menu at its position.
func (m *Menu) Draw(s tcell.Screen) {
	defaultStyle := m.theme.GetOrDefault("Menu")

	m.GetSize() // Updates width and height
	DrawRect(s, m.x, m.y, m.width, m.height, ' ', defaultStyle)
	DrawRectOutlineDefault(s, m.x, m.y, m.width, m.height, defaultStyle)

	for i, item := range m.Items {
		if _, sep := item.(*ItemSeparator); sep {
			DrawStr(s, m.x, m.y+1+i, "├"+strings.Repeat("─", m.width-2)+"┤", defaultStyle)
			continue
		}

		sty := defaultStyle
		if m.selected == i {
			sty = m.theme.GetOrDefault("MenuSelected")
		}

		nameCols := DrawQuickCharStr(s, m.x+1, m.y+1+i, item.GetName(), item.GetQuickCharIdx(), sty)
		DrawRect(s, m.x+1+nameCols, m.y+1+i, m.width-2-nameCols, 1, ' ', sty)

		if shortcut := item.GetShortcut(); shortcut != "" {
			str := " " + shortcut + " "
			DrawStr(s, m.x+m.width-1-runewidth.StringWidth(str), m.y+1+i, str, sty)
		}
	}
}

// SetFocused resets the cursor to the first item when the Menu loses focus.
func (m *Menu) SetFocused(v bool) {
	m.focused = v
	if !v {
		m.selected = 0
	}
}

func (m *Menu) GetMinSize() (int, int) {
	return m.GetSize()
}

// GetSize returns the size of the Menu, which follows from its items.
func (m *Menu) GetSize() (int, int) {
	maxNameLen := 0
	widestShortcut := 0
	for _, item := range m.Items {
		maxNameLen = max(maxNameLen, runewidth.StringWidth(item.GetName()))
		widestShortcut = max(widestShortcut, runewidth.StringWidth(item.GetShortcut()))
	}

	shortcutsWidth := 0
	if widestShortcut > 0 {
		shortcutsWidth = 1 + widestShortcut + 1 // " Ctrl+X "
	}

	m.width = 1 + maxNameLen + shortcutsWidth + 1
	m.height = 1 + len(m.Items) + 1
	return m.width, m.height
}

// SetSize does nothing: a Menu is as large as its items.
func (m *Menu) SetSize(width, height int) {}

func (m *Menu) handleShortcut(key string) bool {
	for i, item := range m.Items {
		if entry, ok := item.(*ItemEntry); ok && entry.Shortcut != "" && entry.Shortcut == key {
			m.selected = i
			m.ActivateItemUnderCursor()
			return true
		}
	}
	return false
}

// HandleEvent moves the cursor, activates items, and resolves quick chars.
// Returns true if the event was handled.
func (m *Menu) HandleEvent(event tcell.Event) bool {
	ev, ok := event.(*tcell.EventKey)
	if !ok {
		return false
	}
	switch ev.Key() {
	case tcell.KeyEnter:
		m.ActivateItemUnderCursor()
	case tcell.KeyUp, tcell.KeyBacktab:
		m.CursorUp()
	case tcell.KeyDown, tcell.KeyTab:
		m.CursorDown()
	case tcell.KeyRune:
		for i, item := range m.Items {
			if r := QuickCharInString(item.GetName(), item.GetQuickCharIdx()); r != 0 && r == ev.Rune() {
				m.selected = i
				m.ActivateItemUnderCursor()
				return true
			}
		}
		return false
	default:
		return false
	}
	return true
}
