package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// DrawRect renders a filled box at `x` and `y`, of size `width` and `height`.
// Will not call `Show()`.
func DrawRect(s tcell.Screen, x, y, width, height int, char rune, style tcell.Style) {
	for col := x; col < x+width; col++ {
		for row := y; row < y+height; row++ {
			s.SetContent(col, row, char, nil, style)
		}
	}
}

// DrawStr renders str at `x` and `y`. A '\n' starts a new row at `x`. Wide
// runes take two cells. Returns the widest row drawn, in cells.
func DrawStr(s tcell.Screen, x, y int, str string, style tcell.Style) int {
	col, widest := x, 0
	for _, r := range str {
		if r == '\n' {
			widest = max(widest, col-x)
			col = x
			y++
			continue
		}
		s.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	return max(widest, col-x)
}

// DrawQuickCharStr renders str like DrawStr, but the rune at index quickChar
// is underlined. A negative quickChar underlines nothing. Returns the number
// of cells drawn.
func DrawQuickCharStr(s tcell.Screen, x, y int, str string, quickChar int, style tcell.Style) int {
	col := x
	var runeIdx int
	for _, r := range str {
		sty := style
		if runeIdx == quickChar {
			sty = style.Underline(true)
		}
		s.SetContent(col, y, r, nil, sty)
		col += runewidth.RuneWidth(r)
		runeIdx++
	}
	return col - x
}

// DrawRectOutline draws only the outline of a rectangle, using `ul`, `ur`, `bl`, and `br`
// for the corner runes, and `hor` and `vert` for the horizontal and vertical runes, respectively.
func DrawRectOutline(s tcell.Screen, x, y, _width, _height int, ul, ur, bl, br, hor, vert rune, style tcell.Style) {
	width := x + _width - 1   // Length across
	height := y + _height - 1 // Length top-to-bottom

	for col := x + 1; col < width; col++ {
		s.SetContent(col, y, hor, nil, style)
		s.SetContent(col, height, hor, nil, style)
	}
	for row := y + 1; row < height; row++ {
		s.SetContent(x, row, vert, nil, style)
		s.SetContent(width, row, vert, nil, style)
	}
	s.SetContent(x, y, ul, nil, style)
	s.SetContent(width, y, ur, nil, style)
	s.SetContent(x, height, bl, nil, style)
	s.SetContent(width, height, br, nil, style)
}

// DrawRectOutlineDefault calls DrawRectOutline with the default edge runes.
func DrawRectOutlineDefault(s tcell.Screen, x, y, width, height int, style tcell.Style) {
	DrawRectOutline(s, x, y, width, height, '┌', '┐', '└', '┘', '─', '│', style)
}

// DrawWindow fills a window body and draws its header row with a centered
// title.
func DrawWindow(s tcell.Screen, x, y, width, height int, title string, theme *Theme) {
	headerStyle := theme.GetOrDefault("WindowHeader")

	DrawRect(s, x, y, width, 1, ' ', headerStyle)
	DrawStr(s, x+width/2-runewidth.StringWidth(title)/2, y, title, headerStyle)
	DrawRect(s, x, y+1, width, height-1, ' ', theme.GetOrDefault("Window"))
}
