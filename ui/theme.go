package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/pseudoedit/internal/log"
	"github.com/fivemoreminix/pseudoedit/pkg/markup"
)

// A Theme is a map of string names to styles. Themes can be passed by reference to components
// to set their styles. If a theme value cannot be found, then the `DefaultTheme` value will be
// used, instead. An updated list of theme keys can be found on the default theme.
type Theme map[string]tcell.Style

func (theme *Theme) GetOrDefault(key string) tcell.Style {
	if theme != nil {
		if val, ok := (*theme)[key]; ok {
			return val
		}
	}

	if val, ok := DefaultTheme[key]; ok {
		return val
	}
	panic(fmt.Sprintf("key \"%v\" not present in default theme", key))
}

// DefaultTheme uses only the first 16 colors present in most colored terminals.
var DefaultTheme = Theme{
	"Normal":           tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"Button":           tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"ButtonFocused":    tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
	"InputField":       tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
	"MenuBar":          tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"MenuBarSelected":  tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"Menu":             tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"MenuSelected":     tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"TextEdit":         tcell.Style{}.Foreground(tcell.ColorSilver).Background(tcell.ColorBlack),
	"TextEditColumn":   tcell.Style{}.Foreground(tcell.ColorGray).Background(tcell.ColorBlack),
	"TextEditSelected": tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"Window":           tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorSilver),
	"WindowHeader":     tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
}

// A Colorscheme maps tag names to the style a TextEdit draws tagged text in.
// Tags without an entry are drawn in the TextEdit style.
type Colorscheme map[string]tcell.Style

// NewColorscheme builds a Colorscheme from the category colors of reg, on top
// of base. Colors tcell does not know are logged and left out.
func NewColorscheme(reg *markup.Registry, base tcell.Style) Colorscheme {
	cs := make(Colorscheme)
	for _, cat := range reg.Categories() {
		color := tcell.GetColor(cat.Color)
		if color == tcell.ColorDefault {
			log.Warn(log.CatUI, "unknown color", "category", cat.Name, "color", cat.Color)
			continue
		}
		cs[cat.Name] = base.Foreground(color)
	}
	return cs
}

// Style returns the style of tag, or def if the tag has none.
func (c Colorscheme) Style(tag string, def tcell.Style) tcell.Style {
	if sty, ok := c[tag]; ok {
		return sty
	}
	return def
}
