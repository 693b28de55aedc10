package ui

import (
	"unicode"
	"unicode/utf8"
)

// QuickCharInString is used for finding the "quick char" in a string. The rune
// is always made lowercase. A rune of value zero is returned if the index was
// less than zero, or greater or equal to, the number of runes in s.
func QuickCharInString(s string, idx int) rune {
	if idx < 0 || idx >= utf8.RuneCountInString(s) {
		return 0
	}
	return unicode.ToLower([]rune(s)[idx])
}

// Clamp keeps `v` within `a` and `b` numerically. `a` must be smaller than `b`.
func Clamp(v, a, b int) int {
	return max(a, min(v, b))
}

// Centered returns the position that centers a box of size w, h inside a
// screen of size sw, sh.
func Centered(sw, sh, w, h int) (int, int) {
	return max(0, sw/2-w/2), max(0, sh/2-h/2)
}
