package markup

import (
	"regexp"

	gocache "github.com/patrickmn/go-cache"
)

// Boundary is appended to every pattern: a match must be followed by a
// character that cannot continue a word, or by the end of the text.
const Boundary = `(?:[^\p{L}\p{N}_]|$)`

type compiled struct {
	re  *regexp.Regexp
	err error
}

// Patterns are compiled once per process. Failures are cached too, so a bad
// pattern from the markup file is reported once.
var compileCache = gocache.New(gocache.NoExpiration, 0)

// Compile returns the regular expression for expr followed by Boundary. The
// pattern itself is capture group 1, so the length of the group is the length
// of the lexeme without its trailing boundary character.
func Compile(expr string) (*regexp.Regexp, error) {
	if v, ok := compileCache.Get(expr); ok {
		c := v.(compiled)
		return c.re, c.err
	}
	// expr is checked alone first: an unbalanced class like "[" would
	// otherwise swallow the boundary and compile.
	var re *regexp.Regexp
	_, err := regexp.Compile(expr)
	if err == nil {
		re, err = regexp.Compile("(" + expr + ")" + Boundary)
	}
	compileCache.Set(expr, compiled{re, err}, gocache.NoExpiration)
	return re, err
}

// Valid reports whether expr compiles.
func Valid(expr string) bool {
	_, err := Compile(expr)
	return err == nil
}
