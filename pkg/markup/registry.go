// Package markup holds the highlighting categories of the pseudocode language
// and the regular expressions registered under each of them.
package markup

import (
	"errors"
	"regexp"
	"strings"
	"sync"
)

var (
	ErrUnknownCategory = errors.New("unknown markup category")
	ErrSealed          = errors.New("markup registry is sealed")
	ErrMalformedConfig = errors.New("malformed markup config")
)

// A Pattern is one regular expression of a category.
type Pattern struct {
	Expr    string
	Derived bool // Upper-cased duplicate added by Seal
}

// A Category is a named class of lexemes sharing one display color. Quoted
// marks the category of string literals itself.
type Category struct {
	Name     string
	Color    string
	Quoted   bool
	Patterns []Pattern
}

// Registry is the ordered set of categories. The order of the categories is
// their precedence: when ranges of two categories overlap, the one registered
// later is drawn on top. Once sealed, a Registry is read-only and may be
// shared between goroutines.
type Registry struct {
	mu         sync.RWMutex
	categories []Category
	index      map[string]int
	sealed     bool
}

func New() *Registry {
	return &Registry{index: make(map[string]int)}
}

// Builtin returns an unsealed Registry containing the categories and patterns
// of the pseudocode language.
func Builtin() *Registry {
	r := New()
	for _, c := range builtinCategories {
		r.AddCategory(c.name, c.color, c.quoted)
		for _, expr := range c.patterns {
			_ = r.Register(c.name, expr)
		}
	}
	return r
}

// AddCategory appends a category. Adding a name that already exists updates
// its color and Quoted flag but keeps its patterns and precedence.
func (r *Registry) AddCategory(name, color string, quoted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return
	}
	if i, ok := r.index[name]; ok {
		r.categories[i].Color = color
		r.categories[i].Quoted = quoted
		return
	}
	r.index[name] = len(r.categories)
	r.categories = append(r.categories, Category{Name: name, Color: color, Quoted: quoted})
}

// Register appends expr to the patterns of category.
func (r *Registry) Register(category, expr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.register(category, expr)
}

func (r *Registry) register(category, expr string) error {
	if r.sealed {
		return ErrSealed
	}
	i, ok := r.index[category]
	if !ok {
		return ErrUnknownCategory
	}
	r.categories[i].Patterns = append(r.categories[i].Patterns, Pattern{Expr: expr})
	return nil
}

// SetColor changes the display color of category.
func (r *Registry) SetColor(category, color string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrSealed
	}
	i, ok := r.index[category]
	if !ok {
		return ErrUnknownCategory
	}
	r.categories[i].Color = color
	return nil
}

// Seal duplicates every pattern in upper case and makes the registry
// read-only. Duplicates identical to their original are not added. Sealing
// twice does nothing.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return
	}
	for i := range r.categories {
		c := &r.categories[i]
		n := len(c.Patterns)
		for _, p := range c.Patterns[:n] {
			up := strings.ToUpper(p.Expr)
			if up == p.Expr || hasExpr(c.Patterns, up) {
				continue
			}
			c.Patterns = append(c.Patterns, Pattern{Expr: up, Derived: true})
		}
	}
	r.sealed = true
}

func hasExpr(patterns []Pattern, expr string) bool {
	for _, p := range patterns {
		if p.Expr == expr {
			return true
		}
	}
	return false
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Categories returns a copy of the categories in precedence order.
func (r *Registry) Categories() []Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Category, len(r.categories))
	for i, c := range r.categories {
		out[i] = c
		out[i].Patterns = append([]Pattern(nil), c.Patterns...)
	}
	return out
}

// Category returns a copy of the named category.
func (r *Registry) Category(name string) (Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[name]
	if !ok {
		return Category{}, false
	}
	c := r.categories[i]
	c.Patterns = append([]Pattern(nil), c.Patterns...)
	return c, true
}

// Literals returns the original patterns of category that match only
// themselves, such as the "def" header.
func (r *Registry) Literals(category string) []string {
	c, ok := r.Category(category)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range c.Patterns {
		if !p.Derived && p.Expr != "" && regexp.QuoteMeta(p.Expr) == p.Expr {
			out = append(out, p.Expr)
		}
	}
	return out
}
