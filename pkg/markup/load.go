package markup

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/fivemoreminix/pseudoedit/internal/log"
)

// PackageKey lists package names whose members are builtins: "p" adds the
// pattern p\.\w+ to the builtin category.
const PackageKey = "package"

var formats = map[string]bool{"json": true, "yaml": true, "yml": true, "toml": true}

// LoadFile merges the pattern lists in the file at path into r. The format is
// taken from the file extension, JSON when there is none. A missing file is
// not an error.
func (r *Registry) LoadFile(path string) error {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's config
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug(log.CatMarkup, "no markup file", "path", path)
		return nil
	} else if err != nil {
		return fmt.Errorf("opening markup file: %w", err)
	}
	defer f.Close()

	format := strings.TrimPrefix(filepath.Ext(path), ".")
	if format == "" {
		format = "json"
	}
	if err := r.Load(f, format); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	log.Info(log.CatMarkup, "loaded markup file", "path", path)
	return nil
}

// Load merges a document of category name to pattern list into r. Keys are
// matched case-insensitively and unknown keys are ignored. If the document is
// malformed, nothing is merged and the error wraps ErrMalformedConfig.
func (r *Registry) Load(in io.Reader, format string) error {
	format = strings.ToLower(format)
	if !formats[format] {
		return fmt.Errorf("%w: unsupported format %q", ErrMalformedConfig, format)
	}

	v := viper.New()
	v.SetConfigType(format)
	if err := v.ReadConfig(in); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedConfig, err)
	}
	settings := v.AllSettings()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return ErrSealed
	}

	// Validate everything before touching the registry.
	add := make(map[string][]string)
	for _, c := range r.categories {
		raw, ok := settings[strings.ToLower(c.Name)]
		if !ok {
			continue
		}
		list, err := stringList(raw)
		if err != nil {
			return fmt.Errorf("%w: key %q: %w", ErrMalformedConfig, c.Name, err)
		}
		add[c.Name] = list
	}
	var packages []string
	if raw, ok := settings[PackageKey]; ok {
		list, err := stringList(raw)
		if err != nil {
			return fmt.Errorf("%w: key %q: %w", ErrMalformedConfig, PackageKey, err)
		}
		if _, ok := r.index[CatBuiltin]; !ok && len(list) > 0 {
			return fmt.Errorf("%w: key %q: no %s category", ErrMalformedConfig, PackageKey, CatBuiltin)
		}
		packages = list
	}

	for _, c := range r.categories {
		for _, expr := range add[c.Name] {
			_ = r.register(c.Name, expr)
		}
	}
	for _, p := range packages {
		_ = r.register(CatBuiltin, p+`\.\w+`)
	}
	return nil
}

func stringList(raw any) ([]string, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list of patterns, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a pattern string, got %T", item)
		}
		out = append(out, s)
	}
	return out, nil
}
