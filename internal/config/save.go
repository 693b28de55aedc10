package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fivemoreminix/pseudoedit/internal/fsutil"
	"github.com/fivemoreminix/pseudoedit/internal/log"
)

// DefaultConfigTemplate returns the commented config written by
// WriteDefaultConfig. It decodes to Defaults.
func DefaultConfigTemplate() string {
	return `# pseudoedit configuration

# Log to log.file (also enabled by --debug or PSEUDOEDIT_DEBUG=1)
debug: false

highlight:
  debounce: 500ms   # Quiet period after the last keystroke before highlighting
  workers: 0        # Patterns scanned in parallel; 0 uses every CPU

editor:
  tab_size: 4       # Spaces inserted by Tab and removed by Shift-Tab

markup:
  # Extra patterns per category, plus a "package" list of builtin packages.
  # Example editor_markup.json:
  #   {"keyword": ["until"], "package": ["math"]}
  file: editor_markup.json

log:
  file: error.log

# Override category colors by name:
# colors:
#   keyword: orange
#   comment: grey
`
}

// WriteDefaultConfig writes DefaultConfigTemplate to configPath, creating its
// directory.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := fsutil.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}

// fileConfig is the YAML shape of Config. Durations are written the way they
// are read, as strings like "500ms".
type fileConfig struct {
	Debug     bool `yaml:"debug"`
	Highlight struct {
		Debounce string `yaml:"debounce"`
		Workers  int    `yaml:"workers"`
	} `yaml:"highlight"`
	Editor struct {
		TabSize int `yaml:"tab_size"`
	} `yaml:"editor"`
	Markup struct {
		File string `yaml:"file"`
	} `yaml:"markup"`
	Log struct {
		File string `yaml:"file"`
	} `yaml:"log"`
	Colors map[string]string `yaml:"colors,omitempty"`
}

// Marshal encodes cfg as YAML that Load reads back unchanged.
func Marshal(cfg Config) ([]byte, error) {
	var fc fileConfig
	fc.Debug = cfg.Debug
	fc.Highlight.Debounce = cfg.Highlight.Debounce.String()
	fc.Highlight.Workers = cfg.Highlight.Workers
	fc.Editor.TabSize = cfg.Editor.TabSize
	fc.Markup.File = cfg.Markup.File
	fc.Log.File = cfg.Log.File
	fc.Colors = cfg.Colors

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&fc); err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	_ = encoder.Close()
	return buf.Bytes(), nil
}

// Save writes cfg to configPath atomically.
func Save(configPath string, cfg Config) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFile(configPath, data, 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to save config", err, "path", configPath)
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
