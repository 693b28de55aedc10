// Package config provides configuration types, defaults, and loading for
// pseudoedit.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/fivemoreminix/pseudoedit/internal/log"
)

// LocalFile is looked up in the current directory before the user config.
const LocalFile = ".pseudoedit.yaml"

// Config holds all configuration options for pseudoedit.
type Config struct {
	Debug     bool              `mapstructure:"debug"`
	Highlight HighlightConfig   `mapstructure:"highlight"`
	Editor    EditorConfig      `mapstructure:"editor"`
	Markup    MarkupConfig      `mapstructure:"markup"`
	Log       LogConfig         `mapstructure:"log"`
	Colors    map[string]string `mapstructure:"colors"` // Category name to color override
}

// HighlightConfig controls when and how highlight passes run.
type HighlightConfig struct {
	Debounce time.Duration `mapstructure:"debounce"` // Quiet period after the last edit
	Workers  int           `mapstructure:"workers"`  // Patterns scanned at once; 0 means GOMAXPROCS
}

type EditorConfig struct {
	TabSize int `mapstructure:"tab_size"`
}

type MarkupConfig struct {
	File string `mapstructure:"file"` // Extra patterns; JSON, YAML or TOML by extension
}

type LogConfig struct {
	File string `mapstructure:"file"` // Written only in debug mode
}

// Defaults returns the default configuration.
func Defaults() Config {
	return Config{
		Highlight: HighlightConfig{
			Debounce: 500 * time.Millisecond,
		},
		Editor: EditorConfig{
			TabSize: 4,
		},
		Markup: MarkupConfig{
			File: "editor_markup.json",
		},
		Log: LogConfig{
			File: "error.log",
		},
	}
}

// SetDefaults registers the defaults with v, so unset keys and environment
// variables resolve.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("debug", d.Debug)
	v.SetDefault("highlight.debounce", d.Highlight.Debounce)
	v.SetDefault("highlight.workers", d.Highlight.Workers)
	v.SetDefault("editor.tab_size", d.Editor.TabSize)
	v.SetDefault("markup.file", d.Markup.File)
	v.SetDefault("log.file", d.Log.File)
}

// UserConfigPath returns ~/.config/pseudoedit/config.yaml, or "" if the home
// directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pseudoedit", "config.yaml")
}

// Find returns the config file to use when none is given explicitly:
// LocalFile in the current directory, then the user config. It returns ""
// when neither exists.
func Find() string {
	for _, path := range []string{LocalFile, UserConfigPath()} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load reads the configuration. An explicit path must exist; otherwise Find
// picks the file, and with no file at all the defaults are used. Environment
// variables prefixed PSEUDOEDIT_ override the file, e.g. PSEUDOEDIT_DEBUG or
// PSEUDOEDIT_HIGHLIGHT_DEBOUNCE. The path of the file read is returned.
func Load(explicit string) (Config, string, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("PSEUDOEDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := explicit
	if path == "" {
		path = Find()
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return Defaults(), "", fmt.Errorf("config file %s: %w", path, err)
			}
			return Defaults(), "", fmt.Errorf("reading config %s: %w", path, err)
		}
		log.Debug(log.CatConfig, "read config", "path", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Defaults(), "", fmt.Errorf("decoding config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, path, nil
}

// normalize replaces out of range values with their defaults.
func (c *Config) normalize() {
	d := Defaults()
	if c.Highlight.Debounce <= 0 {
		c.Highlight.Debounce = d.Highlight.Debounce
	}
	if c.Highlight.Workers < 0 {
		c.Highlight.Workers = 0
	}
	if c.Editor.TabSize <= 0 {
		c.Editor.TabSize = d.Editor.TabSize
	}
}
