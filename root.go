package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivemoreminix/pseudoedit/internal/config"
	"github.com/fivemoreminix/pseudoedit/internal/log"
	"github.com/fivemoreminix/pseudoedit/pkg/document"
	"github.com/fivemoreminix/pseudoedit/pkg/markup"
)

var version = "dev"

// options are the persistent flags shared by every command.
type options struct {
	configFile string
	markupFile string
	debug      bool
}

// load reads the configuration and starts logging when debug is on. The
// returned function stops logging.
func (o *options) load() (config.Config, func(), error) {
	cfg, used, err := config.Load(o.configFile)
	if err != nil {
		return cfg, func() {}, err
	}
	if o.debug {
		cfg.Debug = true
	}
	if o.markupFile != "" {
		cfg.Markup.File = o.markupFile
	}

	cleanup := func() {}
	if cfg.Debug {
		c, err := log.Init(cfg.Log.File)
		if err != nil {
			return cfg, cleanup, err
		}
		cleanup = c
		log.Info(log.CatConfig, "starting", "version", version, "config", used)
	}
	return cfg, cleanup, nil
}

// buildRegistry returns the sealed registry of builtin patterns merged with
// the markup file and color overrides of cfg. Problems with either are
// returned as warnings; the registry is usable regardless.
func buildRegistry(cfg config.Config) (*markup.Registry, []error) {
	var warnings []error
	reg := markup.Builtin()
	if cfg.Markup.File != "" {
		if err := reg.LoadFile(cfg.Markup.File); err != nil {
			log.ErrorErr(log.CatMarkup, "markup file ignored", err, "path", cfg.Markup.File)
			warnings = append(warnings, err)
		}
	}
	for name, color := range cfg.Colors {
		if err := reg.SetColor(name, color); err != nil {
			log.Warn(log.CatConfig, "color override ignored", "category", name, "error", err.Error())
			warnings = append(warnings, fmt.Errorf("colors.%s: %w", name, err))
		}
	}
	reg.Seal()
	return reg, warnings
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pseudoedit [file]",
		Short: "A terminal editor for pseudocode",
		Long: `pseudoedit edits pseudocode files with live keyword highlighting and
exports them as highlighted HTML.

Extra patterns per category are read from the markup file (editor_markup.json
by default), for example:
  {"keyword": ["until"], "package": ["math"]}`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := opts.load()
			if err != nil {
				return err
			}
			defer cleanup()

			reg, warnings := buildRegistry(cfg)
			var path string
			if len(args) > 0 {
				path = args[0]
			}
			return runEditor(cfg, reg, path, warnings)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "",
		"config file (default: ./"+config.LocalFile+" or ~/.config/pseudoedit/config.yaml)")
	root.PersistentFlags().StringVarP(&opts.markupFile, "markup", "m", "",
		"markup file with extra patterns (default from config: editor_markup.json)")
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false,
		"write a debug log to the configured log file")

	root.AddCommand(newExportCmd(opts), newPatternsCmd(opts), newConfigCmd(opts))
	return root
}

func newExportCmd(opts *options) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export a file as highlighted HTML",
		Long: `Export renders the file as a standalone HTML page, each match colored
like the editor colors it. The page is written next to the file with an .html
extension unless --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := opts.load()
			if err != nil {
				return err
			}
			defer cleanup()

			reg, warnings := buildRegistry(cfg)
			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}

			doc, err := document.Open(args[0])
			if err != nil {
				return err
			}
			if out == "" {
				out = doc.ExportPath()
			}
			if err := doc.Export(out, reg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "HTML file to write")
	return cmd
}

// patternListing is how the patterns command prints a category.
type patternListing struct {
	Name     string   `yaml:"name"`
	Color    string   `yaml:"color"`
	Quoted   bool     `yaml:"quoted,omitempty"`
	Patterns []string `yaml:"patterns"`
}

func newPatternsCmd(opts *options) *cobra.Command {
	var derived bool
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the categories and patterns in precedence order",
		Long: `Patterns prints the builtin categories merged with the markup file, as
YAML, in the order they take precedence. Upper-case duplicates added for
case-insensitive matching are left out unless --derived is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := opts.load()
			if err != nil {
				return err
			}
			defer cleanup()

			reg, warnings := buildRegistry(cfg)
			for _, w := range warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
			}

			var listing []patternListing
			for _, c := range reg.Categories() {
				l := patternListing{Name: c.Name, Color: c.Color, Quoted: c.Quoted}
				for _, p := range c.Patterns {
					if p.Derived && !derived {
						continue
					}
					l.Patterns = append(l.Patterns, p.Expr)
				}
				listing = append(listing, l)
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(listing); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().BoolVar(&derived, "derived", false, "include upper-case duplicates")
	return cmd
}

func newConfigCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or show the configuration",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.UserConfigPath()
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no home directory; give a path")
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.WriteDefaultConfig(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the configuration in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := opts.load()
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
