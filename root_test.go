package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/fivemoreminix/pseudoedit/pkg/document"
)

// runCmd runs the command line args in a fresh directory with no user config.
func runCmd(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestExportCmd(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.pseudo")
	require.NoError(t, os.WriteFile(src, []byte("if x:\n    write \"a < b\"\n"), 0o644))

	stdout, _, err := runCmd(t, dir, "export", src)
	require.NoError(t, err)
	out := filepath.Join(dir, "prog.html")
	require.Equal(t, out+"\n", stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	page := string(data)
	require.Contains(t, page, `<span style="color: orange;">if</span>`)
	require.Contains(t, page, `<span style="color: lime;">&#34;a &lt; b&#34;</span>`)
}

func TestExportCmd_Output(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.pseudo")
	require.NoError(t, os.WriteFile(src, []byte("read x\n"), 0o644))
	out := filepath.Join(dir, "site", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(out), 0o755))

	_, _, err := runCmd(t, dir, "export", src, "-o", out)
	require.NoError(t, err)
	require.FileExists(t, out)
	require.NoFileExists(t, filepath.Join(dir, "prog.html"))
}

func TestExportCmd_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "empty.pseudo")
	require.NoError(t, os.WriteFile(src, nil, 0o644))

	_, _, err := runCmd(t, dir, "export", src)
	require.ErrorIs(t, err, document.ErrEmpty)
	require.NoFileExists(t, filepath.Join(dir, "empty.html"))
}

func decodeListing(t *testing.T, out string) []patternListing {
	t.Helper()
	var listing []patternListing
	require.NoError(t, yaml.Unmarshal([]byte(out), &listing))
	return listing
}

func TestPatternsCmd(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCmd(t, dir, "patterns")
	require.NoError(t, err)
	listing := decodeListing(t, stdout)
	require.Len(t, listing, 6)
	require.Equal(t, "keyword", listing[0].Name)
	require.Equal(t, "orange", listing[0].Color)
	require.Contains(t, listing[0].Patterns, "if")
	require.NotContains(t, listing[0].Patterns, "IF")
	require.True(t, listing[4].Quoted)

	stdout, _, err = runCmd(t, dir, "patterns", "--derived")
	require.NoError(t, err)
	listing = decodeListing(t, stdout)
	require.Contains(t, listing[0].Patterns, "IF")
}

func TestPatternsCmd_MarkupFile(t *testing.T) {
	dir := t.TempDir()
	markupFile := filepath.Join(dir, "editor_markup.json")
	require.NoError(t, os.WriteFile(markupFile, []byte(`{"keyword": ["until"], "package": ["math"]}`), 0o644))

	stdout, stderr, err := runCmd(t, dir, "patterns")
	require.NoError(t, err)
	require.Empty(t, stderr)

	listing := decodeListing(t, stdout)
	require.Contains(t, listing[0].Patterns, "until")
	require.Equal(t, "builtin", listing[3].Name)
	require.Contains(t, listing[3].Patterns, `math\.\w+`)
}

func TestPatternsCmd_MalformedMarkupWarns(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"keyword": "until"}`), 0o644))

	stdout, stderr, err := runCmd(t, dir, "patterns", "--markup", bad)
	require.NoError(t, err)
	require.Contains(t, stderr, "warning:")

	listing := decodeListing(t, stdout)
	require.Contains(t, listing[0].Patterns, "if")
	require.NotContains(t, listing[0].Patterns, "until")
}

func TestPatternsCmd_ColorOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "pe.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("colors:\n  keyword: blue\n  nosuch: red\n"), 0o644))

	stdout, stderr, err := runCmd(t, dir, "patterns", "--config", cfgFile)
	require.NoError(t, err)
	require.Contains(t, stderr, "colors.nosuch")
	require.Equal(t, "blue", decodeListing(t, stdout)[0].Color)
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "pseudoedit.yaml")

	stdout, _, err := runCmd(t, dir, "config", "init", path)
	require.NoError(t, err)
	require.Equal(t, path+"\n", stdout)
	require.FileExists(t, path)

	_, _, err = runCmd(t, dir, "config", "init", path)
	require.ErrorContains(t, err, "already exists")

	_, _, err = runCmd(t, dir, "config", "init", path, "--force")
	require.NoError(t, err)
}

func TestConfigInit_UserPath(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCmd(t, dir, "config", "init")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, ".config", "pseudoedit", "config.yaml"), strings.TrimSpace(stdout))
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "pe.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("editor:\n  tab_size: 2\n"), 0o644))

	stdout, _, err := runCmd(t, dir, "config", "show", "-c", cfgFile)
	require.NoError(t, err)
	require.Contains(t, stdout, "tab_size: 2")
	require.Contains(t, stdout, "debounce: 500ms")
}

func TestConfigShow_LocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pseudoedit.yaml"), []byte("highlight:\n  debounce: 1s\n"), 0o644))

	stdout, _, err := runCmd(t, dir, "config", "show")
	require.NoError(t, err)
	require.Contains(t, stdout, "debounce: 1s")
}

func TestConfigShow_MissingExplicitFile(t *testing.T) {
	dir := t.TempDir()
	_, _, err := runCmd(t, dir, "config", "show", "-c", filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
}
