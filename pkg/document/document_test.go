package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/pseudoedit/pkg/markup"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTitle(t *testing.T) {
	d := New()
	require.Equal(t, "New File", d.Title())
	d.MarkDirty()
	require.Equal(t, "New File", d.Title())

	path := write(t, t.TempDir(), "prog.pseudo", "if x")
	require.NoError(t, d.Open(path))
	require.Equal(t, "prog.pseudo - "+path, d.Title())

	require.True(t, d.MarkDirty())
	require.False(t, d.MarkDirty())
	require.Equal(t, "* prog.pseudo - "+path, d.Title())
}

func TestOpen_KeepsBuffer(t *testing.T) {
	dir := t.TempDir()
	d := New()
	buf := d.Buffer()
	buf.Insert(0, 0, []byte("old\ntext"))
	d.MarkDirty()

	path := write(t, dir, "a.pseudo", "write \"hi\"\n")
	require.NoError(t, d.Open(path))

	require.Same(t, buf, d.Buffer())
	require.Equal(t, "write \"hi\"\n", string(buf.Bytes()))
	require.False(t, d.Dirty())
	require.Equal(t, path, d.Path())
}

func TestOpen_MissingFileLeavesDocument(t *testing.T) {
	d := New()
	d.Buffer().Insert(0, 0, []byte("keep"))
	d.MarkDirty()

	err := d.Open(filepath.Join(t.TempDir(), "missing.pseudo"))
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Equal(t, "keep", string(d.Buffer().Bytes()))
	require.True(t, d.Dirty())
	require.Empty(t, d.Path())

	_, err = Open(filepath.Join(t.TempDir(), "missing.pseudo"))
	require.Error(t, err)
}

func TestSave(t *testing.T) {
	d := New()
	d.Buffer().Insert(0, 0, []byte("vars x"))
	d.MarkDirty()
	require.ErrorIs(t, d.Save(), ErrNoFile)
	require.True(t, d.Dirty())

	path := filepath.Join(t.TempDir(), "out.pseudo")
	require.NoError(t, d.SaveAs(path))
	require.False(t, d.Dirty())
	require.Equal(t, path, d.Path())

	d.Buffer().Insert(0, 6, []byte(": int"))
	d.MarkDirty()
	require.NoError(t, d.Save())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "vars x: int", string(data))
}

func TestSaveAs_FailureKeepsState(t *testing.T) {
	d := New()
	d.Buffer().Insert(0, 0, []byte("x"))
	d.MarkDirty()

	err := d.SaveAs(filepath.Join(t.TempDir(), "no", "such", "dir.pseudo"))
	require.Error(t, err)
	require.True(t, d.Dirty())
	require.Empty(t, d.Path())
}

func TestReset(t *testing.T) {
	path := write(t, t.TempDir(), "a.pseudo", "if x\nwhile y")
	d, err := Open(path)
	require.NoError(t, err)
	d.MarkDirty()

	d.Reset()
	require.Empty(t, d.Buffer().Bytes())
	require.Empty(t, d.Path())
	require.False(t, d.Dirty())
	require.Equal(t, "New File", d.Title())
}

func TestExport(t *testing.T) {
	reg := markup.Builtin()
	reg.Seal()
	dir := t.TempDir()

	d := New()
	require.ErrorIs(t, d.Export(filepath.Join(dir, "x.html"), reg), ErrNoFile)

	path := write(t, dir, "prog.pseudo", "")
	require.NoError(t, d.Open(path))
	require.ErrorIs(t, d.Export(d.ExportPath(), reg), ErrEmpty)
	_, err := os.Stat(d.ExportPath())
	require.True(t, os.IsNotExist(err), "nothing is written on a failed precondition")

	d.Buffer().Insert(0, 0, []byte("if x"))
	require.Equal(t, filepath.Join(dir, "prog.html"), d.ExportPath())
	require.NoError(t, d.Export(d.ExportPath(), reg))

	data, err := os.ReadFile(d.ExportPath())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "<!DOCTYPE html>"))
	require.Contains(t, string(data), "<title>"+path+"</title>")
	require.Contains(t, string(data), `<span style="color: orange;">if</span> x`)
}
