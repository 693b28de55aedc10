// Package document ties a buffer to the file it was read from and tracks
// whether it has unsaved edits.
package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fivemoreminix/pseudoedit/internal/fsutil"
	"github.com/fivemoreminix/pseudoedit/internal/log"
	"github.com/fivemoreminix/pseudoedit/pkg/buffer"
	"github.com/fivemoreminix/pseudoedit/pkg/export"
	"github.com/fivemoreminix/pseudoedit/pkg/markup"
)

var (
	// ErrNoFile is returned by operations that need a file when the
	// document has none.
	ErrNoFile = errors.New("no file opened")
	// ErrEmpty is returned when exporting a document without text.
	ErrEmpty = errors.New("document is empty")
)

// A Document is the text being edited, its file, and its dirty state. The
// buffer lives as long as the Document: opening a file or starting a new one
// replaces the text in place, so anything bound to the buffer stays valid.
// A Document is owned by the UI goroutine.
type Document struct {
	buf   *buffer.RopeBuffer
	path  string
	dirty bool
}

func New() *Document {
	return &Document{buf: buffer.NewRopeBuffer(nil)}
}

// Open reads the file at path into a new Document.
func Open(path string) (*Document, error) {
	d := New()
	if err := d.Open(path); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) Buffer() buffer.Buffer {
	return d.buf
}

// Path returns the file of the document, or "" if it has none.
func (d *Document) Path() string {
	return d.path
}

func (d *Document) Dirty() bool {
	return d.dirty
}

// MarkDirty records an edit. It reports whether the document was clean
// before, which is when its title changes.
func (d *Document) MarkDirty() bool {
	if d.dirty {
		return false
	}
	d.dirty = true
	return true
}

// Title is "New File" for a document without a file, otherwise the file name
// and path, starred when there are unsaved edits.
func (d *Document) Title() string {
	if d.path == "" {
		return "New File"
	}
	title := filepath.Base(d.path) + " - " + d.path
	if d.dirty {
		title = "* " + title
	}
	return title
}

// Reset empties the document and detaches it from its file.
func (d *Document) Reset() {
	d.replace(nil)
	d.path = ""
	d.dirty = false
}

// Open replaces the text with the contents of the file at path. On error
// the document is unchanged.
func (d *Document) Open(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is chosen by the user
	if err != nil {
		log.ErrorErr(log.CatFile, "open failed", err, "path", path)
		return fmt.Errorf("opening %s: %w", path, err)
	}
	d.replace(data)
	d.path = path
	d.dirty = false
	log.Info(log.CatFile, "opened", "path", path, "bytes", len(data))
	return nil
}

func (d *Document) replace(data []byte) {
	end := d.buf.End()
	if end != (buffer.Position{}) {
		last := d.buf.Advance(end, -1)
		d.buf.Remove(0, 0, last.Line, last.Col)
	}
	d.buf.Insert(0, 0, data)
}

// Save writes the text to the document's file.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoFile
	}
	return d.SaveAs(d.path)
}

// SaveAs writes the text to path, which becomes the document's file. On
// error the document keeps its previous file and dirty state.
func (d *Document) SaveAs(path string) error {
	perm := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fsutil.WriteFile(path, d.buf.Bytes(), perm); err != nil {
		log.ErrorErr(log.CatFile, "save failed", err, "path", path)
		return fmt.Errorf("saving %s: %w", path, err)
	}
	d.path = path
	d.dirty = false
	log.Info(log.CatFile, "saved", "path", path)
	return nil
}

// ExportPath suggests where to export the document: its file with an .html
// extension.
func (d *Document) ExportPath() string {
	if d.path == "" {
		return ""
	}
	return strings.TrimSuffix(d.path, filepath.Ext(d.path)) + ".html"
}

// Export writes the text as an HTML document to path, titled with the
// document's file. It requires a file and some text.
func (d *Document) Export(path string, reg *markup.Registry) error {
	if d.path == "" {
		return ErrNoFile
	}
	if d.buf.Len() == 0 {
		return ErrEmpty
	}
	if err := export.WriteFile(path, d.path, string(d.buf.Bytes()), reg); err != nil {
		return fmt.Errorf("exporting %s: %w", path, err)
	}
	return nil
}
