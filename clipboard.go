package main

import (
	"github.com/zyedidia/clipboard"

	"github.com/fivemoreminix/pseudoedit/internal/log"
)

type ClipMethod uint8

const (
	ClipExternal ClipMethod = iota // The system clipboard
	ClipInternal                   // A string kept by the editor
)

// A Clipboard reads and writes the system clipboard, or an internal one when
// the system clipboard is unavailable.
type Clipboard struct {
	Method   ClipMethod
	internal string
}

// NewClipboard initializes the system clipboard, falling back to the internal
// method if that fails. The error is not fatal because an internal method is
// used instead.
func NewClipboard() (*Clipboard, error) {
	if err := clipboard.Initialize(); err != nil {
		log.Warn(log.CatUI, "system clipboard unavailable, using internal clipboard", "error", err.Error())
		return &Clipboard{Method: ClipInternal}, err
	}
	return &Clipboard{Method: ClipExternal}, nil
}

// Read returns the clipboard contents.
func (c *Clipboard) Read() (string, error) {
	if c.Method == ClipExternal {
		return clipboard.ReadAll("clipboard")
	}
	return c.internal, nil
}

// Write replaces the clipboard contents.
func (c *Clipboard) Write(content string) error {
	if c.Method == ClipExternal {
		return clipboard.WriteAll(content, "clipboard")
	}
	c.internal = content
	return nil
}
