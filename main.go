package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/pseudoedit/internal/config"
	"github.com/fivemoreminix/pseudoedit/internal/log"
	"github.com/fivemoreminix/pseudoedit/pkg/document"
	"github.com/fivemoreminix/pseudoedit/pkg/highlight"
	"github.com/fivemoreminix/pseudoedit/pkg/markup"
	"github.com/fivemoreminix/pseudoedit/ui"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}

// An editor is the whole program on screen: the menu bar, the text edit and
// at most one dialog. It is driven by one goroutine, the one calling run;
// highlight passes run on the scheduler's goroutine and ask for a redraw by
// posting an interrupt event.
type editor struct {
	screen tcell.Screen
	cfg    config.Config
	reg    *markup.Registry
	doc    *document.Document
	clip   *Clipboard
	theme  *ui.Theme

	bar      *ui.MenuBar
	textEdit *ui.TextEdit
	dialog   ui.Component // Drawn over everything when not nil
	focused  ui.Component
	// barFocused is true while the menu bar has focus and no dialog is shown.
	barFocused bool

	tagger    *highlight.Tagger
	scheduler *highlight.Scheduler

	quit bool
}

func newEditor(s tcell.Screen, cfg config.Config, reg *markup.Registry, clip *Clipboard) *editor {
	e := &editor{
		screen: s,
		cfg:    cfg,
		reg:    reg,
		doc:    document.New(),
		clip:   clip,
		theme:  &ui.Theme{},
	}

	e.textEdit = ui.NewTextEdit(s, e.doc, ui.NewColorscheme(reg, e.theme.GetOrDefault("TextEdit")), e.theme)
	e.textEdit.TabSize = cfg.Editor.TabSize
	e.textEdit.OnEdit = e.onEdit

	e.tagger = highlight.NewTagger(e.doc.Buffer(), reg, highlight.WithWorkers(cfg.Highlight.Workers))
	e.scheduler = highlight.NewScheduler(highlight.SchedulerConfig{
		Delay: cfg.Highlight.Debounce,
		Pass:  e.highlightPass,
	})

	e.bar = ui.NewMenuBar(e.theme)
	e.buildMenus()

	e.layout()
	e.changeFocus(e.textEdit)
	return e
}

// highlightPass runs on the scheduler goroutine. A pass abandoned because the
// text changed is retried for as long as it is still the latest request.
func (e *editor) highlightPass(ctx context.Context, current func() bool) {
	for current() {
		applied, err := e.tagger.Pass(ctx, current)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				log.ErrorErr(log.CatHighlight, "highlight pass failed", err)
			}
			return
		}
		if applied {
			_ = e.screen.PostEvent(tcell.NewEventInterrupt(nil))
			return
		}
	}
}

// onEdit is called by the text edit after it changed the text.
func (e *editor) onEdit(qualifies bool) {
	if !qualifies {
		return
	}
	if e.doc.MarkDirty() {
		log.Debug(log.CatUI, "document dirty", "path", e.doc.Path())
	}
	e.scheduler.RequestHighlight()
}

// edited records an edit made through a menu rather than a key press.
func (e *editor) edited() {
	e.doc.MarkDirty()
	e.scheduler.RequestHighlight()
}

func (e *editor) changeFocus(to ui.Component) {
	if e.focused != nil {
		e.focused.SetFocused(false)
	}
	e.focused = to
	to.SetFocused(true)
}

func (e *editor) layout() {
	w, h := e.screen.Size()
	e.bar.SetPos(0, 0)
	e.bar.SetSize(w, 1)
	e.textEdit.SetPos(0, 1)
	e.textEdit.SetSize(w, h-1)
	if e.dialog != nil {
		dw, dh := e.dialog.GetMinSize()
		e.dialog.SetSize(dw, dh)
		dw, dh = e.dialog.GetSize()
		e.dialog.SetPos(ui.Centered(w, h, dw, dh))
	}
}

// showDialog puts d over the editor and focuses it.
func (e *editor) showDialog(d ui.Component) {
	e.bar.HideMenus()
	e.barFocused = false
	e.dialog = d
	e.layout()
	e.changeFocus(d)
}

// closeDialog hides the dialog and gives focus back to the text edit.
func (e *editor) closeDialog() {
	e.dialog = nil
	e.changeFocus(e.textEdit)
}

// message shows a dialog with an OK button.
func (e *editor) message(title, text string, kind ui.MessageDialogKind) {
	e.showDialog(ui.NewMessageDialog(title, text, kind, nil, e.theme, func(string) {
		e.closeDialog()
	}))
}

func (e *editor) showError(title string, err error) {
	e.message(title, err.Error(), ui.MessageKindError)
}

// askPath shows a file selector. chosen is called with the path after the
// dialog has been closed.
func (e *editor) askPath(title, path string, chosen func(string)) {
	e.showDialog(ui.NewFileSelectorDialog(e.screen, title, path, e.theme, func(p string) {
		e.closeDialog()
		chosen(p)
	}, e.closeDialog))
}

func (e *editor) newFile() {
	e.doc.Reset()
	e.textEdit.ResetCursor()
	log.Info(log.CatFile, "new file")
}

// openFile replaces the document with the file at path and highlights it
// right away.
func (e *editor) openFile(path string) {
	if err := e.doc.Open(path); err != nil {
		e.showError("Open failed", err)
		return
	}
	e.textEdit.ResetCursor()
	e.scheduler.RequestHighlight()
}

func (e *editor) save() {
	err := e.doc.Save()
	switch {
	case errors.Is(err, document.ErrNoFile):
		e.message("No file opened.", "Select Save As", ui.MessageKindWarning)
	case err != nil:
		e.showError("Save failed", err)
	}
}

// saveAs asks for a path and saves there. then runs after a successful save.
func (e *editor) saveAs(then func()) {
	e.askPath("Save As", e.doc.Path(), func(path string) {
		if err := e.doc.SaveAs(path); err != nil {
			e.showError("Save failed", err)
			return
		}
		if then != nil {
			then()
		}
	})
}

func (e *editor) exportHTML() {
	if e.doc.Path() == "" {
		e.message("No file opened", "You haven't opened any file!", ui.MessageKindWarning)
		return
	}
	e.askPath("Export as HTML", e.doc.ExportPath(), func(path string) {
		err := e.doc.Export(path, e.reg)
		switch {
		case errors.Is(err, document.ErrEmpty):
			e.message("Nothing to export", "The file is empty.", ui.MessageKindWarning)
		case err != nil:
			e.showError("Export failed", err)
		default:
			e.message("Saved file", "The file has successfully been exported and saved", ui.MessageKindNormal)
		}
	})
}

// exit asks whether to save unsaved edits before quitting.
func (e *editor) exit() {
	if !e.doc.Dirty() {
		e.quit = true
		return
	}
	e.showDialog(ui.NewMessageDialog("Save on exit?", "Should the file be saved before exiting?",
		ui.MessageKindWarning, []string{"Yes", "No", "Cancel"}, e.theme, func(choice string) {
			e.closeDialog()
			switch choice {
			case "Yes":
				if e.doc.Path() == "" {
					e.saveAs(func() { e.quit = true })
					return
				}
				if err := e.doc.Save(); err != nil {
					e.showError("Save failed", err)
					return
				}
				e.quit = true
			case "No":
				e.quit = true
			}
		}))
}

func (e *editor) gotoLine() {
	e.showDialog(NewGotoLineDialog(e.screen, e.theme, func(line int) {
		e.closeDialog()
		e.textEdit.GotoLine(line)
	}, e.closeDialog))
}

func (e *editor) cut() {
	if sel := e.textEdit.GetSelectedString(); sel != "" {
		if err := e.clip.Write(sel); err != nil {
			e.showError("Clipboard", err)
			return
		}
		e.textEdit.DeleteSelection()
		e.edited()
	}
}

func (e *editor) copy() {
	if sel := e.textEdit.GetSelectedString(); sel != "" {
		if err := e.clip.Write(sel); err != nil {
			e.showError("Clipboard", err)
		}
	}
}

func (e *editor) paste() {
	contents, err := e.clip.Read()
	if err != nil {
		e.showError("Clipboard", err)
		return
	}
	if contents != "" {
		e.textEdit.Insert(contents)
		e.edited()
	}
}

// insert returns a menu callback that writes text at the cursor.
func (e *editor) insert(text string) func() {
	return func() {
		e.textEdit.Insert(text)
		e.edited()
	}
}

func (e *editor) buildMenus() {
	fileMenu := ui.NewMenu("File", 0, e.theme)
	fileMenu.AddItems([]ui.Item{
		&ui.ItemEntry{Name: "New", QuickChar: 0, Shortcut: "Ctrl+N", Callback: e.newFile},
		&ui.ItemEntry{Name: "Open...", QuickChar: 0, Shortcut: "Ctrl+O", Callback: func() {
			e.askPath("Open", "", e.openFile)
		}},
		&ui.ItemEntry{Name: "Save", QuickChar: 0, Shortcut: "Ctrl+S", Callback: e.save},
		&ui.ItemEntry{Name: "Save As...", QuickChar: 5, Callback: func() { e.saveAs(nil) }},
		&ui.ItemEntry{Name: "Export as HTML...", QuickChar: 0, Callback: e.exportHTML},
		&ui.ItemSeparator{},
		&ui.ItemEntry{Name: "Exit", QuickChar: 1, Shortcut: "Ctrl+Q", Callback: e.exit},
	})

	editMenu := ui.NewMenu("Edit", 0, e.theme)
	editMenu.AddItems([]ui.Item{
		&ui.ItemEntry{Name: "Cut", QuickChar: 2, Shortcut: "Ctrl+X", Callback: e.cut},
		&ui.ItemEntry{Name: "Copy", QuickChar: 0, Shortcut: "Ctrl+C", Callback: e.copy},
		&ui.ItemEntry{Name: "Paste", QuickChar: 0, Shortcut: "Ctrl+V", Callback: e.paste},
		&ui.ItemSeparator{},
		&ui.ItemEntry{Name: "Go to line...", QuickChar: 0, Shortcut: "Ctrl+G", Callback: e.gotoLine},
	})

	insertMenu := ui.NewMenu("Insert", 0, e.theme)
	insertMenu.AddItems([]ui.Item{
		&ui.ItemEntry{Name: "⬅ - assign", QuickChar: 4, Shortcut: "Ctrl+E", Callback: e.insert(" ⬅ ")},
		&ui.ItemEntry{Name: "≠ - unequals", QuickChar: 4, Callback: e.insert(" ≠ ")},
	})
	if headers := e.reg.Literals(markup.CatHeader); len(headers) > 0 {
		insertMenu.AddItem(&ui.ItemSeparator{})
		for _, h := range headers {
			insertMenu.AddItem(&ui.ItemEntry{Name: h + ":", QuickChar: -1, Callback: e.insert(h + ":")})
		}
	}

	e.bar.AddMenu(fileMenu)
	e.bar.AddMenu(editMenu)
	e.bar.AddMenu(insertMenu)
}

func (e *editor) draw() {
	e.screen.Clear()
	e.bar.Status = e.doc.Title()
	e.textEdit.Draw(e.screen)
	e.bar.Draw(e.screen)
	if e.dialog != nil {
		e.dialog.Draw(e.screen)
	}
	e.screen.Show()
}

// handleEvent dispatches one event. Escape moves focus between the text edit
// and the menu bar while no dialog is shown.
func (e *editor) handleEvent(event tcell.Event) {
	switch ev := event.(type) {
	case *tcell.EventResize:
		e.layout()
		e.screen.Sync()
	case *tcell.EventInterrupt:
		// A highlight pass finished; the next draw shows it.
	case *tcell.EventKey:
		if e.dialog != nil {
			e.dialog.HandleEvent(ev)
			return
		}
		if e.bar.HandleShortcut(ev) {
			if e.dialog == nil && !e.barFocused {
				e.changeFocus(e.textEdit)
			}
			return
		}
		if e.barFocused {
			wasVisible := e.bar.MenusVisible()
			if e.bar.HandleEvent(ev) {
				ran := wasVisible && !e.bar.MenusVisible() && ev.Key() != tcell.KeyEscape
				if ran && e.dialog == nil {
					e.barFocused = false
					e.changeFocus(e.textEdit)
				}
				return
			}
			if ev.Key() == tcell.KeyEscape {
				e.barFocused = false
				e.changeFocus(e.textEdit)
			}
			return
		}
		if ev.Key() == tcell.KeyEscape {
			e.barFocused = true
			e.changeFocus(e.bar)
			return
		}
		e.textEdit.HandleEvent(ev)
	}
}

// run draws and handles events until the user exits.
func (e *editor) run() {
	e.scheduler.Start()
	defer e.scheduler.Stop()

	for !e.quit {
		e.draw()
		e.handleEvent(e.screen.PollEvent())
	}
}

// runEditor opens the terminal and runs the editor on path, or on a new file
// when path is empty. warnings are shown before editing starts.
func runEditor(cfg config.Config, reg *markup.Registry, path string, warnings []error) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer s.Fini() // Useful for handling panics

	clip, err := NewClipboard()
	if err != nil {
		log.ErrorErr(log.CatUI, "clipboard init failed", err)
	}

	e := newEditor(s, cfg, reg, clip)
	if path != "" {
		e.openFile(path)
	}
	if len(warnings) > 0 {
		e.message("", errors.Join(warnings...).Error(), ui.MessageKindWarning)
	}
	e.run()
	return nil
}
