// Package ui is the desktop shell: a fyne window hosting the board, the
// toolbar and the file dialogs.
package ui

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/config"
	"LocalBoard/internal/input"
	"LocalBoard/internal/state"
	"LocalBoard/internal/surface"
	"LocalBoard/internal/whiteboard"
)

// Session connects the whiteboard to other replicas.
type Session interface {
	// Start wires wb to the network. status reports progress to the user and
	// may be called from any goroutine.
	Start(wb *whiteboard.Whiteboard, status func(string)) error
	// Share sends records restored locally, such as a loaded file.
	Share(records []state.Record)
	Close() error
}

// Options configure RunApp.
type Options struct {
	Title   string
	Config  *config.Config
	Logger  *slog.Logger
	Session Session
}

type shell struct {
	win     fyne.Window
	wb      *whiteboard.Whiteboard
	status  *widget.Label
	session Session
	log     *slog.Logger
}

// setStatus may be called from any goroutine.
func (s *shell) setStatus(text string) {
	fyne.Do(func() { s.status.SetText(text) })
}

func (s *shell) fail(text string, err error) {
	s.log.Error(text, "err", err)
	s.setStatus(text)
	dialog.ShowError(err, s.win)
}

func (s *shell) actions() []fyne.CanvasObject {
	return []fyne.CanvasObject{
		widget.NewToolbar(
			widget.NewToolbarAction(theme.DocumentSaveIcon(), s.save),
			widget.NewToolbarAction(theme.FolderOpenIcon(), s.load),
			widget.NewToolbarSeparator(),
			widget.NewToolbarAction(theme.FileImageIcon(), s.exportPNG),
			widget.NewToolbarAction(theme.DocumentPrintIcon(), s.exportPDF),
			widget.NewToolbarSeparator(),
			widget.NewToolbarAction(theme.DeleteIcon(), s.wb.DeleteObject),
		),
	}
}

// keyFor maps the fyne keys the whiteboard listens to.
func keyFor(name fyne.KeyName) (input.Key, bool) {
	switch name {
	case fyne.KeyDelete:
		return input.KeyDelete, true
	case fyne.KeyBackspace:
		return input.KeyBackspace, true
	case desktop.KeyShiftLeft, desktop.KeyShiftRight:
		return input.KeyShift, true
	}
	return "", false
}

// keyForwarder turns window key events into input events, tracking the
// shift state.
type keyForwarder struct {
	keys  *input.Dispatcher
	shift bool
}

func (f *keyForwarder) forward(phase input.Phase, e *fyne.KeyEvent) {
	key, ok := keyFor(e.Name)
	if !ok {
		return
	}
	if key == input.KeyShift {
		f.shift = phase == input.KeyDown
	}
	f.keys.Dispatch(phase, input.KeyEvent{Key: key, Shift: f.shift})
}

func bindKeys(c fyne.Canvas, keys *input.Dispatcher) {
	dc, ok := c.(desktop.Canvas)
	if !ok {
		return
	}
	f := &keyForwarder{keys: keys}
	dc.SetOnKeyDown(func(e *fyne.KeyEvent) { f.forward(input.KeyDown, e) })
	dc.SetOnKeyUp(func(e *fyne.KeyEvent) { f.forward(input.KeyUp, e) })
}

// RunApp opens the whiteboard window and blocks until it is closed.
func RunApp(opts Options) error {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	title := opts.Title
	if title == "" {
		title = "Local Whiteboard"
	}

	myApp := app.NewWithID("io.localboard")
	myWindow := myApp.NewWindow(title)
	myWindow.Resize(fyne.NewSize(1024, 768))

	scene := surface.NewScene(1024, 768)
	keys := input.NewDispatcher()
	options := []whiteboard.Option{
		whiteboard.WithPalette(cfg.Palette, cfg.Color),
		whiteboard.WithBrushWidths(cfg.BrushWidths...),
		whiteboard.WithMaxImageWidth(cfg.MaxImageWidth),
		whiteboard.WithFileSource(dialogSource{win: myWindow, log: log}),
		whiteboard.WithScheduler(whiteboard.Async{PostFunc: fyne.Do}),
		whiteboard.WithLogger(log),
	}
	if cfg.Session != "" {
		options = append(options, whiteboard.WithReplicaID(cfg.Session))
	}
	wb := whiteboard.New(scene, keys, options...)
	defer wb.Destroy()

	sh := &shell{
		win:     myWindow,
		wb:      wb,
		status:  widget.NewLabel("Ready"),
		session: opts.Session,
		log:     log,
	}
	board := NewBoard(scene)
	bar, stop := newToolbar(wb, sh.actions()...)
	defer stop()
	bindKeys(myWindow.Canvas(), keys)

	myWindow.SetContent(container.NewBorder(bar.root, sh.status, nil, nil, board))

	if opts.Session != nil {
		if err := opts.Session.Start(wb, sh.setStatus); err != nil {
			return err
		}
		defer func() {
			if err := opts.Session.Close(); err != nil {
				log.Warn("closing session", "err", err)
			}
		}()
	}

	log.Info("window opened", "title", title, "replica", wb.ReplicaID())
	myWindow.ShowAndRun()
	return nil
}
