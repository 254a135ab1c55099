package ui

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"LocalBoard/internal/export"
	"LocalBoard/internal/files"
	"LocalBoard/internal/state"
)

// dialogSource is the desktop File Source. Open must not be called from the
// UI goroutine: it shows a file dialog there and waits for the answer.
type dialogSource struct {
	win fyne.Window
	log *slog.Logger
}

var _ files.Source = dialogSource{}

type openResult struct {
	data []byte
	err  error
}

func (d dialogSource) Open(ctx context.Context, accept string) ([]byte, error) {
	done := make(chan openResult, 1)
	fyne.Do(func() {
		dlg := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			done <- readPicked(r, err)
		}, d.win)
		if accept != "" {
			dlg.SetFilter(storage.NewMimeTypeFileFilter([]string{accept}))
		}
		dlg.Show()
	})

	select {
	case res := <-done:
		if res.err == nil {
			d.log.Debug("file picked", "bytes", len(res.data))
		}
		return res.data, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func readPicked(r fyne.URIReadCloser, err error) openResult {
	if err != nil {
		return openResult{err: err}
	}
	if r == nil {
		return openResult{err: files.ErrCanceled}
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return openResult{err: fmt.Errorf("reading %s: %w", r.URI().Name(), err)}
	}
	return openResult{data: data}
}

// saveFile asks for a destination and hands it to write. name is the
// suggested file name.
func (s *shell) saveFile(name string, write func(io.Writer) error, done string) {
	dlg := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			s.fail("Error opening file", err)
			return
		}
		if w == nil {
			return
		}
		defer func() {
			if err := w.Close(); err != nil {
				s.log.Error("closing file", "uri", w.URI().String(), "err", err)
			}
		}()
		if err := write(w); err != nil {
			s.fail("Error writing "+w.URI().Name(), err)
			return
		}
		s.log.Info("file saved", "uri", w.URI().String())
		s.setStatus(done)
	}, s.win)
	dlg.SetFileName(name)
	dlg.Show()
}

func (s *shell) save() {
	records := s.wb.Snapshot()
	s.saveFile("board.json", func(w io.Writer) error {
		return state.WriteRecords(w, records)
	}, fmt.Sprintf("Saved %d objects", len(records)))
}

func (s *shell) exportPDF() {
	records := s.wb.Snapshot()
	s.saveFile("board.pdf", func(w io.Writer) error {
		return export.PDF(w, records)
	}, "Exported PDF")
}

func (s *shell) exportPNG() {
	records := s.wb.Snapshot()
	s.saveFile("board.png", func(w io.Writer) error {
		return export.PNG(w, records)
	}, "Exported PNG")
}

// load restores a saved board and shares it with the session.
func (s *shell) load() {
	dlg := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil {
			s.fail("Error opening file", err)
			return
		}
		if r == nil {
			return
		}
		defer r.Close()
		records, err := state.ReadRecords(r)
		if err != nil {
			s.fail("Error parsing file - invalid format", err)
			return
		}
		s.wb.RestoreObjects(records)
		if s.session != nil {
			s.session.Share(records)
		}
		s.log.Info("board loaded", "uri", r.URI().String(), "records", len(records))
		s.setStatus(fmt.Sprintf("Loaded %d objects", len(records)))
	}, s.win)
	dlg.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	dlg.Show()
}
