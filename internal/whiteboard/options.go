package whiteboard

import (
	"context"
	"io"
	"log/slog"
	"slices"

	"LocalBoard/internal/files"
)

// DefaultPalette is the fixed set of colors offered to the user.
var DefaultPalette = []string{"#88c24e", "#ff3d6f", "#5d9cec", "#ffffff", "#333333"}

// Scheduler decides where asynchronous work runs. Go runs blocking work off
// the event loop; Post brings a completion back onto it.
type Scheduler interface {
	Go(work func())
	Post(fn func())
}

type inline struct{}

func (inline) Go(work func()) { work() }
func (inline) Post(fn func()) { fn() }

// Inline runs everything synchronously on the caller's goroutine.
var Inline Scheduler = inline{}

// Async runs work on a new goroutine and hands completions to PostFunc, which
// must run them on the event loop.
type Async struct {
	PostFunc func(func())
}

func (a Async) Go(work func()) { go work() }
func (a Async) Post(fn func()) { a.PostFunc(fn) }

// Option configures a Whiteboard.
type Option func(*Whiteboard)

// WithReplicaID sets the prefix of locally generated object ids.
func WithReplicaID(id string) Option {
	return func(w *Whiteboard) {
		w.replicaID = id
	}
}

// WithPalette replaces the palette. initial becomes the current color when it
// is part of the palette, otherwise the third palette color (or the first) is.
func WithPalette(palette []string, initial string) Option {
	return func(w *Whiteboard) {
		if len(palette) == 0 {
			return
		}
		w.palette = slices.Clone(palette)
		w.color = defaultColor(w.palette, initial)
	}
}

// WithFileSource sets where the image tool gets files from.
func WithFileSource(src files.Source) Option {
	return func(w *Whiteboard) {
		w.files = src
	}
}

// WithScheduler sets how asynchronous completions reach the event loop.
func WithScheduler(s Scheduler) Option {
	return func(w *Whiteboard) {
		w.sched = s
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(w *Whiteboard) {
		if l != nil {
			w.log = l
		}
	}
}

// WithBrushWidths sets the brush variants.
func WithBrushWidths(widths ...float64) Option {
	return func(w *Whiteboard) {
		w.brushWidths = slices.Clone(widths)
	}
}

// WithMaxImageWidth sets the width oversized images are scaled down to.
func WithMaxImageWidth(width float64) Option {
	return func(w *Whiteboard) {
		if width > 0 {
			w.maxImageWidth = width
		}
	}
}

// WithContext sets the parent context of asynchronous operations.
func WithContext(ctx context.Context) Option {
	return func(w *Whiteboard) {
		w.parent = ctx
	}
}

func defaultColor(palette []string, initial string) string {
	if slices.Contains(palette, initial) {
		return initial
	}
	if len(palette) > 2 {
		return palette[2]
	}
	return palette[0]
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noFiles() files.Source {
	return files.SourceFunc(func(context.Context, string) ([]byte, error) {
		return nil, files.ErrCanceled
	})
}
