// Package tools implements the interactive drawing tools and the
// modifications (object variants) they create.
package tools

import (
	"context"
	"log/slog"
	"slices"

	"LocalBoard/internal/files"
	"LocalBoard/internal/input"
	"LocalBoard/internal/state"
	"LocalBoard/internal/surface"
)

// Board is the part of the whiteboard a tool may use. Tools never reach into
// the object store; they only touch objects handed to them by gesture events.
type Board interface {
	Surface() surface.Surface
	Keys() input.Source
	Files() files.Source
	Context() context.Context
	Logger() *slog.Logger

	Color() string
	MaxImageWidth() float64

	AddWithoutSync(o *state.Object)
	EnableSync()
	DisableSync()
	ResetActiveTool()
	ResetActiveObject()
	// ToolsChanged republishes the tool list after a tool changed its
	// availability on its own.
	ToolsChanged()

	// Go runs blocking work off the event loop; Post schedules fn back onto it.
	Go(work func())
	Post(fn func())
}

// Tool is an interactive gesture handler. Exactly one tool is active on a
// whiteboard at a time.
type Tool interface {
	Name() string
	Available() bool

	Activate()
	Deactivate()

	Down(ev surface.Event)
	Move(ev surface.Event)
	Up(ev surface.Event)

	Modifications() []Modification
	ActiveModification() Modification
	SetModification(m Modification)

	// ColorChanged is called after the whiteboard color changed.
	ColorChanged()
	// Dispose releases subscriptions that outlive activation.
	Dispose()
}

// Base carries the behaviour shared by every tool: availability, the
// constrain modifier driven by the shift key, subscription bookkeeping and the
// modification registry. Concrete tools embed it and call through to
// Activate/Deactivate.
type Base struct {
	name  string
	board Board

	available bool
	constrain bool

	subs       []func()
	persistent []func()

	modifications []Modification
	active        Modification
}

func newBase(name string, board Board) Base {
	return Base{name: name, board: board, available: true}
}

func (b *Base) Name() string       { return b.name }
func (b *Base) Available() bool    { return b.available }
func (b *Base) Constrain() bool    { return b.constrain }
func (b *Base) Down(surface.Event) {}
func (b *Base) Move(surface.Event) {}
func (b *Base) Up(surface.Event)   {}
func (b *Base) ColorChanged()      {}

// Activate tracks the shift key for the constrain modifier.
func (b *Base) Activate() {
	keys := b.board.Keys()
	if keys == nil {
		return
	}
	b.track(keys.Subscribe(input.KeyDown, func(ev input.KeyEvent) {
		b.constrain = ev.Shift
	}))
	b.track(keys.Subscribe(input.KeyUp, func(input.KeyEvent) {
		b.constrain = false
	}))
}

// Deactivate releases every subscription taken since Activate.
func (b *Base) Deactivate() {
	subs := b.subs
	b.subs = nil
	for _, off := range subs {
		off()
	}
	b.constrain = false
}

func (b *Base) Dispose() {
	subs := b.persistent
	b.persistent = nil
	for _, off := range subs {
		off()
	}
}

// track records an unsubscribe function released on Deactivate.
func (b *Base) track(off func()) {
	b.subs = append(b.subs, off)
}

// keep records an unsubscribe function released on Dispose.
func (b *Base) keep(off func()) {
	b.persistent = append(b.persistent, off)
}

func (b *Base) Modifications() []Modification {
	return slices.Clone(b.modifications)
}

func (b *Base) ActiveModification() Modification {
	return b.active
}

func (b *Base) SetModification(m Modification) {
	b.active = m
}

func (b *Base) register(mods ...Modification) {
	b.modifications = append(b.modifications, mods...)
}
