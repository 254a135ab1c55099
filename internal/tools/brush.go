package tools

import (
	"LocalBoard/internal/state"
	"LocalBoard/internal/surface"
)

// DefaultBrushWidths are the brush variants, widest first.
var DefaultBrushWidths = []float64{8, 4, 2}

// Brush draws free-hand paths through the surface's native drawing mode. Its
// gesture handlers only decide whether a press starts a stroke or drags the
// selected object.
type Brush struct {
	Base

	target      *state.Object
	createdPath *state.Object
	mouseDown   bool
	dragging    bool
	interacting bool
}

// NewBrush returns a brush tool with one variant per width. The last width is
// active.
func NewBrush(board Board, widths ...float64) *Brush {
	if len(widths) == 0 {
		widths = DefaultBrushWidths
	}
	b := &Brush{Base: newBase("brush", board)}
	for _, w := range widths {
		b.register(NewSimpleBrush(w))
	}
	b.SetModification(b.modifications[len(b.modifications)-1])
	return b
}

func (b *Brush) Activate() {
	b.Base.Activate()
	s := b.board.Surface()
	s.SetDrawingMode(true)
	b.applyPen()

	b.track(s.On(surface.PathCreated, func(ev surface.Event) {
		b.createdPath = ev.Path
	}))
	for _, name := range []surface.EventName{surface.ObjectMoving, surface.ObjectScaling, surface.ObjectRotating} {
		b.track(s.On(name, func(surface.Event) {
			b.interacting = true
		}))
	}
	b.track(s.On(surface.ObjectModified, func(surface.Event) {
		b.interacting = false
	}))
}

func (b *Brush) Deactivate() {
	b.Base.Deactivate()
	b.board.Surface().SetDrawingMode(false)
	b.board.EnableSync()
	b.reset()
	b.interacting = false
}

// SetModification accepts brush variants only.
func (b *Brush) SetModification(m Modification) {
	if _, ok := m.(*SimpleBrush); !ok {
		return
	}
	b.Base.SetModification(m)
	b.applyPen()
}

func (b *Brush) ColorChanged() {
	b.applyPen()
}

func (b *Brush) applyPen() {
	if mod, ok := b.active.(*SimpleBrush); ok {
		b.board.Surface().SetFreeDrawingBrush(mod.Create(b.board.Color()))
	}
}

func (b *Brush) Down(ev surface.Event) {
	if ev.Target != nil && b.board.Surface().ActiveObject() == ev.Target {
		return
	}
	b.board.DisableSync()
	b.target = ev.Target
	b.mouseDown = true
}

func (b *Brush) Move(ev surface.Event) {
	s := b.board.Surface()
	if ev.Target != nil && ev.Target == s.ActiveObject() {
		s.SetDrawingMode(false)
	} else if !b.interacting {
		s.SetDrawingMode(true)
	}
	if b.mouseDown {
		b.dragging = true
	}
	s.RenderAll()
}

// Up keeps the captured path only if the pointer actually moved; a plain
// click selects the object under the pointer instead.
func (b *Brush) Up(surface.Event) {
	s := b.board.Surface()
	b.board.EnableSync()
	if b.createdPath != nil {
		s.Remove(b.createdPath)
		if b.dragging {
			s.Add(b.createdPath)
		}
	}
	if b.target != nil && !b.dragging {
		s.SetActiveObject(b.target)
		s.RenderAll()
	}
	b.reset()
}

func (b *Brush) reset() {
	b.target = nil
	b.createdPath = nil
	b.mouseDown = false
	b.dragging = false
}
