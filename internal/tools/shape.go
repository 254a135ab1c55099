package tools

import (
	"math"

	"LocalBoard/internal/state"
	"LocalBoard/internal/surface"
)

// Shape draws geometric objects with an explicit press, drag, release gesture.
// The object is inserted without synchronization on press and synchronized
// once when the gesture is finalized.
type Shape struct {
	Base

	start    *state.Point
	object   *state.Object
	beneath  *state.Object
	dragging bool
	canDraw  bool
}

// NewShape returns a shape tool with line, ellipse, rect, triangle and arrow
// variants; rect is active. The tool listens for scale events for its whole
// lifetime so strokes stay consistent whichever tool is active.
func NewShape(board Board) *Shape {
	sh := &Shape{Base: newBase("shape", board), canDraw: true}
	sh.register(Line{}, Ellipse{}, Rect{}, Triangle{}, Arrow{})
	sh.SetModification(Rect{})
	sh.keep(board.Surface().On(surface.ObjectScaling, sh.onScaling))
	return sh
}

func (sh *Shape) onScaling(ev surface.Event) {
	if ev.Target == nil {
		return
	}
	for _, m := range sh.modifications {
		if string(ev.Target.Type) == m.Name() {
			m.(ShapeModification).OnObjectScale(ev.Target)
		}
	}
}

// SetModification accepts shape variants only.
func (sh *Shape) SetModification(m Modification) {
	if _, ok := m.(ShapeModification); !ok {
		return
	}
	sh.Base.SetModification(m)
}

func (sh *Shape) modification() ShapeModification {
	return sh.active.(ShapeModification)
}

func (sh *Shape) Deactivate() {
	sh.Base.Deactivate()
	sh.release()
	sh.canDraw = true
}

func (sh *Shape) Down(ev surface.Event) {
	s := sh.board.Surface()
	if ev.Target == nil {
		sh.canDraw = true
	}
	if !sh.canDraw {
		return
	}
	if ev.Target != nil {
		sh.beneath = ev.Target
		sh.beneath.LockMovementX = true
		sh.beneath.LockMovementY = true
		s.DiscardActiveObject()
		s.RenderAll()
	}
	p := s.Pointer(ev)
	sh.start = &p
	sh.object = sh.modification().Create(ObjectParams{
		Fill: sh.board.Color(),
		Left: p.X,
		Top:  p.Y,
	})
	sh.board.AddWithoutSync(sh.object)
}

func (sh *Shape) Move(ev surface.Event) {
	s := sh.board.Surface()
	sh.canDraw = ev.Target == nil || s.ActiveObject() != ev.Target
	if sh.start == nil {
		return
	}
	sh.dragging = true

	p := s.Pointer(ev)
	sh.modification().ChangeSize(sh.object, ChangeParams{
		Width:     math.Abs(p.X - sh.start.X),
		Height:    math.Abs(p.Y - sh.start.Y),
		Left:      p.X,
		Top:       p.Y,
		Start:     *sh.start,
		Constrain: sh.Constrain(),
	})
	s.RenderAll()
}

func (sh *Shape) Up(surface.Event) {
	s := sh.board.Surface()
	if s.ActiveObject() != nil {
		return
	}
	if !sh.dragging {
		if sh.object != nil {
			// Shapes that keep their size on a click are placed as they are.
			s.Remove(sh.object)
			if !sh.modification().DeleteIfNotResized() {
				s.Add(sh.object)
			}
		}
		if sh.beneath != nil {
			sh.canDraw = false
			s.SetActiveObject(sh.beneath)
			s.RenderAll()
		}
	} else {
		// Re-adding puts the object back on top and synchronizes it.
		s.Remove(sh.object)
		s.Add(sh.object)
		s.SetActiveObject(sh.object)
		sh.object.Selectable = true
	}
	sh.release()
}

// release unlocks the object drawn through and clears gesture state.
func (sh *Shape) release() {
	if sh.beneath != nil {
		sh.beneath.LockMovementX = false
		sh.beneath.LockMovementY = false
		sh.beneath = nil
	}
	sh.object = nil
	sh.start = nil
	sh.dragging = false
}
