// Package surface defines the canvas capability the whiteboard drives, and
// Scene, an in-memory implementation of it.
package surface

import "LocalBoard/internal/state"

// EventName names a surface event.
type EventName string

const (
	ObjectAdded      EventName = "object:added"
	ObjectRemoved    EventName = "object:removed"
	ObjectModified   EventName = "object:modified"
	ObjectMoving     EventName = "object:moving"
	ObjectScaling    EventName = "object:scaling"
	ObjectRotating   EventName = "object:rotating"
	ObjectSelected   EventName = "object:selected"
	SelectionCleared EventName = "selection:cleared"
	PathCreated      EventName = "path:created"
	MouseDownBefore  EventName = "mouse:down:before"
	MouseDown        EventName = "mouse:down"
	MouseMove        EventName = "mouse:move"
	MouseUp          EventName = "mouse:up"
)

// Event is what surface handlers receive. Raw is the pointer position in
// viewport coordinates; use Surface.Pointer to get canvas coordinates.
type Event struct {
	Name   EventName
	Raw    state.Point
	Target *state.Object
	Path   *state.Object
}

// Pen configures native free-hand drawing.
type Pen struct {
	Color string
	Width float64
}

// Surface is everything the whiteboard and its tools need from the canvas.
type Surface interface {
	Add(o *state.Object)
	Remove(o *state.Object)
	Objects() []*state.Object

	Pointer(ev Event) state.Point
	ActiveObject() *state.Object
	SetActiveObject(o *state.Object)
	DiscardActiveObject()

	VisibleWidth() float64
	VisibleHeight() float64
	CenterObject(o *state.Object)

	DrawingMode() bool
	SetDrawingMode(on bool)
	SetFreeDrawingBrush(p Pen)

	// EnterEditing starts editing a text object. onExit runs once when the
	// edit ends.
	EnterEditing(o *state.Object, onExit func())
	Editing() bool

	// On registers h for events called name and returns a function removing it.
	On(name EventName, h func(Event)) (off func())
	RenderAll()
}
