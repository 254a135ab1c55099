package surface

import (
	"strings"
	"unicode/utf8"

	"LocalBoard/internal/state"
)

// targetTolerance is how far from an object's bounds a pointer still hits it.
const targetTolerance = 10

type handler struct {
	id int
	fn func(Event)
}

type transform struct {
	target *state.Object
	last   state.Point
	moved  bool
}

type editSession struct {
	object *state.Object
	onExit func()
}

// Scene is an in-memory Surface. It keeps objects in stacking order, finds
// targets by bounding box, and reproduces the native behaviour of a canvas
// widget: free-hand capture in drawing mode, dragging of selected objects,
// and text editing. The shell feeds it pointer and text input.
//
// Scene is not safe for concurrent use; drive it from one goroutine.
type Scene struct {
	width, height float64
	pan           state.Point

	objects []*state.Object
	active  *state.Object

	drawing bool
	pen     Pen

	handlers map[EventName][]handler
	nextID   int

	pressed   bool
	capture   []state.Point
	transform *transform
	editing   *editSession

	renders  int
	onRender func()
}

var _ Surface = (*Scene)(nil)

// NewScene creates an empty scene with a visible area of width x height.
func NewScene(width, height float64) *Scene {
	return &Scene{
		width:    width,
		height:   height,
		handlers: make(map[EventName][]handler),
		pen:      Pen{Color: "#000000", Width: 1},
	}
}

func (s *Scene) On(name EventName, h func(Event)) func() {
	s.nextID++
	id := s.nextID
	s.handlers[name] = append(s.handlers[name], handler{id: id, fn: h})
	return func() {
		hs := s.handlers[name]
		for i, entry := range hs {
			if entry.id == id {
				s.handlers[name] = append(hs[:i:i], hs[i+1:]...)
				return
			}
		}
	}
}

// HandlerCount returns the number of handlers registered for name.
func (s *Scene) HandlerCount(name EventName) int {
	return len(s.handlers[name])
}

func (s *Scene) emit(ev Event) {
	hs := append([]handler(nil), s.handlers[ev.Name]...)
	for _, h := range hs {
		h.fn(ev)
	}
}

// Add appends o on top of the stack. An object already on the scene is moved
// to the top.
func (s *Scene) Add(o *state.Object) {
	if o == nil {
		return
	}
	s.detach(o)
	s.objects = append(s.objects, o)
	s.emit(Event{Name: ObjectAdded, Target: o})
}

func (s *Scene) Remove(o *state.Object) {
	if o == nil || !s.detach(o) {
		return
	}
	s.emit(Event{Name: ObjectRemoved, Target: o})
	if s.active == o {
		s.DiscardActiveObject()
	}
}

func (s *Scene) detach(o *state.Object) bool {
	for i, existing := range s.objects {
		if existing == o {
			s.objects = append(s.objects[:i:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Objects returns the scene objects bottom to top.
func (s *Scene) Objects() []*state.Object {
	return append([]*state.Object(nil), s.objects...)
}

func (s *Scene) Pointer(ev Event) state.Point {
	return s.toCanvas(ev.Raw)
}

func (s *Scene) toCanvas(raw state.Point) state.Point {
	return state.Point{X: raw.X - s.pan.X, Y: raw.Y - s.pan.Y}
}

func (s *Scene) ActiveObject() *state.Object {
	return s.active
}

func (s *Scene) SetActiveObject(o *state.Object) {
	if o == nil {
		s.DiscardActiveObject()
		return
	}
	if s.active == o {
		return
	}
	s.active = o
	s.emit(Event{Name: ObjectSelected, Target: o})
}

func (s *Scene) DiscardActiveObject() {
	if s.active == nil {
		return
	}
	s.active = nil
	s.emit(Event{Name: SelectionCleared})
}

func (s *Scene) VisibleWidth() float64  { return s.width }
func (s *Scene) VisibleHeight() float64 { return s.height }

// Resize changes the visible area.
func (s *Scene) Resize(width, height float64) {
	s.width, s.height = width, height
}

// Pan shifts the viewport by (dx, dy).
func (s *Scene) Pan(dx, dy float64) {
	s.pan.X += dx
	s.pan.Y += dy
	s.RenderAll()
}

// Offset returns the current viewport translation.
func (s *Scene) Offset() state.Point {
	return s.pan
}

func (s *Scene) CenterObject(o *state.Object) {
	b := state.BoundsOf(o)
	o.Translate(
		(s.width/2-s.pan.X)-(b.X+b.Width/2),
		(s.height/2-s.pan.Y)-(b.Y+b.Height/2),
	)
}

func (s *Scene) DrawingMode() bool         { return s.drawing }
func (s *Scene) SetDrawingMode(on bool)    { s.drawing = on }
func (s *Scene) SetFreeDrawingBrush(p Pen) { s.pen = p }

// FreeDrawingBrush returns the pen used for free-hand capture.
func (s *Scene) FreeDrawingBrush() Pen {
	return s.pen
}

// Capture returns the free-hand points collected by the current gesture, in
// canvas coordinates.
func (s *Scene) Capture() []state.Point {
	return s.capture
}

func (s *Scene) EnterEditing(o *state.Object, onExit func()) {
	if s.editing != nil {
		s.ExitEditing()
	}
	s.editing = &editSession{object: o, onExit: onExit}
}

func (s *Scene) Editing() bool {
	return s.editing != nil
}

// EditedObject returns the text object being edited, if any.
func (s *Scene) EditedObject() *state.Object {
	if s.editing == nil {
		return nil
	}
	return s.editing.object
}

// TypeText appends text to the object being edited.
func (s *Scene) TypeText(text string) {
	if s.editing == nil {
		return
	}
	o := s.editing.object
	o.Text += text
	state.MeasureText(o)
	s.RenderAll()
}

// DeleteBackward removes the last character of the object being edited.
func (s *Scene) DeleteBackward() {
	if s.editing == nil {
		return
	}
	o := s.editing.object
	if o.Text == "" {
		return
	}
	_, size := utf8.DecodeLastRuneInString(o.Text)
	o.Text = o.Text[:len(o.Text)-size]
	state.MeasureText(o)
	s.RenderAll()
}

// ExitEditing ends the current text edit.
func (s *Scene) ExitEditing() {
	session := s.editing
	if session == nil {
		return
	}
	s.editing = nil
	session.object.Text = strings.TrimRight(session.object.Text, "\n")
	if session.onExit != nil {
		session.onExit()
	}
	s.RenderAll()
}

func (s *Scene) RenderAll() {
	s.renders++
	if s.onRender != nil {
		s.onRender()
	}
}

// SetOnRender registers the callback run on every RenderAll.
func (s *Scene) SetOnRender(fn func()) {
	s.onRender = fn
}

// Renders returns how many times RenderAll ran.
func (s *Scene) Renders() int {
	return s.renders
}

// FindTarget returns the topmost visible object under p.
func (s *Scene) FindTarget(p state.Point) *state.Object {
	for i := len(s.objects) - 1; i >= 0; i-- {
		o := s.objects[i]
		if !o.Visible {
			continue
		}
		if state.BoundsOf(o).Contains(p, targetTolerance) {
			return o
		}
	}
	return nil
}

// PointerDown feeds a pointer press at raw viewport coordinates.
func (s *Scene) PointerDown(raw state.Point) {
	p := s.toCanvas(raw)
	target := s.FindTarget(p)
	s.emit(Event{Name: MouseDownBefore, Raw: raw, Target: target})
	if s.editing != nil && target != s.editing.object {
		s.ExitEditing()
		target = s.FindTarget(p)
	}
	s.pressed = true

	switch {
	case s.drawing:
		s.capture = []state.Point{p}
	case target != nil && target.Selectable:
		s.SetActiveObject(target)
		s.transform = &transform{target: target, last: p}
	case target == nil:
		s.DiscardActiveObject()
	}
	s.emit(Event{Name: MouseDown, Raw: raw, Target: target})
}

// PointerMove feeds a pointer move.
func (s *Scene) PointerMove(raw state.Point) {
	p := s.toCanvas(raw)
	if s.pressed {
		if s.capture != nil {
			s.capture = append(s.capture, p)
		} else if t := s.transform; t != nil {
			dx, dy := p.X-t.last.X, p.Y-t.last.Y
			if t.target.LockMovementX {
				dx = 0
			}
			if t.target.LockMovementY {
				dy = 0
			}
			t.last = p
			if dx != 0 || dy != 0 {
				t.target.Translate(dx, dy)
				t.moved = true
				s.emit(Event{Name: ObjectMoving, Raw: raw, Target: t.target})
			}
		}
	}
	s.emit(Event{Name: MouseMove, Raw: raw, Target: s.FindTarget(p)})
}

// PointerUp feeds a pointer release.
func (s *Scene) PointerUp(raw state.Point) {
	p := s.toCanvas(raw)
	if s.capture != nil {
		points := s.capture
		s.capture = nil
		if path := s.newPath(points); path != nil {
			s.Add(path)
			s.emit(Event{Name: PathCreated, Raw: raw, Path: path})
		}
	}
	if t := s.transform; t != nil {
		s.transform = nil
		if t.moved {
			s.emit(Event{Name: ObjectModified, Raw: raw, Target: t.target})
		}
	}
	s.pressed = false
	s.emit(Event{Name: MouseUp, Raw: raw, Target: s.FindTarget(p)})
}

// newPath turns captured points into a path object, or nil when the pointer
// never left its starting position.
func (s *Scene) newPath(points []state.Point) *state.Object {
	b := state.PathBounds(points)
	if len(points) < 2 || (b.Width == 0 && b.Height == 0) {
		return nil
	}
	path := state.NewObject(state.KindPath)
	path.Left, path.Top = b.X, b.Y
	path.Width, path.Height = b.Width, b.Height
	path.Stroke = s.pen.Color
	path.StrokeWidth = s.pen.Width
	path.Points = make([]state.Point, len(points))
	for i, pt := range points {
		path.Points[i] = state.Point{X: pt.X - b.X, Y: pt.Y - b.Y}
	}
	return path
}

// Scale applies handle scaling to o the way a user drag on a corner would.
func (s *Scene) Scale(o *state.Object, scaleX, scaleY float64) {
	o.ScaleX, o.ScaleY = scaleX, scaleY
	s.emit(Event{Name: ObjectScaling, Target: o})
	s.emit(Event{Name: ObjectModified, Target: o})
	s.RenderAll()
}

// Rotate sets the rotation of o in degrees.
func (s *Scene) Rotate(o *state.Object, angle float64) {
	o.Angle = angle
	s.emit(Event{Name: ObjectRotating, Target: o})
	s.emit(Event{Name: ObjectModified, Target: o})
	s.RenderAll()
}
