package tools

import (
	"math"

	"LocalBoard/internal/state"
)

const (
	shapeStrokeWidth    = 2.5
	lineStrokeWidth     = 3
	triangleStrokeWidth = 5

	arrowOffset = 100
	arrowWidth  = 100
	arrowHeight = 40
)

// Rect draws outlined rectangles, or squares while constrained.
type Rect struct{}

func (Rect) Name() string             { return string(state.KindRect) }
func (Rect) DeleteIfNotResized() bool { return true }

func (Rect) Create(p ObjectParams) *state.Object {
	o := state.NewObject(state.KindRect)
	o.Left, o.Top = p.Left, p.Top
	o.Width, o.Height = 1, 1
	o.Fill = "transparent"
	o.Stroke = p.Fill
	o.StrokeWidth = shapeStrokeWidth
	return o
}

func (Rect) ChangeSize(o *state.Object, p ChangeParams) { resizeBox(o, p) }
func (Rect) OnObjectScale(o *state.Object)              { scaleStroke(o, shapeStrokeWidth) }

// Triangle draws outlined isosceles triangles inside the dragged box.
type Triangle struct{}

func (Triangle) Name() string             { return string(state.KindTriangle) }
func (Triangle) DeleteIfNotResized() bool { return true }

func (Triangle) Create(p ObjectParams) *state.Object {
	o := state.NewObject(state.KindTriangle)
	o.Left, o.Top = p.Left, p.Top
	o.Width, o.Height = 1, 1
	o.Fill = "rgba(0,0,0,0)"
	o.Stroke = p.Fill
	o.StrokeWidth = triangleStrokeWidth
	return o
}

func (Triangle) ChangeSize(o *state.Object, p ChangeParams) { resizeBox(o, p) }
func (Triangle) OnObjectScale(o *state.Object)              { scaleStroke(o, triangleStrokeWidth) }

// Ellipse draws outlined ellipses, or circles while constrained. The dragged
// box is the diameter.
type Ellipse struct{}

func (Ellipse) Name() string             { return string(state.KindEllipse) }
func (Ellipse) DeleteIfNotResized() bool { return true }

func (Ellipse) Create(p ObjectParams) *state.Object {
	o := state.NewObject(state.KindEllipse)
	o.Left, o.Top = p.Left, p.Top
	o.RX, o.RY = 1, 1
	o.Width, o.Height = 2, 2
	o.Fill = "transparent"
	o.Stroke = p.Fill
	o.StrokeWidth = shapeStrokeWidth
	return o
}

func (Ellipse) ChangeSize(o *state.Object, p ChangeParams) {
	dx, dy := p.Width, p.Height
	if p.Constrain {
		dx = math.Min(dx, dy)
		dy = dx
	}
	o.RX, o.RY = dx/2, dy/2
	o.Width, o.Height = dx, dy
	o.ScaleX, o.ScaleY = 1, 1
	flipOrigin(o, p, dx, dy)
}

func (Ellipse) OnObjectScale(o *state.Object) { scaleStroke(o, shapeStrokeWidth) }

// Line draws a segment from the gesture start to the pointer.
type Line struct{}

func (Line) Name() string             { return string(state.KindLine) }
func (Line) DeleteIfNotResized() bool { return true }

func (Line) Create(p ObjectParams) *state.Object {
	o := state.NewObject(state.KindLine)
	o.X1, o.Y1 = p.Left, p.Top
	o.X2, o.Y2 = p.Left, p.Top
	o.Left, o.Top = p.Left, p.Top
	o.Stroke = p.Fill
	o.StrokeWidth = lineStrokeWidth
	return o
}

// ChangeSize only moves the free endpoint.
func (Line) ChangeSize(o *state.Object, p ChangeParams) {
	o.X2, o.Y2 = p.Left, p.Top
	b := state.BoundsOf(o)
	o.Left, o.Top = b.X, b.Y
	o.Width, o.Height = b.Width, b.Height
}

func (Line) OnObjectScale(o *state.Object) { scaleStroke(o, lineStrokeWidth) }

// Arrow inserts a filled arrow decal. A single click is enough to place it,
// and dragging grows it uniformly.
type Arrow struct{}

var arrowOutline = []state.Point{
	{X: 0, Y: 14}, {X: 70, Y: 14}, {X: 70, Y: 0},
	{X: arrowWidth, Y: arrowHeight / 2},
	{X: 70, Y: arrowHeight}, {X: 70, Y: 26}, {X: 0, Y: 26},
}

func (Arrow) Name() string             { return string(state.KindArrow) }
func (Arrow) DeleteIfNotResized() bool { return false }

func (Arrow) Create(p ObjectParams) *state.Object {
	o := state.NewObject(state.KindArrow)
	o.Left = math.Max(0, p.Left-arrowOffset)
	o.Top = p.Top
	o.Width, o.Height = arrowWidth, arrowHeight
	o.Fill = p.Fill
	o.Points = append([]state.Point(nil), arrowOutline...)
	return o
}

func (Arrow) ChangeSize(o *state.Object, p ChangeParams) {
	s := 1 + math.Max(p.Width, p.Height)/100
	o.ScaleX, o.ScaleY = s, s
}

func (Arrow) OnObjectScale(o *state.Object) { scaleStroke(o, shapeStrokeWidth) }
