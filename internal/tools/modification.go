package tools

import (
	"math"
	"strconv"

	"LocalBoard/internal/state"
	"LocalBoard/internal/surface"
)

// Modification is one variant a tool can produce.
type Modification interface {
	// Name identifies the variant. For shapes it equals the type tag of the
	// objects they create.
	Name() string
}

// ObjectParams place and color a new object.
type ObjectParams struct {
	Fill string
	Left float64
	Top  float64
}

// ChangeParams describe the extent of a resize gesture.
type ChangeParams struct {
	Width     float64
	Height    float64
	Left      float64
	Top       float64
	Start     state.Point
	Constrain bool
}

// ShapeModification creates one kind of geometric object and resizes it while
// a gesture is in progress.
type ShapeModification interface {
	Modification
	// Create returns a new object that has not been added to any surface.
	Create(p ObjectParams) *state.Object
	ChangeSize(o *state.Object, p ChangeParams)
	OnObjectScale(o *state.Object)
	// DeleteIfNotResized reports whether a click without drag discards the object.
	DeleteIfNotResized() bool
}

// SimpleBrush configures the surface pen with a fixed width.
type SimpleBrush struct {
	width float64
}

// NewSimpleBrush returns a brush variant drawing width wide strokes.
func NewSimpleBrush(width float64) *SimpleBrush {
	return &SimpleBrush{width: width}
}

func (b *SimpleBrush) Name() string {
	return "brush" + strconv.FormatFloat(b.width, 'f', -1, 64)
}

// Width returns the stroke width.
func (b *SimpleBrush) Width() float64 {
	return b.width
}

// Create returns the pen for color.
func (b *SimpleBrush) Create(color string) surface.Pen {
	return surface.Pen{Color: color, Width: b.width}
}

// resizeBox is the default resize: set width and height directly, reset any
// scale, and move the origin when dragging up or left of the start point.
func resizeBox(o *state.Object, p ChangeParams) {
	width, height := p.Width, p.Height
	if p.Constrain {
		width = math.Min(width, height)
		height = width
	}
	o.Width, o.Height = width, height
	o.ScaleX, o.ScaleY = 1, 1
	flipOrigin(o, p, width, height)
}

func flipOrigin(o *state.Object, p ChangeParams, width, height float64) {
	if p.Left-p.Start.X < 0 {
		o.Left = p.Start.X - width
	}
	if p.Top-p.Start.Y < 0 {
		o.Top = p.Start.Y - height
	}
}

// scaleStroke keeps strokes from thickening with the object. It never goes
// below base when the object shrinks.
func scaleStroke(o *state.Object, base float64) {
	o.StrokeWidth = base / math.Max(1, math.Max(o.ScaleX, o.ScaleY))
}
