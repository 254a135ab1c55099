package state

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Bounds represents an axis-aligned rectangle on the canvas.
type Bounds struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// BoundsOf returns the bounding box of an object, scale included.
func BoundsOf(o *Object) Bounds {
	if o.Type == KindLine {
		minX, maxX := math.Min(o.X1, o.X2), math.Max(o.X1, o.X2)
		minY, maxY := math.Min(o.Y1, o.Y2), math.Max(o.Y1, o.Y2)
		return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}
	return Bounds{
		X:      o.Left,
		Y:      o.Top,
		Width:  o.Width * o.ScaleX,
		Height: o.Height * o.ScaleY,
	}
}

// Outline returns the polygon of a triangle, arrow or path in absolute canvas
// coordinates, scale included. Other kinds have no outline.
func (o *Object) Outline() []Point {
	switch o.Type {
	case KindTriangle:
		w, h := o.Width*o.ScaleX, o.Height*o.ScaleY
		return []Point{
			{X: o.Left + w/2, Y: o.Top},
			{X: o.Left + w, Y: o.Top + h},
			{X: o.Left, Y: o.Top + h},
		}
	case KindArrow, KindPath:
		points := make([]Point, len(o.Points))
		for i, p := range o.Points {
			points[i] = Point{X: o.Left + p.X*o.ScaleX, Y: o.Top + p.Y*o.ScaleY}
		}
		return points
	}
	return nil
}

// Contains checks if the point lies inside b, grown by tolerance on every side.
func (b Bounds) Contains(p Point, tolerance float64) bool {
	return p.X >= b.X-tolerance && p.X <= b.X+b.Width+tolerance &&
		p.Y >= b.Y-tolerance && p.Y <= b.Y+b.Height+tolerance
}

// Overlaps reports whether two rectangles intersect.
func (b Bounds) Overlaps(other Bounds) bool {
	return !(b.X+b.Width < other.X || other.X+other.Width < b.X ||
		b.Y+b.Height < other.Y || other.Y+other.Height < b.Y)
}

// Union returns the smallest rectangle covering both.
func (b Bounds) Union(other Bounds) Bounds {
	minX := math.Min(b.X, other.X)
	minY := math.Min(b.Y, other.Y)
	maxX := math.Max(b.X+b.Width, other.X+other.Width)
	maxY := math.Max(b.Y+b.Height, other.Y+other.Height)
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// PathBounds computes the bounding box of a point list.
func PathBounds(points []Point) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := points[0].X, points[0].Y
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// VisibleBounds returns the union of all visible objects, and false when there
// are none.
func VisibleBounds(objects []*Object) (Bounds, bool) {
	var (
		result Bounds
		found  bool
	)
	for _, o := range objects {
		if !o.Visible {
			continue
		}
		b := BoundsOf(o)
		if !found {
			result, found = b, true
			continue
		}
		result = result.Union(b)
	}
	return result, found
}

// MeasureText updates the size of a text object from its content.
func MeasureText(o *Object) {
	lines := strings.Split(o.Text, "\n")
	longest := 0
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > longest {
			longest = n
		}
	}
	o.Width = math.Max(1, float64(longest)*o.FontSize*0.55)
	o.Height = o.FontSize * o.LineHeight * float64(len(lines))
}
