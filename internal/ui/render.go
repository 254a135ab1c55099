package ui

import (
	"image"
	"image/color"
	"log/slog"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"LocalBoard/internal/export"
	"LocalBoard/internal/files"
	"LocalBoard/internal/state"
)

var (
	paperColor     = color.NRGBA{R: 245, G: 246, B: 248, A: 255}
	selectionColor = color.NRGBA{R: 52, G: 152, B: 219, A: 255}
)

// toColor converts a board color to a fyne color. Unpaintable colors become
// transparent.
func toColor(s string) color.Color {
	c, ok := export.ParseColor(s)
	if !ok {
		return color.Transparent
	}
	return c.Color()
}

func pos(p state.Point, off state.Point) fyne.Position {
	return fyne.NewPos(float32(p.X+off.X), float32(p.Y+off.Y))
}

// imageCache keeps decoded image objects so that a refresh does not decode
// every data URL again.
type imageCache struct {
	src    map[*state.Object]string
	images map[*state.Object]image.Image
}

func newImageCache() *imageCache {
	return &imageCache{
		src:    make(map[*state.Object]string),
		images: make(map[*state.Object]image.Image),
	}
}

func (c *imageCache) get(o *state.Object) image.Image {
	if img, ok := c.images[o]; ok && c.src[o] == o.Src {
		return img
	}
	img, err := files.DecodeDataURL(o.Src)
	if err != nil {
		slog.Warn("cannot display image", "id", o.ID, "err", err)
		img = nil
	}
	c.src[o] = o.Src
	c.images[o] = img
	return img
}

// prune drops entries for objects that are no longer on the board.
func (c *imageCache) prune(live []*state.Object) {
	keep := make(map[*state.Object]bool, len(live))
	for _, o := range live {
		keep[o] = true
	}
	for o := range c.images {
		if !keep[o] {
			delete(c.images, o)
			delete(c.src, o)
		}
	}
}

// primitives converts one object to canvas primitives at viewport offset off.
// Rotation is not rendered on screen.
func (c *imageCache) primitives(o *state.Object, off state.Point) []fyne.CanvasObject {
	b := state.BoundsOf(o)
	at := pos(state.Point{X: b.X, Y: b.Y}, off)
	size := fyne.NewSize(float32(b.Width), float32(b.Height))
	stroke, fill := toColor(o.Stroke), toColor(o.Fill)
	width := float32(o.StrokeWidth)

	switch o.Type {
	case state.KindRect:
		r := canvas.NewRectangle(fill)
		r.StrokeColor, r.StrokeWidth = stroke, width
		r.Move(at)
		r.Resize(size)
		return []fyne.CanvasObject{r}
	case state.KindEllipse:
		e := canvas.NewCircle(fill)
		e.StrokeColor, e.StrokeWidth = stroke, width
		e.Position1 = at
		e.Position2 = at.Add(size)
		return []fyne.CanvasObject{e}
	case state.KindLine:
		l := canvas.NewLine(stroke)
		l.StrokeWidth = width
		l.Position1 = pos(state.Point{X: o.X1, Y: o.Y1}, off)
		l.Position2 = pos(state.Point{X: o.X2, Y: o.Y2}, off)
		return []fyne.CanvasObject{l}
	case state.KindTriangle, state.KindArrow:
		return polyline(o.Outline(), off, stroke, o.StrokeWidth, true)
	case state.KindPath:
		return polyline(o.Outline(), off, stroke, o.StrokeWidth, false)
	case state.KindText:
		return textLines(o, off)
	case state.KindImage:
		img := c.get(o)
		if img == nil {
			return nil
		}
		ci := canvas.NewImageFromImage(img)
		ci.FillMode = canvas.ImageFillStretch
		ci.Move(at)
		ci.Resize(size)
		return []fyne.CanvasObject{ci}
	}
	return nil
}

func polyline(points []state.Point, off state.Point, c color.Color, width float64, closed bool) []fyne.CanvasObject {
	if len(points) < 2 {
		return nil
	}
	n := len(points) - 1
	if closed {
		n++
	}
	out := make([]fyne.CanvasObject, 0, n)
	for i := 0; i < n; i++ {
		l := canvas.NewLine(c)
		l.StrokeWidth = float32(width)
		l.Position1 = pos(points[i], off)
		l.Position2 = pos(points[(i+1)%len(points)], off)
		out = append(out, l)
	}
	return out
}

func textLines(o *state.Object, off state.Point) []fyne.CanvasObject {
	size := o.FontSize * o.ScaleY
	if size <= 0 {
		size = 18
	}
	lineHeight := o.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1
	}
	lines := strings.Split(o.Text, "\n")
	out := make([]fyne.CanvasObject, 0, len(lines))
	for i, line := range lines {
		t := canvas.NewText(line, toColor(o.Fill))
		t.TextSize = float32(size)
		t.Move(pos(state.Point{X: o.Left, Y: o.Top + float64(i)*size*lineHeight}, off))
		out = append(out, t)
	}
	return out
}

func selectionBox(b state.Bounds, off state.Point) fyne.CanvasObject {
	r := canvas.NewRectangle(color.Transparent)
	r.StrokeColor = selectionColor
	r.StrokeWidth = 1
	r.Move(pos(state.Point{X: b.X - 4, Y: b.Y - 4}, off))
	r.Resize(fyne.NewSize(float32(b.Width+8), float32(b.Height+8)))
	return r
}
