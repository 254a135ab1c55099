package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/state"
	"LocalBoard/internal/surface"
)

// Board is the drawing area. It renders a surface.Scene and feeds it the
// pointer and text input it receives.
type Board struct {
	widget.BaseWidget
	scene  *surface.Scene
	images *imageCache
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ fyne.Focusable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)
var _ desktop.Hoverable = (*Board)(nil)

func NewBoard(scene *surface.Scene) *Board {
	b := &Board{scene: scene, images: newImageCache()}
	b.ExtendBaseWidget(b)
	scene.SetOnRender(b.Refresh)
	return b
}

func point(p fyne.Position) state.Point {
	return state.Point{X: float64(p.X), Y: float64(p.Y)}
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
	b.scene.PointerDown(point(e.Position))
	b.Refresh()
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.scene.PointerUp(point(e.Position))
	b.Refresh()
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	b.scene.PointerMove(point(e.Position))
	b.Refresh()
}

func (b *Board) MouseMoved(e *desktop.MouseEvent) {
	b.scene.PointerMove(point(e.Position))
}

func (b *Board) Scrolled(e *fyne.ScrollEvent) {
	b.scene.Pan(float64(e.Scrolled.DX), float64(e.Scrolled.DY))
}

func (b *Board) MouseIn(*desktop.MouseEvent) {}
func (b *Board) MouseOut()                   {}
func (b *Board) DragEnd()                    {}
func (b *Board) FocusGained()                {}
func (b *Board) FocusLost()                  {}

// TypedRune inserts text into the object being edited.
func (b *Board) TypedRune(r rune) {
	if !b.scene.Editing() {
		return
	}
	b.scene.TypeText(string(r))
	b.Refresh()
}

func (b *Board) TypedKey(e *fyne.KeyEvent) {
	if !b.scene.Editing() {
		return
	}
	switch e.Name {
	case fyne.KeyBackspace:
		b.scene.DeleteBackward()
	case fyne.KeyReturn, fyne.KeyEnter:
		b.scene.TypeText("\n")
	case fyne.KeyEscape:
		b.scene.ExitEditing()
	default:
		return
	}
	b.Refresh()
}

// draw returns the primitives for everything inside the viewport, the
// selection frame and the free-hand stroke in progress.
func (b *Board) draw() []fyne.CanvasObject {
	s := b.scene
	off := s.Offset()
	view := state.Bounds{X: -off.X, Y: -off.Y, Width: s.VisibleWidth(), Height: s.VisibleHeight()}

	objects := s.Objects()
	b.images.prune(objects)
	var out []fyne.CanvasObject
	for _, o := range objects {
		if !o.Visible || !state.BoundsOf(o).Overlaps(view) {
			continue
		}
		out = append(out, b.images.primitives(o, off)...)
	}
	if active := s.ActiveObject(); active != nil && active.Visible {
		out = append(out, selectionBox(state.BoundsOf(active), off))
	}
	if points := s.Capture(); len(points) > 1 {
		pen := s.FreeDrawingBrush()
		out = append(out, polyline(points, off, toColor(pen.Color), pen.Width, false)...)
	}
	return out
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{board: b, background: canvas.NewRectangle(paperColor)}
	r.objects = append([]fyne.CanvasObject{r.background}, b.draw()...)
	return r
}

type boardRenderer struct {
	board      *Board
	background *canvas.Rectangle
	objects    []fyne.CanvasObject
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.scene.Resize(float64(size.Width), float64(size.Height))
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *boardRenderer) Refresh() {
	r.objects = append([]fyne.CanvasObject{r.background}, r.board.draw()...)
	canvas.Refresh(r.board)
}

func (r *boardRenderer) Destroy() {}
