package ui

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/input"
	"LocalBoard/internal/state"
	"LocalBoard/internal/surface"
)

func TestToColor(t *testing.T) {
	assert.Equal(t, color.NRGBA{R: 0xff, G: 0x3d, B: 0x6f, A: 0xff}, toColor("#ff3d6f"))
	assert.Equal(t, color.Transparent, toColor("transparent"))
	assert.Equal(t, color.Transparent, toColor(""))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Brush", toolLabel("brush"))
	assert.Equal(t, "Image", toolLabel("image"))
	assert.Equal(t, "4 px", modificationLabel("brush4"))
	assert.Equal(t, "2.5 px", modificationLabel("brush2.5"))
	assert.Equal(t, "Ellipse", modificationLabel("ellipse"))
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		name fyne.KeyName
		want input.Key
		ok   bool
	}{
		{fyne.KeyDelete, input.KeyDelete, true},
		{fyne.KeyBackspace, input.KeyBackspace, true},
		{desktop.KeyShiftLeft, input.KeyShift, true},
		{desktop.KeyShiftRight, input.KeyShift, true},
		{fyne.KeyA, "", false},
	}
	for _, tt := range tests {
		got, ok := keyFor(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}
}

func TestKeyForwarderTracksShift(t *testing.T) {
	keys := input.NewDispatcher()
	var got []input.KeyEvent
	keys.Subscribe(input.KeyDown, func(ev input.KeyEvent) { got = append(got, ev) })
	keys.Subscribe(input.KeyUp, func(ev input.KeyEvent) { got = append(got, ev) })
	f := &keyForwarder{keys: keys}

	f.forward(input.KeyDown, &fyne.KeyEvent{Name: desktop.KeyShiftLeft})
	f.forward(input.KeyDown, &fyne.KeyEvent{Name: fyne.KeyDelete})
	f.forward(input.KeyUp, &fyne.KeyEvent{Name: desktop.KeyShiftLeft})
	f.forward(input.KeyDown, &fyne.KeyEvent{Name: fyne.KeyA})

	assert.Equal(t, []input.KeyEvent{
		{Key: input.KeyShift, Shift: true},
		{Key: input.KeyDelete, Shift: true},
		{Key: input.KeyShift, Shift: false},
	}, got)
}

func rect(left, top, w, h float64) *state.Object {
	o := state.NewObject(state.KindRect)
	o.Left, o.Top, o.Width, o.Height = left, top, w, h
	o.Stroke, o.StrokeWidth, o.Fill = "#5d9cec", 2, "transparent"
	return o
}

func press(b *Board, x, y float32) {
	b.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func release(b *Board, x, y float32) {
	b.MouseUp(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary})
}

func TestBoardDragsObjects(t *testing.T) {
	test.NewTempApp(t)
	scene := surface.NewScene(400, 300)
	r := rect(10, 10, 40, 30)
	scene.Add(r)
	b := NewBoard(scene)
	b.Resize(fyne.NewSize(400, 300))

	press(b, 20, 20)
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 40)}})
	release(b, 50, 40)

	assert.Equal(t, 40.0, r.Left)
	assert.Equal(t, 30.0, r.Top)
	assert.Same(t, r, scene.ActiveObject())
}

func TestBoardIgnoresSecondaryButton(t *testing.T) {
	test.NewTempApp(t)
	scene := surface.NewScene(400, 300)
	scene.Add(rect(10, 10, 40, 30))
	b := NewBoard(scene)

	b.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)}, Button: desktop.MouseButtonSecondary})
	assert.Nil(t, scene.ActiveObject())
}

func TestBoardTypesIntoEditedText(t *testing.T) {
	test.NewTempApp(t)
	scene := surface.NewScene(400, 300)
	txt := state.NewObject(state.KindText)
	txt.FontSize = 20
	scene.Add(txt)
	exited := false
	scene.EnterEditing(txt, func() { exited = true })
	b := NewBoard(scene)

	b.TypedRune('h')
	b.TypedRune('x')
	b.TypedKey(&fyne.KeyEvent{Name: fyne.KeyBackspace})
	b.TypedRune('i')
	b.TypedKey(&fyne.KeyEvent{Name: fyne.KeyReturn})
	assert.Equal(t, "hi\n", txt.Text)

	b.TypedKey(&fyne.KeyEvent{Name: fyne.KeyEscape})
	assert.True(t, exited)
	assert.False(t, scene.Editing())
	assert.Equal(t, "hi", txt.Text)

	b.TypedRune('z')
	assert.Equal(t, "hi", txt.Text)
}

func TestBoardDrawsVisibleObjects(t *testing.T) {
	test.NewTempApp(t)
	scene := surface.NewScene(400, 300)
	shown := rect(10, 10, 40, 30)
	hidden := rect(60, 10, 40, 30)
	hidden.Visible = false
	far := rect(1000, 1000, 10, 10)
	scene.Add(shown)
	scene.Add(hidden)
	scene.Add(far)
	b := NewBoard(scene)

	objects := b.draw()
	require.Len(t, objects, 1)
	r, ok := objects[0].(*canvas.Rectangle)
	require.True(t, ok)
	assert.Equal(t, fyne.NewPos(10, 10), r.Position())
	assert.Equal(t, fyne.NewSize(40, 30), r.Size())

	scene.SetActiveObject(shown)
	assert.Len(t, b.draw(), 2)

	scene.DiscardActiveObject()
	scene.Pan(-990, -990)
	objects = b.draw()
	require.Len(t, objects, 1)
	assert.Equal(t, fyne.NewPos(10, 10), objects[0].Position())
}

func TestPrimitives(t *testing.T) {
	c := newImageCache()
	off := state.Point{}

	tri := state.NewObject(state.KindTriangle)
	tri.Width, tri.Height = 10, 10
	assert.Len(t, c.primitives(tri, off), 3)

	path := state.NewObject(state.KindPath)
	path.Points = []state.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}
	assert.Len(t, c.primitives(path, off), 2)

	txt := state.NewObject(state.KindText)
	txt.Text, txt.FontSize, txt.LineHeight = "a\nb", 20, 1.16
	lines := c.primitives(txt, off)
	require.Len(t, lines, 2)
	assert.InDelta(t, 23.2, float64(lines[1].Position().Y), 0.01)

	broken := state.NewObject(state.KindImage)
	broken.Src = "data:image/png;base64,AAAA"
	assert.Empty(t, c.primitives(broken, off))
}

func TestImageCachePrunes(t *testing.T) {
	c := newImageCache()
	o := state.NewObject(state.KindImage)
	o.Src = "nope"
	c.get(o)
	require.Contains(t, c.images, o)

	c.prune(nil)
	assert.NotContains(t, c.images, o)
}
