package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/state"
)

func rect(x, y, w, h float64) *state.Object {
	o := state.NewObject(state.KindRect)
	o.Left, o.Top, o.Width, o.Height = x, y, w, h
	return o
}

func record(s *Scene, names ...EventName) *[]EventName {
	var got []EventName
	for _, name := range names {
		s.On(name, func(ev Event) { got = append(got, ev.Name) })
	}
	return &got
}

func TestAddMovesToTop(t *testing.T) {
	s := NewScene(100, 100)
	a, b := rect(0, 0, 10, 10), rect(0, 0, 10, 10)
	added := 0
	s.On(ObjectAdded, func(Event) { added++ })

	s.Add(a)
	s.Add(b)
	s.Add(a)

	assert.Equal(t, []*state.Object{b, a}, s.Objects())
	assert.Equal(t, 3, added)
}

func TestRemoveDiscardsSelection(t *testing.T) {
	s := NewScene(100, 100)
	a := rect(0, 0, 10, 10)
	s.Add(a)
	s.SetActiveObject(a)
	got := record(s, ObjectRemoved, SelectionCleared)

	s.Remove(a)
	s.Remove(a)

	assert.Equal(t, []EventName{ObjectRemoved, SelectionCleared}, *got)
	assert.Nil(t, s.ActiveObject())
	assert.Empty(t, s.Objects())
}

func TestSelectionEvents(t *testing.T) {
	s := NewScene(100, 100)
	a := rect(0, 0, 10, 10)
	got := record(s, ObjectSelected, SelectionCleared)

	s.SetActiveObject(a)
	s.SetActiveObject(a)
	s.DiscardActiveObject()
	s.DiscardActiveObject()

	assert.Equal(t, []EventName{ObjectSelected, SelectionCleared}, *got)
}

func TestOffUnsubscribes(t *testing.T) {
	s := NewScene(100, 100)
	calls := 0
	off := s.On(ObjectAdded, func(Event) { calls++ })
	assert.Equal(t, 1, s.HandlerCount(ObjectAdded))

	off()
	s.Add(rect(0, 0, 1, 1))

	assert.Zero(t, calls)
	assert.Zero(t, s.HandlerCount(ObjectAdded))
}

func TestFindTargetSkipsHidden(t *testing.T) {
	s := NewScene(100, 100)
	bottom, top := rect(0, 0, 50, 50), rect(10, 10, 20, 20)
	s.Add(bottom)
	s.Add(top)

	assert.Same(t, top, s.FindTarget(state.Point{X: 15, Y: 15}))
	assert.Same(t, bottom, s.FindTarget(state.Point{X: 55, Y: 5}))

	top.Visible = false
	assert.Same(t, bottom, s.FindTarget(state.Point{X: 15, Y: 15}))
	assert.Nil(t, s.FindTarget(state.Point{X: 90, Y: 90}))
}

func TestPointerSelectsAndDrags(t *testing.T) {
	s := NewScene(200, 200)
	a := rect(10, 10, 20, 20)
	s.Add(a)
	got := record(s, MouseDownBefore, ObjectSelected, MouseDown, ObjectMoving, ObjectModified, MouseUp)

	s.PointerDown(state.Point{X: 15, Y: 15})
	s.PointerMove(state.Point{X: 25, Y: 20})
	s.PointerUp(state.Point{X: 25, Y: 20})

	assert.Equal(t, []EventName{MouseDownBefore, ObjectSelected, MouseDown, ObjectMoving, ObjectModified, MouseUp}, *got)
	assert.Equal(t, 20.0, a.Left)
	assert.Equal(t, 15.0, a.Top)
	assert.Same(t, a, s.ActiveObject())
}

func TestPointerRespectsLocks(t *testing.T) {
	s := NewScene(200, 200)
	a := rect(10, 10, 20, 20)
	a.LockMovementX, a.LockMovementY = true, true
	s.Add(a)
	modified := 0
	s.On(ObjectModified, func(Event) { modified++ })

	s.PointerDown(state.Point{X: 15, Y: 15})
	s.PointerMove(state.Point{X: 50, Y: 50})
	s.PointerUp(state.Point{X: 50, Y: 50})

	assert.Equal(t, 10.0, a.Left)
	assert.Zero(t, modified)
}

func TestFreeDrawingCreatesPath(t *testing.T) {
	s := NewScene(200, 200)
	s.SetDrawingMode(true)
	s.SetFreeDrawingBrush(Pen{Color: "#ff3d6f", Width: 4})
	var path *state.Object
	s.On(PathCreated, func(ev Event) { path = ev.Path })

	s.PointerDown(state.Point{X: 10, Y: 20})
	s.PointerMove(state.Point{X: 30, Y: 25})
	s.PointerMove(state.Point{X: 20, Y: 60})
	s.PointerUp(state.Point{X: 20, Y: 60})

	require.NotNil(t, path)
	assert.Equal(t, state.KindPath, path.Type)
	assert.Equal(t, "#ff3d6f", path.Stroke)
	assert.Equal(t, 4.0, path.StrokeWidth)
	assert.Equal(t, state.Bounds{X: 10, Y: 20, Width: 20, Height: 40}, state.BoundsOf(path))
	assert.Equal(t, state.Point{X: 0, Y: 0}, path.Points[0])
	assert.Equal(t, []*state.Object{path}, s.Objects())
}

func TestFreeDrawingClickCreatesNothing(t *testing.T) {
	s := NewScene(200, 200)
	s.SetDrawingMode(true)
	created := 0
	s.On(PathCreated, func(Event) { created++ })

	s.PointerDown(state.Point{X: 10, Y: 20})
	s.PointerMove(state.Point{X: 10, Y: 20})
	s.PointerUp(state.Point{X: 10, Y: 20})

	assert.Zero(t, created)
	assert.Empty(t, s.Objects())
}

func TestPanShiftsPointer(t *testing.T) {
	s := NewScene(200, 100)
	s.Pan(50, -10)

	assert.Equal(t, state.Point{X: 50, Y: 60}, s.Pointer(Event{Raw: state.Point{X: 100, Y: 50}}))

	o := rect(0, 0, 40, 20)
	s.CenterObject(o)
	assert.Equal(t, 30.0, o.Left)
	assert.Equal(t, 50.0, o.Top)
}

func TestTextEditing(t *testing.T) {
	s := NewScene(200, 200)
	text := state.NewObject(state.KindText)
	text.FontSize, text.LineHeight = 20, 1
	s.Add(text)
	exits := 0
	s.EnterEditing(text, func() { exits++ })

	s.TypeText("hé")
	s.DeleteBackward()
	s.TypeText("i\n")
	assert.Equal(t, "hi\n", text.Text)
	assert.Same(t, text, s.EditedObject())

	s.ExitEditing()
	s.ExitEditing()
	assert.Equal(t, "hi", text.Text)
	assert.Equal(t, 1, exits)
	assert.False(t, s.Editing())
}

func TestPressElsewhereExitsEditing(t *testing.T) {
	s := NewScene(200, 200)
	text := state.NewObject(state.KindText)
	text.Text = "hi\n"
	s.Add(text)
	s.EnterEditing(text, nil)

	s.PointerDown(state.Point{X: 150, Y: 150})

	assert.False(t, s.Editing())
	assert.Equal(t, "hi", text.Text)
}

func TestRenderAllCallsBack(t *testing.T) {
	s := NewScene(10, 10)
	calls := 0
	s.SetOnRender(func() { calls++ })

	s.RenderAll()
	s.Pan(1, 1)

	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, s.Renders())
}

func TestScaleAndRotateEmit(t *testing.T) {
	s := NewScene(10, 10)
	a := rect(0, 0, 5, 5)
	got := record(s, ObjectScaling, ObjectRotating, ObjectModified)

	s.Scale(a, 2, 3)
	s.Rotate(a, 90)

	assert.Equal(t, []EventName{ObjectScaling, ObjectModified, ObjectRotating, ObjectModified}, *got)
	assert.Equal(t, 3.0, a.ScaleY)
	assert.Equal(t, 90.0, a.Angle)
}
