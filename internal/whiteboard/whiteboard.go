// Package whiteboard orchestrates the drawing tools over a canvas surface and
// turns canvas mutations into an ordered stream of synchronization records.
//
// Every object synchronized for the first time receives an id of the form
// "<replica><n>" and an order taken from a monotonic counter. Replaying the
// record stream on another replica with RestoreObjects reproduces the same
// stacking. Mutations the whiteboard makes on its own behalf (restores,
// transient gesture objects) run with synchronization suspended so they are
// never broadcast back.
//
// A Whiteboard is not safe for concurrent use. All calls, including surface
// and keyboard callbacks, must come from one goroutine; asynchronous
// completions are brought back to it through the Scheduler.
package whiteboard

import (
	"context"
	"log/slog"
	"slices"

	"LocalBoard/internal/files"
	"LocalBoard/internal/input"
	"LocalBoard/internal/state"
	"LocalBoard/internal/surface"
	"LocalBoard/internal/tools"
)

type Whiteboard struct {
	surface surface.Surface
	keys    input.Source
	files   files.Source
	sched   Scheduler
	log     *slog.Logger

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	replicaID   string
	ids         state.Counter
	orders      state.Counter
	store       *state.Store
	syncEnabled bool

	palette       []string
	color         string
	brushWidths   []float64
	maxImageWidth float64

	tools        []tools.Tool
	activeTool   tools.Tool
	activeObject *state.Object

	// gesture is true between a pointer press and its release.
	gesture bool
	// selectionPending is set when a selection happened and its color has not
	// been adopted yet.
	selectionPending bool

	records   feed[state.Record]
	toolLists feed[[]tools.Tool]

	subs []func()
}

var _ tools.Board = (*Whiteboard)(nil)

// New builds a whiteboard over s, listening to keys for global shortcuts. The
// brush tool is active when New returns.
func New(s surface.Surface, keys input.Source, opts ...Option) *Whiteboard {
	w := &Whiteboard{
		surface:       s,
		keys:          keys,
		sched:         Inline,
		log:           discardLogger(),
		parent:        context.Background(),
		store:         state.NewStore(),
		syncEnabled:   true,
		palette:       slices.Clone(DefaultPalette),
		maxImageWidth: tools.DefaultMaxImageWidth,
	}
	w.color = defaultColor(w.palette, "")
	for _, opt := range opts {
		opt(w)
	}
	if w.replicaID == "" {
		w.replicaID = state.NewReplicaID()
	}
	if w.files == nil {
		w.files = noFiles()
	}
	w.ctx, w.cancel = context.WithCancel(w.parent)

	w.initTools()
	w.bindSurfaceHandlers()
	w.bindKeyHandlers()
	w.log.Info("[BOARD] whiteboard ready", "replica", w.replicaID)
	return w
}

func (w *Whiteboard) initTools() {
	w.tools = []tools.Tool{
		tools.NewBrush(w, w.brushWidths...),
		tools.NewShape(w),
		tools.NewText(w),
		tools.NewImage(w),
	}
	w.ActivateTool(w.tools[0], nil)
}

func (w *Whiteboard) bindSurfaceHandlers() {
	s := w.surface
	w.subs = append(w.subs,
		s.On(surface.ObjectModified, func(ev surface.Event) { w.syncObject(ev.Target) }),
		s.On(surface.ObjectAdded, func(ev surface.Event) { w.syncObject(ev.Target) }),
		s.On(surface.PathCreated, func(ev surface.Event) { w.syncObject(ev.Path) }),
		s.On(surface.MouseDownBefore, func(surface.Event) { w.gesture = true }),
		s.On(surface.MouseDown, func(ev surface.Event) {
			w.gesture = true
			if w.activeTool != nil {
				w.activeTool.Down(ev)
			}
		}),
		s.On(surface.MouseMove, func(ev surface.Event) {
			if w.activeTool != nil {
				w.activeTool.Move(ev)
			}
		}),
		s.On(surface.MouseUp, func(ev surface.Event) {
			if w.activeTool != nil {
				w.activeTool.Up(ev)
			}
			w.gesture = false
			w.settleSelection()
		}),
		s.On(surface.ObjectSelected, func(ev surface.Event) {
			w.activeObject = ev.Target
			w.selectionPending = true
			if !w.gesture {
				w.settleSelection()
			}
		}),
		s.On(surface.SelectionCleared, func(surface.Event) { w.ResetActiveObject() }),
	)
}

func (w *Whiteboard) bindKeyHandlers() {
	if w.keys == nil {
		return
	}
	w.subs = append(w.subs, w.keys.Subscribe(input.KeyDown, func(ev input.KeyEvent) {
		if ev.Key != input.KeyBackspace && ev.Key != input.KeyDelete {
			return
		}
		if w.surface.Editing() {
			return
		}
		w.DeleteObject()
	}))
}

// Destroy releases every subscription and deactivates the active tool.
func (w *Whiteboard) Destroy() {
	w.cancel()
	for _, off := range w.subs {
		off()
	}
	w.subs = nil
	if w.activeTool != nil {
		w.activeTool.Deactivate()
		w.activeTool = nil
	}
	for _, t := range w.tools {
		t.Dispose()
	}
}

// ActivateTool makes tool the active tool. Activating the active tool again
// without a modification turns it off. A non-nil modification is forwarded to
// the active tool whether or not it changed. Unavailable tools are ignored.
func (w *Whiteboard) ActivateTool(tool tools.Tool, mod tools.Modification) {
	if tool == nil || !tool.Available() {
		return
	}
	w.surface.DiscardActiveObject()
	w.surface.RenderAll()

	if w.activeTool != tool {
		if w.activeTool != nil {
			w.activeTool.Deactivate()
		}
		w.activeTool = tool
		tool.Activate()
	} else if mod == nil {
		w.activeTool.Deactivate()
		w.ResetActiveTool()
	}
	if mod != nil && w.activeTool != nil {
		w.activeTool.SetModification(mod)
	}
	w.toolLists.publish(w.Tools())
}

// SetColor changes the drawing color and recolors the selected object.
func (w *Whiteboard) SetColor(color string) {
	w.color = color
	if w.activeTool != nil {
		w.activeTool.ColorChanged()
	}
	o := w.surface.ActiveObject()
	if o == nil {
		return
	}
	if o.HasStroke() {
		o.Stroke = color
	} else if o.HasFill() {
		o.Fill = color
	}
	if o.HasStroke() || o.HasFill() {
		w.syncObject(o)
		w.surface.RenderAll()
	}
}

// settleSelection adopts the palette color of the object selected during the
// last gesture, once tools had their chance to clear the selection.
func (w *Whiteboard) settleSelection() {
	if !w.selectionPending {
		return
	}
	w.selectionPending = false
	o := w.activeObject
	if o == nil {
		return
	}
	switch {
	case slices.Contains(w.palette, o.Stroke):
		w.adoptColor(o.Stroke)
	case slices.Contains(w.palette, o.Fill):
		w.adoptColor(o.Fill)
	}
}

func (w *Whiteboard) adoptColor(color string) {
	if color == w.color {
		return
	}
	w.color = color
	if w.activeTool != nil {
		w.activeTool.ColorChanged()
	}
	w.toolLists.publish(w.Tools())
}

// DeleteObject hides the selected object. Objects are never removed so that
// their id and order stay valid for every replica.
func (w *Whiteboard) DeleteObject() {
	o := w.activeObject
	if o == nil {
		return
	}
	o.Visible = false
	w.syncObject(o)
	w.surface.DiscardActiveObject()
	w.ResetActiveObject()
	w.surface.RenderAll()
	w.log.Debug("[BOARD] object hidden", "id", o.ID)
}

// RestoreObjects inserts previously synchronized records without emitting
// them again. Records replace live objects with the same id, and the local
// counters move past everything restored.
func (w *Whiteboard) RestoreObjects(records []state.Record) {
	if len(records) == 0 {
		return
	}
	objects := make([]*state.Object, 0, len(records))
	for _, r := range records {
		if r.ID == "" {
			w.log.Warn("[BOARD] skipping record without id", "type", r.Type)
			continue
		}
		objects = append(objects, state.FromRecord(r))
	}
	if len(objects) == 0 {
		return
	}
	state.SortByOrder(objects)
	w.orders.AdvanceTo(objects[len(objects)-1].Order)

	_ = w.WithoutSync(func() error {
		for _, o := range objects {
			if n, err := state.LocalSuffix(o.ID, w.replicaID); err == nil {
				w.ids.AdvanceTo(n)
			}
			if existing, ok := w.store.Get(o.ID); ok {
				w.surface.Remove(existing)
			}
			w.surface.Add(o)
			w.store.Save(o)
		}
		return nil
	})
	w.surface.RenderAll()
	w.log.Debug("[BOARD] objects restored", "count", len(objects), "order", w.orders.Current())
}

// WithoutSync runs fn with synchronization suspended. The gate is enabled
// again when fn returns, whatever happened inside.
func (w *Whiteboard) WithoutSync(fn func() error) error {
	w.syncEnabled = false
	defer func() { w.syncEnabled = true }()
	return fn()
}

// AddToCanvasWithoutSync inserts o on the surface without synchronizing it.
func (w *Whiteboard) AddToCanvasWithoutSync(o *state.Object) {
	_ = w.WithoutSync(func() error {
		w.surface.Add(o)
		return nil
	})
}

func (w *Whiteboard) AddWithoutSync(o *state.Object) { w.AddToCanvasWithoutSync(o) }
func (w *Whiteboard) EnableSync()                    { w.syncEnabled = true }
func (w *Whiteboard) DisableSync()                   { w.syncEnabled = false }
func (w *Whiteboard) SyncEnabled() bool              { return w.syncEnabled }

// ToolsChanged publishes the current tool list.
func (w *Whiteboard) ToolsChanged() { w.toolLists.publish(w.Tools()) }

// syncObject stamps identity and order on o the first time it is seen and
// publishes its serialized form.
func (w *Whiteboard) syncObject(o *state.Object) {
	if !w.syncEnabled || o == nil {
		return
	}
	if o.ID == "" {
		o.ID = state.FormatID(w.replicaID, w.ids.Next())
	}
	if o.Order == 0 {
		o.Order = w.orders.Next()
	}
	w.store.Save(o)
	w.log.Debug("[SYNC] object synchronized", "id", o.ID, "order", o.Order, "type", o.Type)
	w.records.publish(o.ToRecord())
}

// OnSync registers fn for every synchronization record and returns a function
// removing it.
func (w *Whiteboard) OnSync(fn func(state.Record)) (unsubscribe func()) {
	return w.records.subscribe(fn)
}

// OnTools registers fn for tool list changes. fn receives the current list
// right away.
func (w *Whiteboard) OnTools(fn func([]tools.Tool)) (unsubscribe func()) {
	off := w.toolLists.subscribe(fn)
	fn(w.Tools())
	return off
}

// Snapshot returns the records of every known object in stacking order.
func (w *Whiteboard) Snapshot() []state.Record {
	objects := w.store.All()
	records := make([]state.Record, len(objects))
	for i, o := range objects {
		records[i] = o.ToRecord()
	}
	return records
}

// Object returns the stored object with the given id.
func (w *Whiteboard) Object(id string) (*state.Object, bool) {
	return w.store.Get(id)
}

// Tools returns a fresh copy of the tool list.
func (w *Whiteboard) Tools() []tools.Tool {
	return slices.Clone(w.tools)
}

func (w *Whiteboard) ActiveTool() tools.Tool      { return w.activeTool }
func (w *Whiteboard) ActiveObject() *state.Object { return w.activeObject }
func (w *Whiteboard) ResetActiveTool()            { w.activeTool = nil }
func (w *Whiteboard) ResetActiveObject()          { w.activeObject = nil }
func (w *Whiteboard) ReplicaID() string           { return w.replicaID }
func (w *Whiteboard) Palette() []string           { return slices.Clone(w.palette) }
func (w *Whiteboard) Color() string               { return w.color }
func (w *Whiteboard) MaxImageWidth() float64      { return w.maxImageWidth }
func (w *Whiteboard) Surface() surface.Surface    { return w.surface }
func (w *Whiteboard) Keys() input.Source          { return w.keys }
func (w *Whiteboard) Files() files.Source         { return w.files }
func (w *Whiteboard) Context() context.Context    { return w.ctx }
func (w *Whiteboard) Logger() *slog.Logger        { return w.log }
func (w *Whiteboard) Go(work func())              { w.sched.Go(work) }
func (w *Whiteboard) Post(fn func())              { w.sched.Post(fn) }
