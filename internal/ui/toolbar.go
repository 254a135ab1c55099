package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"LocalBoard/internal/tools"
	"LocalBoard/internal/whiteboard"
)

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    string
	OnTapped func(string)
}

func newColorSwatch(c string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(toColor(s.Color))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

var title = cases.Title(language.English)

// toolLabel is the button caption for a tool name.
func toolLabel(name string) string {
	return title.String(name)
}

// modificationLabel is the caption for a modification name. Brush widths read
// as sizes.
func modificationLabel(name string) string {
	if width, ok := strings.CutPrefix(name, "brush"); ok {
		return width + " px"
	}
	return title.String(name)
}

func toolIcon(name string) fyne.Resource {
	switch name {
	case "brush":
		return theme.DocumentCreateIcon()
	case "shape":
		return theme.ContentAddIcon()
	case "text":
		return theme.DocumentIcon()
	case "image":
		return theme.FileImageIcon()
	}
	return theme.QuestionIcon()
}

// toolbar follows the whiteboard's tool list and lets the user pick tools,
// their modification and the drawing color.
type toolbar struct {
	wb      *whiteboard.Whiteboard
	buttons *fyne.Container
	mods    *widget.Select
	shown   []tools.Modification
	root    fyne.CanvasObject
}

// newToolbar builds the toolbar. Extra objects, such as file actions, are
// appended at the end. The returned function stops following the tool list.
func newToolbar(wb *whiteboard.Whiteboard, extra ...fyne.CanvasObject) (*toolbar, func()) {
	t := &toolbar{wb: wb, buttons: container.NewHBox()}
	t.mods = widget.NewSelect(nil, t.selectModification)

	swatches := container.NewHBox()
	for _, c := range wb.Palette() {
		swatches.Add(newColorSwatch(c, wb.SetColor))
	}

	objects := []fyne.CanvasObject{
		t.buttons,
		container.New(layout.NewGridWrapLayout(fyne.NewSize(110, 35)), t.mods),
		widget.NewSeparator(),
		swatches,
		layout.NewSpacer(),
	}
	t.root = container.NewHBox(append(objects, extra...)...)

	off := wb.OnTools(t.update)
	return t, off
}

func (t *toolbar) update(list []tools.Tool) {
	active := t.wb.ActiveTool()
	objects := make([]fyne.CanvasObject, 0, len(list))
	for _, tool := range list {
		btn := widget.NewButtonWithIcon(toolLabel(tool.Name()), toolIcon(tool.Name()), func() {
			t.wb.ActivateTool(tool, nil)
		})
		if tool == active {
			btn.Importance = widget.HighImportance
		}
		if !tool.Available() {
			btn.Disable()
		}
		objects = append(objects, btn)
	}
	t.buttons.Objects = objects
	t.buttons.Refresh()
	t.showModifications(active)
}

// showModifications lists the modifications of the active tool without
// triggering a selection.
func (t *toolbar) showModifications(active tools.Tool) {
	t.shown = nil
	t.mods.Options = nil
	t.mods.Selected = ""
	if active != nil {
		t.shown = active.Modifications()
		for _, m := range t.shown {
			t.mods.Options = append(t.mods.Options, modificationLabel(m.Name()))
		}
		if m := active.ActiveModification(); m != nil {
			t.mods.Selected = modificationLabel(m.Name())
		}
	}
	if len(t.shown) == 0 {
		t.mods.Disable()
	} else {
		t.mods.Enable()
	}
	t.mods.Refresh()
}

func (t *toolbar) selectModification(label string) {
	active := t.wb.ActiveTool()
	if active == nil {
		return
	}
	for _, m := range t.shown {
		if modificationLabel(m.Name()) == label && m != active.ActiveModification() {
			t.wb.ActivateTool(active, m)
			return
		}
	}
}
