package tools

import (
	"LocalBoard/internal/state"
	"LocalBoard/internal/surface"
)

const (
	textFontFamily = "Open Sans"
	textFontSize   = 18
	textLineHeight = 1.1
)

// Text places an editable text object where the user clicks. Clicking while a
// text is being edited, or on an existing text, only dismisses.
type Text struct {
	Base
	activeText *state.Object
}

// NewText returns the text tool.
func NewText(board Board) *Text {
	return &Text{Base: newBase("text", board)}
}

func (t *Text) Deactivate() {
	t.Base.Deactivate()
	t.activeText = nil
}

func (t *Text) Down(ev surface.Event) {
	s := t.board.Surface()
	if ev.Target != nil && ev.Target.Type != state.KindText {
		s.DiscardActiveObject()
	}
	if t.activeText != nil || (ev.Target != nil && ev.Target.Type == state.KindText) {
		t.activeText = nil
		return
	}

	p := s.Pointer(ev)
	text := state.NewObject(state.KindText)
	text.Left, text.Top = p.X, p.Y
	text.FontFamily = textFontFamily
	text.FontSize = textFontSize
	text.LineHeight = textLineHeight
	text.Fill = t.board.Color()
	state.MeasureText(text)

	t.board.AddWithoutSync(text)
	s.SetActiveObject(text)
	s.EnterEditing(text, func() {
		// Re-adding an edited text is what synchronizes it; empty ones vanish.
		s.Remove(text)
		if text.Text != "" {
			s.Add(text)
		}
	})
	t.activeText = text
	t.board.ResetActiveObject()
}
