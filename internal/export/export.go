// Package export renders whiteboard snapshots to PDF and PNG.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"

	"LocalBoard/internal/state"
)

// Margin is the blank border kept around the drawing.
const Margin = 20

// drawable returns the visible objects of records in stacking order.
func drawable(records []state.Record) []*state.Object {
	objects := make([]*state.Object, 0, len(records))
	for _, r := range records {
		if !r.Visible {
			continue
		}
		objects = append(objects, state.FromRecord(r))
	}
	state.SortByOrder(objects)
	return objects
}

// frame returns the page size needed for objects and the translation that
// moves the drawing inside the margin.
func frame(objects []*state.Object) (width, height, dx, dy float64) {
	b, ok := state.VisibleBounds(objects)
	if !ok {
		return 2 * Margin, 2 * Margin, 0, 0
	}
	return math.Ceil(b.Width + 2*Margin), math.Ceil(b.Height + 2*Margin), Margin - b.X, Margin - b.Y
}

// ParseColor understands the color notations the tools produce: hex colors,
// "transparent" and rgba(). ok is false when nothing should be painted.
func ParseColor(s string) (c gg.RGBA, ok bool) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "transparent":
		return gg.RGBA{}, false
	case strings.HasPrefix(s, "#"):
		return gg.Hex(s), true
	case strings.HasPrefix(s, "rgba("):
		var r, g, b int
		var a float64
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgba(%d,%d,%d,%g)", &r, &g, &b, &a); err != nil || a <= 0 {
			return gg.RGBA{}, false
		}
		return gg.RGBA2(float64(r)/255, float64(g)/255, float64(b)/255, math.Min(a, 1)), true
	}
	return gg.RGBA{}, false
}

// rgb255 converts c to 0-255 components.
func rgb255(c gg.RGBA) (r, g, b int) {
	return int(math.Round(c.R * 255)), int(math.Round(c.G * 255)), int(math.Round(c.B * 255))
}

// scaled returns the rendered size of o.
func scaled(o *state.Object) (w, h float64) {
	return o.Width * o.ScaleX, o.Height * o.ScaleY
}
