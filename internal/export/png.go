package export

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"LocalBoard/internal/files"
	"LocalBoard/internal/state"
)

// PNG rasterizes the visible objects of records and writes a PNG image sized
// to fit them.
func PNG(w io.Writer, records []state.Record) error {
	objects := drawable(records)
	width, height, dx, dy := frame(objects)

	dc := gg.NewContext(int(width), int(height))
	defer dc.Close()
	dc.ClearWithColor(gg.White)

	font, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return fmt.Errorf("loading font: %w", err)
	}
	defer font.Close()

	dc.Translate(dx, dy)
	for _, o := range objects {
		if err := drawObject(dc, font, o); err != nil {
			return fmt.Errorf("drawing %s %s: %w", o.Type, o.ID, err)
		}
	}
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func drawObject(dc *gg.Context, font *text.FontSource, o *state.Object) error {
	dc.Push()
	defer dc.Pop()
	if o.Angle != 0 {
		dc.RotateAbout(o.Angle*math.Pi/180, o.Left, o.Top)
	}

	switch o.Type {
	case state.KindRect:
		w, h := scaled(o)
		dc.DrawRectangle(o.Left, o.Top, w, h)
	case state.KindEllipse:
		rx, ry := o.RX*o.ScaleX, o.RY*o.ScaleY
		dc.DrawEllipse(o.Left+rx, o.Top+ry, rx, ry)
	case state.KindLine:
		dc.DrawLine(o.X1, o.Y1, o.X2, o.Y2)
	case state.KindTriangle, state.KindArrow:
		tracePolygon(dc, o.Outline(), true)
	case state.KindPath:
		tracePolygon(dc, o.Outline(), false)
	case state.KindText:
		return drawText(dc, font, o)
	case state.KindImage:
		return drawImage(dc, o)
	default:
		slog.Debug("skipping unknown object", "type", o.Type, "id", o.ID)
		return nil
	}
	return paint(dc, o)
}

func tracePolygon(dc *gg.Context, points []state.Point, closed bool) {
	for i, p := range points {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
			continue
		}
		dc.LineTo(p.X, p.Y)
	}
	if closed {
		dc.ClosePath()
	}
}

// paint fills then strokes the current path with the object's colors.
func paint(dc *gg.Context, o *state.Object) error {
	fill, hasFill := ParseColor(o.Fill)
	stroke, hasStroke := ParseColor(o.Stroke)
	if hasFill && o.Type != state.KindLine && o.Type != state.KindPath {
		dc.SetRGBA(fill.R, fill.G, fill.B, fill.A)
		if !hasStroke {
			return dc.Fill()
		}
		if err := dc.FillPreserve(); err != nil {
			return err
		}
	}
	if !hasStroke {
		dc.ClearPath()
		return nil
	}
	dc.SetRGBA(stroke.R, stroke.G, stroke.B, stroke.A)
	dc.SetLineWidth(math.Max(o.StrokeWidth, 1))
	return dc.Stroke()
}

func drawText(dc *gg.Context, font *text.FontSource, o *state.Object) error {
	c, ok := ParseColor(o.Fill)
	if !ok || o.Text == "" {
		return nil
	}
	size := o.FontSize * o.ScaleY
	if size <= 0 {
		size = 18
	}
	lineHeight := o.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1
	}
	dc.SetFont(font.Face(size))
	dc.SetRGBA(c.R, c.G, c.B, c.A)
	for i, line := range strings.Split(o.Text, "\n") {
		dc.DrawString(line, o.Left, o.Top+size+float64(i)*size*lineHeight)
	}
	return nil
}

func drawImage(dc *gg.Context, o *state.Object) error {
	img, err := files.DecodeDataURL(o.Src)
	if err != nil {
		return err
	}
	dc.Translate(o.Left, o.Top)
	dc.Scale(o.ScaleX, o.ScaleY)
	dc.DrawImage(gg.ImageBufFromImage(img), 0, 0)
	return nil
}
