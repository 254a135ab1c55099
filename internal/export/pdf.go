package export

import (
	"bytes"
	"fmt"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"LocalBoard/internal/files"
	"LocalBoard/internal/state"
)

// PDF writes the visible objects of records on a single page sized to fit
// them, one canvas unit per point.
func PDF(w io.Writer, records []state.Record) error {
	objects := drawable(records)
	width, height, dx, dy := frame(objects)

	p := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")
	tr := p.UnicodeTranslatorFromDescriptor("")

	for i, o := range objects {
		o.Translate(dx, dy)
		if err := pdfObject(p, o, fmt.Sprintf("img%d", i), tr); err != nil {
			return fmt.Errorf("drawing %s %s: %w", o.Type, o.ID, err)
		}
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func pdfObject(p *gofpdf.Fpdf, o *state.Object, name string, tr func(string) string) error {
	if o.Angle != 0 {
		p.TransformBegin()
		defer p.TransformEnd()
		p.TransformRotate(-o.Angle, o.Left, o.Top)
	}

	switch o.Type {
	case state.KindRect:
		w, h := scaled(o)
		if style := pdfStyle(p, o); style != "" {
			p.Rect(o.Left, o.Top, w, h, style)
		}
	case state.KindEllipse:
		rx, ry := o.RX*o.ScaleX, o.RY*o.ScaleY
		if style := pdfStyle(p, o); style != "" {
			p.Ellipse(o.Left+rx, o.Top+ry, rx, ry, 0, style)
		}
	case state.KindTriangle, state.KindArrow:
		if style := pdfStyle(p, o); style != "" {
			p.Polygon(pdfPoints(o.Outline()), style)
		}
	case state.KindLine:
		if pdfStroke(p, o) {
			p.Line(o.X1, o.Y1, o.X2, o.Y2)
		}
	case state.KindPath:
		if pdfStroke(p, o) {
			points := o.Outline()
			for i := 1; i < len(points); i++ {
				p.Line(points[i-1].X, points[i-1].Y, points[i].X, points[i].Y)
			}
		}
	case state.KindText:
		pdfText(p, o, tr)
	case state.KindImage:
		return pdfImage(p, o, name)
	}
	return p.Error()
}

// pdfStyle sets the draw and fill colors of o and returns the matching
// gofpdf style string, empty when there is nothing to paint.
func pdfStyle(p *gofpdf.Fpdf, o *state.Object) string {
	style := ""
	if c, ok := ParseColor(o.Fill); ok {
		p.SetFillColor(rgb255(c))
		style += "F"
	}
	if pdfStroke(p, o) {
		style = "D" + style
	}
	return style
}

func pdfStroke(p *gofpdf.Fpdf, o *state.Object) bool {
	c, ok := ParseColor(o.Stroke)
	if !ok {
		return false
	}
	p.SetDrawColor(rgb255(c))
	p.SetLineWidth(math.Max(o.StrokeWidth, 0.5))
	return true
}

func pdfPoints(points []state.Point) []gofpdf.PointType {
	out := make([]gofpdf.PointType, len(points))
	for i, pt := range points {
		out[i] = gofpdf.PointType{X: pt.X, Y: pt.Y}
	}
	return out
}

func pdfText(p *gofpdf.Fpdf, o *state.Object, tr func(string) string) {
	c, ok := ParseColor(o.Fill)
	if !ok || o.Text == "" {
		return
	}
	size := o.FontSize * o.ScaleY
	if size <= 0 {
		size = 18
	}
	lineHeight := o.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1
	}
	p.SetFont("Helvetica", "", size)
	p.SetTextColor(rgb255(c))
	for i, line := range strings.Split(o.Text, "\n") {
		p.Text(o.Left, o.Top+size+float64(i)*size*lineHeight, tr(line))
	}
}

// pdfImage embeds the image re-encoded as PNG, which gofpdf always accepts.
func pdfImage(p *gofpdf.Fpdf, o *state.Object, name string) error {
	img, err := files.DecodeDataURL(o.Src)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("re-encoding image: %w", err)
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(name, opts, &buf)
	w, h := scaled(o)
	p.ImageOptions(name, o.Left, o.Top, w, h, false, opts, 0, "")
	return p.Error()
}
