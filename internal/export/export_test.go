package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalBoard/internal/files"
	"LocalBoard/internal/state"
)

func snapshot() []state.Record {
	return []state.Record{
		{ID: "a2", Order: 2, Type: state.KindEllipse, Left: 50, Top: 0, Width: 40, Height: 20, RX: 20, RY: 10,
			ScaleX: 1, ScaleY: 1, Fill: "transparent", Stroke: "#5d9cec", StrokeWidth: 2.5, Visible: true},
		{ID: "a1", Order: 1, Type: state.KindRect, Left: 0, Top: 0, Width: 100, Height: 50,
			ScaleX: 1, ScaleY: 1, Fill: "#ff0000", Visible: true},
		{ID: "a3", Order: 3, Type: state.KindRect, Left: 500, Top: 500, Width: 10, Height: 10,
			ScaleX: 1, ScaleY: 1, Stroke: "#333333", Visible: false},
		{ID: "a4", Order: 4, Type: state.KindLine, X1: 0, Y1: 50, X2: 100, Y2: 0, Left: 0, Top: 0, Width: 100, Height: 50,
			ScaleX: 1, ScaleY: 1, Stroke: "#333333", StrokeWidth: 3, Visible: true},
		{ID: "a5", Order: 5, Type: state.KindPath, Left: 10, Top: 10, Width: 20, Height: 20,
			ScaleX: 1, ScaleY: 1, Stroke: "#88c24e", StrokeWidth: 2, Visible: true,
			Points: []state.Point{{X: 0, Y: 0}, {X: 20, Y: 20}, {X: 0, Y: 20}}},
		{ID: "a6", Order: 6, Type: state.KindTriangle, Left: 0, Top: 0, Width: 30, Height: 30,
			ScaleX: 1, ScaleY: 1, Fill: "rgba(0,0,0,0)", Stroke: "#ff3d6f", StrokeWidth: 5, Visible: true},
		{ID: "a7", Order: 7, Type: state.KindText, Left: 5, Top: 5, Width: 40, Height: 20,
			ScaleX: 1, ScaleY: 1, Fill: "#333333", Text: "hi\nthere", FontSize: 18, LineHeight: 1.1, Visible: true},
	}
}

func TestDrawableSkipsHiddenAndSorts(t *testing.T) {
	objects := drawable(snapshot())

	ids := make([]string, len(objects))
	for i, o := range objects {
		ids[i] = o.ID
	}
	assert.Equal(t, []string{"a1", "a2", "a4", "a5", "a6", "a7"}, ids)
}

func TestFrame(t *testing.T) {
	w, h, dx, dy := frame(drawable(snapshot()))
	assert.Equal(t, 140.0, w)
	assert.Equal(t, 90.0, h)
	assert.Equal(t, 20.0, dx)
	assert.Equal(t, 20.0, dy)

	w, h, _, _ = frame(nil)
	assert.Equal(t, 40.0, w)
	assert.Equal(t, 40.0, h)
}

func TestParseColor(t *testing.T) {
	c, ok := ParseColor("#ff3d6f")
	require.True(t, ok)
	r, g, b := rgb255(c)
	assert.Equal(t, []int{255, 61, 111}, []int{r, g, b})

	c, ok = ParseColor("rgba(10, 20, 30, 0.5)")
	require.True(t, ok)
	assert.Equal(t, 0.5, c.A)

	for _, none := range []string{"", "transparent", "rgba(0,0,0,0)", "blue"} {
		_, ok := ParseColor(none)
		assert.False(t, ok, none)
	}
}

func TestPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, snapshot()))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 140, img.Bounds().Dx())
	assert.Equal(t, 90, img.Bounds().Dy())

	r, g, b, _ := img.At(20+90, 20+45).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Less(t, g, uint32(0x2000))
	assert.Less(t, b, uint32(0x2000))

	r, g, b, _ = img.At(2, 2).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestPNGWithImage(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, solid(8, 4)))
	decoded, err := files.DecodeImage(src.Bytes())
	require.NoError(t, err)

	records := []state.Record{{
		ID: "img1", Order: 1, Type: state.KindImage, Width: 8, Height: 4, ScaleX: 2, ScaleY: 2,
		Src: decoded.DataURL, Visible: true,
	}}
	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, records))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 56, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, snapshot()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFEmptySnapshot(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRejectsBrokenImage(t *testing.T) {
	records := []state.Record{{ID: "x1", Order: 1, Type: state.KindImage, Width: 1, Height: 1, Src: "data:image/png;base64,AAAA", Visible: true}}
	var buf bytes.Buffer
	err := PDF(&buf, records)
	assert.ErrorIs(t, err, files.ErrNotImage)
}

func solid(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{B: 255, A: 255})
		}
	}
	return img
}
