package tools

import (
	"errors"

	"LocalBoard/internal/files"
	"LocalBoard/internal/state"
)

// DefaultMaxImageWidth is the width large images are scaled down to.
const DefaultMaxImageWidth = 400

// Image inserts a picture chosen through the file source. It never stays
// active: activation prompts for a file and hands the tool selection back.
type Image struct {
	Base
}

// NewImage returns the image tool.
func NewImage(board Board) *Image {
	return &Image{Base: newBase("image", board)}
}

// Activate does not subscribe to anything: the tool is reset right away and
// would never be deactivated to release it. The tool is unavailable until the
// file has been placed, dismissed or rejected.
func (im *Image) Activate() {
	im.board.ResetActiveTool()
	im.available = false

	ctx := im.board.Context()
	im.board.Go(func() {
		data, err := im.board.Files().Open(ctx, files.AcceptImages)
		var img *files.Image
		if err == nil {
			img, err = files.DecodeImage(data)
		}
		im.board.Post(func() {
			im.place(img, err)
		})
	})
}

func (im *Image) place(img *files.Image, err error) {
	defer func() {
		im.available = true
		im.board.ToolsChanged()
	}()

	log := im.board.Logger()
	if errors.Is(err, files.ErrCanceled) {
		log.Info("[IMAGE] file selection canceled")
		return
	}
	if err != nil {
		log.Warn("[IMAGE] could not load image", "err", err)
		return
	}

	s := im.board.Surface()
	o := state.NewObject(state.KindImage)
	o.Width, o.Height = float64(img.Width), float64(img.Height)
	o.Src = img.DataURL
	if o.Width > s.VisibleWidth() {
		scale := im.board.MaxImageWidth() / o.Width
		o.ScaleX, o.ScaleY = scale, scale
	}
	s.CenterObject(o)
	s.Add(o)
	log.Debug("[IMAGE] image inserted", "width", img.Width, "height", img.Height, "format", img.Format)
}
