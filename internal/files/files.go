// Package files provides the File Source capability used by the image tool
// and turns raw image bytes into something a surface can display.
package files

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// AcceptImages is the accept filter for image files.
const AcceptImages = "image/*"

var (
	// ErrCanceled is returned when the user dismissed the file dialog.
	ErrCanceled = errors.New("file selection canceled")
	// ErrNotImage is returned when the selected file cannot be decoded as an image.
	ErrNotImage = errors.New("not an image")
)

// Source lets the user pick a file matching accept and returns its bytes.
type Source interface {
	Open(ctx context.Context, accept string) ([]byte, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, accept string) ([]byte, error)

func (f SourceFunc) Open(ctx context.Context, accept string) ([]byte, error) {
	return f(ctx, accept)
}

// PathSource reads a fixed file from disk, for headless use.
type PathSource string

func (p PathSource) Open(ctx context.Context, _ string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p == "" {
		return nil, ErrCanceled
	}
	data, err := os.ReadFile(string(p))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", string(p), err)
	}
	return data, nil
}

// Image is a decoded image ready to be placed on the canvas.
type Image struct {
	Width   int
	Height  int
	Format  string
	DataURL string
}

// DecodeImage checks that data is an image and encodes it as a data URL.
func DecodeImage(data []byte) (*Image, error) {
	mime := http.DetectContentType(data)
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/" + format
	}
	return &Image{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Format:  format,
		DataURL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// DecodeDataURL reverses DecodeImage and returns the pixels.
func DecodeDataURL(src string) (image.Image, error) {
	_, payload, ok := strings.Cut(src, ";base64,")
	if !ok {
		return nil, fmt.Errorf("%w: unsupported data url", ErrNotImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding data url: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return img, nil
}
