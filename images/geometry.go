// Package images measures, scales and prepares images embedded into
// exported documents.
package images

import (
	"bytes"
	"fmt"
	"image"
	"math"

	// register decoders for image.DecodeConfig
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Dim is image size in pixels.
type Dim struct {
	Width  int
	Height int
}

func (d Dim) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// DecodeError is returned when image header could not be parsed.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unable to decode image: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// GeometryError is returned for images which could not be scaled.
type GeometryError struct {
	Dim Dim
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("unusable image geometry %s", e.Dim)
}

// Resolve returns intrinsic pixel dimensions of encoded raster image. Only
// header is decoded.
func Resolve(data []byte) (Dim, error) {
	if len(data) == 0 {
		return Dim{}, &DecodeError{Err: image.ErrFormat}
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Dim{}, &DecodeError{Err: err}
	}
	return Dim{Width: cfg.Width, Height: cfg.Height}, nil
}

// Scale fits dim into maxWidth keeping aspect ratio, images are never
// enlarged. Non-positive maxWidth disables the limit.
func Scale(dim Dim, maxWidth int) (Dim, error) {
	if dim.Width <= 0 || dim.Height <= 0 {
		return Dim{}, &GeometryError{Dim: dim}
	}
	w := dim.Width
	if maxWidth > 0 {
		w = min(w, maxWidth)
	}
	h := int(math.Round(float64(dim.Height) / float64(dim.Width) * float64(w)))
	return Dim{Width: w, Height: max(h, 1)}, nil
}
