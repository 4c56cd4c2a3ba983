package images

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/disintegration/imaging"
)

// Options controls Normalize.
type Options struct {
	// MaxWidth is document render width in pixels.
	MaxWidth int
	// Downscale resamples images wider than MaxWidth, otherwise original
	// pixels are kept and only display size is reduced.
	Downscale bool
	// JPEGQuality is used whenever JPEG has to be re-encoded.
	JPEGQuality int
}

var formatMime = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"webp": "image/webp",
}

// Normalize prepares image bytes for embedding into a document. SVG is
// rasterized, formats word processors do not reliably display (BMP, TIFF,
// WebP) are re-encoded to PNG and, with Downscale enabled, wide images are
// resampled to MaxWidth. Aspect ratio is never changed. Returned mime
// always describes returned data.
func Normalize(data []byte, mime string, opts Options) ([]byte, string, error) {
	if isSVG(mime, data) {
		target := 0
		if opts.Downscale {
			target = opts.MaxWidth
		}
		img, err := RasterizeSVG(data, target)
		if err != nil {
			return nil, "", &DecodeError{Err: fmt.Errorf("svg: %w", err)}
		}
		return encodePNG(img)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}

	wide := opts.Downscale && opts.MaxWidth > 0 && cfg.Width > opts.MaxWidth
	switch format {
	case "jpeg", "png":
		if !wide {
			return data, formatMime[format], nil
		}
	case "gif":
		// resampling would drop animation
		return data, formatMime[format], nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", &DecodeError{Err: err}
	}
	if wide {
		img = imaging.Resize(img, opts.MaxWidth, 0, imaging.Lanczos)
	}
	if format == "jpeg" {
		return encodeJPEG(img, opts.JPEGQuality)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, string, error) {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() && IsGrayscale(img) {
		gray := image.NewGray(img.Bounds())
		draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
		img = gray
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return nil, "", fmt.Errorf("unable to encode png: %w", err)
	}
	return buf.Bytes(), formatMime["png"], nil
}

func encodeJPEG(img image.Image, quality int) ([]byte, string, error) {
	if quality <= 0 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, "", fmt.Errorf("unable to encode jpeg: %w", err)
	}
	out, _, err := EnsureJFIFAPP0(buf.Bytes(), DpiPxPerInch, screenDPI, screenDPI)
	if err != nil {
		return nil, "", err
	}
	return out, formatMime["jpeg"], nil
}
