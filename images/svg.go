package images

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// defaultSVGSize is used when SVG viewBox carries no size.
const defaultSVGSize = 1024

// maxRasterDim caps rasterized SVG size, huge viewBox values would
// otherwise allocate gigabytes for RGBA buffer.
var maxRasterDim = 8192

// RasterizeSVG renders SVG onto white RGBA canvas using viewBox dimensions.
// Positive maxW limits rendered width keeping aspect ratio.
func RasterizeSVG(svgData []byte, maxW int) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData))
	if err != nil {
		return nil, err
	}

	w := int(math.Ceil(icon.ViewBox.W))
	h := int(math.Ceil(icon.ViewBox.H))
	if w <= 0 {
		w = defaultSVGSize
	}
	if h <= 0 {
		h = defaultSVGSize
	}
	if maxW > 0 && maxW < w {
		h = int(math.Round(float64(maxW) * float64(h) / float64(w)))
		w = maxW
	}
	w, h = max(w, 1), max(h, 1)

	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}

// isSVG checks declared type first and falls back to looking for root
// element in the first kilobyte.
func isSVG(mime string, data []byte) bool {
	if mime == "image/svg+xml" {
		return true
	}
	head := data[:min(len(data), 1024)]
	return bytes.Contains(head, []byte("<svg"))
}
