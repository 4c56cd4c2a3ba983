package images

import (
	"image"
	"image/color"
)

// IsGrayscale reports whether every pixel of img has R==G==B. Alpha is
// ignored, transparent areas end up on white background anyway.
func IsGrayscale(img image.Image) bool {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return true
	case *image.Paletted:
		for _, c := range m.Palette {
			if !grayColor(c) {
				return false
			}
		}
		return true
	}

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !grayColor(img.At(x, y)) {
				return false
			}
		}
	}
	return true
}

func grayColor(c color.Color) bool {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return n.R == n.G && n.G == n.B
}
