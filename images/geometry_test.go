package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

func encodeTest(t *testing.T, format string, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := testImage(w, h)
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80})
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		t.Fatalf("unsupported test format %s", format)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestResolve(t *testing.T) {
	for _, format := range []string{"png", "jpeg", "gif"} {
		t.Run(format, func(t *testing.T) {
			dim, err := Resolve(encodeTest(t, format, 56, 28))
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if dim != (Dim{Width: 56, Height: 28}) {
				t.Errorf("Resolve() = %v, want 56x28", dim)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("not an image at all")},
		{"svg", []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"/>`)},
		{"truncated png", []byte("\x89PNG\r\n\x1a\n\x00\x00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.data)
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Errorf("Resolve() error = %v, want *DecodeError", err)
			}
		})
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name     string
		in       Dim
		maxWidth int
		want     Dim
	}{
		{"smaller than limit", Dim{56, 28}, 600, Dim{56, 28}},
		{"exactly limit", Dim{600, 100}, 600, Dim{600, 100}},
		{"wide", Dim{1200, 800}, 600, Dim{600, 400}},
		{"rounding", Dim{1000, 333}, 600, Dim{600, 200}},
		{"tall and narrow", Dim{10, 5000}, 600, Dim{10, 5000}},
		{"very flat", Dim{6000, 1}, 600, Dim{600, 1}},
		{"no limit", Dim{5000, 2500}, 0, Dim{5000, 2500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Scale(tt.in, tt.maxWidth)
			if err != nil {
				t.Fatalf("Scale() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Scale(%v, %d) = %v, want %v", tt.in, tt.maxWidth, got, tt.want)
			}
			if tt.maxWidth > 0 && got.Width > tt.maxWidth {
				t.Errorf("width %d exceeds limit %d", got.Width, tt.maxWidth)
			}
		})
	}
}

func TestScale_Degenerate(t *testing.T) {
	for _, d := range []Dim{{0, 10}, {10, 0}, {0, 0}, {-1, 5}} {
		_, err := Scale(d, 600)
		var ge *GeometryError
		if !errors.As(err, &ge) {
			t.Errorf("Scale(%v) error = %v, want *GeometryError", d, err)
		}
	}
}
