package images

import (
	"bytes"
	"image/jpeg"
	"testing"

	"golang.org/x/image/tiff"
)

const testSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 50"><rect width="100" height="50" fill="red"/></svg>`

func TestNormalize_PassThrough(t *testing.T) {
	data := encodeTest(t, "png", 56, 28)

	out, mime, err := Normalize(data, "image/png", Options{MaxWidth: 600, Downscale: true})
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %s, want image/png", mime)
	}
	if !bytes.Equal(out, data) {
		t.Error("small png should be kept as is")
	}
}

func TestNormalize_SVG(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want Dim
	}{
		{"intrinsic", Options{MaxWidth: 600}, Dim{100, 50}},
		{"downscale does not enlarge", Options{MaxWidth: 600, Downscale: true}, Dim{100, 50}},
		{"downscale", Options{MaxWidth: 40, Downscale: true}, Dim{40, 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, mime, err := Normalize([]byte(testSVG), "", tt.opts)
			if err != nil {
				t.Fatalf("Normalize() error: %v", err)
			}
			if mime != "image/png" {
				t.Errorf("mime = %s, want image/png", mime)
			}
			dim, err := Resolve(out)
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if dim != tt.want {
				t.Errorf("rasterized size = %v, want %v", dim, tt.want)
			}
		})
	}
}

func TestNormalize_TIFF(t *testing.T) {
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, testImage(30, 20), nil); err != nil {
		t.Fatalf("tiff encode: %v", err)
	}

	out, mime, err := Normalize(buf.Bytes(), "image/tiff", Options{MaxWidth: 600})
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if mime != "image/png" {
		t.Errorf("mime = %s, want image/png", mime)
	}
	if dim, _ := Resolve(out); dim != (Dim{30, 20}) {
		t.Errorf("size = %v, want 30x20", dim)
	}
}

func TestNormalize_DownscaleJPEG(t *testing.T) {
	data := encodeTest(t, "jpeg", 1200, 300)

	out, mime, err := Normalize(data, "image/jpeg", Options{MaxWidth: 600, Downscale: true, JPEGQuality: 70})
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if mime != "image/jpeg" {
		t.Errorf("mime = %s, want image/jpeg", mime)
	}
	if out[2] != 0xFF || out[3] != 0xE0 {
		t.Error("expected JFIF APP0 segment")
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("DecodeConfig() error: %v", err)
	}
	if cfg.Width != 600 || cfg.Height != 150 {
		t.Errorf("size = %dx%d, want 600x150", cfg.Width, cfg.Height)
	}
}

func TestNormalize_Garbage(t *testing.T) {
	if _, _, err := Normalize([]byte("garbage"), "application/octet-stream", Options{}); err == nil {
		t.Error("expected error for garbage input")
	}
}
