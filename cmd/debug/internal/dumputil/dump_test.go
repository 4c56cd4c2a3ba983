package dumputil

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"trexport/assets"
	"trexport/config"
)

type fakeSource map[string][]byte

func (s fakeSource) Download(_ context.Context, path string) ([]byte, string, error) {
	return s[path], "", nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// fillCache downloads two images through real fetcher so index and files are
// produced exactly as export does.
func fillCache(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "attachments")
	src := fakeSource{
		"index.php?/attachments/get/1": pngBytes(t, 8, 4),
		"index.php?/attachments/get/2": pngBytes(t, 3, 3),
	}
	f, err := assets.NewFetcher(src, &config.CacheConfig{Directory: dir}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewFetcher() error: %v", err)
	}
	for _, id := range []string{"1", "2"} {
		if _, err := f.Fetch(context.Background(), assets.InlineRef("index.php?/attachments/get/"+id)); err != nil {
			t.Fatalf("Fetch(%s) error: %v", id, err)
		}
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestCheck(t *testing.T) {
	dir := fillCache(t)
	if err := os.WriteFile(filepath.Join(dir, "2.png"), []byte("broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	entries, err := assets.ReadIndex(dir)
	if err != nil {
		t.Fatalf("ReadIndex() error: %v", err)
	}
	checked := Check(dir, entries)
	if len(checked) != 2 {
		t.Fatalf("Check() returned %d entries, want 2", len(checked))
	}

	if c := checked[0]; len(c.Problems) != 0 || c.Geometry.Width != 8 || c.Geometry.Height != 4 || c.Sniffed != ".png" {
		t.Errorf("unexpected first entry %+v", c)
	}
	if c := checked[1]; len(c.Problems) == 0 {
		t.Errorf("broken entry reported as healthy: %+v", c)
	}

	report := Report(dir, checked)
	for _, want := range []string{"2 entries", "Geometry: 8x4", "size mismatch", "Problems found in 1 entries"} {
		if !strings.Contains(report, want) {
			t.Errorf("report misses %q:\n%s", want, report)
		}
	}
}

func TestCheck_MissingFile(t *testing.T) {
	dir := fillCache(t)
	if err := os.Remove(filepath.Join(dir, "1.png")); err != nil {
		t.Fatal(err)
	}
	entries, err := assets.ReadIndex(dir)
	if err != nil {
		t.Fatal(err)
	}
	checked := Check(dir, entries)
	if checked[0].Actual != -1 || len(checked[0].Problems) != 1 {
		t.Errorf("missing file not detected: %+v", checked[0])
	}
}

func TestWriteOutputs(t *testing.T) {
	dir := fillCache(t)
	out := t.TempDir()
	entries, err := assets.ReadIndex(dir)
	if err != nil {
		t.Fatal(err)
	}
	checked := Check(dir, entries)

	if err := WriteOutput(dir, out, "-cache.txt", []byte(Report(dir, checked)), false); err != nil {
		t.Fatalf("WriteOutput() error: %v", err)
	}
	if err := WriteOutput(dir, out, "-cache.txt", []byte("again"), false); err == nil {
		t.Error("WriteOutput() overwrote existing file")
	}
	if err := WriteOutput(dir, out, "-cache.txt", []byte("again"), true); err != nil {
		t.Errorf("WriteOutput() with overwrite error: %v", err)
	}

	if err := WriteImages(checked, dir, out, "-images.zip", false); err != nil {
		t.Fatalf("WriteImages() error: %v", err)
	}
	zr, err := zip.OpenReader(filepath.Join(out, "attachments-images.zip"))
	if err != nil {
		t.Fatal(err)
	}
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if strings.Join(names, ",") != "1.png,2.png" {
		t.Errorf("archive entries = %v", names)
	}
}

func TestExtFromFiletype(t *testing.T) {
	if ext := ExtFromFiletype(pngBytes(t, 1, 1)); ext != ".png" {
		t.Errorf("ExtFromFiletype(png) = %q", ext)
	}
	if ext := ExtFromFiletype([]byte("plain text")); ext != ".bin" {
		t.Errorf("ExtFromFiletype(text) = %q", ext)
	}
}
