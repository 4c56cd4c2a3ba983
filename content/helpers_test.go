package content

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
	"testing"

	"trexport/assets"
	"trexport/model"
	"trexport/testrail"
)

// fakeFetcher serves assets by resource id, unknown ids fail as missing.
type fakeFetcher struct {
	mu     sync.Mutex
	assets map[string]*assets.Asset
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, ref assets.Ref) (*assets.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ref.ID)
	if a, ok := f.assets[ref.ID]; ok {
		return a, nil
	}
	return nil, &testrail.FetchError{URL: ref.Path, Status: 404}
}

func pngAsset(t *testing.T, id string, w, h int) *assets.Asset {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return &assets.Asset{ID: id, Data: buf.Bytes(), ContentType: "image/png", IsImage: true}
}

// describe renders segments as compact strings for comparison.
func describe(segs []model.Segment) []string {
	out := make([]string, 0, len(segs))
	for _, s := range segs {
		switch v := s.(type) {
		case model.Text:
			out = append(out, v.Content)
		case model.Image:
			out = append(out, fmt.Sprintf("img:%s:%dx%d", v.SourceID, v.Width, v.Height))
		}
	}
	return out
}

func marker(id string) string {
	return "![](index.php?/attachments/get/" + id + ")"
}
