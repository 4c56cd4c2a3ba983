package content

import (
	"context"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"trexport/assets"
	"trexport/model"
	"trexport/testrail"
)

func TestInterleave(t *testing.T) {
	fetcher := &fakeFetcher{assets: map[string]*assets.Asset{
		"1":    pngAsset(t, "1", 56, 28),
		"2":    pngAsset(t, "2", 56, 28),
		"wide": pngAsset(t, "wide", 1200, 300),
		"pdf":  {ID: "pdf", Data: []byte("%PDF-1.4"), ContentType: "application/pdf"},
		"bad":  {ID: "bad", Data: []byte("not really"), ContentType: "image/png", IsImage: true},
	}}
	opts := Options{MaxWidth: 600}

	tests := []struct {
		name    string
		comment string
		want    []string
	}{
		{"empty", "", nil},
		{"whitespace", "  \n\t ", nil},
		{"text only", "  just text \n", []string{"just text"}},
		{
			"two markers",
			"See " + marker("1") + " and " + marker("2") + " done",
			[]string{"See", "img:1:56x28", "and", "img:2:56x28", "done"},
		},
		{"failed fetch", "A " + marker("missing") + " B", []string{"A", "B"}},
		{"not an image", "A " + marker("pdf") + " B", []string{"A", "B"}},
		{"undecodable", marker("bad") + " B", []string{"B"}},
		{"scaled", marker("wide"), []string{"img:wide:600x150"}},
		{"marker at both ends", marker("1") + "mid" + marker("2"), []string{"img:1:56x28", "mid", "img:2:56x28"}},
		{"same image twice", marker("1") + marker("1"), []string{"img:1:56x28", "img:1:56x28"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := describe(Interleave(context.Background(), tt.comment, fetcher, opts, zaptest.NewLogger(t)))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Interleave() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInterleave_TextVerbatim(t *testing.T) {
	style := model.Style{Size: 22}
	fetcher := &fakeFetcher{assets: map[string]*assets.Asset{"1": pngAsset(t, "1", 56, 28)}}

	tests := []struct {
		name    string
		comment string
	}{
		// "e" followed by combining acute accent, ANGSTROM SIGN, ligature
		{"decomposed accent", "cafe\u0301 " + marker("missing") + " \u212b done"},
		{"compatibility chars", "\ufb01le " + marker("1") + " x\u00b2"},
		{"inner whitespace", "  a\t\tb \n " + marker("1") + "c  d"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Interleave(context.Background(), tt.comment, fetcher, Options{MaxWidth: 600, TextStyle: style}, zaptest.NewLogger(t))

			var texts []string
			for _, seg := range segs {
				if txt, ok := seg.(model.Text); ok {
					if txt.Style != style {
						t.Errorf("style = %+v, want %+v", txt.Style, style)
					}
					texts = append(texts, txt.Content)
				}
			}
			var want []string
			for _, part := range markerRe.Split(tt.comment, -1) {
				if p := strings.TrimSpace(part); p != "" {
					want = append(want, p)
				}
			}
			if !slices.Equal(texts, want) {
				t.Errorf("text segments = %q, want %q", texts, want)
			}
		})
	}
}

func TestInterleave_CountsProblems(t *testing.T) {
	var p Problems
	Interleave(context.Background(), marker("x")+marker("y"), &fakeFetcher{}, Options{Problems: &p}, zaptest.NewLogger(t))
	if p.Images() != 2 || p.Total() != 2 {
		t.Errorf("Problems = images %d total %d, want 2", p.Images(), p.Total())
	}
}

func TestInterleave_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fetcher := &fakeFetcher{assets: map[string]*assets.Asset{"1": pngAsset(t, "1", 1, 1)}}

	segs := Interleave(ctx, "a"+marker("1")+"b", fetcher, Options{}, zaptest.NewLogger(t))
	if len(segs) != 0 || len(fetcher.calls) != 0 {
		t.Errorf("cancelled interleave produced %d segments and %d fetches", len(segs), len(fetcher.calls))
	}
}

func TestRenderAttachments(t *testing.T) {
	fetcher := &fakeFetcher{assets: map[string]*assets.Asset{
		"10": pngAsset(t, "10", 800, 400),
		"11": {ID: "11", Data: []byte("log"), ContentType: "text/plain"},
		"12": pngAsset(t, "12", 20, 10),
	}}
	refs := []testrail.AttachmentRef{{ID: "12"}, {ID: "11"}, {ID: "gone"}, {ID: "10"}}

	got := describe(RenderAttachments(context.Background(), refs, fetcher, Options{MaxWidth: 600}, zaptest.NewLogger(t)))
	want := []string{"img:12:20x10", "img:10:600x300"}
	if !slices.Equal(got, want) {
		t.Errorf("RenderAttachments() = %q, want %q", got, want)
	}
	if !slices.Equal(fetcher.calls, []string{"12", "11", "gone", "10"}) {
		t.Errorf("fetch order = %v", fetcher.calls)
	}
}
