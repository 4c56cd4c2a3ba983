package model

import (
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

func sampleDocument() *Document {
	d := &Document{Meta: Meta{Title: "Test Run 1 Export", Created: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}}
	cover := d.AddSection()
	cover.Add(&Paragraph{Align: AlignCenter, Segments: []Segment{Text{Content: "Run", Style: Style{Size: 48, Bold: true}}}})
	body := d.AddSection()
	body.Add(
		&Paragraph{Segments: []Segment{Text{Content: "See"}}},
		&Table{Rows: []Row{{Label: "Status", Value: "Passed", Fill: "00FF00"}}},
		&Paragraph{Segments: []Segment{Image{SourceID: "1", Width: 56, Height: 28}}},
		&Paragraph{Segments: []Segment{Text{Content: "done"}}},
	)
	return d
}

func TestDocument_Segments(t *testing.T) {
	var got []string
	for seg := range sampleDocument().Segments() {
		switch v := seg.(type) {
		case Text:
			got = append(got, v.Content)
		case Image:
			got = append(got, "img:"+v.SourceID)
		}
	}
	want := []string{"Run", "See", "img:1", "done"}
	if !slices.Equal(got, want) {
		t.Errorf("Segments() = %v, want %v", got, want)
	}
}

func TestDocument_RenderReplay(t *testing.T) {
	d := sampleDocument()

	var rec Recorder
	if err := d.Render(&rec); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if rec.Doc.Meta.Title != d.Meta.Title {
		t.Error("meta not passed to sink")
	}
	if len(rec.Doc.Sections) != 2 || len(rec.Doc.Sections[1].Blocks) != 4 {
		t.Fatalf("unexpected replayed structure %d sections", len(rec.Doc.Sections))
	}
	if rec.Doc.Dump() != d.Dump() {
		t.Errorf("replayed document differs:\n%s\nvs\n%s", rec.Doc.Dump(), d.Dump())
	}
}

type failingSink struct {
	Recorder
	failAt int
	n      int
}

func (f *failingSink) AppendParagraph(p *Paragraph) error {
	f.n++
	if f.n == f.failAt {
		return errors.New("disk full")
	}
	return f.Recorder.AppendParagraph(p)
}

func TestDocument_RenderError(t *testing.T) {
	err := sampleDocument().Render(&failingSink{failAt: 2})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Render() error = %v, want sink error", err)
	}
}

func TestRecorder_NoSection(t *testing.T) {
	var rec Recorder
	if err := rec.AppendParagraph(&Paragraph{}); err == nil {
		t.Error("expected error when no section started")
	}
}

func TestDocument_Dump(t *testing.T) {
	out := sampleDocument().Dump()
	for _, want := range []string{
		`Title: "Test Run 1 Export"`,
		"Section 2",
		"Image id=1 56x28",
		`Status: "Passed"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() missing %q:\n%s", want, out)
		}
	}
}
