// Package model defines format independent tree of exported document and
// contract for writers producing actual files from it.
package model

import (
	"fmt"
	"time"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Style of text run. Size is in half-points, empty Font and Color mean
// document defaults.
type Style struct {
	Size  int
	Bold  bool
	Font  string
	Color string
}

// Segment is a leaf of document tree: Text or Image.
type Segment interface {
	segment()
}

type Text struct {
	Content string
	Style   Style
}

// Image carries encoded image together with its display size in pixels.
type Image struct {
	SourceID string
	Width    int
	Height   int
	Data     []byte
	MimeType string
}

func (Text) segment()  {}
func (Image) segment() {}

func (t Text) String() string {
	return fmt.Sprintf("Text(%q)", t.Content)
}

func (i Image) String() string {
	return fmt.Sprintf("Image(%s %dx%d)", i.SourceID, i.Width, i.Height)
}

// Block is element of section: Paragraph or Table.
type Block interface {
	block()
}

// Paragraph holds segments rendered in one line flow. Spacing is in twips.
type Paragraph struct {
	Align        Align
	SpacingAfter int
	// Rule draws horizontal line under paragraph.
	Rule     bool
	Segments []Segment
}

// Row is a two column table row, Fill colors label cell.
type Row struct {
	Label string
	Value string
	Fill  string
}

type Table struct {
	Rows []Row
}

func (*Paragraph) block() {}
func (*Table) block()     {}

type Section struct {
	Blocks []Block
}

// Meta describes document as a whole.
type Meta struct {
	Title       string
	Creator     string
	Description string
	Created     time.Time
}

// Document is ordered tree of sections, blocks and segments. It is built by
// single owner and is not safe for concurrent modification.
type Document struct {
	Meta     Meta
	Sections []*Section
}

// AddSection appends new empty section and returns it.
func (d *Document) AddSection() *Section {
	s := &Section{}
	d.Sections = append(d.Sections, s)
	return s
}

func (s *Section) Add(blocks ...Block) {
	s.Blocks = append(s.Blocks, blocks...)
}
