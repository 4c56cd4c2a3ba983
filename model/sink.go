package model

import (
	"errors"
	"fmt"
	"iter"
)

// Sink consumes document in order. Writers implement it so document could be
// either replayed from memory or streamed while being produced.
type Sink interface {
	Begin(meta Meta) error
	AppendSection() error
	AppendParagraph(p *Paragraph) error
	AppendTable(t *Table) error
}

// Render replays document into sink.
func (d *Document) Render(sink Sink) error {
	if err := sink.Begin(d.Meta); err != nil {
		return err
	}
	for i, s := range d.Sections {
		if err := sink.AppendSection(); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		for _, b := range s.Blocks {
			if err := emit(sink, b); err != nil {
				return fmt.Errorf("section %d: %w", i, err)
			}
		}
	}
	return nil
}

// Emit sends blocks to sink in order.
func Emit(sink Sink, blocks ...Block) error {
	for _, b := range blocks {
		if err := emit(sink, b); err != nil {
			return err
		}
	}
	return nil
}

func emit(sink Sink, b Block) error {
	switch v := b.(type) {
	case *Paragraph:
		return sink.AppendParagraph(v)
	case *Table:
		return sink.AppendTable(v)
	default:
		return fmt.Errorf("unexpected block type %T", b)
	}
}

// Segments iterates over all segments of the document in order.
func (d *Document) Segments() iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		for _, s := range d.Sections {
			for _, b := range s.Blocks {
				p, ok := b.(*Paragraph)
				if !ok {
					continue
				}
				for _, seg := range p.Segments {
					if !yield(seg) {
						return
					}
				}
			}
		}
	}
}

// Recorder is Sink which keeps everything in memory, rebuilding Document.
type Recorder struct {
	Doc Document
}

func (r *Recorder) Begin(meta Meta) error {
	r.Doc.Meta = meta
	return nil
}

func (r *Recorder) AppendSection() error {
	r.Doc.AddSection()
	return nil
}

func (r *Recorder) AppendParagraph(p *Paragraph) error {
	return r.add(p)
}

func (r *Recorder) AppendTable(t *Table) error {
	return r.add(t)
}

func (r *Recorder) add(b Block) error {
	if len(r.Doc.Sections) == 0 {
		return errors.New("block appended before any section")
	}
	r.Doc.Sections[len(r.Doc.Sections)-1].Add(b)
	return nil
}
