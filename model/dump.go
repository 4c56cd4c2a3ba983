package model

import (
	"trexport/utils/debug"
)

// Dump returns indented textual representation of the document, image data
// is not included.
func (d *Document) Dump() string {
	tw := debug.NewTreeWriter()
	tw.TextBlock(0, "Title", d.Meta.Title)
	tw.Field(0, "Created", d.Meta.Created.Format("2006-01-02 15:04:05"))
	for i, s := range d.Sections {
		tw.Line(0, "Section %d", i+1)
		for _, b := range s.Blocks {
			switch v := b.(type) {
			case *Paragraph:
				tw.Line(1, "Paragraph align=%s after=%d rule=%t", v.Align, v.SpacingAfter, v.Rule)
				for _, seg := range v.Segments {
					switch sv := seg.(type) {
					case Text:
						tw.TextBlock(2, "Text", sv.Content)
					case Image:
						tw.Line(2, "Image id=%s %dx%d %s %d bytes", sv.SourceID, sv.Width, sv.Height, sv.MimeType, len(sv.Data))
					}
				}
			case *Table:
				tw.Line(1, "Table")
				for _, r := range v.Rows {
					tw.Line(2, "Row fill=%s", r.Fill)
					tw.TextBlock(3, r.Label, r.Value)
				}
			}
		}
	}
	return tw.String()
}
