package docx

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"trexport/model"
)

// emuPerPixel converts pixels (at 96 dpi) to English Metric Units.
const emuPerPixel = 9525

// labelWidth and valueWidth are metadata table column widths in twips.
const (
	labelWidth = 2000
	valueWidth = pageWidth - 2*pageMargin - labelWidth
)

func itoa(v int) string {
	return strconv.Itoa(v)
}

func alignValue(a model.Align) string {
	switch a {
	case model.AlignCenter:
		return "center"
	case model.AlignRight:
		return "right"
	default:
		return "left"
	}
}

// imageRef is placement of embedded image, resolved by Writer.
type imageRef struct {
	rid  string
	name string
	id   int
}

func paragraphElement(p *model.Paragraph, img func(model.Image) (imageRef, error)) (*etree.Element, error) {
	el := etree.NewElement("w:p")
	pPr := el.CreateElement("w:pPr")
	if p.Rule {
		b := pPr.CreateElement("w:pBdr").CreateElement("w:bottom")
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "6")
		b.CreateAttr("w:space", "1")
		b.CreateAttr("w:color", "auto")
	}
	if p.SpacingAfter > 0 {
		pPr.CreateElement("w:spacing").CreateAttr("w:after", itoa(p.SpacingAfter))
	}
	pPr.CreateElement("w:jc").CreateAttr("w:val", alignValue(p.Align))

	for _, seg := range p.Segments {
		switch v := seg.(type) {
		case model.Text:
			textRun(el, v)
		case model.Image:
			ref, err := img(v)
			if err != nil {
				return nil, err
			}
			imageRun(el, v, ref)
		}
	}
	return el, nil
}

func runProperties(r *etree.Element, st model.Style) {
	rPr := r.CreateElement("w:rPr")
	if st.Font != "" {
		f := rPr.CreateElement("w:rFonts")
		for _, a := range []string{"w:ascii", "w:hAnsi", "w:cs"} {
			f.CreateAttr(a, st.Font)
		}
	}
	if st.Bold {
		rPr.CreateElement("w:b")
		rPr.CreateElement("w:bCs")
	}
	if st.Color != "" {
		rPr.CreateElement("w:color").CreateAttr("w:val", st.Color)
	}
	if st.Size > 0 {
		rPr.CreateElement("w:sz").CreateAttr("w:val", itoa(st.Size))
		rPr.CreateElement("w:szCs").CreateAttr("w:val", itoa(st.Size))
	}
}

// textRun keeps line breaks and tabs of multiline comments.
func textRun(p *etree.Element, t model.Text) {
	r := p.CreateElement("w:r")
	runProperties(r, t.Style)

	content := strings.ReplaceAll(t.Content, "\r\n", "\n")
	for i, line := range strings.Split(content, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		for j, chunk := range strings.Split(line, "\t") {
			if j > 0 {
				r.CreateElement("w:tab")
			}
			if chunk == "" {
				continue
			}
			wt := r.CreateElement("w:t")
			wt.CreateAttr("xml:space", "preserve")
			wt.SetText(chunk)
		}
	}
}

func imageRun(p *etree.Element, img model.Image, ref imageRef) {
	cx, cy := itoa(img.Width*emuPerPixel), itoa(img.Height*emuPerPixel)
	id := itoa(ref.id)

	inline := p.CreateElement("w:r").CreateElement("w:drawing").CreateElement("wp:inline")
	for _, d := range []string{"distT", "distB", "distL", "distR"} {
		inline.CreateAttr(d, "0")
	}
	ext := inline.CreateElement("wp:extent")
	ext.CreateAttr("cx", cx)
	ext.CreateAttr("cy", cy)
	docPr := inline.CreateElement("wp:docPr")
	docPr.CreateAttr("id", id)
	docPr.CreateAttr("name", "Picture "+id)
	docPr.CreateAttr("descr", img.SourceID)
	inline.CreateElement("wp:cNvGraphicFramePr").CreateElement("a:graphicFrameLocks").CreateAttr("noChangeAspect", "1")

	data := inline.CreateElement("a:graphic").CreateElement("a:graphicData")
	data.CreateAttr("uri", nsPic)
	pic := data.CreateElement("pic:pic")

	nv := pic.CreateElement("pic:nvPicPr")
	cNvPr := nv.CreateElement("pic:cNvPr")
	cNvPr.CreateAttr("id", id)
	cNvPr.CreateAttr("name", ref.name)
	nv.CreateElement("pic:cNvPicPr")

	fill := pic.CreateElement("pic:blipFill")
	fill.CreateElement("a:blip").CreateAttr("r:embed", ref.rid)
	fill.CreateElement("a:stretch").CreateElement("a:fillRect")

	spPr := pic.CreateElement("pic:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	off.CreateAttr("x", "0")
	off.CreateAttr("y", "0")
	aext := xfrm.CreateElement("a:ext")
	aext.CreateAttr("cx", cx)
	aext.CreateAttr("cy", cy)
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
}

func tableElement(t *model.Table) *etree.Element {
	tbl := etree.NewElement("w:tbl")
	tblPr := tbl.CreateElement("w:tblPr")
	w := tblPr.CreateElement("w:tblW")
	w.CreateAttr("w:w", "5000")
	w.CreateAttr("w:type", "pct")
	borders := tblPr.CreateElement("w:tblBorders")
	for _, side := range []string{"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV"} {
		b := borders.CreateElement(side)
		b.CreateAttr("w:val", "single")
		b.CreateAttr("w:sz", "4")
		b.CreateAttr("w:space", "0")
		b.CreateAttr("w:color", "auto")
	}

	grid := tbl.CreateElement("w:tblGrid")
	grid.CreateElement("w:gridCol").CreateAttr("w:w", itoa(labelWidth))
	grid.CreateElement("w:gridCol").CreateAttr("w:w", itoa(valueWidth))

	for _, row := range t.Rows {
		tr := tbl.CreateElement("w:tr")
		tableCell(tr, row.Label, labelWidth, row.Fill, true)
		tableCell(tr, row.Value, valueWidth, "", false)
	}
	return tbl
}

func tableCell(tr *etree.Element, text string, width int, fill string, bold bool) {
	tc := tr.CreateElement("w:tc")
	tcPr := tc.CreateElement("w:tcPr")
	w := tcPr.CreateElement("w:tcW")
	w.CreateAttr("w:w", itoa(width))
	w.CreateAttr("w:type", "dxa")
	if fill != "" {
		shd := tcPr.CreateElement("w:shd")
		shd.CreateAttr("w:val", "clear")
		shd.CreateAttr("w:color", "auto")
		shd.CreateAttr("w:fill", fill)
	}
	p := tc.CreateElement("w:p")
	if text != "" {
		textRun(p, model.Text{Content: text, Style: model.Style{Bold: bold}})
	}
}
