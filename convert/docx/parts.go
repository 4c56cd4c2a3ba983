package docx

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/beevik/etree"

	"trexport/misc"
	"trexport/model"
)

const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP      = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic     = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsRelPkg  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsCore    = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsApp     = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	relDoc    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCore   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relApp    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relImage  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctCore     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctApp      = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	ctRels     = "application/vnd.openxmlformats-package.relationships+xml"

	// A4 portrait with 1 inch margins, in twips
	pageWidth  = 11906
	pageHeight = 16838
	pageMargin = 1440

	bodyMarker = "trexport-body"
)

func newXMLDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	return doc
}

// documentFrame returns main document part split around body content.
func documentFrame() (head, tail string, err error) {
	doc := newXMLDocument()
	root := doc.CreateElement("w:document")
	root.CreateAttr("xmlns:w", nsW)
	root.CreateAttr("xmlns:r", nsR)
	root.CreateAttr("xmlns:wp", nsWP)
	root.CreateAttr("xmlns:a", nsA)
	root.CreateAttr("xmlns:pic", nsPic)
	body := root.CreateElement("w:body")
	body.CreateComment(bodyMarker)
	body.AddChild(sectionProperties())

	s, err := doc.WriteToString()
	if err != nil {
		return "", "", err
	}
	head, tail, ok := strings.Cut(s, "<!--"+bodyMarker+"-->")
	if !ok {
		return "", "", errors.New("unable to locate body marker")
	}
	return head, tail, nil
}

func sectionProperties() *etree.Element {
	sect := etree.NewElement("w:sectPr")
	pg := sect.CreateElement("w:pgSz")
	pg.CreateAttr("w:w", fmt.Sprint(pageWidth))
	pg.CreateAttr("w:h", fmt.Sprint(pageHeight))
	mar := sect.CreateElement("w:pgMar")
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		mar.CreateAttr(side, fmt.Sprint(pageMargin))
	}
	mar.CreateAttr("w:header", "708")
	mar.CreateAttr("w:footer", "708")
	mar.CreateAttr("w:gutter", "0")
	return sect
}

func contentTypes(exts map[string]string) *etree.Document {
	doc := newXMLDocument()
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsTypes)

	def := func(ext, ct string) {
		d := types.CreateElement("Default")
		d.CreateAttr("Extension", ext)
		d.CreateAttr("ContentType", ct)
	}
	def("rels", ctRels)
	def("xml", "application/xml")
	for _, ext := range slices.Sorted(maps.Keys(exts)) {
		def(ext, exts[ext])
	}

	over := func(part, ct string) {
		o := types.CreateElement("Override")
		o.CreateAttr("PartName", part)
		o.CreateAttr("ContentType", ct)
	}
	over("/word/document.xml", ctDocument)
	over("/word/styles.xml", ctStyles)
	over("/docProps/core.xml", ctCore)
	over("/docProps/app.xml", ctApp)
	return doc
}

func relationships(rels ...[3]string) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("Relationships")
	root.CreateAttr("xmlns", nsRelPkg)
	for _, r := range rels {
		rel := root.CreateElement("Relationship")
		rel.CreateAttr("Id", r[0])
		rel.CreateAttr("Type", r[1])
		rel.CreateAttr("Target", r[2])
	}
	return doc
}

func packageRels() *etree.Document {
	return relationships(
		[3]string{"rId1", relDoc, "word/document.xml"},
		[3]string{"rId2", relCore, "docProps/core.xml"},
		[3]string{"rId3", relApp, "docProps/app.xml"},
	)
}

func coreProperties(meta model.Meta, id string, now time.Time) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("cp:coreProperties")
	root.CreateAttr("xmlns:cp", nsCore)
	root.CreateAttr("xmlns:dc", "http://purl.org/dc/elements/1.1/")
	root.CreateAttr("xmlns:dcterms", "http://purl.org/dc/terms/")
	root.CreateAttr("xmlns:dcmitype", "http://purl.org/dc/dcmitype/")
	root.CreateAttr("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance")

	root.CreateElement("dc:title").SetText(meta.Title)
	root.CreateElement("dc:creator").SetText(meta.Creator)
	root.CreateElement("dc:description").SetText(meta.Description)
	root.CreateElement("dc:identifier").SetText(id)
	root.CreateElement("cp:lastModifiedBy").SetText(meta.Creator)

	created := meta.Created
	if created.IsZero() {
		created = now
	}
	for _, ts := range []struct {
		name string
		t    time.Time
	}{{"dcterms:created", created}, {"dcterms:modified", now}} {
		el := root.CreateElement(ts.name)
		el.CreateAttr("xsi:type", "dcterms:W3CDTF")
		el.SetText(ts.t.UTC().Format(time.RFC3339))
	}
	return doc
}

func appProperties(pages int) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("Properties")
	root.CreateAttr("xmlns", nsApp)
	root.CreateElement("Application").SetText(misc.GetAppName() + " " + misc.GetVersion())
	root.CreateElement("Pages").SetText(fmt.Sprint(pages))
	return doc
}

func styles(font string) *etree.Document {
	doc := newXMLDocument()
	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", nsW)

	rPr := root.CreateElement("w:docDefaults").CreateElement("w:rPrDefault").CreateElement("w:rPr")
	fonts := rPr.CreateElement("w:rFonts")
	for _, a := range []string{"w:ascii", "w:hAnsi", "w:eastAsia", "w:cs"} {
		fonts.CreateAttr(a, font)
	}
	rPr.CreateElement("w:sz").CreateAttr("w:val", "22")
	rPr.CreateElement("w:szCs").CreateAttr("w:val", "22")

	normal := root.CreateElement("w:style")
	normal.CreateAttr("w:type", "paragraph")
	normal.CreateAttr("w:default", "1")
	normal.CreateAttr("w:styleId", "Normal")
	normal.CreateElement("w:name").CreateAttr("w:val", "Normal")
	normal.CreateElement("w:qFormat")

	table := root.CreateElement("w:style")
	table.CreateAttr("w:type", "table")
	table.CreateAttr("w:default", "1")
	table.CreateAttr("w:styleId", "TableNormal")
	table.CreateElement("w:name").CreateAttr("w:val", "Normal Table")
	mar := table.CreateElement("w:tblPr").CreateElement("w:tblCellMar")
	for _, side := range []string{"w:left", "w:right"} {
		m := mar.CreateElement(side)
		m.CreateAttr("w:w", "108")
		m.CreateAttr("w:type", "dxa")
	}
	return doc
}
