// Package docx writes exported documents as Office Open XML word processing
// packages.
package docx

import (
	"archive/zip"
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"trexport/misc"
	"trexport/model"
)

// Options controls package generation.
type Options struct {
	// Font is document default font.
	Font string
	// FixZip rewrites archive without data descriptors.
	FixZip bool
}

type media struct {
	ref  imageRef
	ext  string
	mime string
}

// Writer is model.Sink producing .docx file. Images go to the archive as soon
// as they arrive, body XML is spooled to temporary file and assembled on
// Close, so memory use does not depend on document size.
type Writer struct {
	path string
	opts Options
	log  *zap.Logger

	out *os.File
	zw  *zip.Writer

	spool *os.File
	body  *bufio.Writer

	meta     model.Meta
	begun    bool
	sections int
	images   map[string]imageRef
	media    []media
	exts     map[string]string
	nextID   int
	closed   bool
}

// Create starts new document at path, which is truncated if exists.
func Create(path string, opts Options, log *zap.Logger) (*Writer, error) {
	w := &Writer{
		path:   path,
		opts:   opts,
		log:    log.Named("docx"),
		images: make(map[string]imageRef),
		exts:   make(map[string]string),
	}

	target := path
	if opts.FixZip {
		target = path + ".raw"
	}
	var err error
	if w.out, err = os.Create(target); err != nil {
		return nil, fmt.Errorf("unable to create output file: %w", err)
	}
	if w.spool, err = os.CreateTemp("", misc.GetAppName()+"-body-*.xml"); err != nil {
		w.out.Close()
		os.Remove(target)
		return nil, fmt.Errorf("unable to create body spool: %w", err)
	}
	w.zw = zip.NewWriter(w.out)
	w.body = bufio.NewWriterSize(w.spool, 64<<10)
	return w, nil
}

func (w *Writer) Begin(meta model.Meta) error {
	if w.begun {
		return errors.New("document already started")
	}
	w.meta, w.begun = meta, true
	return nil
}

// AppendSection starts new section on a new page. Previous section, if any,
// is closed with section break.
func (w *Writer) AppendSection() error {
	if !w.begun {
		return errors.New("section appended before document start")
	}
	w.sections++
	if w.sections == 1 {
		return nil
	}
	p := etree.NewElement("w:p")
	p.CreateElement("w:pPr").AddChild(sectionProperties())
	return w.writeElement(p)
}

func (w *Writer) AppendParagraph(p *model.Paragraph) error {
	if w.sections == 0 {
		return errors.New("paragraph appended before any section")
	}
	el, err := paragraphElement(p, w.embed)
	if err != nil {
		return err
	}
	return w.writeElement(el)
}

func (w *Writer) AppendTable(t *model.Table) error {
	if w.sections == 0 {
		return errors.New("table appended before any section")
	}
	if err := w.writeElement(tableElement(t)); err != nil {
		return err
	}
	// word requires paragraph between table and whatever follows
	return w.writeElement(etree.NewElement("w:p"))
}

func (w *Writer) writeElement(el *etree.Element) error {
	doc := etree.NewDocument()
	doc.SetRoot(el)
	if _, err := doc.WriteTo(w.body); err != nil {
		return fmt.Errorf("unable to write document body: %w", err)
	}
	return nil
}

var imageExt = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
}

// embed stores image data in archive once per source id and returns
// placement reference.
func (w *Writer) embed(img model.Image) (imageRef, error) {
	w.nextID++
	if ref, ok := w.images[img.SourceID]; ok && img.SourceID != "" {
		ref.id = w.nextID
		return ref, nil
	}

	ext, ok := imageExt[img.MimeType]
	if !ok {
		return imageRef{}, fmt.Errorf("unsupported image type %q for %s", img.MimeType, img.SourceID)
	}
	n := len(w.media) + 1
	ref := imageRef{
		rid:  fmt.Sprintf("rIdImg%d", n),
		name: fmt.Sprintf("image%d.%s", n, ext),
		id:   w.nextID,
	}
	if err := writeDataToZip(w.zw, "word/media/"+ref.name, img.Data); err != nil {
		return imageRef{}, fmt.Errorf("unable to store image %s: %w", img.SourceID, err)
	}
	if img.SourceID != "" {
		w.images[img.SourceID] = ref
	}
	w.media = append(w.media, media{ref: ref, ext: ext, mime: img.MimeType})
	w.exts[ext] = img.MimeType
	return ref, nil
}

// Close assembles remaining package parts and finalizes file.
func (w *Writer) Close() (err error) {
	if w.closed {
		return nil
	}
	w.closed = true

	defer func() {
		err = multierr.Append(err, w.cleanupSpool())
		if err != nil {
			w.removeOutput()
		}
	}()

	if err := w.finish(); err != nil {
		multierr.AppendInto(&err, w.zw.Close())
		return multierr.Append(err, w.out.Close())
	}
	if err := w.zw.Close(); err != nil {
		w.out.Close()
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	if err := w.out.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	if w.opts.FixZip {
		defer os.Remove(w.path + ".raw")
		return copyZipWithoutDataDescriptors(w.path+".raw", w.path)
	}
	return nil
}

// Abort drops everything written so far.
func (w *Writer) Abort() {
	if w.closed {
		return
	}
	w.closed = true
	w.zw.Close()
	w.out.Close()
	if err := w.cleanupSpool(); err != nil {
		w.log.Debug("Unable to remove body spool", zap.Error(err))
	}
	w.removeOutput()
}

func (w *Writer) finish() error {
	if !w.begun {
		return errors.New("document was never started")
	}
	if err := w.body.Flush(); err != nil {
		return fmt.Errorf("unable to flush document body: %w", err)
	}
	if err := w.writeDocument(); err != nil {
		return fmt.Errorf("unable to write document: %w", err)
	}

	var rels [][3]string
	rels = append(rels, [3]string{"rIdStyles", relStyles, "styles.xml"})
	for _, m := range w.media {
		rels = append(rels, [3]string{m.ref.rid, relImage, "media/" + m.ref.name})
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("unable to generate document identifier: %w", err)
	}

	parts := []struct {
		name string
		doc  *etree.Document
	}{
		{"word/_rels/document.xml.rels", relationships(rels...)},
		{"word/styles.xml", styles(w.opts.Font)},
		{"docProps/core.xml", coreProperties(w.meta, "urn:uuid:"+id.String(), time.Now())},
		{"docProps/app.xml", appProperties(w.sections)},
		{"_rels/.rels", packageRels()},
		{"[Content_Types].xml", contentTypes(w.exts)},
	}
	for _, p := range parts {
		if err := writeXMLToZip(w.zw, p.name, p.doc); err != nil {
			return fmt.Errorf("unable to write %s: %w", p.name, err)
		}
	}
	w.log.Debug("Package assembled", zap.Int("sections", w.sections), zap.Int("images", len(w.media)), zap.Int("placements", w.nextID))
	return nil
}

func (w *Writer) writeDocument() error {
	head, tail, err := documentFrame()
	if err != nil {
		return err
	}
	dw, err := w.zw.Create("word/document.xml")
	if err != nil {
		return err
	}
	if _, err := io.WriteString(dw, head); err != nil {
		return err
	}
	if _, err := w.spool.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := io.Copy(dw, w.spool); err != nil {
		return err
	}
	_, err = io.WriteString(dw, tail)
	return err
}

func (w *Writer) cleanupSpool() error {
	if w.spool == nil {
		return nil
	}
	name := w.spool.Name()
	err := w.spool.Close()
	w.spool = nil
	return multierr.Append(err, os.Remove(name))
}

func (w *Writer) removeOutput() {
	for _, name := range []string{w.path, w.path + ".raw"} {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			w.log.Debug("Unable to remove output", zap.String("file", name), zap.Error(err))
		}
	}
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, name, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
