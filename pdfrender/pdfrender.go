// Package pdfrender writes a finished pdfmodel.Document as a PDF file using
// gofpdf.  Fonts are embedded as subset TrueType fonts, text items are laid
// out in their boxes with wrapping and alignment, and barcodes are drawn as
// filled rectangles.
package pdfrender

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"
	"golang.org/x/text/language"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/xmp"

	"github.com/rothskeller/pdftemplate/pdfmodel"
)

// A4 is the default page size in points.
var A4 = rect.Rect{URx: 595.28, URy: 841.89}

// Options control serialization.  A nil *Options means the defaults.
type Options struct {
	// Page is the page size in points.  The zero value means A4.
	Page rect.Rect
	// NoCompression leaves page content streams uncompressed.
	NoCompression bool
	// Strict makes Write fail when an item extends past the page edges or
	// its text does not fit its box.
	Strict bool
	// Producer is recorded in the XMP metadata.
	Producer string
	// Template is an existing PDF whose pages are drawn beneath the items
	// on the pages with the same numbers.  Those pages take the template
	// page's size, and the output has at least as many pages as the
	// template.
	Template io.ReadSeeker
}

// ErrSealed is returned when a document has already been written.
var ErrSealed = pdfmodel.ErrSealed

// OverflowError is returned in strict mode for an item that does not fit.
type OverflowError struct {
	Index int // index of the item in the document
	Item  pdfmodel.Item
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("item %d on page %d does not fit", e.Index, e.Item.PageNumber())
}

// TemplateError is returned when the template PDF cannot be imported.
type TemplateError struct {
	Err error
}

func (e *TemplateError) Error() string { return "template: " + e.Err.Error() }
func (e *TemplateError) Unwrap() error { return e.Err }

// Write serializes doc to w and seals it.  A sealed document, or one with
// an item referencing an unregistered font, is refused.  A template that
// cannot be read is a *TemplateError.
func Write(w io.Writer, doc *pdfmodel.Document, opts *Options) (err error) {
	if opts == nil {
		opts = &Options{}
	}
	if doc.Sealed() {
		return ErrSealed
	}
	if err = doc.Validate(); err != nil {
		return err
	}
	page := opts.Page
	if page.URx-page.LLx <= 0 || page.URy-page.LLy <= 0 {
		page = A4
	}
	width, height := page.URx-page.LLx, page.URy-page.LLy
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetCompression(!opts.NoCompression)
	pdf.SetCatalogSort(true)
	pdf.SetAutoPageBreak(false, 0)
	setMetadata(pdf, doc.Metadata, opts.Producer)
	for _, font := range doc.Fonts() {
		fd := doc.FontData(font.Name)
		if fd == nil || len(fd.Data) == 0 {
			return &pdfmodel.FontLoadError{Font: font, Err: errors.New("no font data")}
		}
		pdf.AddUTF8FontFromBytes(font.Name, "", fd.Data)
	}
	if pdf.Err() {
		return pdf.Error()
	}
	var tmpl *template
	if opts.Template != nil {
		if tmpl, err = importTemplate(pdf, opts.Template); err != nil {
			return err
		}
	}
	type indexed struct {
		index int
		item  pdfmodel.Item
	}
	var items []indexed
	for i, item := range doc.Items() {
		items = append(items, indexed{i, item})
	}
	slices.SortStableFunc(items, func(a, b indexed) int { return a.item.PageNumber() - b.item.PageNumber() })
	next, pages := 0, max(doc.Pages(), 1)
	if tmpl != nil {
		pages = max(pages, len(tmpl.pages))
	}
	for p := 1; p <= pages; p++ {
		pw, ph := width, height
		if tmpl != nil && p <= len(tmpl.pages) {
			tp := tmpl.pages[p-1]
			pw, ph = tp.width, tp.height
			pdf.AddPageFormat("P", gofpdf.SizeType{Wd: pw, Ht: ph})
			tmpl.imp.UseImportedTemplate(pdf, tp.id, 0, 0, pw, ph)
		} else {
			pdf.AddPage()
		}
		for ; next < len(items) && items[next].item.PageNumber() == p; next++ {
			it := items[next]
			fits := true
			switch item := it.item.(type) {
			case *pdfmodel.Text:
				fits = drawText(pdf, item)
			case *pdfmodel.Barcode:
				drawBarcode(pdf, item)
			default:
				return fmt.Errorf("item %d: cannot render %T", it.index, item)
			}
			if opts.Strict && (!fits || !inside(it.item.Bounds(), pw, ph)) {
				return &OverflowError{Index: it.index, Item: it.item}
			}
		}
	}
	if err = pdf.Output(w); err != nil {
		return err
	}
	doc.Seal()
	return nil
}

type template struct {
	imp   *gofpdi.Importer
	pages []templatePage
}

type templatePage struct {
	id            int
	width, height float64
}

// importTemplate copies every page of the PDF in r into pdf as a form
// XObject.  gofpdi reports a malformed file by panicking.
func importTemplate(pdf *gofpdf.Fpdf, r io.ReadSeeker) (t *template, err error) {
	defer func() {
		if p := recover(); p != nil {
			t, err = nil, &TemplateError{Err: fmt.Errorf("%v", p)}
		}
	}()
	t = &template{imp: gofpdi.NewImporter()}
	first := t.imp.ImportPageFromStream(pdf, &r, 1, "/MediaBox")
	sizes := t.imp.GetPageSizes()
	for p := 1; p <= len(sizes); p++ {
		id := first
		if p > 1 {
			id = t.imp.ImportPageFromStream(pdf, &r, p, "/MediaBox")
		}
		box := sizes[p]["/MediaBox"]
		if box["w"] <= 0 || box["h"] <= 0 {
			return nil, &TemplateError{Err: fmt.Errorf("page %d has no media box", p)}
		}
		t.pages = append(t.pages, templatePage{id: id, width: box["w"], height: box["h"]})
	}
	if len(t.pages) == 0 {
		return nil, &TemplateError{Err: errors.New("no pages")}
	}
	if pdf.Err() {
		return nil, &TemplateError{Err: pdf.Error()}
	}
	return t, nil
}

func drawBarcode(pdf *gofpdf.Fpdf, b *pdfmodel.Barcode) {
	r, g, bl := rgb(b.Color)
	pdf.SetFillColor(r, g, bl)
	for _, bar := range b.Bars {
		pdf.Rect(b.Left+bar.Left, b.Top, bar.Width, b.Height, "F")
	}
}

func inside(r rect.Rect, width, height float64) bool {
	return r.LLx >= 0 && r.LLy >= 0 && r.URx <= width && r.URy <= height
}

// xmpPDF is the Adobe PDF schema.
type xmpPDF struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Keywords xmp.Text
	Producer xmp.AgentName
}

func setMetadata(pdf *gofpdf.Fpdf, m pdfmodel.Metadata, producer string) {
	keywords := strings.Join(m.Keywords, ", ")
	pdf.SetTitle(m.Title, true)
	pdf.SetAuthor(m.Author, true)
	pdf.SetSubject(m.Subject, true)
	pdf.SetKeywords(keywords, true)
	pdf.SetCreator(m.Creator, true)
	if !m.Created.IsZero() {
		pdf.SetCreationDate(m.Created)
	}
	if m.Title == "" && m.Author == "" && m.Subject == "" && keywords == "" && m.Created.IsZero() {
		return
	}
	dc := &xmp.DublinCore{}
	if m.Title != "" {
		dc.Title.Set(language.MustParse("x-default"), m.Title)
	}
	if m.Author != "" {
		dc.Creator.Append(xmp.NewProperName(m.Author))
	}
	if m.Subject != "" {
		dc.Description.Set(language.MustParse("x-default"), m.Subject)
	}
	basic := &xmp.Basic{}
	if !m.Created.IsZero() {
		basic.CreateDate = xmp.NewDate(m.Created)
	}
	info := &xmpPDF{Keywords: xmp.NewText(keywords)}
	if producer != "" {
		info.Producer = xmp.NewAgentName(producer)
	}
	packet := xmp.NewPacket()
	packet.Set(dc, basic, info)
	var buf bytes.Buffer
	if err := packet.Write(&buf, &xmp.PacketOptions{Pretty: true}); err == nil {
		pdf.SetXmpMetadata(buf.Bytes())
	}
}
