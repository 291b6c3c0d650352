package pdfrender

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/phpdave11/gofpdf"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/rothskeller/pdftemplate/pdfmodel"
)

func newDocument(t *testing.T) *pdfmodel.Document {
	t.Helper()
	doc := pdfmodel.NewDocument(nil)
	doc.Metadata = pdfmodel.Metadata{
		Title:    "Invoice",
		Author:   "Accounting",
		Keywords: []string{"invoice"},
		Created:  time.Date(2016, 4, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := doc.Add(pdfmodel.Font{Name: "mono", File: pdfmodel.BuiltinPrefix + "go-mono"}); err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestWrite(t *testing.T) {
	doc := newDocument(t)
	for _, item := range []pdfmodel.Item{
		&pdfmodel.Text{Page: 1, Left: 40, Top: 40, Width: 200, Height: 40, Align: pdfmodel.AlignCenter,
			Font: "mono", Size: 10, Color: "000080", Value: "Hello, wörld"},
		&pdfmodel.Barcode{Page: 1, Left: 40, Top: 700, Width: 100, Height: 30,
			Bars: []pdfmodel.Bar{{Left: 10, Width: 1}, {Left: 13, Width: 2.25}}},
		&pdfmodel.Text{Page: 3, Left: 40, Top: 40, Font: "mono", Size: 10, Value: "third page"},
	} {
		if err := doc.Place(item); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := Write(&buf, doc, &Options{NoCompression: true, Producer: "pdftemplate test"}); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with %%PDF-: %q", buf.Bytes()[:min(buf.Len(), 16)])
	}
	if n := bytes.Count(buf.Bytes(), []byte("/Type /Page")) - bytes.Count(buf.Bytes(), []byte("/Type /Pages")); n != 3 {
		t.Errorf("%d pages written, want 3", n)
	}
	if !doc.Sealed() {
		t.Error("document not sealed after Write")
	}
	if err := Write(&buf, doc, nil); !errors.Is(err, ErrSealed) {
		t.Errorf("second Write: got %v, want ErrSealed", err)
	}
}

func TestWriteStrict(t *testing.T) {
	doc := newDocument(t)
	if err := doc.Place(&pdfmodel.Text{Page: 1, Left: 500, Top: 40, Width: 200, Height: 20,
		Font: "mono", Size: 10, Value: "off the edge"}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err := Write(&buf, doc, &Options{Strict: true})
	var oe *OverflowError
	if !errors.As(err, &oe) || oe.Index != 0 {
		t.Errorf("got %v, want OverflowError", err)
	}
	if doc.Sealed() {
		t.Error("failed Write sealed the document")
	}
}

func TestWriteMissingFontData(t *testing.T) {
	empty := pdfmodel.FontLoaderFunc(func(pdfmodel.Font) (*pdfmodel.FontData, error) {
		return &pdfmodel.FontData{}, nil
	})
	doc := pdfmodel.NewDocument(empty)
	font := pdfmodel.Font{Name: "ghost", File: "ghost.ttf"}
	if err := doc.Add(font); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err := Write(&buf, doc, nil)
	var fle *pdfmodel.FontLoadError
	if !errors.As(err, &fle) || fle.Font != font {
		t.Errorf("got %v, want FontLoadError for %v", err, font)
	}
}

// templatePDF returns a PDF of n pages, 300 by 400 points each.
func templatePDF(t *testing.T, n int) *bytes.Reader {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(false)
	pdf.SetFont("Helvetica", "", 12)
	for i := 1; i <= n; i++ {
		// Off the default size so every page carries its own media box.
		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: 300, Ht: 400})
		pdf.Text(20, 20, fmt.Sprintf("Form page %d", i))
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestWriteTemplate(t *testing.T) {
	doc := newDocument(t)
	for _, item := range []pdfmodel.Item{
		&pdfmodel.Text{Page: 1, Left: 20, Top: 60, Width: 200, Height: 20, Font: "mono", Size: 10, Value: "filled in"},
		&pdfmodel.Text{Page: 3, Left: 40, Top: 40, Font: "mono", Size: 10, Value: "past the template"},
	} {
		if err := doc.Place(item); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if err := Write(&buf, doc, &Options{NoCompression: true, Template: templatePDF(t, 2)}); err != nil {
		t.Fatal(err)
	}
	out := buf.Bytes()
	if n := bytes.Count(out, []byte("/Type /Page")) - bytes.Count(out, []byte("/Type /Pages")); n != 3 {
		t.Errorf("%d pages written, want 3", n)
	}
	if n := bytes.Count(out, []byte("/MediaBox [0 0 300.00 400.00]")); n != 2 {
		t.Errorf("%d pages have the template size, want 2", n)
	}
	if n := bytes.Count(out, []byte(" Do Q Q")); n != 2 {
		t.Errorf("template drawn on %d pages, want 2", n)
	}
}

func TestWriteTemplateStrict(t *testing.T) {
	doc := newDocument(t)
	// Inside A4 but not inside the 300x400 template page.
	if err := doc.Place(&pdfmodel.Text{Page: 1, Left: 250, Top: 40, Width: 100, Height: 20,
		Font: "mono", Size: 10, Value: "x"}); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	var oe *OverflowError
	if err := Write(&buf, doc, &Options{Strict: true, Template: templatePDF(t, 1)}); !errors.As(err, &oe) {
		t.Errorf("got %v, want OverflowError", err)
	}
}

func TestWriteBadTemplate(t *testing.T) {
	doc := newDocument(t)
	var buf bytes.Buffer
	err := Write(&buf, doc, &Options{Template: bytes.NewReader([]byte("not a PDF file"))})
	var te *TemplateError
	if !errors.As(err, &te) {
		t.Errorf("got %v, want TemplateError", err)
	}
	if doc.Sealed() {
		t.Error("failed Write sealed the document")
	}
}

func TestFitText(t *testing.T) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.AddUTF8FontFromBytes("mono", "", gomono.TTF)
	pdf.SetFont("mono", "", 10)
	// Go Mono glyphs are 0.6em wide: 6pt each at 10pt.
	cases := []struct {
		in    string
		w, h  float64
		lines []string
		fits  bool
	}{
		{"aaaa bbbb", 30, 0, []string{"aaaa", "bbbb"}, true},
		{"aaaa   bbbb cc", 40, 0, []string{"aaaa", "bbbb", "cc"}, true},
		{"one\ntwo", 100, 0, []string{"one", "two"}, true},
		{"aaaaaaaaaa", 30, 0, []string{"aaaaaaaaaa"}, false},
		{"aaaa bbbb", 30, 15, []string{"aaaa", "bbbb"}, false},
		{"aaaa bbbb", 30, 22, []string{"aaaa", "bbbb"}, true},
	}
	for _, tc := range cases {
		lines, fits := fitText(tc.in, pdf.GetStringWidth, tc.w, tc.h, 10, 12)
		if diff := cmp.Diff(tc.lines, lines); diff != "" {
			t.Errorf("%q: lines (-want +got):\n%s", tc.in, diff)
		}
		if fits != tc.fits {
			t.Errorf("%q: fits = %v, want %v", tc.in, fits, tc.fits)
		}
	}
}

func TestRGB(t *testing.T) {
	for in, want := range map[string][3]int{
		"000": {0, 0, 0}, "F00": {255, 0, 0}, "000080": {0, 0, 128}, "12abEF": {0x12, 0xab, 0xef}, "xyz": {0, 0, 0},
	} {
		r, g, b := rgb(in)
		if got := [3]int{r, g, b}; got != want {
			t.Errorf("rgb(%q) = %v, want %v", in, got, want)
		}
	}
}
