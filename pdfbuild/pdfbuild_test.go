package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/phpdave11/gofpdf"

	"github.com/rothskeller/pdftemplate/pdfmodel"
)

const testProperties = `
font.regular = builtin:go-regular
style.label = regular, 10, 12, 000
pitch.row = 14
header.title = 1: 40, 40: 300, 20: left: label
row.no = 1: 40, 100: 40, 12: right: label
row.name = 1: 90, 100: 200, 12: left: label
barcode.code = 1: 40, 760: 250, 40: fill | 0123456789
`

const testJob = `{
  "fonts": "font",
  "styles": "style",
  "metadata": {"title": "Test", "keywords": ["a", "b"]},
  "merges": [
    {"fields": "header", "values": {"title": "Report"}},
    {"fields": "row", "pitch": "pitch.row", "rows": [{"no": 1, "name": "one"}, {"no": 2, "name": "two"}]},
    {"fields": "row", "pitch": 20, "y": 300, "rows": [{"no": 3}]},
    {"barcode": "barcode.code", "symbology": "code39+check"}
  ]
}`

func TestRun(t *testing.T) {
	dir := t.TempDir()
	props, jobf := filepath.Join(dir, "test.properties"), filepath.Join(dir, "job.json")
	if err := os.WriteFile(props, []byte(testProperties), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jobf, []byte(testJob), 0o644); err != nil {
		t.Fatal(err)
	}
	*outFile = filepath.Join(dir, "out.pdf")
	*modelFile = filepath.Join(dir, "out.xml")
	defer func() { *outFile, *modelFile = "", "" }()
	if err := run(props, jobf); err != nil {
		t.Fatal(err)
	}
	pdf, err := os.ReadFile(*outFile)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
	fh, err := os.Open(*modelFile)
	if err != nil {
		t.Fatal(err)
	}
	defer fh.Close()
	doc, err := pdfmodel.ReadXML(fh, nil)
	if err != nil {
		t.Fatal(err)
	}
	// 1 header field, 2 rows of 2, 1 row of 1, 1 barcode
	if doc.Len() != 7 {
		t.Errorf("model has %d items, want 7", doc.Len())
	}
	items := doc.Items()
	if top := items[3].(*pdfmodel.Text).Top; top != 114 {
		t.Errorf("second row at %v, want 114", top)
	}
	if top := items[5].(*pdfmodel.Text).Top; top != 400 {
		t.Errorf("third merge at %v, want 400", top)
	}
	if doc.Metadata.Title != "Test" || len(doc.Metadata.Keywords) != 2 {
		t.Errorf("metadata %+v", doc.Metadata)
	}
}

func TestRunTemplate(t *testing.T) {
	dir := t.TempDir()
	props, jobf := filepath.Join(dir, "test.properties"), filepath.Join(dir, "job.json")
	if err := os.WriteFile(props, []byte(testProperties), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(jobf, []byte(testJob), 0o644); err != nil {
		t.Fatal(err)
	}
	form := gofpdf.New("P", "pt", "A4", "")
	form.SetFont("Helvetica", "", 12)
	for _, label := range []string{"Form 1", "Form 2"} {
		form.AddPageFormat("P", gofpdf.SizeType{Wd: 612, Ht: 792})
		form.Text(40, 30, label)
	}
	*tmplFile = filepath.Join(dir, "form.pdf")
	if err := form.OutputFileAndClose(*tmplFile); err != nil {
		t.Fatal(err)
	}
	*outFile = filepath.Join(dir, "out.pdf")
	defer func() { *outFile, *tmplFile = "", "" }()
	if err := run(props, jobf); err != nil {
		t.Fatal(err)
	}
	pdf, err := os.ReadFile(*outFile)
	if err != nil {
		t.Fatal(err)
	}
	if n := bytes.Count(pdf, []byte("/MediaBox [0 0 612.00 792.00]")); n != 2 {
		t.Errorf("%d pages take the form's size, want 2", n)
	}
	*tmplFile = filepath.Join(dir, "missing.pdf")
	if err = run(props, jobf); err == nil {
		t.Error("missing template: no error")
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	props := filepath.Join(dir, "test.properties")
	if err := os.WriteFile(props, []byte(testProperties), 0o644); err != nil {
		t.Fatal(err)
	}
	*outFile = filepath.Join(dir, "out.pdf")
	defer func() { *outFile = "" }()
	for name, j := range map[string]string{
		"unknown field": `{"bogus": 1}`,
		"no pitch":      `{"fonts": "font", "styles": "style", "merges": [{"fields": "row", "rows": [{}]}]}`,
		"empty merge":   `{"merges": [{}]}`,
		"no fonts":      `{"styles": "style", "merges": [{"fields": "header", "values": {"title": "x"}}]}`,
	} {
		jobf := filepath.Join(dir, "job.json")
		if err := os.WriteFile(jobf, []byte(j), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := run(props, jobf); err == nil {
			t.Errorf("%s: no error", name)
		}
	}
}
