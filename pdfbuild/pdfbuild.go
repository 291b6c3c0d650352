// pdfbuild merges the values in a JSON job file into the field templates of a
// properties file and writes the resulting PDF.
//
//	usage: pdfbuild [-o out.pdf] [-model out.xml] [-template form.pdf] [-locale tag] [-v] properties job.json
//
// The job file names the font and style namespaces to load and lists the
// merges to perform, in order:
//
//	{
//	  "fonts": "font",
//	  "styles": "style",
//	  "metadata": {"title": "Invoice", "author": "Accounting"},
//	  "merges": [
//	    {"fields": "header", "values": {"title": "Invoice", "date": "2016-04-01"}},
//	    {"fields": "row", "pitch": "pitch.row", "rows": [{"no": 1}, {"no": 2}]},
//	    {"barcode": "barcode.code", "symbology": "code39+check", "payload": "0123456789"}
//	  ]
//	}
//
// Rows are merged at increasing vertical offsets of the pitch, a number or
// the configuration key of one.  With -template the merged values are drawn
// over the pages of an existing PDF.  Without -o the PDF is written to
// standard output, which must not be a terminal.
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/rothskeller/pdftemplate/pdfmodel"
	"github.com/rothskeller/pdftemplate/pdfrender"
	"github.com/rothskeller/pdftemplate/pdftemplate"
)

type job struct {
	Fonts    string   `json:"fonts"`
	Styles   string   `json:"styles"`
	Metadata metadata `json:"metadata"`
	Merges   []merge  `json:"merges"`
}

type metadata struct {
	Title    string    `json:"title"`
	Author   string    `json:"author"`
	Subject  string    `json:"subject"`
	Keywords []string  `json:"keywords"`
	Creator  string    `json:"creator"`
	Created  time.Time `json:"created"`
}

type merge struct {
	Fields    string           `json:"fields"`
	Exclude   []string         `json:"exclude"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	Values    map[string]any   `json:"values"`
	Rows      []map[string]any `json:"rows"`
	Pitch     json.RawMessage  `json:"pitch"`
	Barcode   string           `json:"barcode"`
	Symbology string           `json:"symbology"`
	Payload   string           `json:"payload"`
}

var (
	outFile   = flag.String("o", "", "write the PDF to `file` instead of standard output")
	modelFile = flag.String("model", "", "also write the document model as XML to `file`")
	tmplFile  = flag.String("template", "", "draw over the pages of the PDF `file`")
	locale    = flag.String("locale", "en", "formatting locale `tag`")
	verbose   = flag.Bool("v", false, "log progress")
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: pdfbuild [-o out.pdf] [-model out.xml] [-template form.pdf] [-locale tag] [-v] properties job.json\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	if *outFile == "" && term.IsTerminal(int(os.Stdout.Fd())) {
		log.Fatal("[ERROR] refusing to write PDF to a terminal; use -o")
	}
	if err := run(flag.Arg(0), flag.Arg(1)); err != nil {
		log.Fatalf("[ERROR] %s", err)
	}
}

func run(propsFile, jobFile string) (err error) {
	var (
		j    job
		doc  *pdfmodel.Document
		conf pdftemplate.Config
		buf  bytes.Buffer
	)
	tag, err := language.Parse(*locale)
	if err != nil {
		return fmt.Errorf("locale %q: %w", *locale, err)
	}
	if j, err = readJob(jobFile); err != nil {
		return err
	}
	if conf, err = pdftemplate.LoadConfig(propsFile); err != nil {
		return err
	}
	factory := pdftemplate.NewFactory(pdftemplate.WithLocale(tag))
	doc = pdfmodel.NewDocument(pdfmodel.SFNTLoader{Dir: filepath.Dir(propsFile)})
	doc.Metadata = pdfmodel.Metadata(j.Metadata)
	if j.Fonts != "" {
		fonts, err := factory.LoadFonts(conf, j.Fonts)
		if err != nil {
			return err
		}
		for _, f := range fonts {
			if err = doc.Add(f); err != nil {
				return err
			}
			logf("added font %s from %s", f.Name, f.File)
		}
	}
	if j.Styles != "" {
		if err = factory.LoadTextStyles(conf, j.Styles); err != nil {
			return err
		}
	}
	for i, m := range j.Merges {
		if err = apply(factory, conf, doc, m); err != nil {
			return fmt.Errorf("merge %d: %w", i, err)
		}
	}
	logf("document has %d items on %d pages", doc.Len(), doc.Pages())
	if *modelFile != "" {
		if err = writeModel(doc, *modelFile); err != nil {
			return err
		}
	}
	opts := &pdfrender.Options{Producer: "pdfbuild"}
	if *tmplFile != "" {
		fh, err := os.Open(*tmplFile)
		if err != nil {
			return err
		}
		defer fh.Close()
		opts.Template = fh
		logf("drawing over %s", *tmplFile)
	}
	if err = pdfrender.Write(&buf, doc, opts); err != nil {
		return err
	}
	if *outFile == "" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}
	if err = os.WriteFile(*outFile, buf.Bytes(), 0o666); err != nil {
		return err
	}
	logf("wrote %s (%d bytes)", *outFile, buf.Len())
	return nil
}

func readJob(name string) (j job, err error) {
	fh, err := os.Open(name)
	if err != nil {
		return j, err
	}
	defer fh.Close()
	dec := json.NewDecoder(fh)
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err = dec.Decode(&j); err != nil {
		return j, fmt.Errorf("%s: %w", name, err)
	}
	return j, nil
}

func apply(factory *pdftemplate.Factory, conf pdftemplate.Config, doc *pdfmodel.Document, m merge) error {
	if m.Barcode != "" {
		layout, err := pdftemplate.ConfigString(conf, m.Barcode)
		if err != nil {
			return err
		}
		stamper, err := pdftemplate.ParseBarcodeNamed(m.Symbology, layout)
		if err != nil {
			return err
		}
		logf("stamping %s barcode %s", stamper.Codec().Name(), m.Barcode)
		return stamper.MergeAt(m.X, m.Y, doc, m.Payload)
	}
	if m.Fields == "" {
		return errors.New("merge names neither fields nor a barcode")
	}
	provider, err := factory.CreateFieldProviderExcluding(conf, m.Fields, m.Exclude...)
	if err != nil {
		return err
	}
	if m.Rows == nil {
		logf("merging %s (%d fields)", m.Fields, provider.Len())
		return provider.MergeAt(m.X, m.Y, doc, pdftemplate.ValueMap(m.Values))
	}
	pitch, err := pitchOf(conf, m.Pitch)
	if err != nil {
		return err
	}
	logf("merging %d rows of %s at pitch %g", len(m.Rows), m.Fields, pitch)
	for i, row := range m.Rows {
		if err = provider.MergeAt(m.X, m.Y+pitch*float64(i), doc, pdftemplate.ValueMap(row)); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

// pitchOf reads a row pitch given either as a number or as a configuration
// key.
func pitchOf(conf pdftemplate.Config, raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, errors.New("rows need a pitch")
	}
	var key string
	if err := json.Unmarshal(raw, &key); err != nil {
		return strconv.ParseFloat(string(raw), 64)
	}
	return pdftemplate.ConfigFloat(conf, key)
}

func writeModel(doc *pdfmodel.Document, name string) (err error) {
	var fh *os.File
	if fh, err = os.Create(name); err != nil {
		return err
	}
	if err = doc.WriteXML(fh); err != nil {
		fh.Close()
		return err
	}
	if err = fh.Close(); err != nil {
		return err
	}
	logf("wrote document model %s", name)
	return nil
}

func logf(format string, args ...any) {
	if *verbose {
		log.Printf("[INFO] "+format, args...)
	}
}
