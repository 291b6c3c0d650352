// Package pdftemplate merges named data values into field templates loaded
// from property files and writes the result into a pdfmodel.Document.
//
// A Factory reads text styles and field definitions from configuration and
// returns FieldProviders.  A FieldProvider is an immutable, ordered group of
// fields sharing one configuration namespace; merging it with a Values source
// places one text item per field whose value is present.  Merging the same
// provider at increasing offsets is how table rows are produced.  Barcodes
// are merged through a BarcodeStamper.
//
// Field definitions have the form
//
//	page: left, top: width, height: align: style [| format [| ifNull]]
//
// where style is either the name of a style loaded with LoadTextStyles or an
// inline "font, size, lineHeight, color" list.
package pdftemplate

// Values supplies values by name during a merge.  Get returns ok == false
// when the name has no value; the field is then skipped.  A present nil value
// renders the field's if-null text.
type Values interface {
	Get(name string) (value any, ok bool)
}

// ValueMap is a Values backed by a map.
type ValueMap map[string]any

func (m ValueMap) Get(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// ValueFunc adapts a function to the Values interface.
type ValueFunc func(name string) (any, bool)

func (f ValueFunc) Get(name string) (any, bool) { return f(name) }

// NoValues has no values at all.
var NoValues Values = ValueMap(nil)
