// Package pdfmodel holds the document model that template merges write into:
// an ordered list of registered fonts and an ordered list of placed content
// items.  The model knows nothing about the PDF file format; it is handed to a
// serializer (see pdfrender) once all merges are done.
//
// A Document enforces one invariant: every item that names a font must name
// a font that was added before the item was placed.  Documents are not safe
// for concurrent mutation.
package pdfmodel

import (
	"errors"
	"fmt"
	"time"
)

// Version is the model version written to persisted documents.
const Version = 1

// Metadata is document level information passed through to the serializer.
type Metadata struct {
	Title    string
	Author   string
	Subject  string
	Keywords []string
	Creator  string
	Created  time.Time
}

// A Document accumulates fonts and content items.
type Document struct {
	Version  int
	Metadata Metadata

	loader FontLoader
	fonts  []Font
	data   map[string]*FontData
	items  []Item
	sealed bool
}

// NewDocument returns an empty document.  Fonts added to it are loaded with
// loader; a nil loader means DefaultLoader.
func NewDocument(loader FontLoader) *Document {
	if loader == nil {
		loader = DefaultLoader
	}
	return &Document{Version: Version, loader: loader, data: make(map[string]*FontData)}
}

// ErrSealed is returned when a document is modified after it was serialized.
var ErrSealed = errors.New("document has already been serialized")

// Add registers a font.  The font file is loaded immediately, so embedding
// problems surface here as a *FontLoadError rather than at serialization.
func (d *Document) Add(font Font) (err error) {
	var fd *FontData

	if d.sealed {
		return ErrSealed
	}
	if font.Name == "" {
		return &FontLoadError{Font: font, Err: errors.New("font has no name")}
	}
	if _, ok := d.data[font.Name]; ok {
		return &DuplicateFontError{Name: font.Name}
	}
	if fd, err = d.loader.LoadFont(font); err != nil {
		var fle *FontLoadError
		if errors.As(err, &fle) {
			return err
		}
		return &FontLoadError{Font: font, Err: err}
	}
	d.fonts = append(d.fonts, font)
	d.data[font.Name] = fd
	return nil
}

// Place appends a content item.  It is called by template merges; the item
// must only reference registered fonts.  Items are kept in call order and
// later items draw over earlier ones.
func (d *Document) Place(item Item) error {
	if d.sealed {
		return ErrSealed
	}
	if item == nil {
		return errors.New("cannot place a nil item")
	}
	if p := item.PageNumber(); p < 1 {
		return fmt.Errorf("item page %d is not a valid page number", p)
	}
	if name := item.FontName(); name != "" {
		if _, ok := d.data[name]; !ok {
			return &UnregisteredFontError{Font: name}
		}
	}
	d.items = append(d.items, item)
	return nil
}

// HasFont returns whether a font with the given name has been added.
func (d *Document) HasFont(name string) bool {
	_, ok := d.data[name]
	return ok
}

// Fonts returns the registered fonts in registration order.
func (d *Document) Fonts() []Font {
	return append([]Font(nil), d.fonts...)
}

// FontData returns the loaded data for the named font, or nil.
func (d *Document) FontData(name string) *FontData {
	return d.data[name]
}

// Items returns the placed items in placement order.  The items themselves
// are shared with the document and must not be modified.
func (d *Document) Items() []Item {
	return append([]Item(nil), d.items...)
}

// Len returns the number of placed items.
func (d *Document) Len() int {
	return len(d.items)
}

// Pages returns the highest page number referenced by any item, or zero for
// an empty document.
func (d *Document) Pages() (pages int) {
	for _, item := range d.items {
		pages = max(pages, item.PageNumber())
	}
	return pages
}

// Seal marks the document as consumed by a serializer.  A sealed document
// rejects further fonts and items.
func (d *Document) Seal() { d.sealed = true }

// Sealed returns whether Seal has been called.
func (d *Document) Sealed() bool { return d.sealed }

// Validate checks that every font reference resolves.  It only fails for
// documents whose items were constructed outside of Place.
func (d *Document) Validate() error {
	for i, item := range d.items {
		if name := item.FontName(); name != "" && !d.HasFont(name) {
			return fmt.Errorf("item %d: %w", i, &UnregisteredFontError{Font: name})
		}
	}
	return nil
}

// DuplicateFontError is returned by Add for a font name that is already
// registered.
type DuplicateFontError struct {
	Name string
}

func (e *DuplicateFontError) Error() string {
	return fmt.Sprintf("font %q is already registered", e.Name)
}

// UnregisteredFontError is returned by Place for an item whose font was never
// added to the document.
type UnregisteredFontError struct {
	Font string
}

func (e *UnregisteredFontError) Error() string {
	return fmt.Sprintf("font %q is not registered in the document", e.Font)
}

// FontLoadError is returned by Add when the font file cannot be loaded or
// embedded.
type FontLoadError struct {
	Font Font
	Err  error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("loading font %q from %q: %s", e.Font.Name, e.Font.File, e.Err)
}

func (e *FontLoadError) Unwrap() error { return e.Err }
