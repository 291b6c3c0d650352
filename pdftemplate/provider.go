package pdftemplate

import (
	"fmt"

	"github.com/rothskeller/pdftemplate/pdfmodel"
)

// A FieldProvider is an ordered, immutable set of fields from one
// configuration namespace.  It may be merged any number of times, from any
// number of goroutines, as long as each goroutine merges into its own
// Document.
type FieldProvider struct {
	namespace string
	names     []string
	fields    map[string]Field
}

// A FieldVisitor may adjust a field just before it is merged with value.
type FieldVisitor func(name string, field Field, value any) Field

// Namespace returns the configuration namespace the fields came from.
func (p *FieldProvider) Namespace() string { return p.namespace }

// Len returns the number of fields.
func (p *FieldProvider) Len() int { return len(p.names) }

// Names returns the field names in merge order.
func (p *FieldProvider) Names() []string {
	return append([]string(nil), p.names...)
}

// Field returns the named field.
func (p *FieldProvider) Field(name string) (Field, bool) {
	f, ok := p.fields[name]
	return f, ok
}

// Merge places every field with a value into doc at the configured
// positions.
func (p *FieldProvider) Merge(doc *pdfmodel.Document, values Values) error {
	return p.MergeVisit(0, 0, doc, values, nil)
}

// MergeAt is Merge with every field shifted by (x, y).
func (p *FieldProvider) MergeAt(x, y float64, doc *pdfmodel.Document, values Values) error {
	return p.MergeVisit(x, y, doc, values, nil)
}

// MergeVisit is MergeAt with a visitor called for every field that has a
// value.  visit may be nil.
//
// Fields are placed in definition order.  Fields whose value is absent are
// skipped; nil values render the field's if-null text.  If any field's font
// is not registered in doc, nothing is placed and an
// *pdfmodel.UnregisteredFontError is returned.
func (p *FieldProvider) MergeVisit(x, y float64, doc *pdfmodel.Document, values Values, visit FieldVisitor) error {
	for _, name := range p.names {
		if font := p.fields[name].Style.Font; !doc.HasFont(font) {
			return fmt.Errorf("field %s: %w", p.fields[name].Key, &pdfmodel.UnregisteredFontError{Font: font})
		}
	}
	if values == nil {
		values = NoValues
	}
	for _, name := range p.names {
		value, ok := values.Get(name)
		if !ok {
			continue
		}
		field := p.fields[name]
		if visit != nil {
			field = visit(name, field, value)
		}
		text, err := field.Text(value)
		if err != nil {
			return fmt.Errorf("field %s: %w", field.Key, err)
		}
		if err = doc.Place(field.Item(x, y, text)); err != nil {
			return fmt.Errorf("field %s: %w", field.Key, err)
		}
	}
	return nil
}
