package pdftemplate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/rothskeller/pdftemplate/pdfmodel"
)

// A Factory builds FieldProviders from configuration.  Load styles and fonts
// first; after that the Factory is only read and may be shared.
type Factory struct {
	locale language.Tag
	styles map[string]TextStyle
	fonts  map[string]bool
}

// A FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithLocale sets the locale used by formatters.  The default is English.
func WithLocale(tag language.Tag) FactoryOption {
	return func(f *Factory) { f.locale = tag }
}

// WithFonts declares font names that styles may use.  When no fonts are
// declared, style fonts are not checked until merge time.
func WithFonts(names ...string) FactoryOption {
	return func(f *Factory) {
		for _, n := range names {
			f.fonts[n] = true
		}
	}
}

// NewFactory returns a Factory with no styles loaded.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{locale: language.English, styles: map[string]TextStyle{}, fonts: map[string]bool{}}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Locale returns the formatter locale.
func (f *Factory) Locale() language.Tag { return f.locale }

// TextStyle returns a loaded style by name.
func (f *Factory) TextStyle(name string) (TextStyle, bool) {
	s, ok := f.styles[name]
	return s, ok
}

// LoadTextStyles replaces the style table with the entries under namespace.
// Each entry is "font, size, lineHeight, color [| format]" and its name is the
// key with the namespace removed.  Full keys listed in excludes are skipped.
func (f *Factory) LoadTextStyles(conf Config, namespace string, excludes ...string) error {
	if strings.Trim(namespace, ".") == "" {
		return &ConfigurationError{Key: namespace, Err: errors.New("a style namespace is required")}
	}
	entries := entriesUnder(conf, namespace, excludes)
	if len(entries) == 0 {
		return &ConfigurationError{Key: namespace, Err: errors.New("no text styles defined")}
	}
	styles := make(map[string]TextStyle, len(entries))
	for _, e := range entries {
		style, err := ParseTextStyle(e.value)
		if err != nil {
			return &ConfigurationError{Key: e.key, Value: e.value, Err: err}
		}
		if len(f.fonts) != 0 && !f.fonts[style.Font] {
			return &ConfigurationError{Key: e.key, Value: e.value, Err: fmt.Errorf("font %q is not declared", style.Font)}
		}
		if style.Format != "" {
			if _, err = NewFormatter(style.Format, "", f.locale); err != nil {
				return &ConfigurationError{Key: e.key, Value: e.value, Err: err}
			}
		}
		styles[e.name] = style
	}
	f.styles = styles
	return nil
}

// LoadFonts reads font declarations under namespace, each of the form
// "file [, encoding [, embed]]", and declares their names to the factory.
// The fonts are returned in definition order, ready for Document.Add.
func (f *Factory) LoadFonts(conf Config, namespace string) (fonts []pdfmodel.Font, err error) {
	entries := entriesUnder(conf, namespace, nil)
	if len(entries) == 0 {
		return nil, &ConfigurationError{Key: namespace, Err: errors.New("no fonts defined")}
	}
	for _, e := range entries {
		parts := pairRE.Split(strings.TrimSpace(e.value), -1)
		if len(parts) > 3 || parts[0] == "" {
			return nil, &ConfigurationError{Key: e.key, Value: e.value, Err: errors.New("expected file [, encoding [, embed]]")}
		}
		font := pdfmodel.Font{Name: e.name, File: parts[0], Encoding: pdfmodel.IdentityH, Embed: true}
		if len(parts) > 1 && parts[1] != "" {
			font.Encoding = parts[1]
		}
		if len(parts) > 2 {
			if font.Embed, err = strconv.ParseBool(parts[2]); err != nil {
				return nil, &ConfigurationError{Key: e.key, Value: e.value, Err: fmt.Errorf("invalid embed flag %q", parts[2])}
			}
		}
		fonts = append(fonts, font)
		f.fonts[font.Name] = true
	}
	return fonts, nil
}

// CreateFieldProvider builds a provider from every entry under the namespace
// formed by joining segments with periods.  Fields keep definition order.
func (f *Factory) CreateFieldProvider(conf Config, segments ...string) (*FieldProvider, error) {
	return f.CreateFieldProviderExcluding(conf, strings.Join(segments, "."))
}

// CreateFieldProviderExcluding is CreateFieldProvider for a single namespace,
// skipping the full keys listed in excludes.  Excluded keys typically hold
// barcodes or other entries that are not text fields.
func (f *Factory) CreateFieldProviderExcluding(conf Config, namespace string, excludes ...string) (*FieldProvider, error) {
	if strings.Trim(namespace, ".") == "" {
		return nil, &ConfigurationError{Key: namespace, Err: errors.New("a field namespace is required")}
	}
	entries := entriesUnder(conf, namespace, excludes)
	if len(entries) == 0 {
		return nil, &ConfigurationError{Key: namespace, Err: errors.New("no fields defined")}
	}
	p := &FieldProvider{namespace: namespace, fields: make(map[string]Field, len(entries))}
	for _, e := range entries {
		fd, err := parseField(e.key, e.value, f.TextStyle)
		if err != nil {
			return nil, err
		}
		if len(f.fonts) != 0 && !f.fonts[fd.Style.Font] {
			return nil, &ConfigurationError{Key: e.key, Value: e.value, Err: fmt.Errorf("font %q is not declared", fd.Style.Font)}
		}
		if fd.Format, err = NewFormatter(fd.format, fd.ifNull, f.locale); err != nil {
			return nil, &ConfigurationError{Key: e.key, Value: e.value, Err: err}
		}
		fd.Name = e.name
		p.names = append(p.names, e.name)
		p.fields[e.name] = fd.Field
	}
	return p, nil
}
