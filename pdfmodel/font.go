package pdfmodel

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/glyf"
)

// IdentityH is the only supported text encoding: two-byte glyph identifiers,
// horizontal writing.
const IdentityH = "Identity-H"

// BuiltinPrefix marks a font file reference that names one of the Go fonts
// compiled into the program instead of a file on disk.
const BuiltinPrefix = "builtin:"

var builtinFonts = map[string][]byte{
	"go-regular":   goregular.TTF,
	"go-bold":      gobold.TTF,
	"go-italic":    goitalic.TTF,
	"go-mono":      gomono.TTF,
	"go-mono-bold": gomonobold.TTF,
}

// A Font is a font registered with a document under a logical name.
type Font struct {
	Name     string // logical name referenced by styles
	File     string // file path, or BuiltinPrefix + name
	Encoding string // text encoding; empty means IdentityH
	Embed    bool   // embed the complete glyph set rather than a subset
}

// FontData is the result of loading a font file.
type FontData struct {
	Data       []byte
	Family     string
	Subfamily  string
	Glyphs     int
	UnitsPerEm uint16
}

// A FontLoader reads and checks the file behind a Font.
type FontLoader interface {
	LoadFont(font Font) (*FontData, error)
}

// FontLoaderFunc adapts a function to the FontLoader interface.
type FontLoaderFunc func(font Font) (*FontData, error)

func (f FontLoaderFunc) LoadFont(font Font) (*FontData, error) { return f(font) }

// SFNTLoader loads TrueType fonts from disk or from the builtin Go fonts.
// Relative paths are resolved against Dir.  Fonts with CFF outlines are
// rejected since the serializer can only embed glyf outlines.
type SFNTLoader struct {
	Dir string
}

// DefaultLoader is the loader used by NewDocument(nil).
var DefaultLoader FontLoader = SFNTLoader{}

func (l SFNTLoader) LoadFont(font Font) (fd *FontData, err error) {
	var (
		data []byte
		info *sfnt.Font
	)
	if font.Encoding != "" && font.Encoding != IdentityH {
		return nil, &FontLoadError{Font: font, Err: fmt.Errorf("unsupported encoding %q", font.Encoding)}
	}
	if name, ok := strings.CutPrefix(font.File, BuiltinPrefix); ok {
		if data = builtinFonts[name]; data == nil {
			return nil, &FontLoadError{Font: font, Err: errors.New("no such builtin font")}
		}
	} else {
		path := font.File
		if !filepath.IsAbs(path) && l.Dir != "" {
			path = filepath.Join(l.Dir, path)
		}
		if data, err = os.ReadFile(path); err != nil {
			return nil, &FontLoadError{Font: font, Err: err}
		}
	}
	if info, err = sfnt.Read(bytes.NewReader(data)); err != nil {
		return nil, &FontLoadError{Font: font, Err: fmt.Errorf("parsing font: %s", err)}
	}
	if _, ok := info.Outlines.(*glyf.Outlines); !ok {
		return nil, &FontLoadError{Font: font, Err: errors.New("font does not have TrueType outlines")}
	}
	return &FontData{
		Data:       data,
		Family:     info.FamilyName,
		Subfamily:  info.Subfamily(),
		Glyphs:     info.NumGlyphs(),
		UnitsPerEm: info.UnitsPerEm,
	}, nil
}

// BuiltinFonts returns the names accepted after BuiltinPrefix.
func BuiltinFonts() []string {
	return []string{"go-bold", "go-italic", "go-mono", "go-mono-bold", "go-regular"}
}
