// Package pdfbarcode encodes payload strings into one-dimensional barcode
// symbols.  A Codec validates a payload against its symbology's character
// set, derives the check digit when enabled, and produces an Image: a list of
// bars measured in modules (multiples of the narrow element width).  Placing
// the image on a page is the caller's job.
package pdfbarcode

import (
	"fmt"
	"strings"
)

// A Codec encodes payloads in one symbology.  Codecs are immutable values and
// may be shared freely.
type Codec interface {
	// Name returns the symbology name, e.g. "CODE-39".
	Name() string
	// CheckDigit returns whether the codec appends a check character.
	CheckDigit() bool
	// Validate reports whether the payload can be encoded, without
	// encoding it.
	Validate(payload string) error
	// Encode encodes the payload, including start/stop characters, the
	// check character (if enabled) and the quiet zones.
	Encode(payload string) (*Image, error)
}

// Bar is a single dark element of a symbol.  Position and Length are in
// modules, measured from the left edge of the quiet zone.
type Bar struct {
	Position float64
	Length   float64
}

// Image is the encoded geometry of a symbol.
type Image struct {
	// Size is the total width of the symbol in modules, quiet zones
	// included.
	Size float64
	// Bars lists the dark elements from left to right.
	Bars []Bar
	// Text is the human readable content: the payload followed by the check
	// character, if any.
	Text string
}

// draw appends an element of the given length; only bars are recorded.
func (img *Image) draw(bar bool, length float64) {
	if bar {
		img.Bars = append(img.Bars, Bar{Position: img.Size, Length: length})
	}
	img.Size += length
}

// Lookup returns the codec registered under name.  Recognized names are
// "code39", "code39+check", "itf" and "itf+check" (case insensitive; "-" and
// "_" are ignored, so "CODE-39" works too).
func Lookup(name string) (Codec, error) {
	key := strings.ToLower(name)
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	switch key {
	case "code39":
		return NewCode39().WithCheckDigit(false), nil
	case "code39+check":
		return NewCode39(), nil
	case "itf", "interleaved2of5":
		return NewITF().WithCheckDigit(false), nil
	case "itf+check", "interleaved2of5+check":
		return NewITF(), nil
	}
	return nil, &UnsupportedSymbologyError{Name: name}
}

// UnsupportedSymbologyError is returned for an unknown symbology name or a
// codec that cannot be stamped.
type UnsupportedSymbologyError struct {
	Name string
}

func (e *UnsupportedSymbologyError) Error() string {
	return fmt.Sprintf("unsupported barcode symbology %q", e.Name)
}

// InvalidPayloadError is returned when a payload violates the symbology's
// character set or length rules.
type InvalidPayloadError struct {
	Symbology string
	Payload   string
	Char      rune // offending character, or 0 for length problems
	Reason    string
}

func (e *InvalidPayloadError) Error() string {
	if e.Char != 0 {
		return fmt.Sprintf("%s: invalid character %q in payload %q", e.Symbology, e.Char, e.Payload)
	}
	return fmt.Sprintf("%s: invalid payload %q: %s", e.Symbology, e.Payload, e.Reason)
}

// CheckDigitError is returned when a payload cannot carry a check digit.
type CheckDigitError struct {
	Symbology string
	Payload   string
	Reason    string
}

func (e *CheckDigitError) Error() string {
	return fmt.Sprintf("%s: cannot compute check digit for %q: %s", e.Symbology, e.Payload, e.Reason)
}
