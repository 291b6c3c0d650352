package pdftemplate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rothskeller/pdftemplate/pdfbarcode"
	"github.com/rothskeller/pdftemplate/pdfmodel"
)

// A BarcodeStamper places a barcode symbol in a box on a page.  It is
// configured with a layout of the form
//
//	page: left, top: width, height: align: module [, color] [| payload]
//	page: left, top: width, height: fill [: color] [| payload]
//
// where align is left, center or right and module is the narrow bar width in
// points.  A "fill" symbol is stretched to the width of the box.  The
// optional payload is used when the value supplied at merge time is empty.
type BarcodeStamper struct {
	codec   pdfbarcode.Codec
	page    int
	left    float64
	top     float64
	width   float64
	height  float64
	align   pdfmodel.Horizontal
	fill    bool
	module  float64
	color   string
	payload string
}

// ParseBarcode builds a stamper for codec from layout.  A nil codec is an
// *pdfbarcode.UnsupportedSymbologyError, a default payload the codec rejects
// is returned as the codec's error, and a malformed layout is a
// *ConfigurationError.
func ParseBarcode(codec pdfbarcode.Codec, layout string) (s BarcodeStamper, err error) {
	if codec == nil {
		return s, &pdfbarcode.UnsupportedSymbologyError{Name: "<nil>"}
	}
	s.codec, s.color = codec, "000"
	bad := func(err error) (BarcodeStamper, error) {
		return BarcodeStamper{}, &ConfigurationError{Key: "barcode", Value: layout, Err: err}
	}
	def, payload, _ := strings.Cut(layout, "|")
	s.payload = strings.TrimSpace(payload)
	parts := partRE.Split(strings.TrimSpace(def), -1)
	if len(parts) < 4 || len(parts) > 5 {
		return bad(fmt.Errorf("expected page: left, top: width, height: align: module, got %d parts", len(parts)))
	}
	if s.page, err = strconv.Atoi(parts[0]); err != nil || s.page < 1 {
		return bad(fmt.Errorf("invalid page %q", parts[0]))
	}
	if s.left, s.top, err = parsePair(parts[1]); err != nil {
		return bad(err)
	}
	if s.width, s.height, err = parsePair(parts[2]); err != nil {
		return bad(err)
	}
	if s.width <= 0 || s.height <= 0 {
		return bad(errors.New("barcode box must have a positive size"))
	}
	if strings.EqualFold(parts[3], "fill") {
		s.fill = true
	} else if s.align, err = pdfmodel.ParseHorizontal(parts[3]); err != nil || s.align == pdfmodel.AlignDefault {
		return bad(fmt.Errorf("invalid barcode alignment %q", parts[3]))
	}
	switch {
	case s.fill && len(parts) == 5:
		if err = checkColor(parts[4]); err != nil {
			return bad(err)
		}
		s.color = parts[4]
	case s.fill:
	case len(parts) == 5:
		opts := pairRE.Split(parts[4], -1)
		if len(opts) > 2 {
			return bad(fmt.Errorf("expected module [, color], got %q", parts[4]))
		}
		if s.module, err = strconv.ParseFloat(opts[0], 64); err != nil || s.module <= 0 {
			return bad(fmt.Errorf("invalid module size %q", opts[0]))
		}
		if len(opts) == 2 {
			if err = checkColor(opts[1]); err != nil {
				return bad(err)
			}
			s.color = opts[1]
		}
	default:
		return bad(errors.New("module size is required unless the barcode fills its box"))
	}
	if s.payload != "" {
		if err = codec.Validate(s.payload); err != nil {
			return BarcodeStamper{}, err
		}
	}
	return s, nil
}

// ParseBarcodeNamed is ParseBarcode with the codec looked up by symbology
// name.
func ParseBarcodeNamed(symbology, layout string) (BarcodeStamper, error) {
	codec, err := pdfbarcode.Lookup(symbology)
	if err != nil {
		return BarcodeStamper{}, err
	}
	return ParseBarcode(codec, layout)
}

// Codec returns the stamper's codec.
func (s BarcodeStamper) Codec() pdfbarcode.Codec { return s.codec }

// Payload returns the default payload.
func (s BarcodeStamper) Payload() string { return s.payload }

// Merge places the symbol for payload, or for the default payload when
// payload is empty.  When both are empty nothing is placed.
func (s BarcodeStamper) Merge(doc *pdfmodel.Document, payload string) error {
	return s.MergeAt(0, 0, doc, payload)
}

// MergeValue merges the value called name, formatted with fmt.Sprint.  An
// absent or nil value falls back to the default payload.
func (s BarcodeStamper) MergeValue(x, y float64, doc *pdfmodel.Document, values Values, name string) error {
	var payload string
	if values == nil {
		values = NoValues
	}
	if v, ok := values.Get(name); ok && v != nil {
		payload = fmt.Sprint(v)
	}
	return s.MergeAt(x, y, doc, payload)
}

// MergeAt is Merge with the box shifted by (x, y).
func (s BarcodeStamper) MergeAt(x, y float64, doc *pdfmodel.Document, payload string) error {
	if payload == "" {
		payload = s.payload
	}
	if payload == "" {
		return nil
	}
	img, err := s.codec.Encode(payload)
	if err != nil {
		return err
	}
	item, err := s.layout(img)
	if err != nil {
		return err
	}
	item.Left += x
	item.Top += y
	return doc.Place(item)
}

// layout scales img into the stamper's box.  Bar positions are relative to
// the left edge of the box.
func (s BarcodeStamper) layout(img *pdfbarcode.Image) (*pdfmodel.Barcode, error) {
	var offset, scale float64
	if s.fill {
		scale = s.width / img.Size
	} else {
		scale = s.module
		switch slack := s.width - img.Size*scale; s.align {
		case pdfmodel.AlignCenter:
			offset = slack / 2
		case pdfmodel.AlignRight:
			offset = slack
		}
		if img.Size*scale > s.width {
			return nil, fmt.Errorf("barcode %q is %.1fpt wide, box is %.1fpt", img.Text, img.Size*scale, s.width)
		}
	}
	b := &pdfmodel.Barcode{
		Page:      s.page,
		Left:      s.left,
		Top:       s.top,
		Width:     s.width,
		Height:    s.height,
		Color:     s.color,
		Symbology: s.codec.Name(),
		Text:      img.Text,
		Bars:      make([]pdfmodel.Bar, len(img.Bars)),
	}
	for i, bar := range img.Bars {
		b.Bars[i] = pdfmodel.Bar{Left: offset + bar.Position*scale, Width: bar.Length * scale}
	}
	return b, nil
}
