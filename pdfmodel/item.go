package pdfmodel

import (
	"fmt"
	"strings"

	"seehuhn.de/go/geom/rect"
)

// An Item is a piece of content placed on a page.  Coordinates are in points
// with the origin at the top left corner of the page and y growing downward.
type Item interface {
	// PageNumber returns the 1-based page the item is drawn on.
	PageNumber() int
	// FontName returns the logical font the item uses, or "" if it draws
	// no text.
	FontName() string
	// Bounds returns the item's box.  LLx/LLy hold the top left corner and
	// URx/URy the bottom right corner, in page coordinates.
	Bounds() rect.Rect
}

// Horizontal is a horizontal alignment within a box.
type Horizontal int

// Values for Horizontal.
const (
	AlignDefault Horizontal = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// ParseHorizontal parses "left", "center" or "right" in any case.  An empty
// string yields AlignDefault.
func ParseHorizontal(s string) (Horizontal, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return AlignDefault, nil
	case "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignDefault, fmt.Errorf("invalid horizontal alignment %q", s)
}

func (h Horizontal) String() string {
	switch h {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return ""
}

func (h Horizontal) MarshalText() ([]byte, error) { return []byte(h.String()), nil }

func (h *Horizontal) UnmarshalText(b []byte) (err error) {
	*h, err = ParseHorizontal(string(b))
	return err
}

// Text is a run of text laid out in a box.  Leading is the distance between
// baselines; zero means the font size.  Color is 3 or 6 hex digits; empty
// means black.
type Text struct {
	Page    int
	Left    float64
	Top     float64
	Width   float64
	Height  float64
	Leading float64
	Align   Horizontal
	Font    string
	Size    float64
	Color   string
	Value   string
}

func (t *Text) PageNumber() int  { return t.Page }
func (t *Text) FontName() string { return t.Font }
func (t *Text) Bounds() rect.Rect {
	return rect.Rect{LLx: t.Left, LLy: t.Top, URx: t.Left + t.Width, URy: t.Top + t.Height}
}

// Bar is one dark bar of a barcode, in page units relative to the barcode's
// left edge.
type Bar struct {
	Left  float64
	Width float64
}

// Barcode is an encoded barcode symbol.  All bars share the barcode's top and
// height.
type Barcode struct {
	Page      int
	Left      float64
	Top       float64
	Width     float64
	Height    float64
	Color     string
	Symbology string
	Text      string
	Bars      []Bar
}

func (b *Barcode) PageNumber() int  { return b.Page }
func (b *Barcode) FontName() string { return "" }
func (b *Barcode) Bounds() rect.Rect {
	return rect.Rect{LLx: b.Left, LLy: b.Top, URx: b.Left + b.Width, URy: b.Top + b.Height}
}
