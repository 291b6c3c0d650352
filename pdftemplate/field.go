package pdftemplate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rothskeller/pdftemplate/pdfmodel"
)

// A Field is one placeable text value: where it goes, how it looks, and how
// its value becomes text.  Coordinates are in points from the top left of the
// page.
type Field struct {
	Key    string // configuration key the field was defined by
	Name   string // value name looked up at merge time
	Page   int
	Left   float64
	Top    float64
	Width  float64
	Height float64
	Align  pdfmodel.Horizontal
	Style  TextStyle
	Format *Formatter
}

// Text renders value with the field's formatter.
func (f Field) Text(value any) (string, error) {
	return f.Format.Format(value)
}

// Item returns the text item for f merged at offset (x, y).
func (f Field) Item(x, y float64, text string) *pdfmodel.Text {
	return &pdfmodel.Text{
		Page:    f.Page,
		Left:    f.Left + x,
		Top:     f.Top + y,
		Width:   f.Width,
		Height:  f.Height,
		Leading: f.Style.LineHeight,
		Align:   f.Align,
		Font:    f.Style.Font,
		Size:    f.Style.Size,
		Color:   f.Style.Color,
		Value:   text,
	}
}

var (
	sectionRE = regexp.MustCompile(`\s*\|\s*`)
	partRE    = regexp.MustCompile(`\s*:\s*`)
	pairRE    = regexp.MustCompile(`\s*,\s*`)
)

// styleLookup resolves a style name.
type styleLookup func(name string) (TextStyle, bool)

// fieldDef is a field definition before its formatter is built.
type fieldDef struct {
	Field
	format string
	ifNull string
}

// parseField parses "page: left, top: width, height: align: style
// [| format [| ifNull]]".
func parseField(key, def string, styles styleLookup) (fd fieldDef, err error) {
	fd.Key = key
	sections := sectionRE.Split(strings.TrimSpace(def), 3)
	parts := partRE.Split(sections[0], -1)
	if len(parts) != 5 {
		return fd, &ConfigurationError{Key: key, Value: def,
			Err: fmt.Errorf("expected page: left, top: width, height: align: style, got %d parts", len(parts))}
	}
	if fd.Page, err = strconv.Atoi(parts[0]); err != nil || fd.Page < 1 {
		return fd, &ConfigurationError{Key: key, Value: def, Err: fmt.Errorf("invalid page %q", parts[0])}
	}
	if fd.Left, fd.Top, err = parsePair(parts[1]); err != nil {
		return fd, &ConfigurationError{Key: key, Value: def, Err: fmt.Errorf("position: %w", err)}
	}
	if fd.Width, fd.Height, err = parsePair(parts[2]); err != nil {
		return fd, &ConfigurationError{Key: key, Value: def, Err: fmt.Errorf("size: %w", err)}
	}
	if fd.Align, err = pdfmodel.ParseHorizontal(parts[3]); err != nil {
		return fd, &ConfigurationError{Key: key, Value: def, Err: err}
	}
	if strings.Contains(parts[4], ",") {
		if fd.Style, err = parseStyleList(parts[4]); err != nil {
			return fd, &ConfigurationError{Key: key, Value: def, Err: err}
		}
	} else {
		var ok bool
		if fd.Style, ok = styles(parts[4]); !ok {
			return fd, &StyleResolutionError{Field: key, Style: parts[4]}
		}
	}
	fd.format = fd.Style.Format
	if len(sections) > 1 && sections[1] != "" {
		fd.format = sections[1]
	}
	if len(sections) > 2 {
		fd.ifNull = sections[2]
	}
	return fd, nil
}

func parsePair(s string) (a, b float64, err error) {
	nums := pairRE.Split(s, -1)
	if len(nums) != 2 {
		return 0, 0, fmt.Errorf("expected two numbers in %q", s)
	}
	if a, err = strconv.ParseFloat(nums[0], 64); err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", nums[0])
	}
	if b, err = strconv.ParseFloat(nums[1], 64); err != nil {
		return 0, 0, fmt.Errorf("invalid number %q", nums[1])
	}
	return a, b, nil
}
