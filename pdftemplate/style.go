package pdftemplate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TextStyle describes how field text is drawn.  Size and LineHeight are in
// points.  Color is a 3- or 6-digit hex RGB string.  Format, if not empty, is
// the default format pattern for fields using the style.
type TextStyle struct {
	Font       string
	Size       float64
	LineHeight float64
	Color      string
	Format     string
}

// ParseTextStyle parses "font, size, lineHeight, color [| format]".
func ParseTextStyle(s string) (style TextStyle, err error) {
	def, format, _ := strings.Cut(s, "|")
	if style, err = parseStyleList(def); err != nil {
		return TextStyle{}, err
	}
	style.Format = strings.TrimSpace(format)
	return style, nil
}

func parseStyleList(s string) (style TextStyle, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return TextStyle{}, fmt.Errorf("text style needs font, size, line height and color, got %d values", len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if style.Font = parts[0]; style.Font == "" {
		return TextStyle{}, errors.New("text style has no font")
	}
	if style.Size, err = strconv.ParseFloat(parts[1], 64); err != nil || style.Size <= 0 {
		return TextStyle{}, fmt.Errorf("invalid font size %q", parts[1])
	}
	if style.LineHeight, err = strconv.ParseFloat(parts[2], 64); err != nil || style.LineHeight < 0 {
		return TextStyle{}, fmt.Errorf("invalid line height %q", parts[2])
	}
	if err = checkColor(parts[3]); err != nil {
		return TextStyle{}, err
	}
	style.Color = parts[3]
	return style, nil
}

// checkColor accepts 3- or 6-digit hex RGB.
func checkColor(c string) error {
	if len(c) != 3 && len(c) != 6 {
		return fmt.Errorf("invalid color %q", c)
	}
	if _, err := strconv.ParseUint(c, 16, 32); err != nil {
		return fmt.Errorf("invalid color %q", c)
	}
	return nil
}
