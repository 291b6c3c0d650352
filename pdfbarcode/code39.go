package pdfbarcode

import (
	"errors"
	"fmt"
	"strings"
)

// Code39 is the Code 39 (3 of 9) symbology.  Each character is nine elements,
// five bars and four spaces, three of which are wide.  The optional check
// character is the sum of the character values modulo 43.
type Code39 struct {
	checkDigit bool
	wide       float64
	gap        float64
	margin     float64
}

// code39Alphabet lists the characters in value order; the index of a
// character is its check-sum value.  '*' is the start/stop character and
// never appears in data.
const code39Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%*"

const code39Start = 43

// Wide bar positions (0-4) for each bar group, and wide space positions (0-3)
// for each space group.
var (
	code39Bars = [...][]int{
		{0, 4}, {1, 4}, {1, 0}, {2, 4}, {2, 0}, {2, 1}, {3, 4}, {3, 0}, {3, 1}, {3, 2}, {},
	}
	code39Spaces = [...][]int{
		{1}, {2}, {3}, {0}, {2, 3, 0}, {3, 0, 1}, {0, 1, 2}, {1, 2, 3},
	}
)

// code39Groups gives the bar and space group of every character in
// code39Alphabet.
var code39Groups = [44][2]int{
	{9, 0}, {0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0}, // 0-9
	{0, 1}, {1, 1}, {2, 1}, {3, 1}, {4, 1}, {5, 1}, {6, 1}, {7, 1}, {8, 1}, {9, 1}, // A-J
	{0, 2}, {1, 2}, {2, 2}, {3, 2}, {4, 2}, {5, 2}, {6, 2}, {7, 2}, {8, 2}, {9, 2}, // K-T
	{0, 3}, {1, 3}, {2, 3}, {3, 3}, {4, 3}, {5, 3}, // U-Z
	{6, 3}, {7, 3}, {8, 3}, // - . space
	{10, 6}, {10, 5}, {10, 4}, {10, 7}, // $ / + %
	{9, 3}, // *
}

// code39Patterns holds the nine element pattern (true = wide) of each
// character, and code39Lookup maps a pattern back to its character value.
var (
	code39Patterns [44][9]bool
	code39Lookup   = make(map[[9]bool]int)
)

func init() {
	for i, g := range code39Groups {
		var p [9]bool
		for _, m := range code39Bars[g[0]] {
			p[m*2] = true
		}
		for _, m := range code39Spaces[g[1]] {
			p[m*2+1] = true
		}
		code39Patterns[i] = p
		code39Lookup[p] = i
	}
}

// NewCode39 returns a Code 39 codec with the check digit enabled, wide
// elements 2.25 modules, a one module gap between characters and a ten
// module quiet zone on each side.
func NewCode39() Code39 {
	return Code39{checkDigit: true, wide: 2.25, gap: 1, margin: 10}
}

// WithCheckDigit returns a copy of c with the check digit enabled or
// disabled.
func (c Code39) WithCheckDigit(on bool) Code39 { c.checkDigit = on; return c }

// WithWide returns a copy of c with the given wide element width.
func (c Code39) WithWide(modules float64) Code39 { c.wide = modules; return c }

// WithGap returns a copy of c with the given inter-character gap.
func (c Code39) WithGap(modules float64) Code39 { c.gap = modules; return c }

// WithMargin returns a copy of c with the given quiet zone width.
func (c Code39) WithMargin(modules float64) Code39 { c.margin = modules; return c }

func (c Code39) Name() string     { return "CODE-39" }
func (c Code39) CheckDigit() bool { return c.checkDigit }

// values converts the payload into character values, folding lower case.
func (c Code39) values(payload string) ([]int, error) {
	var vals = make([]int, 0, len(payload))
	for _, r := range payload {
		idx := strings.IndexRune(code39Alphabet, toUpper(r))
		if idx < 0 || idx == code39Start {
			return nil, &InvalidPayloadError{Symbology: c.Name(), Payload: payload, Char: r}
		}
		vals = append(vals, idx)
	}
	if len(vals) == 0 {
		if c.checkDigit {
			return nil, &CheckDigitError{Symbology: c.Name(), Payload: payload, Reason: "payload is empty"}
		}
		return nil, &InvalidPayloadError{Symbology: c.Name(), Payload: payload, Reason: "payload is empty"}
	}
	return vals, nil
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}

func (c Code39) Validate(payload string) error {
	_, err := c.values(payload)
	return err
}

// CheckCharacter returns the modulo 43 check character for the payload,
// regardless of whether the codec appends it.
func (c Code39) CheckCharacter(payload string) (rune, error) {
	vals, err := c.WithCheckDigit(true).values(payload)
	if err != nil {
		return 0, err
	}
	var sum int
	for _, v := range vals {
		sum = (sum + v) % 43
	}
	return rune(code39Alphabet[sum]), nil
}

func (c Code39) Encode(payload string) (img *Image, err error) {
	var (
		vals []int
		text strings.Builder
	)
	if vals, err = c.values(payload); err != nil {
		return nil, err
	}
	for _, v := range vals {
		text.WriteByte(code39Alphabet[v])
	}
	if c.checkDigit {
		check, _ := c.CheckCharacter(payload)
		vals = append(vals, strings.IndexRune(code39Alphabet, check))
		text.WriteRune(check)
	}
	img = &Image{Text: text.String()}
	img.draw(false, c.margin)
	c.drawChar(img, code39Start)
	for _, v := range vals {
		img.draw(false, c.gap)
		c.drawChar(img, v)
	}
	img.draw(false, c.gap)
	c.drawChar(img, code39Start)
	img.draw(false, c.margin)
	return img, nil
}

func (c Code39) drawChar(img *Image, v int) {
	for i, wide := range code39Patterns[v] {
		length := 1.0
		if wide {
			length = c.wide
		}
		img.draw(i%2 == 0, length)
	}
}

// Decode reads the bar geometry of an image produced by a codec with the same
// wide element width and returns the encoded content without the start and
// stop characters.  If c has the check digit enabled, the check character is
// verified and kept at the end of the result.
func (c Code39) Decode(img *Image) (string, error) {
	if img == nil || len(img.Bars) == 0 || len(img.Bars)%5 != 0 {
		return "", errors.New("code39: bar count is not a multiple of five")
	}
	threshold := (1 + c.wide) / 2
	var chars []int
	for g := 0; g < len(img.Bars); g += 5 {
		var p [9]bool
		for i := 0; i < 5; i++ {
			bar := img.Bars[g+i]
			p[i*2] = bar.Length > threshold
			if i < 4 {
				next := img.Bars[g+i+1]
				p[i*2+1] = next.Position-(bar.Position+bar.Length) > threshold
			}
		}
		v, ok := code39Lookup[p]
		if !ok {
			return "", fmt.Errorf("code39: unknown pattern in character %d", g/5)
		}
		chars = append(chars, v)
	}
	if len(chars) < 2 || chars[0] != code39Start || chars[len(chars)-1] != code39Start {
		return "", errors.New("code39: missing start/stop character")
	}
	chars = chars[1 : len(chars)-1]
	var sb strings.Builder
	for _, v := range chars {
		if v == code39Start {
			return "", errors.New("code39: start/stop character inside data")
		}
		sb.WriteByte(code39Alphabet[v])
	}
	out := sb.String()
	if c.checkDigit {
		if len(out) < 2 {
			return "", errors.New("code39: no room for a check character")
		}
		want, err := c.CheckCharacter(out[:len(out)-1])
		if err != nil {
			return "", err
		}
		if rune(out[len(out)-1]) != want {
			return "", fmt.Errorf("code39: check character %q does not match %q", out[len(out)-1], want)
		}
	}
	return out, nil
}
