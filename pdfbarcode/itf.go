package pdfbarcode

// ITF is the Interleaved 2 of 5 symbology.  Digits are encoded in pairs, the
// first digit in the bars and the second in the spaces, so the encoded digit
// count (check digit included) must be even.  The check digit is modulo 10
// with weights 3 and 1 alternating from the rightmost payload digit.
type ITF struct {
	checkDigit bool
	wide       float64
	margin     float64
}

// itfPatterns holds the five element pattern of each digit (true = wide).
var itfPatterns = [10][5]bool{
	{false, false, true, true, false},
	{true, false, false, false, true},
	{false, true, false, false, true},
	{true, true, false, false, false},
	{false, false, true, false, true},
	{true, false, true, false, false},
	{false, true, true, false, false},
	{false, false, false, true, true},
	{true, false, false, true, false},
	{false, true, false, true, false},
}

// NewITF returns an Interleaved 2 of 5 codec with the check digit enabled,
// wide elements 2.5 modules and a ten module quiet zone.
func NewITF() ITF {
	return ITF{checkDigit: true, wide: 2.5, margin: 10}
}

// WithCheckDigit returns a copy of c with the check digit enabled or
// disabled.
func (c ITF) WithCheckDigit(on bool) ITF { c.checkDigit = on; return c }

// WithWide returns a copy of c with the given wide element width.
func (c ITF) WithWide(modules float64) ITF { c.wide = modules; return c }

// WithMargin returns a copy of c with the given quiet zone width.
func (c ITF) WithMargin(modules float64) ITF { c.margin = modules; return c }

func (c ITF) Name() string     { return "ITF" }
func (c ITF) CheckDigit() bool { return c.checkDigit }

func (c ITF) digits(payload string) ([]int, error) {
	var ds = make([]int, 0, len(payload)+1)
	for _, r := range payload {
		if r < '0' || r > '9' {
			return nil, &InvalidPayloadError{Symbology: c.Name(), Payload: payload, Char: r}
		}
		ds = append(ds, int(r-'0'))
	}
	switch {
	case c.checkDigit && len(ds) == 0:
		return nil, &CheckDigitError{Symbology: c.Name(), Payload: payload, Reason: "payload is empty"}
	case c.checkDigit && len(ds)%2 == 0:
		return nil, &CheckDigitError{Symbology: c.Name(), Payload: payload,
			Reason: "payload length must be odd so that the check digit completes a pair"}
	case len(ds) == 0:
		return nil, &InvalidPayloadError{Symbology: c.Name(), Payload: payload, Reason: "payload is empty"}
	case !c.checkDigit && len(ds)%2 != 0:
		return nil, &InvalidPayloadError{Symbology: c.Name(), Payload: payload, Reason: "digit count must be even"}
	}
	return ds, nil
}

func (c ITF) Validate(payload string) error {
	_, err := c.digits(payload)
	return err
}

// CheckDigitOf returns the modulo 10 check digit for a digit string.
func (c ITF) CheckDigitOf(payload string) (int, error) {
	var sum, weight = 0, 3
	if payload == "" {
		return 0, &CheckDigitError{Symbology: c.Name(), Payload: payload, Reason: "payload is empty"}
	}
	for i := len(payload) - 1; i >= 0; i-- {
		d := payload[i]
		if d < '0' || d > '9' {
			return 0, &InvalidPayloadError{Symbology: c.Name(), Payload: payload, Char: rune(d)}
		}
		sum += int(d-'0') * weight
		weight = 4 - weight
	}
	return (10 - sum%10) % 10, nil
}

func (c ITF) Encode(payload string) (img *Image, err error) {
	var ds []int
	if ds, err = c.digits(payload); err != nil {
		return nil, err
	}
	if c.checkDigit {
		check, _ := c.CheckDigitOf(payload)
		ds = append(ds, check)
	}
	text := make([]byte, len(ds))
	for i, d := range ds {
		text[i] = byte('0' + d)
	}
	img = &Image{Text: string(text)}
	img.draw(false, c.margin)
	// Start: narrow bar, narrow space, narrow bar, narrow space.
	for i := 0; i < 4; i++ {
		img.draw(i%2 == 0, 1)
	}
	for i := 0; i < len(ds); i += 2 {
		bars, spaces := itfPatterns[ds[i]], itfPatterns[ds[i+1]]
		for j := 0; j < 5; j++ {
			img.draw(true, c.width(bars[j]))
			img.draw(false, c.width(spaces[j]))
		}
	}
	// Stop: wide bar, narrow space, narrow bar.
	img.draw(true, c.wide)
	img.draw(false, 1)
	img.draw(true, 1)
	img.draw(false, c.margin)
	return img, nil
}

func (c ITF) width(wide bool) float64 {
	if wide {
		return c.wide
	}
	return 1
}
