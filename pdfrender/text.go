package pdfrender

import (
	"slices"
	"strconv"
	"strings"

	"github.com/phpdave11/gofpdf"

	"github.com/rothskeller/pdftemplate/pdfmodel"
)

// drawText draws a text item into its box on the current page.  The font
// must already be registered with pdf.  It returns whether the text fit.
func drawText(pdf *gofpdf.Fpdf, t *pdfmodel.Text) (fits bool) {
	var (
		lines []string
		lh    = t.Leading
	)
	if strings.TrimSpace(t.Value) == "" {
		return true
	}
	if lh == 0 {
		lh = t.Size
	}
	pdf.SetFont(t.Font, "", t.Size)
	r, g, b := rgb(t.Color)
	pdf.SetTextColor(r, g, b)
	if t.Width > 0 {
		lines, fits = fitText(t.Value, pdf.GetStringWidth, t.Width, t.Height, t.Size, lh)
	} else {
		lines, fits = strings.Split(t.Value, "\n"), true
	}
	top := t.Top + ascent(pdf, t.Font, t.Size)
	for _, line := range lines {
		left := t.Left
		switch t.Align {
		case pdfmodel.AlignCenter:
			left += (t.Width - pdf.GetStringWidth(line)) / 2
		case pdfmodel.AlignRight:
			left += t.Width - pdf.GetStringWidth(line)
		}
		pdf.Text(left, top, line)
		top += lh
	}
	return fits
}

// ascent returns the height of the font above the baseline.
func ascent(pdf *gofpdf.Fpdf, font string, size float64) float64 {
	if desc := pdf.GetFontDesc(font, ""); desc.Ascent > 0 {
		return float64(desc.Ascent) * size / 1000
	}
	return size * 0.8
}

// fitText breaks s into lines that fit width w, wrapping at runs of spaces,
// and reports whether the result also fits height h.  A line that cannot be
// wrapped any further is kept whole and the text does not fit.  A height of
// zero is not checked.
func fitText(s string, measure func(string) float64, w, h, sz, lh float64) (lines []string, fits bool) {
	if s == "" {
		return nil, true
	}
	fits = true
	lines = strings.Split(s, "\n")
	for i := 0; i < len(lines); i++ {
		stop := len(lines[i])
		for measure(lines[i][:stop]) > w {
			idx := strings.LastIndexByte(lines[i][:stop], ' ')
			for ; idx > 0 && lines[i][idx-1] == ' '; idx-- {
			}
			if idx <= 0 {
				fits = false
				break
			}
			stop = idx
		}
		rest := stop
		for rest < len(lines[i]) && lines[i][rest] == ' ' {
			rest++
		}
		if rest < len(lines[i]) {
			lines = slices.Insert(lines, i+1, lines[i][rest:])
		}
		lines[i] = lines[i][:stop]
	}
	if h > 0 && float64(len(lines)-1)*lh+min(lh, sz) > h {
		fits = false
	}
	return lines, fits
}

// rgb converts a 3- or 6-digit hex color.  Anything else is black.
func rgb(c string) (r, g, b int) {
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	v, err := strconv.ParseUint(c, 16, 32)
	if len(c) != 6 || err != nil {
		return 0, 0, 0
	}
	return int(v >> 16), int(v >> 8 & 0xFF), int(v & 0xFF)
}
