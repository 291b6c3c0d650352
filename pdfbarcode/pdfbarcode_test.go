package pdfbarcode

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCode39CheckCharacter(t *testing.T) {
	cases := []struct {
		payload string
		want    rune
	}{
		{"0123456789", '2'},
		{"ABC", 'X'},
		{"abc", 'X'},
		{"CODE 39", 'R'},
		{"-", '-'},
	}
	c := NewCode39()
	for _, tc := range cases {
		got, err := c.CheckCharacter(tc.payload)
		if err != nil {
			t.Errorf("%q: %s", tc.payload, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: got %q, want %q", tc.payload, got, tc.want)
		}
	}
}

func TestCode39RoundTrip(t *testing.T) {
	for _, payload := range []string{"0123456789", "HELLO-WORLD", "A.B $/+%", "x"} {
		c := NewCode39()
		img, err := c.Encode(payload)
		if err != nil {
			t.Fatal(err)
		}
		got, err := c.Decode(img)
		if err != nil {
			t.Fatalf("%q: %s", payload, err)
		}
		check, _ := c.CheckCharacter(payload)
		if rune(got[len(got)-1]) != check {
			t.Errorf("%q: decoded check character %q, want %q", payload, got[len(got)-1], check)
		}
		if got != img.Text {
			t.Errorf("%q: decoded %q, image text %q", payload, got, img.Text)
		}
	}
}

func TestCode39Geometry(t *testing.T) {
	img, err := NewCode39().Encode("0123456789")
	if err != nil {
		t.Fatal(err)
	}
	// start + 10 data + check + stop characters, five bars each
	if len(img.Bars) != 13*5 {
		t.Errorf("got %d bars, want %d", len(img.Bars), 13*5)
	}
	// 2 quiet zones, 13 characters of 6 narrow and 3 wide elements, 12 gaps
	if want := 20 + 13*12.75 + 12; img.Size != want {
		t.Errorf("got size %g, want %g", img.Size, want)
	}
	if img.Bars[0].Position != 10 {
		t.Errorf("first bar at %g, want 10", img.Bars[0].Position)
	}
	if img.Text != "01234567892" {
		t.Errorf("got text %q", img.Text)
	}

	plain, err := NewCode39().WithCheckDigit(false).Encode("0123456789")
	if err != nil {
		t.Fatal(err)
	}
	if len(plain.Bars) != 12*5 || plain.Text != "0123456789" {
		t.Errorf("without check digit: %d bars, text %q", len(plain.Bars), plain.Text)
	}
}

func TestCode39InvalidPayload(t *testing.T) {
	c := NewCode39()
	for _, payload := range []string{"AB*C", "ABC#", "ümlaut"} {
		_, err := c.Encode(payload)
		var ipe *InvalidPayloadError
		if !errors.As(err, &ipe) {
			t.Errorf("%q: got %v, want InvalidPayloadError", payload, err)
		}
	}
	_, err := c.Encode("")
	var cde *CheckDigitError
	if !errors.As(err, &cde) {
		t.Errorf("empty payload: got %v, want CheckDigitError", err)
	}
}

func TestITF(t *testing.T) {
	c := NewITF()
	d, err := c.CheckDigitOf("1234567")
	if err != nil {
		t.Fatal(err)
	}
	if d != 0 {
		t.Errorf("check digit of 1234567 = %d, want 0", d)
	}
	if d, _ = c.CheckDigitOf("629104150021"); d != 3 {
		t.Errorf("check digit of 629104150021 = %d, want 3", d)
	}
	img, err := c.Encode("1234567")
	if err != nil {
		t.Fatal(err)
	}
	if img.Text != "12345670" {
		t.Errorf("got text %q", img.Text)
	}
	// start (2) + 4 pairs (5 bars each) + stop (2)
	if len(img.Bars) != 24 {
		t.Errorf("got %d bars, want 24", len(img.Bars))
	}
}

func TestITFErrors(t *testing.T) {
	var (
		cde *CheckDigitError
		ipe *InvalidPayloadError
	)
	if _, err := NewITF().Encode("1234"); !errors.As(err, &cde) {
		t.Errorf("even length with check digit: got %v", err)
	}
	if _, err := NewITF().WithCheckDigit(false).Encode("123"); !errors.As(err, &ipe) {
		t.Errorf("odd length without check digit: got %v", err)
	}
	if _, err := NewITF().Encode("12a"); !errors.As(err, &ipe) || ipe.Char != 'a' {
		t.Errorf("letter in payload: got %v", err)
	}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		name  string
		want  string
		check bool
	}{
		{"code39", "CODE-39", false},
		{"CODE-39+check", "CODE-39", true},
		{"itf", "ITF", false},
		{"ITF+check", "ITF", true},
	}
	for _, tc := range cases {
		c, err := Lookup(tc.name)
		if err != nil {
			t.Errorf("%s: %s", tc.name, err)
			continue
		}
		got := []any{c.Name(), c.CheckDigit()}
		if diff := cmp.Diff([]any{tc.want, tc.check}, got); diff != "" {
			t.Errorf("%s: (-want +got):\n%s", tc.name, diff)
		}
	}
	var use *UnsupportedSymbologyError
	if _, err := Lookup("qr"); !errors.As(err, &use) {
		t.Errorf("qr: got %v, want UnsupportedSymbologyError", err)
	}
}
