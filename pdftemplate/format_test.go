package pdftemplate

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestFormat(t *testing.T) {
	date := time.Date(2016, 4, 1, 9, 5, 7, 250_000_000, time.UTC)
	midnight := time.Date(2016, 4, 1, 0, 30, 0, 0, time.UTC)
	evening := time.Date(2016, 4, 1, 21, 0, 0, 0, time.UTC)
	cases := []struct {
		pattern string
		value   any
		want    string
	}{
		{"", "plain", "plain"},
		{"", 42, "42"},
		{"{0}", "x", "x"},
		{"Total: {0}", "x", "Total: x"},
		{"{0} of {1}", []any{3, 10}, "3 of 10"},
		{"{1}-{0}", []string{"a", "b"}, "b-a"},
		{"{0} {2}", []any{1}, "1 {2}"},
		{"it''s {0}", "ok", "it's ok"},
		{"'{0}' is {0}", "x", "{0} is x"},
		{"{0,number,integer}", 1234.6, "1,235"},
		{"{0,number,#,##0.00}", 1234.5, "1,234.50"},
		{"{0,number,percent}", 0.25, "25%"},
		{"{0,date,yyyy/MM/dd}", date, "2016/04/01"},
		{"{0,date,EEE, d MMM yyyy}", date, "Fri, 1 Apr 2016"},
		{"{0,time,HH:mm:ss.SSS}", date, "09:05:07.250"},
		{"{0,date,'Date:' yyyy}", date, "Date: 2016"},
		{"{0,date,yyyy-MM-dd}", "2016-04-01", "2016-04-01"},
		{"{0,date,medium}", date, "Apr 1, 2016"},
		{"{0,time,short}", date, "9:05 AM"},
		{"{0,time,H:mm}|{0,time,k}|{0,time,KK}", date, "9:05|9|09"},
		{"{0,time,H|k|K|h}", midnight, "0|24|0|12"},
		{"{0,time,HH|kk|KK|hh}", evening, "21|21|09|09"},
		{"{0}", "e\u0301", "\u00e9"},
	}
	for _, tc := range cases {
		f, err := NewFormatter(tc.pattern, "", language.English)
		if err != nil {
			t.Errorf("%q: %s", tc.pattern, err)
			continue
		}
		got, err := f.Format(tc.value)
		if err != nil {
			t.Errorf("%q: %s", tc.pattern, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q with %v: got %q, want %q", tc.pattern, tc.value, got, tc.want)
		}
	}
}

func TestFormatLocale(t *testing.T) {
	f, err := NewFormatter("{0,number,#,##0.00}", "", language.German)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := f.Format(1234.5); got != "1.234,50" {
		t.Errorf("got %q, want 1.234,50", got)
	}
}

func TestFormatIfNull(t *testing.T) {
	f, err := NewFormatter("{0}", "n/a", language.English)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := f.Format(nil); got != "n/a" {
		t.Errorf("got %q, want n/a", got)
	}
}

func TestFormatErrors(t *testing.T) {
	for _, pattern := range []string{"{x}", "{0", "{0,choice,1#one}", "'open", "{0,date,yyyy QQ}", "{0,number,#a#}"} {
		_, err := NewFormatter(pattern, "", language.English)
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("%q: got %v, want FormatError", pattern, err)
		}
	}
	f, err := NewFormatter("{0,number}", "", language.English)
	if err != nil {
		t.Fatal(err)
	}
	var fe *FormatError
	if _, err = f.Format("abc"); !errors.As(err, &fe) {
		t.Errorf("non-number: got %v, want FormatError", err)
	}
	f, _ = NewFormatter("{0,date}", "", language.English)
	if _, err = f.Format(17); !errors.As(err, &fe) {
		t.Errorf("non-date: got %v, want FormatError", err)
	}
}
