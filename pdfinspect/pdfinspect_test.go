package main

import (
	"reflect"
	"strings"
	"testing"

	"github.com/rothskeller/pdftemplate/pdfmodel"
)

func TestFind(t *testing.T) {
	r := root{
		Metadata: pdfmodel.Metadata{Title: "Invoice"},
		Fonts:    []pdfmodel.Font{{Name: "regular", File: "builtin:go-regular"}},
		Items: []pdfmodel.Item{
			&pdfmodel.Text{Page: 1, Font: "regular", Value: "x"},
			&pdfmodel.Barcode{Page: 1, Bars: []pdfmodel.Bar{{Left: 1, Width: 2}}},
		},
	}
	for path, want := range map[string]bool{
		"":                 true,
		"metadata/title":   true,
		"fonts/0":          true,
		"fonts/*/Name":     true,
		"items/1/bars/0":   true,
		"items/0/value":    true,
		"items/*/Page":     true,
		"items/2":          false,
		"items/x":          false,
		"fonts/0/nothing":  false,
		"metadata/title/x": false,
	} {
		var parts []string
		if path != "" {
			parts = strings.Split(path, "/")
		}
		if got := find(reflect.ValueOf(r), "", parts); got != want {
			t.Errorf("%q: find = %v, want %v", path, got, want)
		}
	}
}
