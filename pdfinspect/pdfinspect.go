// pdfinspect dumps one or more values from a persisted document model.
//
//	usage: pdfinspect model.xml path
//
// path is a slash-separated path of field names or slice indexes leading to
// the value in question, starting from a root with the fields Metadata,
// Fonts and Items.  Field names are matched case-insensitively.  The path
// may contain "*" wildcards replacing an entire component, in which case all
// fields or elements at that component are listed.  For example,
// "items/*/Value" lists the text of every item and "fonts/0" dumps the
// first font.
package main

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/rothskeller/pdftemplate/pdfmodel"
)

type root struct {
	Metadata pdfmodel.Metadata
	Fonts    []pdfmodel.Font
	Items    []pdfmodel.Item
}

// stubLoader skips reading font files; only the declarations are shown.
var stubLoader = pdfmodel.FontLoaderFunc(func(pdfmodel.Font) (*pdfmodel.FontData, error) {
	return &pdfmodel.FontData{}, nil
})

func main() {
	var (
		fh  *os.File
		doc *pdfmodel.Document
		err error
	)
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: pdfinspect model.xml path/to/value\n")
		os.Exit(2)
	}
	if fh, err = os.Open(os.Args[1]); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		os.Exit(1)
	}
	defer fh.Close()
	if doc, err = pdfmodel.ReadXML(fh, stubLoader); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s: %s\n", os.Args[1], err)
		os.Exit(1)
	}
	r := root{Metadata: doc.Metadata, Fonts: doc.Fonts(), Items: doc.Items()}
	var path []string
	if p := strings.Trim(os.Args[2], "/"); p != "" {
		path = strings.Split(p, "/")
	}
	if !find(reflect.ValueOf(r), "", path) {
		os.Exit(1)
	}
}

// find walks path from v and dumps what it reaches.  It returns false if
// any component could not be resolved.
func find(v reflect.Value, prefix string, path []string) bool {
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer {
		if v.IsNil() {
			break
		}
		v = v.Elem()
	}
	if len(path) == 0 {
		fmt.Printf("%s = ", prefix)
		spew.Dump(v.Interface())
		return true
	}
	switch v.Kind() {
	case reflect.Slice:
		if path[0] == "*" {
			ok := true
			for i := 0; i < v.Len(); i++ {
				ok = find(v.Index(i), fmt.Sprintf("%s/%d", prefix, i), path[1:]) && ok
			}
			return ok
		}
		idx, err := strconv.Atoi(path[0])
		if err != nil || idx < 0 {
			fmt.Fprintf(os.Stderr, "ERROR: %s is a list but %q is not a valid index\n", prefix, path[0])
			return false
		}
		if idx >= v.Len() {
			fmt.Fprintf(os.Stderr, "ERROR: index %d is out of bounds for %s (length %d)\n", idx, prefix, v.Len())
			return false
		}
		return find(v.Index(idx), fmt.Sprintf("%s/%d", prefix, idx), path[1:])
	case reflect.Struct:
		t := v.Type()
		if path[0] == "*" {
			ok := true
			for i := 0; i < t.NumField(); i++ {
				if t.Field(i).IsExported() {
					ok = find(v.Field(i), prefix+"/"+t.Field(i).Name, path[1:]) && ok
				}
			}
			return ok
		}
		for i := 0; i < t.NumField(); i++ {
			if f := t.Field(i); f.IsExported() && strings.EqualFold(f.Name, path[0]) {
				return find(v.Field(i), prefix+"/"+f.Name, path[1:])
			}
		}
		fmt.Fprintf(os.Stderr, "ERROR: field %q does not exist in %s\n", path[0], prefix)
	default:
		fmt.Fprintf(os.Stderr, "ERROR: %s is a %s, not a list or record\n", prefix, v.Type())
	}
	return false
}
