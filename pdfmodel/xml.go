package pdfmodel

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
)

type xmlDocument struct {
	XMLName  xml.Name     `xml:"DocumentModel"`
	Version  int          `xml:"version,attr"`
	Metadata *xmlMetadata `xml:"Metadata,omitempty"`
	Fonts    []xmlFont    `xml:"Fonts>Font"`
	Values   xmlValues    `xml:"Values"`
}

type xmlMetadata struct {
	Title    string `xml:"title,attr,omitempty"`
	Author   string `xml:"author,attr,omitempty"`
	Subject  string `xml:"subject,attr,omitempty"`
	Keywords string `xml:"keywords,attr,omitempty"`
	Creator  string `xml:"creator,attr,omitempty"`
	Created  string `xml:"created,attr,omitempty"`
}

type xmlFont struct {
	Name     string `xml:"name,attr"`
	Encoding string `xml:"encoding,attr,omitempty"`
	Embed    bool   `xml:"embed,attr"`
	File     string `xml:",chardata"`
}

type xmlText struct {
	Page    int        `xml:"page,attr"`
	Left    float64    `xml:"left,attr"`
	Top     float64    `xml:"top,attr"`
	Width   float64    `xml:"width,attr"`
	Height  float64    `xml:"height,attr"`
	Leading float64    `xml:"leading,attr,omitempty"`
	Align   Horizontal `xml:"horizontal,attr,omitempty"`
	Font    string     `xml:"font,attr"`
	Size    float64    `xml:"size,attr"`
	Color   string     `xml:"color,attr,omitempty"`
	Value   string     `xml:",chardata"`
}

type xmlBar struct {
	Left  float64 `xml:"left,attr"`
	Width float64 `xml:"width,attr"`
}

type xmlBarcode struct {
	Page      int      `xml:"page,attr"`
	Left      float64  `xml:"left,attr"`
	Top       float64  `xml:"top,attr"`
	Width     float64  `xml:"width,attr"`
	Height    float64  `xml:"height,attr"`
	Color     string   `xml:"color,attr,omitempty"`
	Symbology string   `xml:"symbology,attr"`
	Text      string   `xml:"text,attr,omitempty"`
	Bars      []xmlBar `xml:"Bar"`
}

// xmlValues is the heterogeneous list of content items.
type xmlValues struct {
	Items []Item
}

func (v xmlValues) MarshalXML(e *xml.Encoder, start xml.StartElement) (err error) {
	if err = e.EncodeToken(start); err != nil {
		return err
	}
	for i, item := range v.Items {
		switch item := item.(type) {
		case *Text:
			err = e.EncodeElement(xmlText(*item), xml.StartElement{Name: xml.Name{Local: "Text"}})
		case *Barcode:
			xb := xmlBarcode{
				Page: item.Page, Left: item.Left, Top: item.Top, Width: item.Width, Height: item.Height,
				Color: item.Color, Symbology: item.Symbology, Text: item.Text,
			}
			for _, bar := range item.Bars {
				xb.Bars = append(xb.Bars, xmlBar(bar))
			}
			err = e.EncodeElement(xb, xml.StartElement{Name: xml.Name{Local: "Barcode"}})
		default:
			err = fmt.Errorf("item %d: cannot persist %T", i, item)
		}
		if err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (v *xmlValues) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "Text":
				var xt xmlText
				if err = d.DecodeElement(&xt, &tok); err != nil {
					return err
				}
				t := Text(xt)
				v.Items = append(v.Items, &t)
			case "Barcode":
				var xb xmlBarcode
				if err = d.DecodeElement(&xb, &tok); err != nil {
					return err
				}
				b := &Barcode{
					Page: xb.Page, Left: xb.Left, Top: xb.Top, Width: xb.Width, Height: xb.Height,
					Color: xb.Color, Symbology: xb.Symbology, Text: xb.Text,
				}
				for _, bar := range xb.Bars {
					b.Bars = append(b.Bars, Bar(bar))
				}
				v.Items = append(v.Items, b)
			default:
				return fmt.Errorf("unknown content element <%s>", tok.Name.Local)
			}
		case xml.EndElement:
			return nil
		}
	}
}

// WriteXML writes the document model as XML.  The output can be read back
// with ReadXML.
func (d *Document) WriteXML(w io.Writer) error {
	xd := xmlDocument{Version: d.Version, Values: xmlValues{Items: d.items}}
	if m := d.Metadata; m.Title != "" || m.Author != "" || m.Subject != "" ||
		len(m.Keywords) != 0 || m.Creator != "" || !m.Created.IsZero() {
		xd.Metadata = &xmlMetadata{
			Title:    m.Title,
			Author:   m.Author,
			Subject:  m.Subject,
			Keywords: strings.Join(m.Keywords, ", "),
			Creator:  m.Creator,
		}
		if !m.Created.IsZero() {
			xd.Metadata.Created = m.Created.Format(time.RFC3339)
		}
	}
	for _, f := range d.fonts {
		xd.Fonts = append(xd.Fonts, xmlFont{Name: f.Name, Encoding: f.Encoding, Embed: f.Embed, File: f.File})
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(xd); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ReadXML reads a document model written by WriteXML.  Fonts are loaded with
// loader and items are placed through Place, so a persisted model is held to
// the same rules as one built by merging.
func ReadXML(r io.Reader, loader FontLoader) (d *Document, err error) {
	var xd xmlDocument

	if err = xml.NewDecoder(r).Decode(&xd); err != nil {
		return nil, fmt.Errorf("reading document model: %w", err)
	}
	d = NewDocument(loader)
	if xd.Version != 0 {
		d.Version = xd.Version
	}
	if m := xd.Metadata; m != nil {
		d.Metadata = Metadata{Title: m.Title, Author: m.Author, Subject: m.Subject, Creator: m.Creator}
		for _, kw := range strings.Split(m.Keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				d.Metadata.Keywords = append(d.Metadata.Keywords, kw)
			}
		}
		if m.Created != "" {
			if d.Metadata.Created, err = time.Parse(time.RFC3339, m.Created); err != nil {
				return nil, fmt.Errorf("metadata created: %w", err)
			}
		}
	}
	for _, xf := range xd.Fonts {
		font := Font{Name: xf.Name, File: strings.TrimSpace(xf.File), Encoding: xf.Encoding, Embed: xf.Embed}
		if err = d.Add(font); err != nil {
			return nil, err
		}
	}
	for i, item := range xd.Values.Items {
		if err = d.Place(item); err != nil {
			return nil, fmt.Errorf("content item %d: %w", i, err)
		}
	}
	return d, nil
}
