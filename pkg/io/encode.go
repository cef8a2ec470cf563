package io

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/kmltool/pkg/kml"
)

// Namespace is the KML 2.2 namespace written on the root element.
const Namespace = "http://www.opengis.net/kml/2.2"

// WriteKML encodes t as an indented KML 2.2 document and writes it to w.
//
// Descriptions containing markup are written as CDATA sections so viewers
// receive the HTML unescaped. Optional fields that are unset (nil
// visibility, empty style URL, nil sub-styles) are omitted. Every field
// the package models survives a [ReadKML] round trip.
func WriteKML(t *kml.Tree, w io.Writer) error {
	doc, err := encodeDocument(t)
	if err != nil {
		return err
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write KML: %w", err)
	}
	return nil
}

// MarshalKML encodes t and returns the document bytes.
func MarshalKML(t *kml.Tree) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteKML(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportKML writes t to a KML file at path.
func ExportKML(t *kml.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteKML(t, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeDocument(t *kml.Tree) (*etree.Document, error) {
	if t == nil || t.Root == nil {
		return nil, fmt.Errorf("encode: %w", ErrNoFeature)
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	root := doc.CreateElement("kml")
	root.CreateAttr("xmlns", Namespace)
	encodeFeature(root, t.Root)
	doc.Indent(2)
	return doc, nil
}

func encodeFeature(parent *etree.Element, f kml.Feature) {
	switch f := f.(type) {
	case *kml.Document:
		el := parent.CreateElement("Document")
		encodeFeatureData(el, &f.FeatureData)
		for _, s := range f.Schemas {
			encodeSchema(el, s)
		}
		encodeMembers(el, &f.Contents)
	case *kml.Folder:
		el := parent.CreateElement("Folder")
		encodeFeatureData(el, &f.FeatureData)
		encodeMembers(el, &f.Contents)
	case *kml.Placemark:
		el := parent.CreateElement("Placemark")
		encodeFeatureData(el, &f.FeatureData)
		encodeGeometry(el, f.Geometry)
	default:
		panic("io: unknown feature " + f.Kind().String())
	}
}

// encodeMembers writes style selectors before features, the order most
// viewers expect.
func encodeMembers(el *etree.Element, m *kml.Members) {
	for _, s := range m.StyleSelectors {
		switch s := s.(type) {
		case *kml.Style:
			encodeStyle(el, s)
		case *kml.StyleMap:
			encodeStyleMap(el, s)
		}
	}
	for _, f := range m.Features {
		encodeFeature(el, f)
	}
}

func encodeFeatureData(el *etree.Element, fd *kml.FeatureData) {
	if fd.ID != "" {
		el.CreateAttr("id", fd.ID)
	}
	if fd.Name != "" {
		el.CreateElement("name").SetText(fd.Name)
	}
	if fd.Visibility != nil {
		el.CreateElement("visibility").SetText(formatBool(*fd.Visibility))
	}
	if fd.Open != nil {
		el.CreateElement("open").SetText(formatBool(*fd.Open))
	}
	if fd.Description != "" {
		d := el.CreateElement("description")
		if strings.ContainsAny(fd.Description, "<&") && !strings.Contains(fd.Description, "]]>") {
			d.CreateCData(fd.Description)
		} else {
			d.SetText(fd.Description)
		}
	}
	if fd.StyleURL != "" {
		el.CreateElement("styleUrl").SetText(fd.StyleURL)
	}
	if fd.ExtendedData != nil {
		encodeExtendedData(el, fd.ExtendedData)
	}
}

func encodeExtendedData(parent *etree.Element, e *kml.ExtendedData) {
	el := parent.CreateElement("ExtendedData")
	for _, d := range e.Data {
		de := el.CreateElement("Data")
		de.CreateAttr("name", d.Name)
		if d.DisplayName != "" {
			de.CreateElement("displayName").SetText(d.DisplayName)
		}
		de.CreateElement("value").SetText(d.Value)
	}
	for _, sd := range e.SchemaData {
		se := el.CreateElement("SchemaData")
		se.CreateAttr("schemaUrl", sd.SchemaURL)
		for _, v := range sd.SimpleData {
			ve := se.CreateElement("SimpleData")
			ve.CreateAttr("name", v.Name)
			ve.SetText(v.Value)
		}
	}
}

func encodeSchema(parent *etree.Element, s *kml.Schema) {
	el := parent.CreateElement("Schema")
	if s.Name != "" {
		el.CreateAttr("name", s.Name)
	}
	if s.ID != "" {
		el.CreateAttr("id", s.ID)
	}
	for _, f := range s.Fields {
		fe := el.CreateElement("SimpleField")
		fe.CreateAttr("type", f.Type)
		fe.CreateAttr("name", f.Name)
	}
}

func encodeStyle(parent *etree.Element, s *kml.Style) {
	el := parent.CreateElement("Style")
	if s.ID != "" {
		el.CreateAttr("id", s.ID)
	}
	if is := s.IconStyle; is != nil {
		ie := el.CreateElement("IconStyle")
		if is.Color != nil {
			ie.CreateElement("color").SetText(is.Color.String())
		}
		ie.CreateElement("scale").SetText(formatFloat(is.Scale))
		ie.CreateElement("heading").SetText(formatFloat(is.Heading))
		if is.Href != "" {
			ie.CreateElement("Icon").CreateElement("href").SetText(is.Href)
		}
	}
	if ls := s.LineStyle; ls != nil {
		le := el.CreateElement("LineStyle")
		le.CreateElement("color").SetText(ls.Color.String())
		le.CreateElement("width").SetText(formatFloat(ls.Width))
	}
}

func encodeStyleMap(parent *etree.Element, sm *kml.StyleMap) {
	el := parent.CreateElement("StyleMap")
	if sm.ID != "" {
		el.CreateAttr("id", sm.ID)
	}
	for _, p := range sm.Pairs {
		pe := el.CreateElement("Pair")
		pe.CreateElement("key").SetText(p.Key)
		pe.CreateElement("styleUrl").SetText(p.StyleURL)
	}
}

func encodeGeometry(parent *etree.Element, g kml.Geometry) {
	switch g := g.(type) {
	case nil:
	case *kml.Point:
		el := parent.CreateElement("Point")
		if g.ID != "" {
			el.CreateAttr("id", g.ID)
		}
		el.CreateElement("coordinates").SetText(formatCoord(g.Coordinate))
	case *kml.LineString:
		el := parent.CreateElement("LineString")
		if g.ID != "" {
			el.CreateAttr("id", g.ID)
		}
		if g.Tessellate {
			el.CreateElement("tessellate").SetText("1")
		}
		parts := make([]string, len(g.Coordinates))
		for i, c := range g.Coordinates {
			parts[i] = formatCoord(c)
		}
		el.CreateElement("coordinates").SetText(strings.Join(parts, " "))
	default:
		panic("io: unknown geometry " + g.Kind().String())
	}
}

func formatCoord(c kml.Coord) string {
	return formatFloat(c.Lon) + "," + formatFloat(c.Lat)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
