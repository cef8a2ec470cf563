package io

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/matzehuels/kmltool/pkg/kml"
)

// ErrNoFeature is returned when a document contains no Document, Folder or
// Placemark below its root element.
var ErrNoFeature = errors.New("no root feature")

// ReadKML decodes a KML document from r.
//
// The root element is normally <kml> wrapping a single feature, but a bare
// <Document>, <Folder> or <Placemark> root is accepted too. Elements this
// package does not model (regions, overlays, extension namespaces such as
// gx:) are skipped.
//
// ReadKML does not close r.
func ReadKML(r io.Reader) (*kml.Tree, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("parse KML: %w", err)
	}
	return decodeDocument(doc)
}

// UnmarshalKML decodes a KML document held in memory.
func UnmarshalKML(b []byte) (*kml.Tree, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(b); err != nil {
		return nil, fmt.Errorf("parse KML: %w", err)
	}
	return decodeDocument(doc)
}

// ImportKML reads the KML file at path.
func ImportKML(path string) (*kml.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadKML(f)
}

func decodeDocument(doc *etree.Document) (*kml.Tree, error) {
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("decode: %w", ErrNoFeature)
	}

	if f, ok, err := decodeFeature(root); ok || err != nil {
		if err != nil {
			return nil, err
		}
		return &kml.Tree{Root: f}, nil
	}
	if root.Tag != "kml" {
		return nil, fmt.Errorf("decode: unexpected root element %q", root.Tag)
	}
	for _, el := range coreChildren(root) {
		f, ok, err := decodeFeature(el)
		if err != nil {
			return nil, err
		}
		if ok {
			return &kml.Tree{Root: f}, nil
		}
	}
	return nil, fmt.Errorf("decode: %w", ErrNoFeature)
}

// coreChildren returns child elements in the KML namespace, skipping
// extension elements such as gx:Tour or atom:author.
func coreChildren(el *etree.Element) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if c.Space == "" || c.Space == "kml" {
			out = append(out, c)
		}
	}
	return out
}

func decodeFeature(el *etree.Element) (kml.Feature, bool, error) {
	switch el.Tag {
	case "Document":
		d := &kml.Document{}
		if err := decodeContainer(el, &d.FeatureData, &d.Contents, &d.Schemas); err != nil {
			return nil, true, fmt.Errorf("Document %q: %w", d.Name, err)
		}
		return d, true, nil
	case "Folder":
		f := &kml.Folder{}
		if err := decodeContainer(el, &f.FeatureData, &f.Contents, nil); err != nil {
			return nil, true, fmt.Errorf("Folder %q: %w", f.Name, err)
		}
		return f, true, nil
	case "Placemark":
		p, err := decodePlacemark(el)
		if err != nil {
			return nil, true, fmt.Errorf("Placemark %q: %w", p.Name, err)
		}
		return p, true, nil
	}
	return nil, false, nil
}

func decodeContainer(el *etree.Element, fd *kml.FeatureData, m *kml.Members, schemas *[]*kml.Schema) error {
	for _, c := range coreChildren(el) {
		if decodeFeatureField(c, fd) {
			continue
		}
		switch c.Tag {
		case "Style":
			s, err := decodeStyle(c)
			if err != nil {
				return err
			}
			m.AddStyleSelector(s)
		case "StyleMap":
			m.AddStyleSelector(decodeStyleMap(c))
		case "Schema":
			if schemas != nil {
				*schemas = append(*schemas, decodeSchema(c))
			}
		default:
			f, ok, err := decodeFeature(c)
			if err != nil {
				return err
			}
			if ok {
				m.AddFeature(f)
			}
		}
	}
	fd.ID = el.SelectAttrValue("id", "")
	return nil
}

func decodePlacemark(el *etree.Element) (*kml.Placemark, error) {
	p := &kml.Placemark{}
	p.ID = el.SelectAttrValue("id", "")
	for _, c := range coreChildren(el) {
		if decodeFeatureField(c, &p.FeatureData) {
			continue
		}
		var err error
		switch c.Tag {
		case "Point":
			var pt *kml.Point
			pt, err = decodePoint(c)
			p.Geometry = pt
		case "LineString":
			var ls *kml.LineString
			ls, err = decodeLineString(c)
			p.Geometry = ls
		}
		if err != nil {
			return p, err
		}
	}
	return p, nil
}

// decodeFeatureField decodes the elements shared by all features and
// reports whether c was one of them.
func decodeFeatureField(c *etree.Element, fd *kml.FeatureData) bool {
	switch c.Tag {
	case "name":
		fd.Name = c.Text()
	case "description":
		fd.Description = c.Text()
	case "visibility":
		fd.Visibility = parseBool(c.Text())
	case "open":
		fd.Open = parseBool(c.Text())
	case "styleUrl":
		fd.StyleURL = strings.TrimSpace(c.Text())
	case "ExtendedData":
		fd.ExtendedData = decodeExtendedData(c)
	default:
		return false
	}
	return true
}

func decodeStyle(el *etree.Element) (*kml.Style, error) {
	s := &kml.Style{ID: el.SelectAttrValue("id", "")}
	for _, c := range coreChildren(el) {
		switch c.Tag {
		case "LineStyle":
			ls := &kml.LineStyle{Color: kml.White, Width: 1}
			for _, f := range coreChildren(c) {
				var err error
				switch f.Tag {
				case "color":
					ls.Color, err = kml.ParseColor(f.Text())
				case "width":
					ls.Width, err = parseFloat(f.Text())
				}
				if err != nil {
					return nil, fmt.Errorf("Style %q: LineStyle: %w", s.ID, err)
				}
			}
			s.LineStyle = ls
		case "IconStyle":
			is := &kml.IconStyle{Scale: 1}
			for _, f := range coreChildren(c) {
				var err error
				switch f.Tag {
				case "color":
					var col kml.Color
					col, err = kml.ParseColor(f.Text())
					is.Color = &col
				case "scale":
					is.Scale, err = parseFloat(f.Text())
				case "heading":
					is.Heading, err = parseFloat(f.Text())
				case "Icon":
					if h := f.SelectElement("href"); h != nil {
						is.Href = strings.TrimSpace(h.Text())
					}
				}
				if err != nil {
					return nil, fmt.Errorf("Style %q: IconStyle: %w", s.ID, err)
				}
			}
			s.IconStyle = is
		}
	}
	return s, nil
}

func decodeStyleMap(el *etree.Element) *kml.StyleMap {
	sm := &kml.StyleMap{ID: el.SelectAttrValue("id", "")}
	for _, c := range el.SelectElements("Pair") {
		var pair kml.StyleMapPair
		if k := c.SelectElement("key"); k != nil {
			pair.Key = strings.TrimSpace(k.Text())
		}
		if u := c.SelectElement("styleUrl"); u != nil {
			pair.StyleURL = strings.TrimSpace(u.Text())
		}
		sm.Pairs = append(sm.Pairs, pair)
	}
	return sm
}

func decodeSchema(el *etree.Element) *kml.Schema {
	s := &kml.Schema{
		ID:   el.SelectAttrValue("id", ""),
		Name: el.SelectAttrValue("name", ""),
	}
	for _, f := range el.SelectElements("SimpleField") {
		s.Fields = append(s.Fields, kml.SimpleField{
			Name: f.SelectAttrValue("name", ""),
			Type: f.SelectAttrValue("type", ""),
		})
	}
	return s
}

func decodeExtendedData(el *etree.Element) *kml.ExtendedData {
	e := &kml.ExtendedData{}
	for _, c := range coreChildren(el) {
		switch c.Tag {
		case "Data":
			d := kml.Data{Name: c.SelectAttrValue("name", "")}
			if v := c.SelectElement("value"); v != nil {
				d.Value = v.Text()
			}
			if dn := c.SelectElement("displayName"); dn != nil {
				d.DisplayName = dn.Text()
			}
			e.Data = append(e.Data, d)
		case "SchemaData":
			sd := kml.SchemaData{SchemaURL: c.SelectAttrValue("schemaUrl", "")}
			for _, v := range c.SelectElements("SimpleData") {
				sd.SimpleData = append(sd.SimpleData, kml.SimpleData{
					Name:  v.SelectAttrValue("name", ""),
					Value: v.Text(),
				})
			}
			e.SchemaData = append(e.SchemaData, sd)
		}
	}
	return e
}

func decodePoint(el *etree.Element) (*kml.Point, error) {
	pt := &kml.Point{ID: el.SelectAttrValue("id", "")}
	if c := el.SelectElement("coordinates"); c != nil {
		coords, err := parseCoordinates(c.Text())
		if err != nil {
			return nil, fmt.Errorf("Point: %w", err)
		}
		if len(coords) > 0 {
			pt.Coordinate = coords[0]
		}
	}
	return pt, nil
}

func decodeLineString(el *etree.Element) (*kml.LineString, error) {
	ls := &kml.LineString{ID: el.SelectAttrValue("id", "")}
	if t := el.SelectElement("tessellate"); t != nil {
		if b := parseBool(t.Text()); b != nil {
			ls.Tessellate = *b
		}
	}
	if c := el.SelectElement("coordinates"); c != nil {
		coords, err := parseCoordinates(c.Text())
		if err != nil {
			return nil, fmt.Errorf("LineString: %w", err)
		}
		if coords == nil {
			coords = []kml.Coord{}
		}
		ls.Coordinates = coords
	}
	return ls, nil
}

// parseCoordinates parses whitespace-separated "lon,lat[,alt]" tuples.
// Altitude is dropped.
func parseCoordinates(s string) ([]kml.Coord, error) {
	var out []kml.Coord
	for _, tuple := range strings.Fields(s) {
		parts := strings.Split(tuple, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid coordinate %q", tuple)
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q: %w", parts[0], err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q: %w", parts[1], err)
		}
		out = append(out, kml.Coord{Lon: lon, Lat: lat})
	}
	return out, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseBool(s string) *bool {
	switch strings.TrimSpace(s) {
	case "1", "true":
		return kml.Bool(true)
	case "0", "false":
		return kml.Bool(false)
	}
	return nil
}
