package kml

import "slices"

// Clone returns a deep copy of the tree. No node, slice or pointer field is
// shared with t.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	return &Tree{Root: CloneFeature(t.Root)}
}

// CloneFeature returns a deep copy of f and everything it owns.
func CloneFeature(f Feature) Feature {
	switch f := f.(type) {
	case nil:
		return nil
	case *Document:
		d := &Document{
			FeatureData: f.FeatureData.clone(),
			Contents:    f.Contents.clone(),
		}
		for _, s := range f.Schemas {
			d.Schemas = append(d.Schemas, s.Clone())
		}
		return d
	case *Folder:
		return &Folder{
			FeatureData: f.FeatureData.clone(),
			Contents:    f.Contents.clone(),
		}
	case *Placemark:
		return &Placemark{
			FeatureData: f.FeatureData.clone(),
			Geometry:    CloneGeometry(f.Geometry),
		}
	default:
		panic("kml: unknown feature " + f.Kind().String())
	}
}

// CloneStyleSelector returns a deep copy of s.
func CloneStyleSelector(s StyleSelector) StyleSelector {
	switch s := s.(type) {
	case nil:
		return nil
	case *Style:
		return s.Clone()
	case *StyleMap:
		return &StyleMap{ID: s.ID, Pairs: slices.Clone(s.Pairs)}
	default:
		panic("kml: unknown style selector " + s.Kind().String())
	}
}

// CloneGeometry returns a deep copy of g.
func CloneGeometry(g Geometry) Geometry {
	switch g := g.(type) {
	case nil:
		return nil
	case *Point:
		p := *g
		return &p
	case *LineString:
		return &LineString{
			ID:          g.ID,
			Tessellate:  g.Tessellate,
			Coordinates: slices.Clone(g.Coordinates),
		}
	default:
		panic("kml: unknown geometry " + g.Kind().String())
	}
}

// Clone returns a deep copy of s.
func (s *Style) Clone() *Style {
	out := &Style{ID: s.ID}
	if s.LineStyle != nil {
		ls := *s.LineStyle
		out.LineStyle = &ls
	}
	if s.IconStyle != nil {
		is := *s.IconStyle
		if s.IconStyle.Color != nil {
			c := *s.IconStyle.Color
			is.Color = &c
		}
		out.IconStyle = &is
	}
	return out
}

// Clone returns a deep copy of s.
func (s *Schema) Clone() *Schema {
	return &Schema{ID: s.ID, Name: s.Name, Fields: slices.Clone(s.Fields)}
}

// Clone returns a deep copy of e.
func (e *ExtendedData) Clone() *ExtendedData {
	if e == nil {
		return nil
	}
	out := &ExtendedData{Data: slices.Clone(e.Data)}
	for _, sd := range e.SchemaData {
		out.SchemaData = append(out.SchemaData, SchemaData{
			SchemaURL:  sd.SchemaURL,
			SimpleData: slices.Clone(sd.SimpleData),
		})
	}
	return out
}

func (d FeatureData) clone() FeatureData {
	out := d
	out.Visibility = cloneBool(d.Visibility)
	out.Open = cloneBool(d.Open)
	out.ExtendedData = d.ExtendedData.Clone()
	return out
}

func (m Members) clone() Members {
	var out Members
	for _, f := range m.Features {
		out.Features = append(out.Features, CloneFeature(f))
	}
	for _, s := range m.StyleSelectors {
		out.StyleSelectors = append(out.StyleSelectors, CloneStyleSelector(s))
	}
	return out
}

func cloneBool(b *bool) *bool {
	if b == nil {
		return nil
	}
	v := *b
	return &v
}

// Bool returns a pointer to v, for optional fields.
func Bool(v bool) *bool {
	return &v
}
