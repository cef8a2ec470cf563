package kml

import "fmt"

// Kind identifies the concrete type of a [Node].
type Kind int

const (
	KindDocument Kind = iota
	KindFolder
	KindPlacemark
	KindStyle
	KindStyleMap
	KindPoint
	KindLineString
)

var kindNames = [...]string{
	KindDocument:   "Document",
	KindFolder:     "Folder",
	KindPlacemark:  "Placemark",
	KindStyle:      "Style",
	KindStyleMap:   "StyleMap",
	KindPoint:      "Point",
	KindLineString: "LineString",
}

// String returns the KML element name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsFeature reports whether nodes of this kind are features.
func (k Kind) IsFeature() bool {
	return k == KindDocument || k == KindFolder || k == KindPlacemark
}

// IsContainer reports whether nodes of this kind own child features.
func (k Kind) IsContainer() bool {
	return k == KindDocument || k == KindFolder
}

// IsStyleSelector reports whether nodes of this kind are styles or style maps.
func (k Kind) IsStyleSelector() bool {
	return k == KindStyle || k == KindStyleMap
}

// Node is any element of the document tree. The set of implementations is
// closed to this package.
type Node interface {
	Kind() Kind
	node()
}

// Feature is a node that appears as a named item in the hierarchy:
// [*Document], [*Folder] or [*Placemark].
type Feature interface {
	Node
	// Base returns the fields shared by every feature.
	Base() *FeatureData
}

// Container is a feature that owns child features and style selectors:
// [*Document] or [*Folder].
type Container interface {
	Feature
	Members() *Members
}

// StyleSelector is a [*Style] or a [*StyleMap].
type StyleSelector interface {
	Node
	SelectorID() string
	styleSelector()
}

// Geometry is the shape of a placemark: [*Point] or [*LineString].
type Geometry interface {
	Node
	geometry()
}

// FeatureData holds the fields every feature carries.
type FeatureData struct {
	ID          string
	Name        string
	Description string
	Visibility  *bool
	Open        *bool
	// StyleURL references a style selector, usually "#" + its id.
	StyleURL     string
	ExtendedData *ExtendedData
}

// Members is the ordered content of a container. Feature order is display
// order; style selector order is independent of it.
type Members struct {
	Features       []Feature
	StyleSelectors []StyleSelector
}

// AddFeature appends f and returns it.
func (m *Members) AddFeature(f Feature) Feature {
	m.Features = append(m.Features, f)
	return f
}

// AddStyleSelector appends s and returns it.
func (m *Members) AddStyleSelector(s StyleSelector) StyleSelector {
	m.StyleSelectors = append(m.StyleSelectors, s)
	return s
}

// RemoveFeature removes f by identity and reports whether it was present.
func (m *Members) RemoveFeature(f Feature) bool {
	for i, c := range m.Features {
		if c == f {
			m.Features = append(m.Features[:i:i], m.Features[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveStyleSelector removes s by identity and reports whether it was present.
func (m *Members) RemoveStyleSelector(s StyleSelector) bool {
	for i, c := range m.StyleSelectors {
		if c == s {
			m.StyleSelectors = append(m.StyleSelectors[:i:i], m.StyleSelectors[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of features and style selectors.
func (m *Members) Len() int {
	return len(m.Features) + len(m.StyleSelectors)
}

// Snapshot returns the features followed by the style selectors in a new
// slice. Later changes to m do not affect the returned slice.
func (m *Members) Snapshot() []Node {
	out := make([]Node, 0, m.Len())
	for _, f := range m.Features {
		out = append(out, f)
	}
	for _, s := range m.StyleSelectors {
		out = append(out, s)
	}
	return out
}

// Document is the usual root of a tree. Besides its members it owns the
// schema definitions referenced by [SchemaData].
type Document struct {
	FeatureData
	Contents Members
	Schemas  []*Schema
}

// Folder groups features below a document.
type Folder struct {
	FeatureData
	Contents Members
}

// Placemark is a leaf feature with an optional geometry.
type Placemark struct {
	FeatureData
	Geometry Geometry
}

func (*Document) Kind() Kind  { return KindDocument }
func (*Folder) Kind() Kind    { return KindFolder }
func (*Placemark) Kind() Kind { return KindPlacemark }

func (*Document) node()  {}
func (*Folder) node()    {}
func (*Placemark) node() {}

func (d *Document) Base() *FeatureData  { return &d.FeatureData }
func (f *Folder) Base() *FeatureData    { return &f.FeatureData }
func (p *Placemark) Base() *FeatureData { return &p.FeatureData }

func (d *Document) Members() *Members { return &d.Contents }
func (f *Folder) Members() *Members   { return &f.Contents }

// NewDocument returns an empty document with the given name.
func NewDocument(name string) *Document {
	return &Document{FeatureData: FeatureData{Name: name}}
}

// NewFolder returns an empty folder with the given name.
func NewFolder(name string) *Folder {
	return &Folder{FeatureData: FeatureData{Name: name}}
}

// NewPlacemark returns a placemark with the given name and geometry.
func NewPlacemark(name string, g Geometry) *Placemark {
	return &Placemark{FeatureData: FeatureData{Name: name}, Geometry: g}
}

// StyleRef returns the style URL that references a selector with the given id.
func StyleRef(id string) string {
	return "#" + id
}
