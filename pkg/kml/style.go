package kml

// Style is a named set of drawing properties. Either sub-style may be nil.
type Style struct {
	ID        string
	LineStyle *LineStyle
	IconStyle *IconStyle
}

// LineStyle describes how line geometries are drawn.
type LineStyle struct {
	Color Color
	Width float64
}

// IconStyle describes the icon used for point geometries.
type IconStyle struct {
	Color   *Color
	Scale   float64
	Heading float64
	Href    string
}

// StyleMap switches between two styles, keyed "normal" and "highlight".
type StyleMap struct {
	ID    string
	Pairs []StyleMapPair
}

// StyleMapPair maps a key to a style URL.
type StyleMapPair struct {
	Key      string
	StyleURL string
}

func (*Style) Kind() Kind    { return KindStyle }
func (*StyleMap) Kind() Kind { return KindStyleMap }

func (*Style) node()    {}
func (*StyleMap) node() {}

func (*Style) styleSelector()    {}
func (*StyleMap) styleSelector() {}

func (s *Style) SelectorID() string    { return s.ID }
func (s *StyleMap) SelectorID() string { return s.ID }

// NewStyle returns a style with the given id and no sub-styles.
func NewStyle(id string) *Style {
	return &Style{ID: id}
}

// EnsureLineStyle returns the line style, creating a default one
// (opaque white, width 1) if it does not exist yet.
func (s *Style) EnsureLineStyle() *LineStyle {
	if s.LineStyle == nil {
		s.LineStyle = &LineStyle{Color: White, Width: 1}
	}
	return s.LineStyle
}

// EnsureIconStyle returns the icon style, creating a default one
// (scale 1, heading 0) if it does not exist yet.
func (s *Style) EnsureIconStyle() *IconStyle {
	if s.IconStyle == nil {
		s.IconStyle = &IconStyle{Scale: 1}
	}
	return s.IconStyle
}
