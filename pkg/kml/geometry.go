package kml

// Coord is a WGS84 position in degrees.
type Coord struct {
	Lon float64
	Lat float64
}

// Point is a single position.
type Point struct {
	ID         string
	Coordinate Coord
}

// LineString is an ordered path. It may be empty.
type LineString struct {
	ID          string
	Tessellate  bool
	Coordinates []Coord
}

func (*Point) Kind() Kind      { return KindPoint }
func (*LineString) Kind() Kind { return KindLineString }

func (*Point) node()      {}
func (*LineString) node() {}

func (*Point) geometry()      {}
func (*LineString) geometry() {}

// Coords returns the positions of a geometry in path order.
func Coords(g Geometry) []Coord {
	switch g := g.(type) {
	case *Point:
		return []Coord{g.Coordinate}
	case *LineString:
		return g.Coordinates
	case nil:
		return nil
	default:
		panic("kml: unknown geometry " + g.Kind().String())
	}
}
