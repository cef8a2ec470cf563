// Package index answers bounding-box queries over the placemarks of a
// document tree.
//
// [Build] walks a tree once and stores the geographic bounds of every
// placemark in an R-tree. [Index.Query] returns the placemarks whose bounds
// intersect a box, in document order. [Region] uses the index to cut a tree
// down to an area of interest before exporting it.
package index

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/dhconnelly/rtreego"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/kml/crawl"
	"github.com/matzehuels/kmltool/pkg/kml/transform"
)

// Bounds is a longitude/latitude box in WGS84 degrees.
type Bounds struct {
	MinLon, MinLat float64
	MaxLon, MaxLat float64
}

// IsEmpty reports whether b is the zero Bounds.
func (b Bounds) IsEmpty() bool { return b == Bounds{} }

// Intersects reports whether b and o overlap. Touching edges count.
func (b Bounds) Intersects(o Bounds) bool {
	return b.MinLon <= o.MaxLon && o.MinLon <= b.MaxLon &&
		b.MinLat <= o.MaxLat && o.MinLat <= b.MaxLat
}

// Union returns the smallest box containing b and o. An empty operand is
// ignored.
func (b Bounds) Union(o Bounds) Bounds {
	if b.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return b
	}
	return Bounds{
		MinLon: math.Min(b.MinLon, o.MinLon),
		MinLat: math.Min(b.MinLat, o.MinLat),
		MaxLon: math.Max(b.MaxLon, o.MaxLon),
		MaxLat: math.Max(b.MaxLat, o.MaxLat),
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

// ParseBounds parses "minLon,minLat,maxLon,maxLat".
func ParseBounds(s string) (Bounds, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}, apperr.New(apperr.ErrCodeInvalidInput, "bounding box %q: want minLon,minLat,maxLon,maxLat", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Bounds{}, apperr.New(apperr.ErrCodeInvalidInput, "bounding box %q: %q is not a number", s, p)
		}
		v[i] = f
	}
	b := Bounds{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	if b.MinLon > b.MaxLon || b.MinLat > b.MaxLat {
		return Bounds{}, apperr.New(apperr.ErrCodeInvalidInput, "bounding box %q: minimum exceeds maximum", s)
	}
	return b, nil
}

// BoundsOf returns the bounds of a geometry. ok is false for a nil
// geometry or one without coordinates.
func BoundsOf(g kml.Geometry) (b Bounds, ok bool) {
	coords := kml.Coords(g)
	if len(coords) == 0 {
		return Bounds{}, false
	}
	b = Bounds{MinLon: coords[0].Lon, MinLat: coords[0].Lat, MaxLon: coords[0].Lon, MaxLat: coords[0].Lat}
	for _, c := range coords[1:] {
		b.MinLon = math.Min(b.MinLon, c.Lon)
		b.MinLat = math.Min(b.MinLat, c.Lat)
		b.MaxLon = math.Max(b.MaxLon, c.Lon)
		b.MaxLat = math.Max(b.MaxLat, c.Lat)
	}
	return b, true
}

// epsilon pads degenerate boxes, since the R-tree requires positive
// extents. It is roughly 11 m at the equator.
const epsilon = 0.0001

func rect(b Bounds) rtreego.Rect {
	lon := math.Max(b.MaxLon-b.MinLon, epsilon)
	lat := math.Max(b.MaxLat-b.MinLat, epsilon)
	r, _ := rtreego.NewRect(rtreego.Point{b.MinLon, b.MinLat}, []float64{lon, lat})
	return r
}

type entry struct {
	placemark *kml.Placemark
	bounds    Bounds
	order     int
}

// Bounds implements rtreego.Spatial.
func (e *entry) Bounds() rtreego.Rect { return rect(e.bounds) }

// Index is a spatial index over the placemarks of one tree. It is not
// updated when the tree changes.
type Index struct {
	rtree  *rtreego.Rtree
	count  int
	bounds Bounds
}

// Build indexes every placemark of t that has coordinates.
func Build(t *kml.Tree) *Index {
	idx := &Index{rtree: rtreego.NewTree(2, 25, 50)}
	if t == nil || t.Root == nil {
		return idx
	}
	_ = crawl.Crawl(t.Root, crawl.Funcs{Feature: func(it crawl.Item) error {
		p, ok := it.Node.(*kml.Placemark)
		if !ok {
			return nil
		}
		b, ok := BoundsOf(p.Geometry)
		if !ok {
			return nil
		}
		idx.rtree.Insert(&entry{placemark: p, bounds: b, order: idx.count})
		idx.count++
		idx.bounds = idx.bounds.Union(b)
		return nil
	}})
	return idx
}

// Count returns the number of indexed placemarks.
func (idx *Index) Count() int { return idx.count }

// Bounds returns the box covering every indexed placemark.
func (idx *Index) Bounds() Bounds { return idx.bounds }

// Query returns the placemarks whose bounds intersect b, in document order.
func (idx *Index) Query(b Bounds) []*kml.Placemark {
	if idx.count == 0 {
		return nil
	}
	found := idx.rtree.SearchIntersect(rect(b))
	hits := make([]*entry, 0, len(found))
	for _, s := range found {
		e := s.(*entry)
		// The padded query rectangle can reach slightly past b.
		if e.bounds.Intersects(b) {
			hits = append(hits, e)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].order < hits[j].order })

	out := make([]*kml.Placemark, len(hits))
	for i, e := range hits {
		out[i] = e.placemark
	}
	return out
}

// Region returns a clone of t holding only the placemarks that intersect b,
// with folders left empty removed. It also returns the number of placemarks
// kept.
func Region(t *kml.Tree, b Bounds) (*kml.Tree, int) {
	clone := t.Clone()
	keep := make(map[*kml.Placemark]bool)
	for _, p := range Build(clone).Query(b) {
		keep[p] = true
	}
	transform.RemovePlacemarks(clone, func(p *kml.Placemark) bool { return !keep[p] })
	transform.RemoveEmptyFolders(clone)
	return clone, len(keep)
}
