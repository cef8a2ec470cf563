// Package convert turns a CAD drawing into a KML document tree.
//
// Each drawing layer that carries geometry becomes one [kml.Style] and one
// [kml.Folder], both named after the layer. Points become Point placemarks
// and polylines become LineString placemarks, all referencing the layer
// style. Coordinates are reprojected from the drawing's reference system to
// WGS84 through package proj.
//
// Layers named "" or "0" are skipped: by convention they carry no useful
// data.
package convert

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/kmltool/pkg/dxf"
	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/proj"
)

// DefaultCRS is used when Options.SourceCRS is empty.
const DefaultCRS = "EPSG:21781"

// Options control a conversion.
type Options struct {
	// SourceCRS is the drawing's reference system, e.g. "EPSG:2056".
	SourceCRS string
	// Name is the document name. File derives it from the file name when
	// empty.
	Name string
}

// Drawing converts d to a document tree. It fails with an IMPORT_ERROR
// when no transform exists for the source system or a coordinate cannot be
// reprojected.
func Drawing(d *dxf.Drawing, opts Options) (*kml.Tree, error) {
	crs := opts.SourceCRS
	if crs == "" {
		crs = DefaultCRS
	}
	p, err := proj.Lookup(crs)
	if err != nil {
		return nil, apperr.Import(err, "no coordinate transform for %s", crs)
	}

	doc := kml.NewDocument(opts.Name)
	for _, l := range d.Layers {
		if err := convertLayer(doc, l, p); err != nil {
			return nil, apperr.Import(err, "could not convert layer %q", l.Name)
		}
	}
	return kml.NewTree(doc), nil
}

// File reads and converts the drawing at path.
func File(path string, opts Options) (*kml.Tree, error) {
	d, err := dxf.ReadFile(path)
	if err != nil {
		return nil, apperr.Import(err, "could not import DXF file %s", path)
	}
	if opts.Name == "" {
		opts.Name = DocumentName(path)
	}
	return Drawing(d, opts)
}

// DocumentName returns the base name of path up to its first '.', or the
// whole base name when it has none.
func DocumentName(path string) string {
	name := filepath.Base(path)
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

func convertLayer(doc *kml.Document, l *dxf.Layer, p proj.Projection) error {
	if l.Name == "" || l.Name == "0" || !l.HasGeometry() {
		return nil
	}

	style := LayerStyle(l)
	folder := kml.NewFolder(l.Name)
	ref := kml.StyleRef(style.ID)

	for _, v := range l.Points {
		lon, lat, err := p.Inverse(v.X, v.Y)
		if err != nil {
			return err
		}
		pm := kml.NewPlacemark("", &kml.Point{Coordinate: kml.Coord{Lon: lon, Lat: lat}})
		pm.StyleURL = ref
		folder.Contents.AddFeature(pm)
	}
	for _, line := range l.Polylines {
		coords, err := reproject(p, line)
		if err != nil {
			return err
		}
		pm := kml.NewPlacemark("", &kml.LineString{Coordinates: coords})
		pm.StyleURL = ref
		folder.Contents.AddFeature(pm)
	}

	doc.Contents.AddStyleSelector(style)
	doc.Contents.AddFeature(folder)
	return nil
}

func reproject(p proj.Projection, line []dxf.Vec) ([]kml.Coord, error) {
	pts := make([][2]float64, len(line))
	for i, v := range line {
		pts[i] = [2]float64{v.X, v.Y}
	}
	return proj.Transform(p, pts)
}

// LayerStyle builds the line style for a layer. Undefined colors become
// opaque black; the width is 1 plus the line weight in hundredths.
func LayerStyle(l *dxf.Layer) *kml.Style {
	s := kml.NewStyle(l.Name)
	ls := s.EnsureLineStyle()
	ls.Color = LayerColor(l.Color)
	ls.Width = 1
	if l.LineWeight != nil && *l.LineWeight >= 0 {
		ls.Width = 1 + float64(*l.LineWeight)/100
	}
	return s
}

// LayerColor maps an AutoCAD color index to an opaque KML color.
func LayerColor(index *int) kml.Color {
	if index == nil || *index < 0 {
		return kml.Black
	}
	r, g, b, ok := dxf.ACIColor(*index)
	if !ok {
		return kml.Black
	}
	return kml.RGB(r, g, b)
}
