// Package proj converts projected drawing coordinates to WGS84 longitude
// and latitude.
//
// Supported source systems are looked up by EPSG code with [Lookup]:
//
//   - EPSG:4326 WGS84 geographic (identity)
//   - EPSG:3857 Web Mercator
//   - EPSG:32601-32660, 32701-32760 WGS84 UTM north and south
//   - EPSG:25828-25838 ETRS89 UTM
//   - EPSG:21781 CH1903 / LV03 and EPSG:2056 CH1903+ / LV95
//
// Transforms come from github.com/wroge/wgs84, including the Helmert datum
// shifts of the Swiss and ETRS89 systems. Any other code fails with a
// PROJECTION_ERROR.
package proj

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/wroge/wgs84/v2"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/kml"
)

// Projection converts between a projected system and WGS84 degrees.
type Projection interface {
	// Code returns the "EPSG:n" identifier.
	Code() string
	Name() string
	// Inverse converts projected x (easting) and y (northing) to WGS84.
	Inverse(x, y float64) (lon, lat float64, err error)
	// Forward converts WGS84 degrees to projected coordinates.
	Forward(lon, lat float64) (x, y float64, err error)
}

// ParseCode extracts the numeric EPSG code from "EPSG:n", "epsg:n" or "n".
func ParseCode(crs string) (int, error) {
	s := strings.TrimSpace(crs)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		if !strings.EqualFold(s[:i], "EPSG") {
			return 0, apperr.New(apperr.ErrCodeProjection, "unsupported authority in %q", crs)
		}
		s = s[i+1:]
	}
	code, err := strconv.Atoi(s)
	if err != nil || code <= 0 {
		return 0, apperr.New(apperr.ErrCodeProjection, "invalid coordinate reference system %q", crs)
	}
	return code, nil
}

// Lookup returns the projection for crs.
func Lookup(crs string) (Projection, error) {
	code, err := ParseCode(crs)
	if err != nil {
		return nil, err
	}
	if p := byCode(code); p != nil {
		return p, nil
	}
	return nil, apperr.New(apperr.ErrCodeProjection, "no transform from EPSG:%d to WGS84", code)
}

func byCode(code int) Projection {
	switch {
	case code == 4326:
		return geographic{}
	case code == 3857 || code == 900913:
		p := newProjection(code, 3857, "WGS 84 / Pseudo-Mercator")
		p.mercator = true
		return p
	case code >= 32601 && code <= 32660:
		return newProjection(code, code, fmt.Sprintf("WGS 84 / UTM zone %dN", code-32600))
	case code >= 32701 && code <= 32760:
		return newProjection(code, code, fmt.Sprintf("WGS 84 / UTM zone %dS", code-32700))
	case code >= 25828 && code <= 25838:
		return newProjection(code, code, fmt.Sprintf("ETRS89 / UTM zone %dN", code-25800))
	case code == 21781:
		return newProjection(code, code, "CH1903 / LV03")
	case code == 2056:
		return newProjection(code, code, "CH1903+ / LV95")
	}
	return nil
}

// Supported returns one representative code per supported family plus
// every explicitly named system, sorted.
func Supported() []string {
	codes := []int{4326, 3857, 21781, 2056, 32601, 32660, 32701, 32760, 25828, 25838}
	sort.Ints(codes)
	out := make([]string, len(codes))
	for i, c := range codes {
		out[i] = fmt.Sprintf("EPSG:%d", c)
	}
	return out
}

// Reproject converts every point from crs to WGS84, one at a time.
func Reproject(crs string, pts [][2]float64) ([]kml.Coord, error) {
	p, err := Lookup(crs)
	if err != nil {
		return nil, err
	}
	return Transform(p, pts)
}

// Transform converts every point with p to WGS84. It fails on the first
// point that has no valid geographic position.
func Transform(p Projection, pts [][2]float64) ([]kml.Coord, error) {
	out := make([]kml.Coord, len(pts))
	for i, pt := range pts {
		lon, lat, err := p.Inverse(pt[0], pt[1])
		if err != nil {
			return nil, err
		}
		out[i] = kml.Coord{Lon: lon, Lat: lat}
	}
	return out, nil
}

func checkGeographic(code string, x, y, lon, lat float64) error {
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) ||
		lat < -90 || lat > 90 || lon < -540 || lon > 540 {
		return apperr.New(apperr.ErrCodeProjection, "%s: (%g, %g) is outside the projection domain", code, x, y)
	}
	return nil
}

type geographic struct{}

func (geographic) Code() string { return "EPSG:4326" }
func (geographic) Name() string { return "WGS 84" }

func (g geographic) Inverse(x, y float64) (float64, float64, error) {
	if err := checkGeographic(g.Code(), x, y, x, y); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func (g geographic) Forward(lon, lat float64) (float64, float64, error) {
	return g.Inverse(lon, lat)
}

// transform maps (a, b, height) between two reference systems.
type transform = func(a, b, c float64) (float64, float64, float64)

// projection wraps the wgs84 transforms between one projected system and
// WGS84 geographic coordinates, datum shift included.
type projection struct {
	code     int
	name     string
	mercator bool // Forward rejects the poles
	inverse  transform
	forward  transform
}

func newProjection(code, epsg int, name string) projection {
	src, geo := wgs84.EPSG(epsg), wgs84.EPSG(4326)
	return projection{
		code:    code,
		name:    name,
		inverse: wgs84.Transform(src, geo),
		forward: wgs84.Transform(geo, src),
	}
}

func (p projection) Code() string { return fmt.Sprintf("EPSG:%d", p.code) }
func (p projection) Name() string { return p.name }

func (p projection) Inverse(x, y float64) (float64, float64, error) {
	lon, lat, _ := p.inverse(x, y, 0)
	if err := checkGeographic(p.Code(), x, y, lon, lat); err != nil {
		return 0, 0, err
	}
	return lon, lat, nil
}

func (p projection) Forward(lon, lat float64) (float64, float64, error) {
	if lat < -90 || lat > 90 || (p.mercator && (lat <= -90 || lat >= 90)) {
		return 0, 0, apperr.New(apperr.ErrCodeProjection, "%s: latitude %g cannot be projected", p.Code(), lat)
	}
	x, y, _ := p.forward(lon, lat, 0)
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return 0, 0, apperr.New(apperr.ErrCodeProjection, "%s: (%g, %g) cannot be projected", p.Code(), lon, lat)
	}
	return x, y, nil
}
