package proj

import (
	"math"
	"testing"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestParseCode(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"EPSG:21781", 21781, false},
		{"epsg:4326", 4326, false},
		{" 2056 ", 2056, false},
		{"ESRI:102100", 0, true},
		{"EPSG:", 0, true},
		{"EPSG:-1", 0, true},
		{"wgs84", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCode(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		crs  string
		name string
	}{
		{"EPSG:4326", "WGS 84"},
		{"EPSG:3857", "WGS 84 / Pseudo-Mercator"},
		{"EPSG:32632", "WGS 84 / UTM zone 32N"},
		{"EPSG:32733", "WGS 84 / UTM zone 33S"},
		{"EPSG:25832", "ETRS89 / UTM zone 32N"},
		{"EPSG:21781", "CH1903 / LV03"},
		{"EPSG:2056", "CH1903+ / LV95"},
	}
	for _, tt := range tests {
		t.Run(tt.crs, func(t *testing.T) {
			p, err := Lookup(tt.crs)
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if p.Code() != tt.crs {
				t.Errorf("Code() = %q, want %q", p.Code(), tt.crs)
			}
			if p.Name() != tt.name {
				t.Errorf("Name() = %q, want %q", p.Name(), tt.name)
			}
		})
	}
}

func TestLookup_Unsupported(t *testing.T) {
	for _, crs := range []string{"EPSG:27700", "EPSG:32661", "EPSG:25839", "nonsense"} {
		_, err := Lookup(crs)
		if !apperr.Is(err, apperr.ErrCodeProjection) {
			t.Errorf("Lookup(%q) error = %v, want PROJECTION_ERROR", crs, err)
		}
	}
}

func TestSwiss_Bern(t *testing.T) {
	tests := []struct {
		crs  string
		x, y float64
	}{
		{"EPSG:21781", 600000, 200000},
		{"EPSG:2056", 2600000, 1200000},
	}
	for _, tt := range tests {
		t.Run(tt.crs, func(t *testing.T) {
			got, err := Reproject(tt.crs, [][2]float64{{tt.x, tt.y}})
			if err != nil {
				t.Fatal(err)
			}
			// The three-parameter datum shift is good to about a metre.
			if !near(got[0].Lon, 7.43863, 3e-5) || !near(got[0].Lat, 46.95108, 3e-5) {
				t.Errorf("Reproject(Bern) = %+v", got[0])
			}
		})
	}
}

func TestUTM_CentralMeridian(t *testing.T) {
	p, _ := Lookup("EPSG:32632")
	lon, lat, err := p.Inverse(500000, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !near(lon, 9, 1e-9) || !near(lat, 0, 1e-9) {
		t.Errorf("Inverse(500000, 0) = %v, %v, want 9, 0", lon, lat)
	}

	s, _ := Lookup("EPSG:32733")
	lon, lat, err = s.Inverse(500000, 10000000)
	if err != nil {
		t.Fatal(err)
	}
	if !near(lon, 15, 1e-9) || !near(lat, 0, 1e-9) {
		t.Errorf("south Inverse(500000, 1e7) = %v, %v, want 15, 0", lon, lat)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		crs      string
		lon, lat float64
		tol      float64
	}{
		{"EPSG:4326", 8.5, 47.3, 0},
		{"EPSG:3857", -122.4194, 37.7749, 1e-9},
		{"EPSG:32632", 8.5, 47.3, 1e-7},
		{"EPSG:32632", 10.9, 52.1, 1e-7},
		{"EPSG:32756", 151.2093, -33.8688, 1e-7},
		{"EPSG:25833", 13.4050, 52.5200, 1e-7},
		{"EPSG:21781", 8.5417, 47.3769, 1e-7},
		{"EPSG:2056", 6.1432, 46.2044, 1e-7},
		{"EPSG:900913", 2.3522, 48.8566, 1e-9},
	}
	for _, tt := range tests {
		t.Run(tt.crs, func(t *testing.T) {
			p, err := Lookup(tt.crs)
			if err != nil {
				t.Fatal(err)
			}
			x, y, err := p.Forward(tt.lon, tt.lat)
			if err != nil {
				t.Fatal(err)
			}
			lon, lat, err := p.Inverse(x, y)
			if err != nil {
				t.Fatal(err)
			}
			if !near(lon, tt.lon, tt.tol) || !near(lat, tt.lat, tt.tol) {
				t.Errorf("round trip (%v, %v) = (%v, %v)", tt.lon, tt.lat, lon, lat)
			}
		})
	}
}

func TestWebMercator(t *testing.T) {
	p, _ := Lookup("EPSG:3857")
	lon, lat, err := p.Inverse(20037508.342789244, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !near(lon, 180, 1e-9) || !near(lat, 0, 1e-9) {
		t.Errorf("Inverse(edge) = %v, %v", lon, lat)
	}
	for _, lat := range []float64{90, -90, 91} {
		if _, _, err := p.Forward(0, lat); !apperr.Is(err, apperr.ErrCodeProjection) {
			t.Errorf("Forward(0, %v) error = %v, want PROJECTION_ERROR", lat, err)
		}
	}
}

func TestLookup_GoogleAlias(t *testing.T) {
	google, _ := Lookup("EPSG:900913")
	web, _ := Lookup("EPSG:3857")
	if google.Code() != "EPSG:900913" {
		t.Errorf("Code() = %q, want EPSG:900913", google.Code())
	}
	gx, gy, err := google.Forward(8.5, 47.3)
	if err != nil {
		t.Fatal(err)
	}
	wx, wy, _ := web.Forward(8.5, 47.3)
	if gx != wx || gy != wy {
		t.Errorf("Forward() = (%v, %v), want (%v, %v)", gx, gy, wx, wy)
	}
}

func TestInverse_OutsideDomain(t *testing.T) {
	p, _ := Lookup("EPSG:3857")
	_, err := Reproject(p.Code(), [][2]float64{{0, 0}, {math.NaN(), 0}})
	if !apperr.Is(err, apperr.ErrCodeProjection) {
		t.Errorf("Reproject(NaN) error = %v, want PROJECTION_ERROR", err)
	}
}

func TestGeographic_OutOfRange(t *testing.T) {
	_, err := Reproject("EPSG:4326", [][2]float64{{8, 47}, {600000, 200000}})
	if !apperr.Is(err, apperr.ErrCodeProjection) {
		t.Errorf("Reproject() error = %v, want PROJECTION_ERROR", err)
	}
}

func TestReproject_Empty(t *testing.T) {
	got, err := Reproject("EPSG:2056", nil)
	if err != nil || len(got) != 0 {
		t.Errorf("Reproject(nil) = %v, %v", got, err)
	}
}

func TestSupported(t *testing.T) {
	got := Supported()
	for _, crs := range got {
		if _, err := Lookup(crs); err != nil {
			t.Errorf("Supported() lists %s but Lookup() = %v", crs, err)
		}
	}
	if len(got) == 0 || got[0] != "EPSG:2056" {
		t.Errorf("Supported() = %v", got)
	}
}
