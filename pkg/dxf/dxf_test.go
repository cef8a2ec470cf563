package dxf

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// dxfSource joins group code/value pairs into DXF text.
func dxfSource(pairs ...string) string {
	return strings.Join(pairs, "\n") + "\n"
}

var sample = dxfSource(
	"0", "SECTION", "2", "HEADER",
	"9", "$ACADVER", "1", "AC1015",
	"0", "ENDSEC",
	"0", "SECTION", "2", "TABLES",
	"0", "TABLE", "2", "LAYER", "70", "3",
	"0", "LAYER", "2", "0", "70", "0", "62", "7", "6", "CONTINUOUS",
	"0", "LAYER", "2", "WATER", "70", "0", "62", "5", "370", "50",
	"0", "LAYER", "2", "GAS", "70", "0", "62", "-1", "370", "-3",
	"0", "LAYER", "2", "EMPTY", "70", "0", "62", "3",
	"0", "ENDTAB",
	"0", "ENDSEC",
	"0", "SECTION", "2", "BLOCKS",
	"0", "BLOCK", "8", "WATER", "2", "VALVE",
	"0", "POINT", "8", "WATER", "10", "99", "20", "99",
	"0", "ENDBLK",
	"0", "ENDSEC",
	"0", "SECTION", "2", "ENTITIES",
	"0", "POINT", "5", "1A", "8", "WATER", "10", "600000.0", "20", "200000.0", "30", "0.0",
	"0", "LINE", "8", "WATER", "10", "1", "20", "2", "11", "3", "21", "4",
	"0", "LWPOLYLINE", "8", "WATER", "90", "3", "70", "0",
	"10", "1.5", "20", "2.5",
	"10", "3.5", "20", "4.5",
	"10", "5.5", "20", "6.5",
	"0", "POLYLINE", "8", "GAS", "66", "1", "70", "0",
	"0", "VERTEX", "8", "GAS", "10", "10", "20", "20", "70", "0",
	"0", "VERTEX", "8", "GAS", "10", "11", "20", "21", "70", "16",
	"0", "VERTEX", "8", "GAS", "10", "12", "20", "22",
	"0", "SEQEND", "8", "GAS",
	"0", "POINT", "8", "UNLISTED", "10", "-1", "20", "-2",
	"0", "ENDSEC",
	"0", "EOF",
)

func intp(v int) *int { return &v }

func TestRead(t *testing.T) {
	d, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	want := []*Layer{
		{Name: "0", Color: intp(7)},
		{
			Name:       "WATER",
			Color:      intp(5),
			LineWeight: intp(50),
			Points:     []Vec{{600000, 200000}},
			Polylines:  [][]Vec{{{1.5, 2.5}, {3.5, 4.5}, {5.5, 6.5}}},
		},
		{
			Name:      "GAS",
			Polylines: [][]Vec{{{10, 20}, {12, 22}}},
		},
		{Name: "EMPTY", Color: intp(3)},
		{Name: "UNLISTED", Points: []Vec{{-1, -2}}},
	}
	if diff := cmp.Diff(want, d.Layers); diff != "" {
		t.Errorf("layers mismatch (-want +got):\n%s", diff)
	}

	if l := d.LayerByName("GAS"); l == nil || !l.HasGeometry() {
		t.Errorf("LayerByName(GAS) = %+v", l)
	}
	if l := d.LayerByName("EMPTY"); l == nil || l.HasGeometry() {
		t.Errorf("LayerByName(EMPTY) = %+v", l)
	}
	if d.LayerByName("missing") != nil {
		t.Error("LayerByName(missing) != nil")
	}
}

func TestRead_CRLF(t *testing.T) {
	src := strings.ReplaceAll(sample, "\n", "\r\n")
	d, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if l := d.LayerByName("WATER"); l == nil || len(l.Points) != 1 {
		t.Errorf("WATER = %+v", l)
	}
}

func TestRead_PolylineWithoutSeqend(t *testing.T) {
	src := dxfSource(
		"0", "SECTION", "2", "ENTITIES",
		"0", "POLYLINE", "8", "L",
		"0", "VERTEX", "10", "1", "20", "1",
		"0", "VERTEX", "10", "2", "20", "2",
		"0", "POINT", "8", "L", "10", "3", "20", "3",
		"0", "ENDSEC",
		"0", "EOF",
	)
	d, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	l := d.LayerByName("L")
	if len(l.Polylines) != 1 || len(l.Polylines[0]) != 2 || len(l.Points) != 1 {
		t.Errorf("layer = %+v", l)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad group code", dxfSource("x", "SECTION")},
		{"missing value", "0\n"},
		{"bad number", dxfSource("0", "SECTION", "2", "ENTITIES", "0", "POINT", "10", "abc", "0", "ENDSEC")},
		{"bad color", dxfSource("0", "SECTION", "2", "TABLES", "0", "LAYER", "2", "A", "62", "red", "0", "ENDSEC")},
		{"unterminated", dxfSource("0", "SECTION", "2", "ENTITIES", "0", "POINT", "10", "1")},
		{"lwpolyline y first", dxfSource("0", "SECTION", "2", "ENTITIES", "0", "LWPOLYLINE", "20", "1", "0", "ENDSEC")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(tt.src)); err == nil {
				t.Error("Read() error = nil, want error")
			}
		})
	}
}

func TestRead_Binary(t *testing.T) {
	src := "AutoCAD Binary DXF\r\n\x1a\x00rest"
	if _, err := Read(strings.NewReader(src)); !errors.Is(err, ErrBinary) {
		t.Errorf("Read() error = %v, want %v", err, ErrBinary)
	}
}

func TestRead_Empty(t *testing.T) {
	d, err := Read(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Layers) != 0 {
		t.Errorf("layers = %d, want 0", len(d.Layers))
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.dxf")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Layers) != 5 {
		t.Errorf("layers = %d, want 5", len(d.Layers))
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.dxf")); err == nil {
		t.Error("ReadFile(missing) error = nil")
	}
}

func TestACIColor(t *testing.T) {
	tests := []struct {
		index   int
		r, g, b uint8
		ok      bool
	}{
		{1, 255, 0, 0, true},
		{5, 0, 0, 255, true},
		{7, 255, 255, 255, true},
		{8, 128, 128, 128, true},
		{10, 255, 0, 0, true},
		{30, 255, 128, 0, true},
		{90, 0, 255, 0, true},
		{170, 0, 0, 255, true},
		{12, 166, 0, 0, true},
		{250, 51, 51, 51, true},
		{255, 255, 255, 255, true},
		{0, 0, 0, 0, false},
		{256, 0, 0, 0, false},
		{-3, 0, 0, 0, false},
	}
	for _, tt := range tests {
		r, g, b, ok := ACIColor(tt.index)
		if r != tt.r || g != tt.g || b != tt.b || ok != tt.ok {
			t.Errorf("ACIColor(%d) = %d,%d,%d,%v want %d,%d,%d,%v", tt.index, r, g, b, ok, tt.r, tt.g, tt.b, tt.ok)
		}
	}
}
