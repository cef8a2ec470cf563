package kml

import "testing"

func TestColorString(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Black, "ff000000"},
		{White, "ffffffff"},
		{RGB(255, 0, 0), "ff0000ff"},
		{RGB(0, 255, 0), "ff00ff00"},
		{RGB(0, 0, 255), "ffff0000"},
		{Color{R: 0x12, G: 0x34, B: 0x56, A: 0x78}, "78563412"},
		{Color{}, "00000000"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("%+v.String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "ff0000ff", want: RGB(255, 0, 0)},
		{in: "FF0000FF", want: RGB(255, 0, 0)},
		{in: "#7f00ff00", want: Color{G: 255, A: 0x7f}},
		{in: " ff000000 ", want: Black},
		{in: "ff0000", wantErr: true},
		{in: "ff0000ff0", wantErr: true},
		{in: "gg0000ff", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorRoundTrip(t *testing.T) {
	steps := []uint8{0, 1, 0x0f, 0x10, 0x7f, 0x80, 0xa5, 0xfe, 0xff}
	for _, r := range steps {
		for _, g := range steps {
			for _, b := range steps {
				for _, a := range steps {
					c := Color{R: r, G: g, B: b, A: a}
					got, err := ParseColor(c.String())
					if err != nil {
						t.Fatalf("ParseColor(%q): %v", c.String(), err)
					}
					if got != c {
						t.Fatalf("round trip %+v -> %q -> %+v", c, c.String(), got)
					}
				}
			}
		}
	}
}

func TestColorRGBA(t *testing.T) {
	r, g, b, a := RGB(255, 0, 128).RGBA()
	if r != 0xffff || g != 0 || b != 0x8080 || a != 0xffff {
		t.Errorf("RGBA() = %x %x %x %x", r, g, b, a)
	}
	_, _, _, a = Color{}.RGBA()
	if a != 0 {
		t.Errorf("transparent alpha = %x, want 0", a)
	}
}
