package dxf

import "math"

// Fixed entries of the AutoCAD Color Index.
var aciFixed = [10][3]uint8{
	{0, 0, 0}, // 0: BYBLOCK
	{255, 0, 0},
	{255, 255, 0},
	{0, 255, 0},
	{0, 255, 255},
	{0, 0, 255},
	{255, 0, 255},
	{255, 255, 255},
	{128, 128, 128},
	{192, 192, 192},
}

var aciGrays = [6]uint8{51, 91, 132, 173, 214, 255}

// Brightness of the ten shades generated per hue in entries 10-249.
var aciValues = [5]float64{1, 0.65, 0.5, 0.3, 0.15}

// ACIColor maps an AutoCAD Color Index to RGB. Indices outside 1-255
// (BYBLOCK 0, BYLAYER 256, switched-off layers) report ok == false.
//
// Entries 10-249 form a hue wheel in 15 degree steps: for each hue there
// are five brightness levels, each at full and at half saturation.
func ACIColor(index int) (r, g, b uint8, ok bool) {
	switch {
	case index >= 1 && index <= 9:
		c := aciFixed[index]
		return c[0], c[1], c[2], true
	case index >= 10 && index <= 249:
		i := index - 10
		hue := float64(i/10) * 15
		shade := i % 10
		sat := 1.0
		if shade%2 == 1 {
			sat = 0.5
		}
		r, g, b = hsv(hue, sat, aciValues[shade/2])
		return r, g, b, true
	case index >= 250 && index <= 255:
		v := aciGrays[index-250]
		return v, v, v, true
	}
	return 0, 0, 0, false
}

func hsv(h, s, v float64) (uint8, uint8, uint8) {
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return to8(r + m), to8(g + m), to8(b + m)
}

func to8(f float64) uint8 {
	return uint8(math.Round(f * 255))
}
