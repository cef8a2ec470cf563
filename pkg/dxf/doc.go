// Package dxf reads the parts of an ASCII DXF drawing that map onto KML:
// layers with their color and line weight, and the point and polyline
// entities drawn on them.
//
// A DXF file is a flat sequence of group-code/value line pairs. [Read]
// scans the TABLES section for LAYER records and the ENTITIES section for
// POINT, LWPOLYLINE and POLYLINE (with its VERTEX records). Other sections,
// including BLOCKS, and other entity types are skipped. Binary DXF is not
// supported.
//
//	d, err := dxf.ReadFile("network.dxf")
//	for _, l := range d.Layers {
//	    fmt.Println(l.Name, len(l.Points), len(l.Polylines))
//	}
//
// Colors are AutoCAD Color Index values; [ACIColor] maps them to RGB.
package dxf
