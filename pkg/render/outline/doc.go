// Package outline renders the hierarchy of a KML document as a diagram.
//
// # Overview
//
// Documents and folders appear as boxes connected by arrows from parent to
// child, each labeled with its name and the number of placemarks it holds
// directly. Styles and style maps hang off the container that declares
// them as dashed grey boxes, which makes orphaned or duplicated style
// definitions easy to spot.
//
// # Usage
//
//	dot := outline.ToDOT(tree, outline.Options{})
//	svg, err := outline.RenderSVG(dot)
//
// Set [Options].Placemarks to draw individual placemarks as leaves; for
// large networks this produces very wide diagrams.
//
// # Dependencies
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]. The DOT output can also be fed to an
// external dot binary.
package outline
