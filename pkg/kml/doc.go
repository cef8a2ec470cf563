// Package kml provides the in-memory document tree that kmltool converts,
// edits and exports.
//
// # Overview
//
// A KML document is a rooted tree of typed nodes. Containers ([Document],
// [Folder]) own an ordered list of child features and an independently
// ordered list of style selectors. [Placemark] is the leaf feature and
// owns at most one geometry ([Point] or [LineString]). Styles ([Style],
// [StyleMap]) are referenced from placemarks by id; the reference is a
// plain string and is never resolved or validated by this package.
//
// # Node Kinds
//
// [Node] is a closed set: only the types in this package implement it.
// Code that switches on a node uses [Node.Kind] or a type switch and can
// treat the groups [Feature], [Container], [StyleSelector] and [Geometry]
// as the only variants that matter:
//
//	switch n := node.(type) {
//	case *kml.Placemark:
//	    // leaf feature
//	case kml.Container:
//	    // Document or Folder
//	case kml.StyleSelector:
//	    // Style or StyleMap
//	}
//
// # Ownership
//
// Every node has exactly one owning container. [Members.AddFeature] and
// [Members.AddStyleSelector] append; removal is by identity, so two nodes
// with equal field values are still distinct. [Tree.Validate] checks that
// no node is owned twice, which is how tests catch accidental sharing.
//
// # Colors
//
// Line and icon colors use the KML packed form: eight lowercase hex digits
// in alpha, blue, green, red order. [Color] converts to and from that form
// losslessly with [Color.String] and [ParseColor].
//
// # Cloning
//
// [Tree.Clone] returns a deep, independent copy. Export pipelines work on a
// clone so the tree held by the caller is never touched.
package kml
