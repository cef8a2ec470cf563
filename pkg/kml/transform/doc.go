// Package transform provides in-place rewrites of a KML document tree that
// prepare it for export.
//
// # Overview
//
// Every function here mutates the tree it is given. Export code runs them
// on a clone obtained from [kml.Tree.Clone] so the tree being edited by the
// user is never changed.
//
// All passes are driven by the walker in package crawl and only ever remove
// nodes that are being visited or were visited already, which the walker
// supports.
//
// # Extended Data Flattening
//
// [FlattenExtendedData] turns each feature's attribute table into an HTML
// table in its description and removes the structured data. Viewers that
// ignore ExtendedData (Google Maps overlays among them) still show the
// attributes this way. Names and values are inserted verbatim.
//
// # Placemark Partitioning
//
// [CountPlacemarks], [KeepPlacemarkRange] and [RemoveEmptyFolders] are the
// building blocks of split export: count, prune to one contiguous range of
// placemarks in document order, then drop folders left empty.
//
//	n := transform.CountPlacemarks(tree)
//	transform.KeepPlacemarkRange(tree, 0, n/2-1)
//	transform.RemoveEmptyFolders(tree)
//
// Styles referenced only by removed placemarks are left in place.
package transform
