// Package io reads and writes KML documents and KMZ archives.
//
// # Overview
//
// KML is the XML form of a [kml.Tree]. KMZ is a zip archive holding one KML
// document plus the files it refers to (icons, overlays). This package does
// the byte-level work; ownership of extracted files and the export policy
// live in the session and export packages.
//
// # KML
//
// Use [ImportKML] to read a file, [ReadKML] for any io.Reader, or
// [UnmarshalKML] for bytes in memory:
//
//	tree, err := io.ImportKML("network.kml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The encoder mirrors it with [ExportKML], [WriteKML] and [MarshalKML].
// Output is indented KML 2.2 with an XML declaration. Floats are written
// with the shortest representation that parses back to the same value, so
// coordinates survive a round trip exactly.
//
// The decoder understands the node types of package kml: Document, Folder,
// Placemark, Style (LineStyle, IconStyle), StyleMap, Point, LineString,
// ExtendedData (Data and SchemaData) and Schema. Everything else is
// skipped, including elements from extension namespaces.
//
// # KMZ
//
// [PackKMZ] and [WriteKMZ] build an archive from named entries and an
// optional directory of assets. [UnpackKMZ] and [ReadKMZFile] return all
// file entries. [SplitPackage] picks out the document entry, identified by
// a case-insensitive ".kml" extension, and fails if there is not exactly
// one:
//
//	entries, err := io.ReadKMZFile("network.kmz")
//	doc, assets, err := io.SplitPackage(entries)
//	tree, err := io.UnmarshalKML(doc.Data)
//	err = io.ExtractAssets(assets, scratchDir)
//
// Archives are written with the klauspost/compress deflate implementation
// at its best compression level.
package io
