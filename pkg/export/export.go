// Package export packages document trees as KMZ archives.
//
// [Exporter.Single] serializes a tree into one archive. When the tree was
// loaded from a KMZ, every accompanying asset is re-embedded and the
// document entry keeps its original archive path.
//
// [Exporter.Split] targets viewers that refuse large files. It flattens
// extended data into descriptions on a clone of the tree and, when the
// serialized result exceeds the threshold, spreads the placemarks over
// ceil(size/threshold) archives in document order. Each part keeps the full
// folder hierarchy down to its surviving placemarks, and every style. Styles
// that only deleted placemarks referenced are not pruned.
//
// The caller's tree is never modified. All failures are EXPORT_ERROR coded.
package export

import (
	"io"

	"github.com/charmbracelet/log"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	kmlio "github.com/matzehuels/kmltool/pkg/io"
	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/kml/transform"
)

// DefaultThreshold is the serialized size above which Split produces more
// than one archive.
const DefaultThreshold = 5 << 20

// Source describes where the exported tree was loaded from.
type Source struct {
	// Packaged is true when the tree came from a KMZ archive.
	Packaged bool
	// DocPath is the archive-relative path of the document entry. For trees
	// that did not come from an archive it may name the entry to create.
	DocPath string
	// AssetsDir holds the extracted non-document entries of the archive.
	AssetsDir string
}

// DocName returns the entry name of the serialized document.
func (s Source) DocName() string {
	if s.DocPath != "" {
		return s.DocPath
	}
	return kmlio.DefaultDocName
}

// Archive is one exported KMZ.
type Archive struct {
	// Index is the zero-based part number, 0 for an unsplit export.
	Index int
	Data  []byte
	// Placemarks is the number of placemarks in the archive.
	Placemarks int
}

// Exporter builds archives from trees. The zero value uses
// DefaultThreshold and no source assets.
type Exporter struct {
	Threshold int
	Source    Source
	Logger    *log.Logger
}

func (e *Exporter) threshold() int {
	if e.Threshold <= 0 {
		return DefaultThreshold
	}
	return e.Threshold
}

func (e *Exporter) logger() *log.Logger {
	if e.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return e.Logger
}

// Single serializes t into one archive.
func (e *Exporter) Single(t *kml.Tree) ([]byte, error) {
	if t == nil || t.Root == nil {
		return nil, apperr.Export(kml.ErrNilRoot, "nothing to export")
	}
	doc, err := kmlio.MarshalKML(t)
	if err != nil {
		return nil, apperr.Export(err, "could not serialize document")
	}
	return e.pack(doc)
}

func (e *Exporter) pack(doc []byte) ([]byte, error) {
	entries := []kmlio.Entry{{Name: e.Source.DocName(), Data: doc}}
	assets := ""
	if e.Source.Packaged {
		assets = e.Source.AssetsDir
	}
	b, err := kmlio.PackKMZ(entries, assets)
	if err != nil {
		return nil, apperr.Export(err, "could not package archive")
	}
	return b, nil
}

// Split flattens a clone of t and packages it as one or more archives of
// at most roughly Threshold serialized bytes each.
func (e *Exporter) Split(t *kml.Tree) ([]Archive, error) {
	if t == nil || t.Root == nil {
		return nil, apperr.Export(kml.ErrNilRoot, "nothing to export")
	}
	logger := e.logger()

	flat := t.Clone()
	transform.FlattenExtendedData(flat)
	total := transform.CountPlacemarks(flat)

	doc, err := kmlio.MarshalKML(flat)
	if err != nil {
		return nil, apperr.Export(err, "could not serialize document")
	}

	limit := e.threshold()
	numFiles := ceilDiv(len(doc), limit)
	if numFiles <= 1 {
		b, err := e.pack(doc)
		if err != nil {
			return nil, err
		}
		return []Archive{{Index: 0, Data: b, Placemarks: total}}, nil
	}
	perFile := ceilDiv(total, numFiles)
	logger.Debug("splitting export", "bytes", len(doc), "files", numFiles, "placemarks", total, "per_file", perFile)

	archives := make([]Archive, 0, numFiles)
	for k := 0; k < numFiles; k++ {
		part := flat.Clone()
		start := k * perFile
		transform.KeepPlacemarkRange(part, start, start+perFile-1)
		transform.RemoveEmptyFolders(part)

		b, err := kmlio.MarshalKML(part)
		if err != nil {
			return nil, apperr.Export(err, "could not serialize part %d", k+1)
		}
		data, err := e.pack(b)
		if err != nil {
			return nil, err
		}
		n := transform.CountPlacemarks(part)
		archives = append(archives, Archive{Index: k, Data: data, Placemarks: n})
		logger.Debug("packaged part", "part", k+1, "placemarks", n, "bytes", len(data))
	}
	return archives, nil
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
