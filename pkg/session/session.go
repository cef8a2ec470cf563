// Package session holds the document currently being worked on.
//
// A [Session] owns one document tree together with what is needed to write
// it back out: the path it was loaded from and, for KMZ inputs, the
// archive-relative path of the document entry and a scratch directory with
// the archive's other files (icons, overlays). Exports re-embed those files
// unchanged.
//
// # Lifetime
//
// The scratch directory lives exactly as long as the session. Callers must
// call [Session.Release] when they are done:
//
//	sess, err := session.Open("network.kmz")
//	if err != nil {
//	    return err
//	}
//	defer sess.Release()
//
// Nothing is cleaned up at process exit; a session that is never released
// leaves its directory behind in the system temp directory.
//
// # Styles
//
// [Session.Styles] returns the document's styles as shared pointers into
// the tree, so edits through the list change what gets exported. The list
// is rebuilt when the tree is replaced with [Session.SetTree].
package session

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/export"
	kmlio "github.com/matzehuels/kmltool/pkg/io"
	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/styles"
)

// ScratchPrefix starts the name of every scratch directory.
const ScratchPrefix = "kmltool-"

// Session is an open document.
type Session struct {
	ID uuid.UUID
	// Path is the file the tree was loaded or converted from.
	Path   string
	Source export.Source

	tree    *kml.Tree
	styles  []*kml.Style
	scratch string
}

// Open loads a .kml or .kmz file. For a KMZ, the archive must hold exactly
// one .kml entry; its other entries are extracted to a scratch directory.
func Open(filePath string) (*Session, error) {
	if strings.EqualFold(filepath.Ext(filePath), ".kmz") {
		return openKMZ(filePath)
	}
	tree, err := kmlio.ImportKML(filePath)
	if err != nil {
		return nil, apperr.Import(err, "could not import KML file %s", filePath)
	}
	return FromTree(tree, filePath), nil
}

// FromTree wraps a tree that did not come from an archive, such as a
// converted drawing.
func FromTree(tree *kml.Tree, filePath string) *Session {
	return &Session{ID: uuid.New(), Path: filePath, tree: tree}
}

func openKMZ(filePath string) (*Session, error) {
	entries, err := kmlio.ReadKMZFile(filePath)
	if err != nil {
		return nil, apperr.Import(err, "could not import KMZ file %s", filePath)
	}
	doc, assets, err := kmlio.SplitPackage(entries)
	switch {
	case errors.Is(err, kmlio.ErrMultipleDocuments):
		return nil, apperr.Import(err, "%s contains more than one KML file. Please unpack and import each KML file separately.", filepath.Base(filePath))
	case err != nil:
		return nil, apperr.Import(err, "could not import KMZ file %s", filePath)
	}
	if err := apperr.ValidateArchivePath(doc.Name); err != nil {
		return nil, apperr.Import(err, "could not import KMZ file %s", filePath)
	}

	tree, err := kmlio.UnmarshalKML(doc.Data)
	if err != nil {
		return nil, apperr.Import(err, "could not parse %s in %s", doc.Name, filePath)
	}

	s := FromTree(tree, filePath)
	s.Source = export.Source{Packaged: true, DocPath: path.Clean(doc.Name)}
	if len(assets) == 0 {
		return s, nil
	}

	dir := filepath.Join(os.TempDir(), ScratchPrefix+s.ID.String())
	if err := os.Mkdir(dir, 0o700); err != nil {
		return nil, apperr.Import(err, "could not create scratch directory")
	}
	s.scratch = dir
	if err := kmlio.ExtractAssets(assets, dir); err != nil {
		_ = s.Release()
		return nil, apperr.Import(err, "could not extract %s", filePath)
	}
	s.Source.AssetsDir = dir
	return s, nil
}

// Tree returns the current document tree.
func (s *Session) Tree() *kml.Tree { return s.tree }

// SetTree replaces the document tree, for example after an edit that built
// a new tree. The archive source and scratch directory are kept.
func (s *Session) SetTree(t *kml.Tree) {
	s.tree = t
	s.styles = nil
}

// Styles returns the styles of the current tree in document order.
func (s *Session) Styles() []*kml.Style {
	if s.styles == nil {
		s.styles = styles.Extract(s.tree)
	}
	return s.styles
}

// ExportSource describes the session's origin for an exporter.
func (s *Session) ExportSource() export.Source { return s.Source }

// ScratchDir returns the directory holding extracted archive assets, or ""
// when there is none.
func (s *Session) ScratchDir() string { return s.scratch }

// Release removes the scratch directory. It is safe to call more than once.
func (s *Session) Release() error {
	if s == nil || s.scratch == "" {
		return nil
	}
	err := os.RemoveAll(s.scratch)
	s.scratch = ""
	s.Source.AssetsDir = ""
	return err
}
